package domain

import "time"

type PolicyType string

const (
	PolicyFlexible      PolicyType = "FLEXIBLE"
	PolicyModerate      PolicyType = "MODERATE"
	PolicyStrict        PolicyType = "STRICT"
	PolicySuperStrict30 PolicyType = "SUPER_STRICT_30"
	PolicySuperStrict60 PolicyType = "SUPER_STRICT_60"
	PolicyNonRefundable PolicyType = "NON_REFUNDABLE"
)

// CancellationPolicy describes refund terms for a property. RefundPercentage
// applies only when the guest cancels at least DaysBeforeCheckin days out.
type CancellationPolicy struct {
	ID                int64      `json:"id"`
	PropertyID        int64      `json:"property_id"`
	PolicyType        PolicyType `json:"policy_type"`
	RefundPercentage  int32      `json:"refund_percentage"`
	DaysBeforeCheckin int32      `json:"days_before_checkin"`
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Validate rejects policies whose numbers contradict their advertised type.
func (p *CancellationPolicy) Validate() error {
	if p.RefundPercentage < 0 || p.RefundPercentage > 100 {
		return NewValidationError("refund_percentage must be between 0 and 100, got %d", p.RefundPercentage)
	}
	if p.DaysBeforeCheckin < 0 {
		return NewValidationError("days_before_checkin must be >= 0, got %d", p.DaysBeforeCheckin)
	}

	switch p.PolicyType {
	case PolicyFlexible:
		if p.RefundPercentage < 80 {
			return NewPolicyInconsistencyError(p.PolicyType, "refund_percentage must be at least 80")
		}
		if p.DaysBeforeCheckin > 1 {
			return NewPolicyInconsistencyError(p.PolicyType, "days_before_checkin must be at most 1")
		}
	case PolicyModerate:
		if p.RefundPercentage < 50 {
			return NewPolicyInconsistencyError(p.PolicyType, "refund_percentage must be at least 50")
		}
		if p.DaysBeforeCheckin > 5 {
			return NewPolicyInconsistencyError(p.PolicyType, "days_before_checkin must be at most 5")
		}
	case PolicyStrict:
		if p.RefundPercentage > 50 {
			return NewPolicyInconsistencyError(p.PolicyType, "refund_percentage must be at most 50")
		}
		if p.DaysBeforeCheckin < 7 {
			return NewPolicyInconsistencyError(p.PolicyType, "days_before_checkin must be at least 7")
		}
	case PolicySuperStrict30:
		if p.RefundPercentage > 50 {
			return NewPolicyInconsistencyError(p.PolicyType, "refund_percentage must be at most 50")
		}
		if p.DaysBeforeCheckin < 30 {
			return NewPolicyInconsistencyError(p.PolicyType, "days_before_checkin must be at least 30")
		}
	case PolicySuperStrict60:
		if p.RefundPercentage > 50 {
			return NewPolicyInconsistencyError(p.PolicyType, "refund_percentage must be at most 50")
		}
		if p.DaysBeforeCheckin < 60 {
			return NewPolicyInconsistencyError(p.PolicyType, "days_before_checkin must be at least 60")
		}
	case PolicyNonRefundable:
		if p.RefundPercentage != 0 {
			return NewPolicyInconsistencyError(p.PolicyType, "refund_percentage must be 0")
		}
	default:
		return NewValidationError("unknown policy type %q", p.PolicyType)
	}
	return nil
}
