package service

import (
	"context"

	"staybook-backend/internal/domain"
	"staybook-backend/internal/logger"
	"staybook-backend/internal/repository"
	"staybook-backend/internal/utils"
)

type policyService struct {
	policyRepo repository.PolicyRepository
}

func NewPolicyService(policyRepo repository.PolicyRepository) PolicyService {
	return &policyService{policyRepo: policyRepo}
}

func (s *policyService) CreatePolicy(ctx context.Context, policy *domain.CancellationPolicy) error {
	if err := policy.Validate(); err != nil {
		return err
	}
	if err := s.policyRepo.Create(ctx, policy); err != nil {
		return err
	}
	logger.Info("cancellation policy created", "policy_id", policy.ID,
		"property_id", policy.PropertyID, "type", policy.PolicyType)
	return nil
}

func (s *policyService) GetPolicy(ctx context.Context, propertyID int64) (*domain.CancellationPolicy, error) {
	return s.policyRepo.GetActiveByProperty(ctx, propertyID)
}

// IsEligible reports whether a cancellation this far out earns any refund.
func (s *policyService) IsEligible(policy *domain.CancellationPolicy, daysUntilCheckin int32) bool {
	return daysUntilCheckin >= policy.DaysBeforeCheckin && policy.RefundPercentage > 0
}

// CalculateRefund applies the policy percentage to the total, rounding
// half-up at cent granularity. Cancellations inside the policy window get
// nothing.
func (s *policyService) CalculateRefund(policy *domain.CancellationPolicy, totalAmountCents int64, daysUntilCheckin int32) int64 {
	if daysUntilCheckin < policy.DaysBeforeCheckin {
		return 0
	}
	return utils.RoundHalfUpPercent(totalAmountCents, policy.RefundPercentage)
}
