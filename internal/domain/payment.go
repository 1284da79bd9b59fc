package domain

import "time"

type PaymentType string

const (
	PaymentTypeFull    PaymentType = "FULL"
	PaymentTypePartial PaymentType = "PARTIAL"
	PaymentTypeDeposit PaymentType = "DEPOSIT"
	PaymentTypeRefund  PaymentType = "REFUND"
)

type PaymentStatus string

const (
	PaymentStatusPending           PaymentStatus = "PENDING"
	PaymentStatusProcessing        PaymentStatus = "PROCESSING"
	PaymentStatusSucceeded         PaymentStatus = "SUCCEEDED"
	PaymentStatusFailed            PaymentStatus = "FAILED"
	PaymentStatusCancelled         PaymentStatus = "CANCELLED"
	PaymentStatusRefunded          PaymentStatus = "REFUNDED"
	PaymentStatusPartiallyRefunded PaymentStatus = "PARTIALLY_REFUNDED"
)

// forwardTransitions is the forward-ordering over payment statuses used by
// the reconciler. Gateway events may arrive duplicated or out of order;
// anything not strictly forward of the current status is a no-op.
// PROCESSING may be skipped entirely when the gateway collapses events.
var forwardTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:           {PaymentStatusProcessing, PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusProcessing:        {PaymentStatusSucceeded, PaymentStatusFailed, PaymentStatusCancelled},
	PaymentStatusSucceeded:         {PaymentStatusRefunded, PaymentStatusPartiallyRefunded},
	PaymentStatusPartiallyRefunded: {PaymentStatusRefunded, PaymentStatusPartiallyRefunded},
	PaymentStatusFailed:            {},
	PaymentStatusCancelled:         {},
	PaymentStatusRefunded:          {},
}

// IsValid returns true if the status is a recognized payment status.
func (s PaymentStatus) IsValid() bool {
	_, ok := forwardTransitions[s]
	return ok
}

// CanAdvanceTo returns true if target is strictly forward of s.
func (s PaymentStatus) CanAdvanceTo(target PaymentStatus) bool {
	for _, t := range forwardTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Payment records a charge or refund against a booking. Rows are never
// deleted, only superseded in status.
type Payment struct {
	ID               int64         `json:"id"`
	BookingID        int64         `json:"booking_id"`
	AmountCents      int64         `json:"amount_cents"`
	PaymentType      PaymentType   `json:"payment_type"`
	Status           PaymentStatus `json:"status"`
	GatewayPaymentID string        `json:"gateway_payment_id"`
	RefundAmountCents int64        `json:"refund_amount_cents"`
	FailureReason    string        `json:"failure_reason,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}
