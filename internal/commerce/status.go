package commerce

import "fmt"

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
	PaymentFailed PaymentStatus = "failed"
)

// Both machines are one-way: pending is the only non-terminal state.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusCompleted: true, StatusCanceled: true},
	StatusCompleted: {},
	StatusCanceled:  {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusCompleted, StatusCanceled:
		return Status(s), nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, s)
}

// ParsePaymentUpdate accepts the two payment outcomes a gateway may report.
func ParsePaymentUpdate(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentPaid, PaymentFailed:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("%w: payment status must be 'paid' or 'failed', got %q", ErrInvalidArgument, s)
}

// StatusForPayment is the order-status side effect of a payment outcome:
// paid completes the order, failed cancels it.
func StatusForPayment(ps PaymentStatus) Status {
	if ps == PaymentPaid {
		return StatusCompleted
	}
	return StatusCanceled
}
