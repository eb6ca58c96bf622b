package commerce

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusCompleted, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusCanceled, false},
		{StatusCanceled, StatusPending, false},
		{StatusCanceled, StatusCompleted, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "completed", "canceled"} {
		if _, err := ParseStatus(s); err != nil {
			t.Errorf("ParseStatus(%q): %v", s, err)
		}
	}
	for _, s := range []string{"", "shipped", "cancelled", "PENDING"} {
		if _, err := ParseStatus(s); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParseStatus(%q) = %v, want ErrInvalidArgument", s, err)
		}
	}
}

func TestParsePaymentUpdate(t *testing.T) {
	if ps, err := ParsePaymentUpdate("paid"); err != nil || ps != PaymentPaid {
		t.Errorf("ParsePaymentUpdate(paid) = %v, %v", ps, err)
	}
	if ps, err := ParsePaymentUpdate("failed"); err != nil || ps != PaymentFailed {
		t.Errorf("ParsePaymentUpdate(failed) = %v, %v", ps, err)
	}
	// unpaid may never arrive from a gateway
	for _, s := range []string{"unpaid", "refunded", ""} {
		if _, err := ParsePaymentUpdate(s); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("ParsePaymentUpdate(%q) = %v, want ErrInvalidArgument", s, err)
		}
	}
}

func TestStatusForPayment(t *testing.T) {
	if got := StatusForPayment(PaymentPaid); got != StatusCompleted {
		t.Errorf("paid -> %s, want completed", got)
	}
	if got := StatusForPayment(PaymentFailed); got != StatusCanceled {
		t.Errorf("failed -> %s, want canceled", got)
	}
}
