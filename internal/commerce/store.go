package commerce

import "context"

// Store is the uniform record-access capability set. Ids arrive as raw path
// strings; each implementation parses them against its own key type (UUID
// for products and orders, serial for customers) and reports
// ErrInvalidArgument on malformed input. Every call runs in one transaction
// that rolls back in full on any failure.
type Store[T any, P any] interface {
	GetByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, f Filter) ([]*T, error)
	Create(ctx context.Context, rec *T) (*T, error)
	Update(ctx context.Context, id string, patch P) (*T, error)
	Delete(ctx context.Context, id string) error
}

type CustomerStore interface {
	Store[Customer, CustomerPatch]
}

type ProductStore interface {
	Store[Product, ProductPatch]
}

// OrderStore covers the order workflow. Orders have no free-form update or
// delete; mutation happens only through the status machine.
type OrderStore interface {
	// GetByID returns the order with its lines.
	GetByID(ctx context.Context, id string) (*Order, error)

	// List returns orders with lines, filtered by the recognized keys
	// status and payment_status.
	List(ctx context.Context, f Filter) ([]*Order, error)

	// CreateOrder resolves the customer, locks and decrements stock per
	// line, computes the total from current product prices, and persists
	// the order plus its lines in one transaction.
	CreateOrder(ctx context.Context, customerID int64, lines []LineInput) (*Order, error)

	// TransitionStatus moves the order along the status machine. Reaching
	// completed marks the order paid as a side effect.
	TransitionStatus(ctx context.Context, id string, next Status) (*Order, error)

	// ApplyPayment records a gateway outcome against a pending order and
	// advances the order status accordingly.
	ApplyPayment(ctx context.Context, id string, ps PaymentStatus) (*Order, error)
}
