package commerce

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ariefcatur/go-shop-api.git/internal/postgres"
)

const orderCols = `id, customer_id, total_price, status, payment_status, created_at, updated_at`

type OrderRepo struct{ DB *pgxpool.Pool }

var _ OrderStore = (*OrderRepo)(nil)

// CreateOrder runs the whole workflow in one transaction. Product rows are
// locked FOR UPDATE before the stock check so two concurrent orders on the
// same product cannot both pass it, and stock is decremented in the same
// scope. On any failure nothing is committed: no order, no lines, no
// decrement.
func (r *OrderRepo) CreateOrder(ctx context.Context, customerID int64, lines []LineInput) (*Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one line", ErrValidation)
	}
	keyed := make([]struct {
		key uuid.UUID
		qty int
	}, len(lines))
	for i, ln := range lines {
		key, err := parseUUIDKey(ln.ProductID)
		if err != nil {
			return nil, err
		}
		if ln.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive for product %s", ErrValidation, ln.ProductID)
		}
		keyed[i].key = key
		keyed[i].qty = ln.Quantity
	}

	var o Order
	err := postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM customer WHERE id=$1)`, customerID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: customer %d", ErrNotFound, customerID)
		}

		total := decimal.Zero
		for _, ln := range keyed {
			var price decimal.Decimal
			var stock int
			err := tx.QueryRow(ctx,
				`SELECT price, quantity FROM product WHERE id=$1 FOR UPDATE`, ln.key).Scan(&price, &stock)
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: product %s", ErrNotFound, ln.key)
			}
			if err != nil {
				return err
			}
			if stock < ln.qty {
				return fmt.Errorf("%w: product %s has %d, need %d", ErrInsufficientStock, ln.key, stock, ln.qty)
			}
			if _, err := tx.Exec(ctx,
				`UPDATE product SET quantity = quantity - $2, updated_at = now() WHERE id=$1`, ln.key, ln.qty); err != nil {
				return err
			}
			total = total.Add(lineTotal(price, ln.qty))
		}

		o = Order{
			ID:            uuid.NewString(),
			CustomerID:    customerID,
			TotalPrice:    total,
			Status:        StatusPending,
			PaymentStatus: PaymentUnpaid,
		}
		if err := tx.QueryRow(ctx, `
			INSERT INTO orders(id, customer_id, total_price, status, payment_status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			RETURNING created_at, updated_at`,
			o.ID, o.CustomerID, o.TotalPrice, o.Status, o.PaymentStatus).Scan(&o.CreatedAt, &o.UpdatedAt); err != nil {
			return err
		}

		for i, ln := range keyed {
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_product(order_id, product_id, quantity)
				VALUES ($1, $2, $3)`, o.ID, ln.key, ln.qty); err != nil {
				return err
			}
			o.Lines = append(o.Lines, OrderLine{ProductID: ln.key.String(), Quantity: lines[i].Quantity})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*Order, error) {
	key, err := parseUUIDKey(id)
	if err != nil {
		return nil, err
	}
	var o Order
	err = postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		if err := scanOrder(tx.QueryRow(ctx,
			`SELECT `+orderCols+` FROM orders WHERE id=$1`, key), &o); err != nil {
			return err
		}
		lines, err := orderLines(ctx, tx, key)
		if err != nil {
			return err
		}
		o.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) List(ctx context.Context, f Filter) ([]*Order, error) {
	where, args := orderWhere(f)
	var out []*Order
	err := postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+orderCols+` FROM orders`+where, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var o Order
			if err := rows.Scan(&o.ID, &o.CustomerID, &o.TotalPrice, &o.Status, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt); err != nil {
				return err
			}
			out = append(out, &o)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		for _, o := range out {
			key, _ := uuid.Parse(o.ID)
			lines, err := orderLines(ctx, tx, key)
			if err != nil {
				return err
			}
			o.Lines = lines
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// TransitionStatus locks the order row, validates the move against the
// status machine, and applies it. Completing an order marks it paid.
func (r *OrderRepo) TransitionStatus(ctx context.Context, id string, next Status) (*Order, error) {
	key, err := parseUUIDKey(id)
	if err != nil {
		return nil, err
	}
	var o Order
	err = postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		var cur Status
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, key).Scan(&cur)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		if !CanTransition(cur, next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur, next)
		}
		q := `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1 RETURNING ` + orderCols
		if next == StatusCompleted {
			q = `UPDATE orders SET status=$2, payment_status='paid', updated_at=now() WHERE id=$1 RETURNING ` + orderCols
		}
		if err := scanOrder(tx.QueryRow(ctx, q, key, next), &o); err != nil {
			return err
		}
		lines, err := orderLines(ctx, tx, key)
		if err != nil {
			return err
		}
		o.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// ApplyPayment records a gateway outcome. Only pending orders accept one;
// paid completes the order, failed cancels it, all in the same scope.
func (r *OrderRepo) ApplyPayment(ctx context.Context, id string, ps PaymentStatus) (*Order, error) {
	key, err := parseUUIDKey(id)
	if err != nil {
		return nil, err
	}
	var o Order
	err = postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		var cur Status
		err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, key).Scan(&cur)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		if err != nil {
			return err
		}
		if cur != StatusPending {
			return fmt.Errorf("%w: order %s is %s, must be pending", ErrInvalidState, id, cur)
		}
		if err := scanOrder(tx.QueryRow(ctx, `
			UPDATE orders SET payment_status=$2, status=$3, updated_at=now()
			WHERE id=$1 RETURNING `+orderCols, key, ps, StatusForPayment(ps)), &o); err != nil {
			return err
		}
		lines, err := orderLines(ctx, tx, key)
		if err != nil {
			return err
		}
		o.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func scanOrder(row pgx.Row, o *Order) error {
	err := row.Scan(&o.ID, &o.CustomerID, &o.TotalPrice, &o.Status, &o.PaymentStatus, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: order", ErrNotFound)
	}
	return err
}

func orderLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]OrderLine, error) {
	rows, err := tx.Query(ctx,
		`SELECT product_id, quantity FROM order_product WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []OrderLine
	for rows.Next() {
		var ln OrderLine
		if err := rows.Scan(&ln.ProductID, &ln.Quantity); err != nil {
			return nil, err
		}
		out = append(out, ln)
	}
	return out, rows.Err()
}

// orderWhere builds the WHERE clause from the recognized filter keys
// (status, payment_status); anything else is ignored.
func orderWhere(f Filter) (string, []any) {
	var conds []string
	var args []any
	if v, ok := f.get("status"); ok {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if v, ok := f.get("payment_status"); ok {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("payment_status = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// lineTotal is quantity times the unit price at order-creation time.
func lineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
