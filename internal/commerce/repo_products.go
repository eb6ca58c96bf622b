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

const productCols = `id, name, COALESCE(description,''), price, quantity, created_at, updated_at`

type ProductRepo struct{ DB *pgxpool.Pool }

var _ ProductStore = (*ProductRepo)(nil)

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*Product, error) {
	key, err := parseUUIDKey(id)
	if err != nil {
		return nil, err
	}
	var p Product
	err = postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		return scanProduct(tx.QueryRow(ctx,
			`SELECT `+productCols+` FROM product WHERE id=$1`, key), &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context, f Filter) ([]*Product, error) {
	where, args := productWhere(f)
	var out []*Product
	err := postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+productCols+` FROM product`+where, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt); err != nil {
				return err
			}
			out = append(out, &p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProductRepo) Create(ctx context.Context, rec *Product) (*Product, error) {
	if err := validateProduct(rec.Name, rec.Price, rec.Quantity); err != nil {
		return nil, err
	}
	p := *rec
	p.ID = uuid.NewString()
	err := postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO product(id, name, description, price, quantity, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, now(), now())
			RETURNING created_at, updated_at`,
			p.ID, p.Name, p.Description, p.Price, p.Quantity).Scan(&p.CreatedAt, &p.UpdatedAt)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Update(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	key, err := parseUUIDKey(id)
	if err != nil {
		return nil, err
	}
	if err := patch.validate(); err != nil {
		return nil, err
	}
	set, args := patch.assignments()
	var p Product
	err = postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		if set == "" {
			return scanProduct(tx.QueryRow(ctx,
				`SELECT `+productCols+` FROM product WHERE id=$1`, key), &p)
		}
		args = append(args, key)
		q := fmt.Sprintf(`UPDATE product SET %s, updated_at=now() WHERE id=$%d RETURNING `+productCols,
			set, len(args))
		return scanProduct(tx.QueryRow(ctx, q, args...), &p)
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	key, err := parseUUIDKey(id)
	if err != nil {
		return err
	}
	return postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM product WHERE id=$1`, key)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("%w: product %s", ErrNotFound, id)
		}
		return nil
	})
}

func scanProduct(row pgx.Row, p *Product) error {
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: product", ErrNotFound)
	}
	return err
}

// productWhere builds the WHERE clause from the recognized filter keys
// (quantity_gt, quantity_lte); anything else in the filter is ignored.
func productWhere(f Filter) (string, []any) {
	var conds []string
	var args []any
	if n, ok := f.getInt("quantity_gt"); ok {
		args = append(args, n)
		conds = append(conds, fmt.Sprintf("quantity > $%d", len(args)))
	}
	if n, ok := f.getInt("quantity_lte"); ok {
		args = append(args, n)
		conds = append(conds, fmt.Sprintf("quantity <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func validateProduct(name string, price decimal.Decimal, quantity int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	return nil
}

func (p ProductPatch) validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if p.Price != nil && !p.Price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	if p.Quantity != nil && *p.Quantity < 0 {
		return fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	return nil
}

func (p ProductPatch) assignments() (string, []any) {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Price != nil {
		add("price", *p.Price)
	}
	if p.Quantity != nil {
		add("quantity", *p.Quantity)
	}
	return joinSet(set), args
}

func joinSet(set []string) string { return strings.Join(set, ", ") }
