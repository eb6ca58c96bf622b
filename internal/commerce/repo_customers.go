package commerce

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-shop-api.git/internal/postgres"
)

type CustomerRepo struct{ DB *pgxpool.Pool }

var _ CustomerStore = (*CustomerRepo)(nil)

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*Customer, error) {
	key, err := parseSerialKey(id)
	if err != nil {
		return nil, err
	}
	var c Customer
	err = postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		return scanCustomer(tx.QueryRow(ctx, `
			SELECT id, COALESCE(first_name,''), COALESCE(last_name,''), COALESCE(email,'')
			FROM customer WHERE id=$1`, key), &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) List(ctx context.Context, f Filter) ([]*Customer, error) {
	// no recognized filter keys for customers
	var out []*Customer
	err := postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id, COALESCE(first_name,''), COALESCE(last_name,''), COALESCE(email,'')
			FROM customer`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var c Customer
			if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email); err != nil {
				return err
			}
			out = append(out, &c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CustomerRepo) Create(ctx context.Context, rec *Customer) (*Customer, error) {
	c := *rec
	err := postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, `
			INSERT INTO customer(first_name, last_name, email)
			VALUES ($1, $2, $3) RETURNING id`,
			c.FirstName, c.LastName, c.Email).Scan(&c.ID)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Update(ctx context.Context, id string, patch CustomerPatch) (*Customer, error) {
	key, err := parseSerialKey(id)
	if err != nil {
		return nil, err
	}
	set, args := patch.assignments()
	var c Customer
	err = postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		if len(set) == 0 {
			return scanCustomer(tx.QueryRow(ctx, `
				SELECT id, COALESCE(first_name,''), COALESCE(last_name,''), COALESCE(email,'')
				FROM customer WHERE id=$1`, key), &c)
		}
		args = append(args, key)
		q := fmt.Sprintf(`
			UPDATE customer SET %s WHERE id=$%d
			RETURNING id, COALESCE(first_name,''), COALESCE(last_name,''), COALESCE(email,'')`,
			set, len(args))
		return scanCustomer(tx.QueryRow(ctx, q, args...), &c)
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	key, err := parseSerialKey(id)
	if err != nil {
		return err
	}
	return postgres.WithTx(ctx, r.DB, func(ctx context.Context, tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `DELETE FROM customer WHERE id=$1`, key)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return fmt.Errorf("%w: customer %s", ErrNotFound, id)
		}
		return nil
	})
}

func scanCustomer(row pgx.Row, c *Customer) error {
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: customer", ErrNotFound)
	}
	return err
}

// assignments renders the allow-listed SET clause. Fields outside the patch
// struct can never reach the database.
func (p CustomerPatch) assignments() (string, []any) {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s=$%d", col, len(args)))
	}
	if p.FirstName != nil {
		add("first_name", *p.FirstName)
	}
	if p.LastName != nil {
		add("last_name", *p.LastName)
	}
	if p.Email != nil {
		add("email", *p.Email)
	}
	return joinSet(set), args
}
