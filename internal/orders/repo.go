package orders

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-marketplace/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type Repo struct{ DB postgres.DB }

// Record stores o once. Replays of the same order id report existed=true.
func (r *Repo) Record(ctx context.Context, o Order) (existed bool, err error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		INSERT INTO orders(id, email, subtotal, shipping, total, trace_id, placed_at)
		VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		o.ID, o.Email, o.Subtotal.StringFixed(2), o.Shipping.StringFixed(2), o.Total.StringFixed(2),
		o.TraceID, o.PlacedAt,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return true, nil
	}

	// insert items
	for i, l := range o.Items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, line_no, product_id, name, qty, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric)`,
			o.ID, i, l.ProductID, l.Name, l.Qty, l.UnitPrice.StringFixed(2), l.LineTotal.StringFixed(2),
		); err != nil {
			return false, err
		}
	}
	return false, tx.Commit(ctx)
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Order{}, ErrNotFound
	}
	var o Order
	var sub, ship, total string
	var trace *string
	err := r.DB.QueryRow(ctx, `
		SELECT id::text, email, subtotal::text, shipping::text, total::text, trace_id, placed_at
		  FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.Email, &sub, &ship, &total, &trace, &o.PlacedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	if trace != nil {
		o.TraceID = *trace
	}
	o.Subtotal, o.Shipping, o.Total = decimal.RequireFromString(sub), decimal.RequireFromString(ship), decimal.RequireFromString(total)

	rows, err := r.DB.Query(ctx, `
		SELECT product_id, name, qty, unit_price::text, line_total::text
		  FROM order_items WHERE order_id=$1 ORDER BY line_no`, id)
	if err != nil {
		return Order{}, err
	}
	defer rows.Close()

	o.Items = []Line{}
	for rows.Next() {
		var l Line
		var unit, line string
		if err := rows.Scan(&l.ProductID, &l.Name, &l.Qty, &unit, &line); err != nil {
			return Order{}, err
		}
		l.UnitPrice, l.LineTotal = decimal.RequireFromString(unit), decimal.RequireFromString(line)
		o.Items = append(o.Items, l)
	}
	return o, rows.Err()
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n)
	return n, err
}
