package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/ariefcatur/go-marketplace/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Scope restricts listing mutations to one seller unless Admin is set.
type Scope struct {
	SellerID string
	Admin    bool
}

type Repo struct{ DB postgres.DB }

const listingCols = `id::text, seller_id::text, title, description, price, original_price,
	category, size, brand, condition, image_url, is_active, created_at, updated_at`

func scanListing(row pgx.Row) (Listing, error) {
	var l Listing
	err := row.Scan(&l.ID, &l.SellerID, &l.Title, &l.Description, &l.Price, &l.OriginalPrice,
		&l.Category, &l.Size, &l.Brand, &l.Condition, &l.ImageURL, &l.Active, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (r *Repo) list(ctx context.Context, sql string, args ...any) ([]Listing, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) ListActive(ctx context.Context) ([]Listing, error) {
	return r.list(ctx, `SELECT `+listingCols+` FROM products WHERE is_active ORDER BY created_at DESC`)
}

func (r *Repo) ListAll(ctx context.Context) ([]Listing, error) {
	return r.list(ctx, `SELECT `+listingCols+` FROM products ORDER BY created_at DESC`)
}

func (r *Repo) ListBySeller(ctx context.Context, sellerID string) ([]Listing, error) {
	return r.list(ctx, `SELECT `+listingCols+` FROM products WHERE seller_id=$1 ORDER BY created_at DESC`, sellerID)
}

func (r *Repo) Get(ctx context.Context, id string) (Listing, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Listing{}, ErrNotFound
	}
	l, err := scanListing(r.DB.QueryRow(ctx, `SELECT `+listingCols+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, ErrNotFound
	}
	return l, err
}

func (r *Repo) Create(ctx context.Context, l Listing) (Listing, error) {
	l.ID = uuid.NewString()
	return scanListing(r.DB.QueryRow(ctx, `
		INSERT INTO products(id, seller_id, title, description, price, original_price,
		                     category, size, brand, condition, image_url, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,TRUE)
		RETURNING `+listingCols,
		l.ID, l.SellerID, l.Title, l.Description, l.Price, l.OriginalPrice,
		l.Category, l.Size, l.Brand, l.Condition, l.ImageURL,
	))
}

// Update overwrites the editable fields of l.ID within scope.
func (r *Repo) Update(ctx context.Context, l Listing, sc Scope) (Listing, error) {
	if _, err := uuid.Parse(l.ID); err != nil {
		return Listing{}, ErrNotFound
	}
	out, err := scanListing(r.DB.QueryRow(ctx, `
		UPDATE products
		   SET title=$3, description=$4, price=$5, original_price=$6, category=$7,
		       size=$8, brand=$9, condition=$10, image_url=$11, updated_at=$12
		 WHERE id=$1 AND ($13 OR seller_id::text=$2)
		RETURNING `+listingCols,
		l.ID, sc.SellerID, l.Title, l.Description, l.Price, l.OriginalPrice, l.Category,
		l.Size, l.Brand, l.Condition, l.ImageURL, time.Now().UTC(), sc.Admin,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, ErrNotFound
	}
	return out, err
}

func (r *Repo) SetActive(ctx context.Context, id string, active bool, sc Scope) (Listing, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Listing{}, ErrNotFound
	}
	out, err := scanListing(r.DB.QueryRow(ctx, `
		UPDATE products SET is_active=$3, updated_at=$4
		 WHERE id=$1 AND ($5 OR seller_id::text=$2)
		RETURNING `+listingCols, id, sc.SellerID, active, time.Now().UTC(), sc.Admin))
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, ErrNotFound
	}
	return out, err
}

// Delete removes the listing and returns the deleted row's seller id.
func (r *Repo) Delete(ctx context.Context, id string, sc Scope) (sellerID string, err error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrNotFound
	}
	err = r.DB.QueryRow(ctx, `
		DELETE FROM products WHERE id=$1 AND ($3 OR seller_id::text=$2)
		RETURNING seller_id::text`, id, sc.SellerID, sc.Admin).Scan(&sellerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return sellerID, err
}

func (r *Repo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active`).Scan(&n)
	return n, err
}

func (r *Repo) DisplayNames(ctx context.Context, sellerIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(sellerIDs))
	if len(sellerIDs) == 0 {
		return out, nil
	}
	rows, err := r.DB.Query(ctx, `SELECT id::text, display_name FROM profiles WHERE id::text = ANY($1)`, sellerIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var name *string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		if name != nil {
			out[id] = *name
		}
	}
	return out, rows.Err()
}
