package identity

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-marketplace/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ DB postgres.DB }

// Account is the credential row behind an Identity.
type Account struct {
	Identity
	PasswordHash string
}

// CreateAccount inserts the user, profile and role rows in one transaction.
func (r *Repo) CreateAccount(ctx context.Context, email, passwordHash, displayName string, role Role) (Identity, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Identity{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	id := uuid.NewString()
	if _, err := tx.Exec(ctx, `INSERT INTO users(id, email, password_hash) VALUES ($1,$2,$3)`,
		id, email, passwordHash); err != nil {
		if postgres.IsUniqueViolation(err) {
			return Identity{}, ErrEmailTaken
		}
		return Identity{}, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO profiles(id, display_name) VALUES ($1,$2)`, id, displayName); err != nil {
		return Identity{}, err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO user_roles(user_id, role) VALUES ($1,$2)`, id, string(role)); err != nil {
		return Identity{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Identity{}, err
	}
	return Identity{ID: id, Email: email, DisplayName: displayName}, nil
}

const identitySelect = `SELECT u.id::text, u.email, COALESCE(p.display_name, ''), u.password_hash
	FROM users u LEFT JOIN profiles p ON p.id = u.id`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Email, &a.DisplayName, &a.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return a, err
}

func (r *Repo) FindByEmail(ctx context.Context, email string) (Account, error) {
	return scanAccount(r.DB.QueryRow(ctx, identitySelect+` WHERE u.email=$1`, email))
}

func (r *Repo) Get(ctx context.Context, id string) (Identity, error) {
	a, err := scanAccount(r.DB.QueryRow(ctx, identitySelect+` WHERE u.id::text=$1`, id))
	return a.Identity, err
}

func (r *Repo) UpdateDisplayName(ctx context.Context, id, name string) error {
	tag, err := r.DB.Exec(ctx, `UPDATE profiles SET display_name=$2 WHERE id::text=$1`, id, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Roles(ctx context.Context, userID string) (RoleSet, error) {
	rows, err := r.DB.Query(ctx, `SELECT role FROM user_roles WHERE user_id::text=$1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out RoleSet
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		if r := Role(s); r.Valid() {
			out = append(out, r)
		}
	}
	return out, rows.Err()
}

func (r *Repo) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n)
	return n, err
}

func (r *Repo) CountRole(ctx context.Context, role Role) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM user_roles WHERE role=$1`, string(role)).Scan(&n)
	return n, err
}
