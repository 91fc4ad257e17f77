package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BikashBaishnab/horibol-website-sub000/pkg/platform/sentinel"
)

// PostgresDirectory adapts the storefront's user tables to the Directory
// interface. The users table carries ON DELETE CASCADE foreign keys from
// carts, wishlists, addresses and sessions; orders are retained and
// anonymized instead.
type PostgresDirectory struct {
	pool *pgxpool.Pool
}

func NewPostgresDirectory(pool *pgxpool.Pool) *PostgresDirectory {
	return &PostgresDirectory{pool: pool}
}

// Connect builds a pgx pool for the directory. Returns nil if the DSN is
// empty (directory not configured; callers fall back to the memory
// directory).
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, nil
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect identity directory: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("identity directory ping failed: %w", err)
	}
	return pool, nil
}

func (d *PostgresDirectory) Exists(ctx context.Context, identifier string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR phone = $1)`,
		identifier,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check identity exists: %w", err)
	}
	return exists, nil
}

func (d *PostgresDirectory) Resolve(ctx context.Context, identifier string) (*Principal, error) {
	var p Principal
	err := d.pool.QueryRow(ctx,
		`SELECT id, COALESCE(email, ''), COALESCE(phone, '') FROM users WHERE email = $1 OR phone = $1`,
		identifier,
	).Scan(&p.ID, &p.Email, &p.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("resolve principal: %w", err)
	}
	return &p, nil
}

// Anonymize scrubs contact details from compliance-retained order rows
// before the principal goes away.
func (d *PostgresDirectory) Anonymize(ctx context.Context, principalID string) error {
	_, err := d.pool.Exec(ctx, `
		UPDATE orders
		SET customer_name = 'Deleted User',
		    customer_email = '',
		    customer_phone = '',
		    shipping_address = ''
		WHERE user_id = $1
	`, principalID)
	if err != nil {
		return fmt.Errorf("anonymize retained records: %w", err)
	}
	return nil
}

// DeletePrincipal removes the authentication record. Dependents cascade via
// foreign keys; deleting an absent principal affects zero rows and is fine.
func (d *PostgresDirectory) DeletePrincipal(ctx context.Context, principalID string) error {
	_, err := d.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, principalID)
	if err != nil {
		return fmt.Errorf("delete principal: %w", err)
	}
	return nil
}
