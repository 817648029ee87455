package ban

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context, orgID string) ([]*BannedCustomer, error)
	// Upsert bans a phone or refreshes the existing ban of that phone.
	Upsert(ctx context.Context, b *BannedCustomer) error
	Delete(ctx context.Context, orgID, id string) error
	GetByPhone(ctx context.Context, orgID, phone string) (*BannedCustomer, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var columns = []string{"id", "organization_id", "customer_phone", "reason", "banned_until", "banned_at", "updated_at"}

func scan(row pgx.Row) (*BannedCustomer, error) {
	var b BannedCustomer
	err := row.Scan(&b.ID, &b.OrganizationID, &b.CustomerPhone, &b.Reason, &b.BannedUntil, &b.BannedAt, &b.UpdatedAt)
	return &b, err
}

func (r *pgxRepository) List(ctx context.Context, orgID string) ([]*BannedCustomer, error) {
	query, args, err := psql.Select(columns...).
		From("public.banned_customers").
		Where(squirrel.Eq{"organization_id": orgID}).
		OrderBy("banned_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bans query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bans failed: %w", err)
	}
	defer rows.Close()

	var bans []*BannedCustomer
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ban failed: %w", err)
		}
		bans = append(bans, b)
	}
	return bans, rows.Err()
}

func (r *pgxRepository) Upsert(ctx context.Context, b *BannedCustomer) error {
	query, args, err := psql.Insert("public.banned_customers").
		Columns("organization_id", "customer_phone", "reason", "banned_until").
		Values(b.OrganizationID, b.CustomerPhone, b.Reason, b.BannedUntil).
		Suffix(`ON CONFLICT (organization_id, customer_phone) DO UPDATE
			SET reason = EXCLUDED.reason, banned_until = EXCLUDED.banned_until, banned_at = now(), updated_at = now()
			RETURNING id, banned_at, updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert ban query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.BannedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("upsert ban failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, orgID, id string) error {
	query, args, err := psql.Delete("public.banned_customers").
		Where(squirrel.Eq{"id": id, "organization_id": orgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete ban query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete ban failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) GetByPhone(ctx context.Context, orgID, phone string) (*BannedCustomer, error) {
	query, args, err := psql.Select(columns...).
		From("public.banned_customers").
		Where(squirrel.Eq{"organization_id": orgID, "customer_phone": phone}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get ban query failed: %w", err)
	}

	b, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get ban failed: %w", err)
	}
	return b, nil
}
