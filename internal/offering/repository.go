package offering

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context, filter Filter) ([]*Offering, error)
	GetByID(ctx context.Context, orgID, id string) (*Offering, error)
	Create(ctx context.Context, o *Offering) error
	Update(ctx context.Context, o *Offering) error
	Deactivate(ctx context.Context, orgID, id string) error
	// CountInOrganization counts how many of ids are active services of orgID.
	CountInOrganization(ctx context.Context, orgID string, ids []string) (int, error)
	ReplaceStaffServices(ctx context.Context, staffID string, serviceIDs []string) error
	ListServiceIDsForStaff(ctx context.Context, staffID string) ([]string, error)
	ListStaffIDs(ctx context.Context, orgID, serviceID string) ([]string, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var columns = []string{"id", "organization_id", "name", "description", "duration_min", "price_cents", "is_active", "created_at", "updated_at"}

func scan(row pgx.Row) (*Offering, error) {
	var o Offering
	err := row.Scan(&o.ID, &o.OrganizationID, &o.Name, &o.Description, &o.DurationMinutes, &o.PriceCents, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	return &o, err
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Offering, error) {
	builder := psql.Select(columns...).
		From("public.services").
		Where(squirrel.Eq{"organization_id": filter.OrganizationID})
	if !filter.IncludeInactive {
		builder = builder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := builder.OrderBy("name ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list services query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list services failed: %w", err)
	}
	defer rows.Close()

	var out []*Offering
	for rows.Next() {
		o, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service failed: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *pgxRepository) GetByID(ctx context.Context, orgID, id string) (*Offering, error) {
	query, args, err := psql.Select(columns...).
		From("public.services").
		Where(squirrel.Eq{"id": id, "organization_id": orgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service query failed: %w", err)
	}

	o, err := scan(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return o, nil
}

func (r *pgxRepository) Create(ctx context.Context, o *Offering) error {
	query, args, err := psql.Insert("public.services").
		Columns("organization_id", "name", "description", "duration_min", "price_cents", "is_active").
		Values(o.OrganizationID, o.Name, o.Description, o.DurationMinutes, o.PriceCents, true).
		Suffix("RETURNING id, is_active, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create service query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.ID, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return fmt.Errorf("create service failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Update(ctx context.Context, o *Offering) error {
	query, args, err := psql.Update("public.services").
		Set("name", o.Name).
		Set("description", o.Description).
		Set("duration_min", o.DurationMinutes).
		Set("price_cents", o.PriceCents).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": o.ID, "organization_id": o.OrganizationID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update service query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update service failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Deactivate(ctx context.Context, orgID, id string) error {
	query, args, err := psql.Update("public.services").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "organization_id": orgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build deactivate service query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("deactivate service failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CountInOrganization(ctx context.Context, orgID string, ids []string) (int, error) {
	query, args, err := psql.Select("count(*)").
		From("public.services").
		Where(squirrel.Eq{"organization_id": orgID, "id": ids, "is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count services query failed: %w", err)
	}

	var n int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count services failed: %w", err)
	}
	return n, nil
}

func (r *pgxRepository) ReplaceStaffServices(ctx context.Context, staffID string, serviceIDs []string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql.Delete("public.staff_services").
			Where(squirrel.Eq{"staff_id": staffID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete staff services query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("delete staff services failed: %w", err)
		}

		if len(serviceIDs) == 0 {
			return nil
		}

		insert := psql.Insert("public.staff_services").Columns("staff_id", "service_id")
		for _, id := range serviceIDs {
			insert = insert.Values(staffID, id)
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert staff services query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert staff services failed: %w", err)
		}
		return nil
	})
}

func (r *pgxRepository) ListServiceIDsForStaff(ctx context.Context, staffID string) ([]string, error) {
	query, args, err := psql.Select("service_id").
		From("public.staff_services").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("service_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list staff services query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staff services failed: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan service id failed: %w", err)
	}
	return ids, nil
}

func (r *pgxRepository) ListStaffIDs(ctx context.Context, orgID, serviceID string) ([]string, error) {
	query, args, err := psql.Select("st.id").
		From("public.staff_services ss").
		Join("public.staff st ON st.id = ss.staff_id").
		Where(squirrel.Eq{"ss.service_id": serviceID, "st.organization_id": orgID}).
		OrderBy("st.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list staff ids query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staff ids failed: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan staff id failed: %w", err)
	}
	return ids, nil
}
