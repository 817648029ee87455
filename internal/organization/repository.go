package organization

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing organization data.
type Repository interface {
	// Organization methods
	GetByID(ctx context.Context, id string) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	Update(ctx context.Context, org *Organization) error
	// Staff methods
	GetStaff(ctx context.Context, orgID, staffID string) (*Staff, error)
	ListStaff(ctx context.Context, filter StaffFilter) ([]*Staff, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new organization repository.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// ------------------------
//   Organization methods
// ------------------------

func (r *pgxRepository) getBy(ctx context.Context, column, value string) (*Organization, error) {
	query, args, err := psql.Select("id", "name", "slug", "logo", "timezone", "created_at", "updated_at").
		From("public.organizations").
		Where(squirrel.Eq{column: value}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get organization query failed: %w", err)
	}

	var org Organization
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&org.ID, &org.Name, &org.Slug, &org.Logo, &org.Timezone, &org.CreatedAt, &org.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("get organization by %s failed: %w", column, err)
	}
	return &org, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Organization, error) {
	return r.getBy(ctx, "id", id)
}

func (r *pgxRepository) GetBySlug(ctx context.Context, slug string) (*Organization, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *pgxRepository) Update(ctx context.Context, org *Organization) error {
	query, args, err := psql.Update("public.organizations").
		Set("name", org.Name).
		Set("slug", org.Slug).
		Set("logo", org.Logo).
		Set("timezone", org.Timezone).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": org.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update organization query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&org.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrOrgNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("update organization failed: %w", err)
	}
	return nil
}

// ------------------------
//      Staff methods
// ------------------------

func (r *pgxRepository) GetStaff(ctx context.Context, orgID, staffID string) (*Staff, error) {
	query, args, err := psql.Select("id", "organization_id", "user_id", "display_name", "image", "role").
		From("public.staff").
		Where(squirrel.Eq{"id": staffID, "organization_id": orgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get staff query failed: %w", err)
	}

	var s Staff
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.OrganizationID, &s.UserID, &s.DisplayName, &s.Image, &s.Role,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrStaffNotFound
		}
		return nil, fmt.Errorf("get staff failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) ListStaff(ctx context.Context, filter StaffFilter) ([]*Staff, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query, args, err := psql.Select(
		"id", "organization_id", "user_id", "display_name", "image", "role",
		"count(*) OVER() AS total_count",
	).
		From("public.staff").
		Where(squirrel.Eq{"organization_id": filter.OrganizationID}).
		OrderBy("display_name ASC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list staff query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff failed: %w", err)
	}
	defer rows.Close()

	var staff []*Staff
	var total int
	for rows.Next() {
		var s Staff
		if err := rows.Scan(&s.ID, &s.OrganizationID, &s.UserID, &s.DisplayName, &s.Image, &s.Role, &total); err != nil {
			return nil, 0, fmt.Errorf("scan staff failed: %w", err)
		}
		staff = append(staff, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate staff failed: %w", err)
	}
	return staff, total, nil
}
