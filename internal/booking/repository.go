package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// Create inserts the booking. It returns ErrSlotNoLongerAvailable when the
	// store rejects the row for overlapping another active booking of the staff member.
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, orgID, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, orgID, id string, status Status, notes *string) error

	// HasOverlap checks if the staff member has any active booking intersecting [start, end).
	HasOverlap(ctx context.Context, staffID string, start, end time.Time) (bool, error)
	Stats(ctx context.Context, orgID, staffID string, from, dayEnd time.Time) (*Stats, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var selectColumns = []string{
	"b.id", "b.organization_id", "b.service_id", "COALESCE(s.name, '')", "b.staff_id",
	"b.customer_name", "b.customer_phone", "b.notes", "b.price_at_booking",
	"b.start_time", "b.end_time", "b.status", "b.source", "b.created_at", "b.updated_at",
}

func activeStatuses() []string {
	out := make([]string, len(ActiveStatuses))
	for i, s := range ActiveStatuses {
		out[i] = string(s)
	}
	return out
}

// isOverlapViolation reports whether err is the exclusion constraint rejecting
// an overlapping active booking.
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.ExclusionViolation &&
		pgErr.ConstraintName == ExclusionConstraint
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	query, args, err := psql.Insert("public.bookings").
		Columns(
			"organization_id", "service_id", "staff_id", "customer_name", "customer_phone",
			"notes", "price_at_booking", "start_time", "end_time", "status", "source",
		).
		Values(
			b.OrganizationID, b.ServiceID, b.StaffID, b.CustomerName, b.CustomerPhone,
			b.Notes, b.PriceAtBooking, b.StartTime, b.EndTime, b.Status, b.Source,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if isOverlapViolation(err) {
			return ErrSlotNoLongerAvailable
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, orgID, id string) (*Booking, error) {
	query, args, err := psql.Select(selectColumns...).
		From("public.bookings b").
		LeftJoin("public.services s ON s.id = b.service_id").
		Where(squirrel.Eq{"b.id": id, "b.organization_id": orgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.OrganizationID, &b.ServiceID, &b.ServiceName, &b.StaffID,
		&b.CustomerName, &b.CustomerPhone, &b.Notes, &b.PriceAtBooking,
		&b.StartTime, &b.EndTime, &b.Status, &b.Source, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := psql.Select(append(selectColumns, "count(*) OVER() AS total_count")...).
		From("public.bookings b").
		LeftJoin("public.services s ON s.id = b.service_id").
		Where(squirrel.Eq{"b.organization_id": filter.OrganizationID})

	if filter.StaffID != "" {
		query = query.Where(squirrel.Eq{"b.staff_id": filter.StaffID})
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query = query.Where(squirrel.Eq{"b.status": statuses})
	}
	if filter.StartTimeFrom != nil {
		query = query.Where(squirrel.GtOrEq{"b.start_time": *filter.StartTimeFrom})
	}
	if filter.StartTimeTo != nil {
		query = query.Where(squirrel.Lt{"b.start_time": *filter.StartTimeTo})
	}

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("b.start_time ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.OrganizationID, &b.ServiceID, &b.ServiceName, &b.StaffID,
			&b.CustomerName, &b.CustomerPhone, &b.Notes, &b.PriceAtBooking,
			&b.StartTime, &b.EndTime, &b.Status, &b.Source, &b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, total, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, orgID, id string, status Status, notes *string) error {
	builder := psql.Update("public.bookings").
		Set("status", status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id, "organization_id": orgID})
	if notes != nil {
		builder = builder.Set("notes", *notes)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		// Reactivating a cancelled booking can collide with a newer one.
		if isOverlapViolation(err) {
			return ErrSlotNoLongerAvailable
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) HasOverlap(ctx context.Context, staffID string, start, end time.Time) (bool, error) {
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Eq{"status": activeStatuses()}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build check overlap query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) Stats(ctx context.Context, orgID, staffID string, from, dayEnd time.Time) (*Stats, error) {
	builder := psql.Select(
		"count(*) FILTER (WHERE status = 'pending')",
		"count(*) FILTER (WHERE status = 'confirmed')",
	).
		Column(squirrel.Expr("count(*) FILTER (WHERE status IN ('pending', 'confirmed') AND start_time < ?)", dayEnd)).
		From("public.bookings").
		Where(squirrel.Eq{"organization_id": orgID}).
		Where(squirrel.GtOrEq{"start_time": from})
	if staffID != "" {
		builder = builder.Where(squirrel.Eq{"staff_id": staffID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build booking stats query failed: %w", err)
	}

	var s Stats
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&s.Pending, &s.Confirmed, &s.Today); err != nil {
		return nil, fmt.Errorf("booking stats failed: %w", err)
	}
	return &s, nil
}
