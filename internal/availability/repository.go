package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the narrow read surface the engine needs from the store.
// Every list method takes the full candidate staff set so one call serves all
// staff members.
type Repository interface {
	GetService(ctx context.Context, serviceID string) (*ServiceInfo, error)
	ListStaffOfferingService(ctx context.Context, orgID, serviceID string) ([]string, error)
	ListWeeklySchedule(ctx context.Context, staffIDs []string, dayOfWeek int) ([]WeeklyWindow, error)
	ListOverrides(ctx context.Context, staffIDs []string, date Date) ([]Override, error)
	ListActiveBookings(ctx context.Context, staffIDs []string, from, to time.Time) ([]BusyRange, error)
	GetTimezone(ctx context.Context, orgID string) (string, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) GetService(ctx context.Context, serviceID string) (*ServiceInfo, error) {
	query, args, err := psql.Select("id", "organization_id", "name", "duration_min", "price_cents", "is_active").
		From("public.services").
		Where(squirrel.Eq{"id": serviceID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get service query failed: %w", err)
	}

	var s ServiceInfo
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&s.ID, &s.OrganizationID, &s.Name, &s.DurationMinutes, &s.PriceCents, &s.IsActive,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) ListStaffOfferingService(ctx context.Context, orgID, serviceID string) ([]string, error) {
	query, args, err := psql.Select("st.id").
		From("public.staff_services ss").
		Join("public.staff st ON st.id = ss.staff_id").
		Where(squirrel.Eq{"ss.service_id": serviceID}).
		Where(squirrel.Eq{"st.organization_id": orgID}).
		OrderBy("st.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list staff for service query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list staff for service failed: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan staff id failed: %w", err)
	}
	return ids, nil
}

func (r *pgxRepository) ListWeeklySchedule(ctx context.Context, staffIDs []string, dayOfWeek int) ([]WeeklyWindow, error) {
	query, args, err := psql.Select(
		"staff_id",
		"to_char(start_time, 'HH24:MI')",
		"to_char(end_time, 'HH24:MI')",
	).
		From("public.staff_weekly_schedules").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		OrderBy("staff_id", "start_time").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list weekly schedule query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weekly schedule failed: %w", err)
	}
	defer rows.Close()

	var windows []WeeklyWindow
	for rows.Next() {
		var w WeeklyWindow
		if err := rows.Scan(&w.StaffID, &w.StartTime, &w.EndTime); err != nil {
			return nil, fmt.Errorf("scan weekly schedule failed: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly schedule failed: %w", err)
	}
	return windows, nil
}

func (r *pgxRepository) ListOverrides(ctx context.Context, staffIDs []string, date Date) ([]Override, error) {
	query, args, err := psql.Select(
		"staff_id",
		"type",
		"to_char(start_time, 'HH24:MI')",
		"to_char(end_time, 'HH24:MI')",
	).
		From("public.staff_schedule_overrides").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.Expr("date = ?::date", date.String())).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list overrides query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list overrides failed: %w", err)
	}
	defer rows.Close()

	var overrides []Override
	for rows.Next() {
		var o Override
		if err := rows.Scan(&o.StaffID, &o.Type, &o.StartTime, &o.EndTime); err != nil {
			return nil, fmt.Errorf("scan override failed: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides failed: %w", err)
	}
	return overrides, nil
}

func (r *pgxRepository) ListActiveBookings(ctx context.Context, staffIDs []string, from, to time.Time) ([]BusyRange, error) {
	// Anything intersecting [from, to) blocks, including bookings that started the day before.
	query, args, err := psql.Select("staff_id", "start_time", "end_time").
		From("public.bookings").
		Where(squirrel.Eq{"staff_id": staffIDs}).
		Where(squirrel.Eq{"status": []string{"pending", "confirmed"}}).
		Where(squirrel.Lt{"start_time": to}).
		Where(squirrel.Gt{"end_time": from}).
		OrderBy("start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list active bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list active bookings failed: %w", err)
	}
	defer rows.Close()

	var busy []BusyRange
	for rows.Next() {
		var b BusyRange
		if err := rows.Scan(&b.StaffID, &b.Start, &b.End); err != nil {
			return nil, fmt.Errorf("scan active booking failed: %w", err)
		}
		busy = append(busy, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate active bookings failed: %w", err)
	}
	return busy, nil
}

func (r *pgxRepository) GetTimezone(ctx context.Context, orgID string) (string, error) {
	query, args, err := psql.Select("timezone").
		From("public.organizations").
		Where(squirrel.Eq{"id": orgID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build get timezone query failed: %w", err)
	}

	var tz string
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&tz); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get timezone failed: %w", err)
	}
	return tz, nil
}
