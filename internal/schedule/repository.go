package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
)

type Repository interface {
	GetWeekly(ctx context.Context, staffID string) ([]WeeklyWindow, error)
	// ReplaceWeekly swaps the whole weekly schedule of a staff member atomically.
	ReplaceWeekly(ctx context.Context, staffID string, windows []WeeklyWindow) error
	ListOverrides(ctx context.Context, staffID string, from, to availability.Date) ([]*Override, error)
	GetOverride(ctx context.Context, id string) (*Override, error)
	CreateOverride(ctx context.Context, o *Override) error
	DeleteOverride(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var overrideColumns = []string{
	"id",
	"staff_id",
	"date",
	"type",
	"to_char(start_time, 'HH24:MI')",
	"to_char(end_time, 'HH24:MI')",
	"reason",
	"created_at",
}

func scanOverride(row pgx.Row) (*Override, error) {
	var (
		o    Override
		date time.Time
	)
	if err := row.Scan(&o.ID, &o.StaffID, &date, &o.Type, &o.StartTime, &o.EndTime, &o.Reason, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Date = availability.DateOf(date)
	return &o, nil
}

func (r *pgxRepository) GetWeekly(ctx context.Context, staffID string) ([]WeeklyWindow, error) {
	query, args, err := psql.Select(
		"day_of_week",
		"to_char(start_time, 'HH24:MI')",
		"to_char(end_time, 'HH24:MI')",
	).
		From("public.staff_weekly_schedules").
		Where(squirrel.Eq{"staff_id": staffID}).
		OrderBy("day_of_week ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get weekly schedule query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get weekly schedule failed: %w", err)
	}
	defer rows.Close()

	var windows []WeeklyWindow
	for rows.Next() {
		var w WeeklyWindow
		if err := rows.Scan(&w.DayOfWeek, &w.StartTime, &w.EndTime); err != nil {
			return nil, fmt.Errorf("scan weekly window failed: %w", err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly schedule failed: %w", err)
	}
	return windows, nil
}

func (r *pgxRepository) ReplaceWeekly(ctx context.Context, staffID string, windows []WeeklyWindow) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql.Delete("public.staff_weekly_schedules").
			Where(squirrel.Eq{"staff_id": staffID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete weekly schedule query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("delete weekly schedule failed: %w", err)
		}

		if len(windows) == 0 {
			return nil
		}

		insert := psql.Insert("public.staff_weekly_schedules").
			Columns("staff_id", "day_of_week", "start_time", "end_time")
		for _, w := range windows {
			insert = insert.Values(staffID, w.DayOfWeek, w.StartTime, w.EndTime)
		}
		query, args, err = insert.ToSql()
		if err != nil {
			return fmt.Errorf("build insert weekly schedule query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert weekly schedule failed: %w", err)
		}
		return nil
	})
}

func (r *pgxRepository) ListOverrides(ctx context.Context, staffID string, from, to availability.Date) ([]*Override, error) {
	query, args, err := psql.Select(overrideColumns...).
		From("public.staff_schedule_overrides").
		Where(squirrel.Eq{"staff_id": staffID}).
		Where(squirrel.Expr("date >= ?::date", from.String())).
		Where(squirrel.Expr("date <= ?::date", to.String())).
		OrderBy("date ASC", "start_time ASC NULLS FIRST").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list overrides query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list overrides failed: %w", err)
	}
	defer rows.Close()

	var overrides []*Override
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan override failed: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overrides failed: %w", err)
	}
	return overrides, nil
}

func (r *pgxRepository) GetOverride(ctx context.Context, id string) (*Override, error) {
	query, args, err := psql.Select(overrideColumns...).
		From("public.staff_schedule_overrides").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get override query failed: %w", err)
	}

	o, err := scanOverride(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("get override failed: %w", err)
	}
	return o, nil
}

func (r *pgxRepository) CreateOverride(ctx context.Context, o *Override) error {
	query, args, err := psql.Insert("public.staff_schedule_overrides").
		Columns("staff_id", "date", "type", "start_time", "end_time", "reason").
		Values(
			o.StaffID,
			squirrel.Expr("?::date", o.Date.String()),
			o.Type,
			o.StartTime,
			o.EndTime,
			o.Reason,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create override query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		return fmt.Errorf("create override failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteOverride(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.staff_schedule_overrides").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete override query failed: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete override failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOverrideNotFound
	}
	return nil
}
