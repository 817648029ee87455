package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
	"github.com/nekogravitycat/barber-booking-backend/internal/organization"
)

// CreateOverrideRequest holds the fields of a new override.
// Bounds are ignored for day_off.
type CreateOverrideRequest struct {
	StaffID   string
	Date      availability.Date
	Type      availability.OverrideType
	StartTime *string
	EndTime   *string
	Reason    *string
}

type Service interface {
	GetWeekly(ctx context.Context, actor auth.Actor, staffID string) ([]WeeklyWindow, error)
	SetWeekly(ctx context.Context, actor auth.Actor, staffID string, windows []WeeklyWindow) ([]WeeklyWindow, error)
	ListOverrides(ctx context.Context, actor auth.Actor, staffID string, from, to availability.Date) ([]*Override, error)
	CreateOverride(ctx context.Context, actor auth.Actor, req CreateOverrideRequest) (*Override, error)
	DeleteOverride(ctx context.Context, actor auth.Actor, id string) error
}

type service struct {
	repo Repository
	orgs organization.Service
}

func NewService(repo Repository, orgs organization.Service) Service {
	return &service{repo: repo, orgs: orgs}
}

// authorize lets staff edit their own schedule and managers edit anyone in
// their organization.
func (s *service) authorize(ctx context.Context, actor auth.Actor, staffID string) error {
	if !actor.CanActOnStaff(staffID) {
		return ErrPermissionDenied
	}
	if _, err := s.orgs.GetStaff(ctx, actor.OrganizationID, staffID); err != nil {
		return err
	}
	return nil
}

func (s *service) GetWeekly(ctx context.Context, actor auth.Actor, staffID string) ([]WeeklyWindow, error) {
	if err := s.authorize(ctx, actor, staffID); err != nil {
		return nil, err
	}
	return s.repo.GetWeekly(ctx, staffID)
}

func (s *service) SetWeekly(ctx context.Context, actor auth.Actor, staffID string, windows []WeeklyWindow) ([]WeeklyWindow, error) {
	clean := make([]WeeklyWindow, len(windows))
	for i, w := range windows {
		start, end, err := validateWindow(w.StartTime, w.EndTime)
		if err != nil {
			return nil, err
		}
		if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
			return nil, ErrInvalidDayOfWeek
		}
		clean[i] = WeeklyWindow{DayOfWeek: w.DayOfWeek, StartTime: start, EndTime: end}
	}

	if err := s.authorize(ctx, actor, staffID); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceWeekly(ctx, staffID, clean); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("staff_id", staffID).
		Int("windows", len(clean)).
		Msg("weekly schedule replaced")
	return clean, nil
}

func (s *service) ListOverrides(ctx context.Context, actor auth.Actor, staffID string, from, to availability.Date) ([]*Override, error) {
	if from.After(to) {
		return nil, ErrInvalidDateRange
	}
	if err := s.authorize(ctx, actor, staffID); err != nil {
		return nil, err
	}
	return s.repo.ListOverrides(ctx, staffID, from, to)
}

func (s *service) CreateOverride(ctx context.Context, actor auth.Actor, req CreateOverrideRequest) (*Override, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidOverrideType
	}

	o := &Override{
		StaffID: req.StaffID,
		Date:    req.Date,
		Type:    req.Type,
		Reason:  trimmed(req.Reason),
	}

	// day_off blocks the whole day, so any bounds sent along are dropped.
	if req.Type != availability.OverrideDayOff {
		if req.StartTime == nil || req.EndTime == nil {
			return nil, ErrBoundsRequired
		}
		start, end, err := validateWindow(*req.StartTime, *req.EndTime)
		if err != nil {
			return nil, err
		}
		o.StartTime, o.EndTime = &start, &end
	}

	if err := s.authorize(ctx, actor, req.StaffID); err != nil {
		return nil, err
	}

	if err := s.repo.CreateOverride(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *service) DeleteOverride(ctx context.Context, actor auth.Actor, id string) error {
	o, err := s.repo.GetOverride(ctx, id)
	if err != nil {
		return err
	}

	// Overrides of other organizations look missing rather than forbidden.
	if err := s.authorize(ctx, actor, o.StaffID); err != nil {
		if errors.Is(err, organization.ErrStaffNotFound) {
			return ErrOverrideNotFound
		}
		return err
	}

	return s.repo.DeleteOverride(ctx, id)
}

// validateWindow parses both bounds strictly as "HH:MM" and requires start < end.
func validateWindow(start, end string) (string, string, error) {
	from, err := availability.ParseClock(start)
	if err != nil {
		return "", "", err
	}
	to, err := availability.ParseClock(end)
	if err != nil {
		return "", "", err
	}
	if from >= to {
		return "", "", fmt.Errorf("window %s-%s: %w", start, end, ErrInvalidWindow)
	}
	return availability.FormatClock(from), availability.FormatClock(to), nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
