package availability

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/barber-booking-backend/internal/metrics"
)

type Service interface {
	// GetAvailableSlots returns the open start times for a service on a date.
	// An unknown or inactive service yields an empty result, not an error.
	GetAvailableSlots(ctx context.Context, q Query) ([]TimeSlot, error)
	// StaffSlots returns open start times per candidate staff member, in the
	// order candidates are considered when assigning "any available" bookings.
	StaffSlots(ctx context.Context, q Query) ([]StaffSlots, error)
	// Location resolves the timezone an organization's wall-clock times are in.
	Location(ctx context.Context, orgID string) *time.Location
}

type service struct {
	repo       Repository
	defaultLoc *time.Location
}

func NewService(repo Repository, defaultLoc *time.Location) Service {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}
	return &service{repo: repo, defaultLoc: defaultLoc}
}

func (s *service) GetAvailableSlots(ctx context.Context, q Query) ([]TimeSlot, error) {
	start := time.Now()

	perStaff, err := s.StaffSlots(ctx, q)
	if err != nil {
		return nil, err
	}

	var result []TimeSlot
	switch q.Staff.(type) {
	case SpecificStaff:
		for _, ps := range perStaff {
			for _, t := range ps.Times {
				id := ps.StaffID
				result = append(result, TimeSlot{Time: t, StaffID: &id})
			}
		}
		sort.SliceStable(result, func(i, j int) bool { return result[i].Time < result[j].Time })
		metrics.ObserveAvailability("specific", time.Since(start))

	case AnyAvailableStaff:
		seen := make(map[string]struct{})
		for _, ps := range perStaff {
			for _, t := range ps.Times {
				if _, ok := seen[t]; ok {
					continue
				}
				seen[t] = struct{}{}
				result = append(result, TimeSlot{Time: t})
			}
		}
		sort.Slice(result, func(i, j int) bool { return result[i].Time < result[j].Time })
		metrics.ObserveAvailability("any", time.Since(start))
	}

	if result == nil {
		result = []TimeSlot{}
	}
	return result, nil
}

func (s *service) StaffSlots(ctx context.Context, q Query) ([]StaffSlots, error) {
	if q.OrganizationID == "" || q.ServiceID == "" {
		return nil, ErrInvalidInput
	}

	var staffIDs []string
	switch sel := q.Staff.(type) {
	case SpecificStaff:
		if sel.ID == "" {
			return nil, ErrInvalidInput
		}
		staffIDs = []string{sel.ID}
	case AnyAvailableStaff:
	default:
		return nil, fmt.Errorf("unsupported staff selection %T: %w", q.Staff, ErrInvalidInput)
	}

	svc, err := s.repo.GetService(ctx, q.ServiceID)
	if err != nil {
		if errors.Is(err, ErrServiceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !svc.IsActive || svc.OrganizationID != q.OrganizationID || svc.DurationMinutes <= 0 {
		return nil, nil
	}

	offering, err := s.repo.ListStaffOfferingService(ctx, q.OrganizationID, q.ServiceID)
	if err != nil {
		return nil, err
	}
	if staffIDs == nil {
		staffIDs = offering
	} else if !slices.Contains(offering, staffIDs[0]) {
		// Staff of another organization, or not assigned to the service.
		return nil, nil
	}
	if len(staffIDs) == 0 {
		return nil, nil
	}

	loc := s.Location(ctx, q.OrganizationID)
	dayStart, dayEnd := q.Date.Bounds(loc)

	var (
		schedules []WeeklyWindow
		overrides []Override
		bookings  []BusyRange
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		schedules, err = s.repo.ListWeeklySchedule(gctx, staffIDs, q.Date.Weekday())
		return err
	})
	g.Go(func() error {
		var err error
		overrides, err = s.repo.ListOverrides(gctx, staffIDs, q.Date)
		return err
	})
	g.Go(func() error {
		var err error
		bookings, err = s.repo.ListActiveBookings(gctx, staffIDs, dayStart, dayEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	schedulesByStaff := make(map[string][]WeeklyWindow)
	for _, w := range schedules {
		schedulesByStaff[w.StaffID] = append(schedulesByStaff[w.StaffID], w)
	}
	overridesByStaff := make(map[string][]Override)
	for _, o := range overrides {
		overridesByStaff[o.StaffID] = append(overridesByStaff[o.StaffID], o)
	}
	bookingsByStaff := make(map[string][]BusyRange)
	for _, b := range bookings {
		bookingsByStaff[b.StaffID] = append(bookingsByStaff[b.StaffID], b)
	}

	result := make([]StaffSlots, 0, len(staffIDs))
	for _, id := range staffIDs {
		times, err := ComputeStaffSlots(
			schedulesByStaff[id],
			overridesByStaff[id],
			bookingsByStaff[id],
			q.Date, loc,
			svc.DurationMinutes,
		)
		if err != nil {
			return nil, err
		}
		if !q.NotBefore.IsZero() {
			times = dropBefore(times, q.Date, loc, q.NotBefore)
		}
		result = append(result, StaffSlots{StaffID: id, Times: times})
	}
	return result, nil
}

func (s *service) Location(ctx context.Context, orgID string) *time.Location {
	tz, err := s.repo.GetTimezone(ctx, orgID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("organization_id", orgID).Msg("timezone lookup failed, using default")
		return s.defaultLoc
	}
	if tz == "" {
		return s.defaultLoc
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("timezone", tz).Msg("unknown organization timezone, using default")
		return s.defaultLoc
	}
	return loc
}

func dropBefore(times []string, day Date, loc *time.Location, notBefore time.Time) []string {
	kept := times[:0]
	for _, t := range times {
		m, err := ParseClock(t)
		if err != nil {
			continue
		}
		if day.At(m, loc).Before(notBefore) {
			continue
		}
		kept = append(kept, t)
	}
	return kept
}
