package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
)

// memStore is an in-memory stand-in for Postgres. It serves both the booking
// repository and the availability reads, and its Create enforces the same
// per-staff exclusion as the database constraint, atomically under mu.
type memStore struct {
	mu sync.Mutex

	services  map[string]*availability.ServiceInfo
	offering  map[string][]string
	weekly    []availability.WeeklyWindow // every weekday
	overrides []availability.Override
	bookings  []*Booking

	createErr error
}

func newMemStore() *memStore {
	return &memStore{
		services: map[string]*availability.ServiceInfo{
			"haircut": {ID: "haircut", OrganizationID: "org1", Name: "Haircut", DurationMinutes: 60, PriceCents: 2500, IsActive: true},
			"retired": {ID: "retired", OrganizationID: "org1", Name: "Old", DurationMinutes: 30, IsActive: false},
		},
		offering: map[string][]string{"haircut": {"alice", "bob"}},
		weekly: []availability.WeeklyWindow{
			{StaffID: "alice", StartTime: "09:00", EndTime: "17:00"},
			{StaffID: "bob", StartTime: "09:00", EndTime: "17:00"},
		},
	}
}

// availability.Repository

func (m *memStore) GetService(_ context.Context, serviceID string) (*availability.ServiceInfo, error) {
	s, ok := m.services[serviceID]
	if !ok {
		return nil, availability.ErrServiceNotFound
	}
	return s, nil
}

func (m *memStore) ListStaffOfferingService(_ context.Context, _ string, serviceID string) ([]string, error) {
	return m.offering[serviceID], nil
}

func (m *memStore) ListWeeklySchedule(_ context.Context, staffIDs []string, _ int) ([]availability.WeeklyWindow, error) {
	var out []availability.WeeklyWindow
	for _, w := range m.weekly {
		if contains(staffIDs, w.StaffID) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *memStore) ListOverrides(_ context.Context, staffIDs []string, _ availability.Date) ([]availability.Override, error) {
	var out []availability.Override
	for _, o := range m.overrides {
		if contains(staffIDs, o.StaffID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) ListActiveBookings(_ context.Context, staffIDs []string, from, to time.Time) ([]availability.BusyRange, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []availability.BusyRange
	for _, b := range m.bookings {
		if b.Status.Active() && contains(staffIDs, b.StaffID) && b.StartTime.Before(to) && b.EndTime.After(from) {
			out = append(out, availability.BusyRange{StaffID: b.StaffID, Start: b.StartTime, End: b.EndTime})
		}
	}
	return out, nil
}

func (m *memStore) GetTimezone(context.Context, string) (string, error) {
	return "", nil
}

// Repository

func (m *memStore) overlapsLocked(staffID string, start, end time.Time, skipID string) bool {
	for _, b := range m.bookings {
		if b.ID != skipID && b.StaffID == staffID && b.Status.Active() && b.StartTime.Before(end) && b.EndTime.After(start) {
			return true
		}
	}
	return false
}

func (m *memStore) Create(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	if b.Status.Active() && m.overlapsLocked(b.StaffID, b.StartTime, b.EndTime, "") {
		return ErrSlotNoLongerAvailable
	}
	b.ID = uuid.NewString()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	stored := *b
	m.bookings = append(m.bookings, &stored)
	return nil
}

func (m *memStore) GetByID(_ context.Context, orgID, id string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.ID == id && b.OrganizationID == orgID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Booking
	for _, b := range m.bookings {
		if b.OrganizationID != filter.OrganizationID {
			continue
		}
		if filter.StaffID != "" && b.StaffID != filter.StaffID {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, len(out), nil
}

func (m *memStore) UpdateStatus(_ context.Context, orgID, id string, status Status, notes *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, b := range m.bookings {
		if b.ID != id || b.OrganizationID != orgID {
			continue
		}
		if status.Active() && !b.Status.Active() && m.overlapsLocked(b.StaffID, b.StartTime, b.EndTime, b.ID) {
			return ErrSlotNoLongerAvailable
		}
		b.Status = status
		if notes != nil {
			b.Notes = notes
		}
		return nil
	}
	return ErrNotFound
}

func (m *memStore) HasOverlap(_ context.Context, staffID string, start, end time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlapsLocked(staffID, start, end, ""), nil
}

func (m *memStore) Stats(_ context.Context, orgID, staffID string, from, dayEnd time.Time) (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var s Stats
	for _, b := range m.bookings {
		if b.OrganizationID != orgID || b.StartTime.Before(from) || (staffID != "" && b.StaffID != staffID) {
			continue
		}
		switch b.Status {
		case StatusPending:
			s.Pending++
		case StatusConfirmed:
			s.Confirmed++
		}
		if b.Status.Active() && b.StartTime.Before(dayEnd) {
			s.Today++
		}
	}
	return &s, nil
}

func (m *memStore) active() []*Booking {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Booking
	for _, b := range m.bookings {
		if b.Status.Active() {
			out = append(out, b)
		}
	}
	return out
}
