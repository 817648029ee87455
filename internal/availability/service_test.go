package availability

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu sync.Mutex

	services  map[string]*ServiceInfo
	offering  map[string][]string // serviceID -> staff ids
	weekly    map[int][]WeeklyWindow
	overrides map[string][]Override // date -> overrides
	bookings  []BusyRange
	timezone  string

	scheduleErr error
	calls       map[string]int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: map[string]*ServiceInfo{
			"haircut": {ID: "haircut", OrganizationID: "org1", Name: "Haircut", DurationMinutes: 60, PriceCents: 2500, IsActive: true},
			"retired": {ID: "retired", OrganizationID: "org1", Name: "Old", DurationMinutes: 30, IsActive: false},
			"foreign": {ID: "foreign", OrganizationID: "org2", Name: "Other", DurationMinutes: 30, IsActive: true},
		},
		offering:  map[string][]string{"haircut": {"alice", "bob"}},
		weekly:    map[int][]WeeklyWindow{},
		overrides: map[string][]Override{},
		calls:     map[string]int{},
	}
}

func (f *fakeRepo) hit(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeRepo) GetService(_ context.Context, serviceID string) (*ServiceInfo, error) {
	f.hit("GetService")
	s, ok := f.services[serviceID]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return s, nil
}

func (f *fakeRepo) ListStaffOfferingService(_ context.Context, _ string, serviceID string) ([]string, error) {
	f.hit("ListStaffOfferingService")
	return f.offering[serviceID], nil
}

func (f *fakeRepo) ListWeeklySchedule(_ context.Context, staffIDs []string, dayOfWeek int) ([]WeeklyWindow, error) {
	f.hit("ListWeeklySchedule")
	if f.scheduleErr != nil {
		return nil, f.scheduleErr
	}
	var out []WeeklyWindow
	for _, w := range f.weekly[dayOfWeek] {
		if contains(staffIDs, w.StaffID) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListOverrides(_ context.Context, staffIDs []string, date Date) ([]Override, error) {
	f.hit("ListOverrides")
	var out []Override
	for _, o := range f.overrides[date.String()] {
		if contains(staffIDs, o.StaffID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListActiveBookings(_ context.Context, staffIDs []string, from, to time.Time) ([]BusyRange, error) {
	f.hit("ListActiveBookings")
	var out []BusyRange
	for _, b := range f.bookings {
		if contains(staffIDs, b.StaffID) && b.Start.Before(to) && b.End.After(from) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetTimezone(context.Context, string) (string, error) {
	f.hit("GetTimezone")
	return f.timezone, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func slotTimes(slots []TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Time
	}
	return out
}

func TestGetAvailableSlotsSpecificStaff(t *testing.T) {
	repo := newFakeRepo()
	repo.weekly[1] = []WeeklyWindow{
		{StaffID: "alice", StartTime: "09:00", EndTime: "12:00"},
		{StaffID: "bob", StartTime: "13:00", EndTime: "15:00"},
	}
	repo.bookings = []BusyRange{{
		StaffID: "alice",
		Start:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 1, 1, 11, 0, 0, 0, time.UTC),
	}}
	svc := NewService(repo, time.UTC)

	slots, err := svc.GetAvailableSlots(context.Background(), Query{
		OrganizationID: "org1",
		ServiceID:      "haircut",
		Staff:          SpecificStaff{ID: "alice"},
		Date:           testDay,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, slotTimes(slots))
	for _, s := range slots {
		require.NotNil(t, s.StaffID)
		assert.Equal(t, "alice", *s.StaffID)
	}

	assert.Equal(t, 1, repo.calls["ListWeeklySchedule"])
	assert.Equal(t, 1, repo.calls["ListOverrides"])
	assert.Equal(t, 1, repo.calls["ListActiveBookings"])
	assert.Equal(t, 1, repo.calls["ListStaffOfferingService"])
}

func TestGetAvailableSlotsSpecificStaffNotOffering(t *testing.T) {
	repo := newFakeRepo()
	repo.weekly[1] = []WeeklyWindow{
		{StaffID: "mallory", StartTime: "09:00", EndTime: "11:00"},
	}
	svc := NewService(repo, time.UTC)

	slots, err := svc.GetAvailableSlots(context.Background(), Query{
		OrganizationID: "org1",
		ServiceID:      "haircut",
		Staff:          SpecificStaff{ID: "mallory"},
		Date:           testDay,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Zero(t, repo.calls["ListWeeklySchedule"])

	perStaff, err := svc.StaffSlots(context.Background(), Query{
		OrganizationID: "org1",
		ServiceID:      "haircut",
		Staff:          SpecificStaff{ID: "mallory"},
		Date:           testDay,
	})
	require.NoError(t, err)
	assert.Empty(t, perStaff)
}

func TestGetAvailableSlotsAnyStaffUnion(t *testing.T) {
	repo := newFakeRepo()
	repo.weekly[1] = []WeeklyWindow{
		{StaffID: "alice", StartTime: "09:00", EndTime: "12:00"},
		{StaffID: "bob", StartTime: "11:00", EndTime: "14:00"},
	}
	repo.overrides[testDay.String()] = []Override{
		{StaffID: "bob", Type: OverrideTimeOff, StartTime: strPtr("12:00"), EndTime: strPtr("13:00")},
	}
	svc := NewService(repo, time.UTC)

	slots, err := svc.GetAvailableSlots(context.Background(), Query{
		OrganizationID: "org1",
		ServiceID:      "haircut",
		Staff:          AnyAvailableStaff{},
		Date:           testDay,
	})
	require.NoError(t, err)

	times := slotTimes(slots)
	assert.Equal(t, []string{"09:00", "10:00", "11:00", "13:00"}, times)
	assert.True(t, sort.StringsAreSorted(times))
	for _, s := range slots {
		assert.Nil(t, s.StaffID)
	}

	// One batched call per data kind regardless of how many staff are considered.
	assert.Equal(t, 1, repo.calls["ListStaffOfferingService"])
	assert.Equal(t, 1, repo.calls["ListWeeklySchedule"])
	assert.Equal(t, 1, repo.calls["ListOverrides"])
	assert.Equal(t, 1, repo.calls["ListActiveBookings"])
}

func TestGetAvailableSlotsEmptyCases(t *testing.T) {
	repo := newFakeRepo()
	repo.weekly[1] = []WeeklyWindow{{StaffID: "alice", StartTime: "09:00", EndTime: "17:00"}}
	svc := NewService(repo, time.UTC)

	tests := []struct {
		name      string
		serviceID string
		staff     StaffSelection
	}{
		{name: "unknown service", serviceID: "missing", staff: AnyAvailableStaff{}},
		{name: "inactive service", serviceID: "retired", staff: SpecificStaff{ID: "alice"}},
		{name: "service of another organization", serviceID: "foreign", staff: AnyAvailableStaff{}},
		{name: "staff without schedule", serviceID: "haircut", staff: SpecificStaff{ID: "carol"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := svc.GetAvailableSlots(context.Background(), Query{
				OrganizationID: "org1",
				ServiceID:      tt.serviceID,
				Staff:          tt.staff,
				Date:           testDay,
			})
			require.NoError(t, err)
			assert.NotNil(t, slots)
			assert.Empty(t, slots)
		})
	}
}

func TestGetAvailableSlotsNoOfferingStaffSkipsLoads(t *testing.T) {
	repo := newFakeRepo()
	repo.offering["haircut"] = nil
	svc := NewService(repo, time.UTC)

	slots, err := svc.GetAvailableSlots(context.Background(), Query{
		OrganizationID: "org1",
		ServiceID:      "haircut",
		Staff:          AnyAvailableStaff{},
		Date:           testDay,
	})
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.Zero(t, repo.calls["ListWeeklySchedule"])
}

func TestGetAvailableSlotsInvalidInput(t *testing.T) {
	svc := NewService(newFakeRepo(), time.UTC)

	_, err := svc.GetAvailableSlots(context.Background(), Query{ServiceID: "haircut", Staff: AnyAvailableStaff{}, Date: testDay})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetAvailableSlots(context.Background(), Query{OrganizationID: "org1", ServiceID: "haircut", Staff: SpecificStaff{}, Date: testDay})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetAvailableSlots(context.Background(), Query{OrganizationID: "org1", ServiceID: "haircut", Date: testDay})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetAvailableSlotsPropagatesLoadErrors(t *testing.T) {
	repo := newFakeRepo()
	repo.scheduleErr = errors.New("connection reset")
	svc := NewService(repo, time.UTC)

	_, err := svc.GetAvailableSlots(context.Background(), Query{
		OrganizationID: "org1",
		ServiceID:      "haircut",
		Staff:          AnyAvailableStaff{},
		Date:           testDay,
	})
	assert.EqualError(t, err, "connection reset")
}

func TestStaffSlotsKeepsCandidateOrder(t *testing.T) {
	repo := newFakeRepo()
	repo.weekly[1] = []WeeklyWindow{
		{StaffID: "bob", StartTime: "09:00", EndTime: "10:00"},
		{StaffID: "alice", StartTime: "09:00", EndTime: "11:00"},
	}
	svc := NewService(repo, time.UTC)

	perStaff, err := svc.StaffSlots(context.Background(), Query{
		OrganizationID: "org1",
		ServiceID:      "haircut",
		Staff:          AnyAvailableStaff{},
		Date:           testDay,
	})
	require.NoError(t, err)
	require.Len(t, perStaff, 2)
	assert.Equal(t, "alice", perStaff[0].StaffID)
	assert.Equal(t, []string{"09:00", "10:00"}, perStaff[0].Times)
	assert.Equal(t, "bob", perStaff[1].StaffID)
	assert.Equal(t, []string{"09:00"}, perStaff[1].Times)
}

func TestStaffSlotsNotBefore(t *testing.T) {
	repo := newFakeRepo()
	repo.weekly[1] = []WeeklyWindow{{StaffID: "alice", StartTime: "09:00", EndTime: "13:00"}}
	svc := NewService(repo, time.UTC)

	slots, err := svc.GetAvailableSlots(context.Background(), Query{
		OrganizationID: "org1",
		ServiceID:      "haircut",
		Staff:          SpecificStaff{ID: "alice"},
		Date:           testDay,
		NotBefore:      time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00", "12:00"}, slotTimes(slots))
}

func TestLocationFallsBack(t *testing.T) {
	repo := newFakeRepo()
	istanbul, err := time.LoadLocation("Europe/Istanbul")
	require.NoError(t, err)
	svc := NewService(repo, istanbul)

	assert.Equal(t, istanbul, svc.Location(context.Background(), "org1"))

	repo.timezone = "Not/AZone"
	assert.Equal(t, istanbul, svc.Location(context.Background(), "org1"))

	repo.timezone = "Asia/Tokyo"
	assert.Equal(t, "Asia/Tokyo", svc.Location(context.Background(), "org1").String())
}

func TestOrganizationTimezoneAppliesToBookings(t *testing.T) {
	repo := newFakeRepo()
	repo.timezone = "Asia/Tokyo"
	repo.weekly[1] = []WeeklyWindow{{StaffID: "alice", StartTime: "09:00", EndTime: "12:00"}}
	// 01:00 UTC is 10:00 in Tokyo.
	repo.bookings = []BusyRange{{
		StaffID: "alice",
		Start:   time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC),
	}}
	svc := NewService(repo, time.UTC)

	slots, err := svc.GetAvailableSlots(context.Background(), Query{
		OrganizationID: "org1",
		ServiceID:      "haircut",
		Staff:          SpecificStaff{ID: "alice"},
		Date:           testDay,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, slotTimes(slots))
}
