package availability

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/apperror"
)

var (
	ErrServiceNotFound = apperror.New(http.StatusNotFound, "service_not_found", "service not found")
	ErrInvalidInput    = apperror.New(http.StatusBadRequest, "invalid_input", "invalid input parameters")
	ErrInvalidRange    = apperror.New(http.StatusBadRequest, "invalid_input", "start time must be before end time")
)

type OverrideType string

const (
	OverrideDayOff    OverrideType = "day_off"
	OverrideTimeOff   OverrideType = "time_off"
	OverrideExtraWork OverrideType = "extra_work"
)

// Valid reports whether t is one of the known override types.
func (t OverrideType) Valid() bool {
	switch t {
	case OverrideDayOff, OverrideTimeOff, OverrideExtraWork:
		return true
	}
	return false
}

// WeeklyWindow is one recurring working window of a staff member ("HH:MM").
type WeeklyWindow struct {
	StaffID   string
	StartTime string
	EndTime   string
}

// Override is a date-specific exception to the weekly schedule.
// StartTime and EndTime are nil for day_off.
type Override struct {
	StaffID   string
	Type      OverrideType
	StartTime *string
	EndTime   *string
}

// BusyRange is an active booking occupying [Start, End).
type BusyRange struct {
	StaffID string
	Start   time.Time
	End     time.Time
}

// ServiceInfo is the slice of a service the engine needs.
type ServiceInfo struct {
	ID              string
	OrganizationID  string
	Name            string
	DurationMinutes int
	PriceCents      int64
	IsActive        bool
}

// StaffSelection is either SpecificStaff or AnyAvailableStaff.
type StaffSelection interface {
	isStaffSelection()
}

// SpecificStaff pins the query to one staff member.
type SpecificStaff struct {
	ID string
}

// AnyAvailableStaff asks for the union over every staff member offering the service.
type AnyAvailableStaff struct{}

func (SpecificStaff) isStaffSelection()     {}
func (AnyAvailableStaff) isStaffSelection() {}

// Query identifies one availability lookup.
type Query struct {
	OrganizationID string
	ServiceID      string
	Staff          StaffSelection
	Date           Date
	// NotBefore drops slots starting before it. Zero keeps every slot.
	NotBefore time.Time
}

// TimeSlot is a bookable start time. StaffID is nil for aggregated "any staff" slots.
type TimeSlot struct {
	Time    string
	StaffID *string
}

// StaffSlots holds the open start times of one staff member.
type StaffSlots struct {
	StaffID string
	Times   []string
}
