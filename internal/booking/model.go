package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/apperror"
)

// ExclusionConstraint is the storage constraint that forbids overlapping
// active bookings of one staff member.
const ExclusionConstraint = "no_overlapping_bookings"

var (
	ErrNotFound              = apperror.New(http.StatusNotFound, "booking_not_found", "booking not found")
	ErrServiceNotFound       = apperror.New(http.StatusNotFound, "service_not_found", "service not found")
	ErrCustomerBanned        = apperror.New(http.StatusForbidden, "customer_banned", "using this phone number for booking is currently restricted")
	ErrNoStaffForService     = apperror.New(http.StatusConflict, "no_staff_available", "no staff available for this service")
	ErrNoStaffAvailable      = apperror.New(http.StatusConflict, "no_staff_available", "no staff available at this time")
	ErrSlotNoLongerAvailable = apperror.New(http.StatusConflict, "slot_no_longer_available", "this time slot is no longer available, please choose another time")
	ErrTimeConflict          = apperror.New(http.StatusConflict, "time_conflict", "this time slot conflicts with an existing appointment")
	ErrInvalidStatus         = apperror.New(http.StatusBadRequest, "invalid_input", "invalid booking status")
	ErrStartTimePast         = apperror.New(http.StatusBadRequest, "invalid_input", "cannot create booking in the past")
	ErrInvalidInput          = apperror.New(http.StatusBadRequest, "invalid_input", "invalid input parameters")
	ErrInvalidTimeRange      = apperror.New(http.StatusBadRequest, "invalid_input", "start time must be before end time")
	ErrPermissionDenied      = apperror.New(http.StatusForbidden, "forbidden", "permission denied")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
	StatusCompleted Status = "completed"
)

// ActiveStatuses are the statuses that occupy a staff member's time.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusNoShow, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether a booking in this status blocks its time range.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Source tells where a booking was created.
type Source string

const (
	SourcePublic    Source = "public"
	SourceDashboard Source = "dashboard"
)

type Booking struct {
	ID             string
	OrganizationID string
	ServiceID      string
	ServiceName    string
	StaffID        string
	CustomerName   string
	CustomerPhone  string
	Notes          *string
	PriceAtBooking int64
	StartTime      time.Time
	EndTime        time.Time
	Status         Status
	Source         Source
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Filter struct {
	OrganizationID string
	StaffID        string
	Statuses       []Status
	StartTimeFrom  *time.Time // Bookings starting at or after this time
	StartTimeTo    *time.Time // Bookings starting before this time
	Page           int
	PageSize       int
}

// Stats summarizes upcoming work for the dashboard.
type Stats struct {
	Pending   int
	Confirmed int
	Today     int
}
