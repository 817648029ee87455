package schedule

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/apperror"
)

var (
	ErrOverrideNotFound    = apperror.New(http.StatusNotFound, "override_not_found", "schedule override not found")
	ErrInvalidDayOfWeek    = apperror.New(http.StatusBadRequest, "invalid_input", "day of week must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidWindow       = apperror.New(http.StatusBadRequest, "invalid_input", "start time must be before end time")
	ErrInvalidOverrideType = apperror.New(http.StatusBadRequest, "invalid_input", "override type must be day_off, time_off or extra_work")
	ErrBoundsRequired      = apperror.New(http.StatusBadRequest, "invalid_input", "start and end time are required for this override type")
	ErrInvalidDateRange    = apperror.New(http.StatusBadRequest, "invalid_input", "from must not be after to")
	ErrPermissionDenied    = apperror.New(http.StatusForbidden, "forbidden", "permission denied")
)

// WeeklyWindow is one recurring working window. Times are "HH:MM".
type WeeklyWindow struct {
	DayOfWeek int
	StartTime string
	EndTime   string
}

// Override is a date-specific exception to a staff member's weekly schedule.
type Override struct {
	ID        string
	StaffID   string
	Date      availability.Date
	Type      availability.OverrideType
	StartTime *string
	EndTime   *string
	Reason    *string
	CreatedAt time.Time
}
