package offering

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "service_not_found", "service not found")
	ErrInvalidName        = apperror.New(http.StatusBadRequest, "invalid_input", "name must be between 2 and 100 characters")
	ErrInvalidDescription = apperror.New(http.StatusBadRequest, "invalid_input", "description must be at most 500 characters")
	ErrInvalidDuration    = apperror.New(http.StatusBadRequest, "invalid_input", "duration must be between 5 and 480 minutes")
	ErrInvalidPrice       = apperror.New(http.StatusBadRequest, "invalid_input", "price cannot be negative")
	ErrUnknownService     = apperror.New(http.StatusBadRequest, "invalid_input", "one or more services do not belong to this organization")
	ErrPermissionDenied   = apperror.New(http.StatusForbidden, "forbidden", "permission denied")
)

const (
	MinNameLength     = 2
	MaxNameLength     = 100
	MaxDescriptionLen = 500
	MinDuration       = 5
	MaxDuration       = 480
)

// Offering is a service a shop sells, such as a haircut.
type Offering struct {
	ID              string
	OrganizationID  string
	Name            string
	Description     *string
	DurationMinutes int
	PriceCents      int64
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Filter struct {
	OrganizationID  string
	IncludeInactive bool
}
