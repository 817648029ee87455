package organization

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/apperror"
)

var (
	ErrOrgNotFound      = apperror.New(http.StatusNotFound, "organization_not_found", "organization not found")
	ErrStaffNotFound    = apperror.New(http.StatusNotFound, "staff_not_found", "staff member not found")
	ErrSlugTaken        = apperror.New(http.StatusConflict, "slug_taken", "this shop URL is already taken, please choose another")
	ErrInvalidTimezone  = apperror.New(http.StatusBadRequest, "invalid_input", "timezone must be an IANA name such as Europe/Istanbul")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "invalid_input", "name is required")
	ErrEmptyUpdate      = apperror.New(http.StatusBadRequest, "invalid_input", "no fields to update")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "forbidden", "permission denied")
)

// Organization is one barbershop.
type Organization struct {
	ID        string
	Name      string
	Slug      string
	Logo      *string
	Timezone  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Staff is a member of an organization who can be booked.
// Membership itself is managed by the identity provider.
type Staff struct {
	ID             string
	OrganizationID string
	UserID         string
	DisplayName    string
	Image          *string
	Role           string
}

// StaffFilter defines filter options for listing staff.
type StaffFilter struct {
	OrganizationID string
	Page           int
	PageSize       int
}
