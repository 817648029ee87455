package ban

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.New(http.StatusNotFound, "ban_not_found", "banned customer not found")
	ErrInvalidPhone = apperror.New(http.StatusBadRequest, "invalid_input", "phone number must contain digits")
	ErrUntilPast    = apperror.New(http.StatusBadRequest, "invalid_input", "ban end must be in the future")
)

// BannedCustomer blocks public bookings from one phone number.
// A nil BannedUntil means the ban never expires.
type BannedCustomer struct {
	ID             string
	OrganizationID string
	CustomerPhone  string
	Reason         *string
	BannedUntil    *time.Time
	BannedAt       time.Time
	UpdatedAt      time.Time
}

// ActiveAt reports whether the ban still blocks bookings at t.
func (b *BannedCustomer) ActiveAt(t time.Time) bool {
	return b.BannedUntil == nil || b.BannedUntil.After(t)
}
