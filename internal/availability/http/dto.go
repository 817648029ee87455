package http

import (
	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
)

// AvailabilityRequest defines query parameters for the public availability lookup.
// An empty StaffID means any available staff member.
type AvailabilityRequest struct {
	ServiceID string `form:"service_id" binding:"required,uuid"`
	StaffID   string `form:"staff_id" binding:"omitempty,uuid"`
	Date      string `form:"date" binding:"required"`
}

// Validate parses the date and returns it.
func (r *AvailabilityRequest) Validate() (availability.Date, error) {
	return availability.ParseDate(r.Date)
}

func (r *AvailabilityRequest) staffSelection() availability.StaffSelection {
	if r.StaffID == "" {
		return availability.AnyAvailableStaff{}
	}
	return availability.SpecificStaff{ID: r.StaffID}
}

type SlotResponse struct {
	Time    string  `json:"time"`
	StaffID *string `json:"staff_id"`
}

type AvailabilityResponse struct {
	Date      string         `json:"date"`
	ServiceID string         `json:"service_id"`
	Slots     []SlotResponse `json:"slots"`
}

func NewAvailabilityResponse(date availability.Date, serviceID string, slots []availability.TimeSlot) AvailabilityResponse {
	items := make([]SlotResponse, len(slots))
	for i, s := range slots {
		items[i] = SlotResponse{Time: s.Time, StaffID: s.StaffID}
	}
	return AvailabilityResponse{
		Date:      date.String(),
		ServiceID: serviceID,
		Slots:     items,
	}
}
