package http

import (
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
	"github.com/nekogravitycat/barber-booking-backend/internal/booking"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	StaffID       string     `form:"staff_id" binding:"omitempty,uuid"`
	Status        []string   `form:"status" binding:"omitempty,dive,oneof=pending confirmed cancelled no_show completed"`
	StartTimeFrom *time.Time `form:"start_time_from" time_format:"2006-01-02T15:04:05Z07:00"`
	StartTimeTo   *time.Time `form:"start_time_to" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.StartTimeFrom != nil && r.StartTimeTo != nil {
		if !r.StartTimeFrom.Before(*r.StartTimeTo) {
			return booking.ErrInvalidTimeRange
		}
	}
	return nil
}

func (r *ListBookingsRequest) statuses() []booking.Status {
	out := make([]booking.Status, len(r.Status))
	for i, s := range r.Status {
		out[i] = booking.Status(s)
	}
	return out
}

type BookingResponse struct {
	ID             string    `json:"id"`
	ServiceID      string    `json:"service_id"`
	ServiceName    string    `json:"service_name"`
	StaffID        string    `json:"staff_id"`
	CustomerName   string    `json:"customer_name"`
	CustomerPhone  string    `json:"customer_phone"`
	Notes          *string   `json:"notes"`
	PriceAtBooking int64     `json:"price_at_booking"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
	Source         string    `json:"source"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		ServiceID:      b.ServiceID,
		ServiceName:    b.ServiceName,
		StaffID:        b.StaffID,
		CustomerName:   b.CustomerName,
		CustomerPhone:  b.CustomerPhone,
		Notes:          b.Notes,
		PriceAtBooking: b.PriceAtBooking,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
		Source:         string(b.Source),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

// PublicBookingResponse is what the customer sees after booking.
// It leaves out internal bookkeeping fields.
type PublicBookingResponse struct {
	ID             string    `json:"id"`
	ServiceName    string    `json:"service_name"`
	StaffID        string    `json:"staff_id"`
	PriceAtBooking int64     `json:"price_at_booking"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Status         string    `json:"status"`
}

func NewPublicBookingResponse(b *booking.Booking) PublicBookingResponse {
	return PublicBookingResponse{
		ID:             b.ID,
		ServiceName:    b.ServiceName,
		StaffID:        b.StaffID,
		PriceAtBooking: b.PriceAtBooking,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
	}
}

// CreatePublicBookingRequest is the customer booking payload. An empty
// staff_id asks for any available staff member.
type CreatePublicBookingRequest struct {
	ServiceID     string    `json:"service_id" binding:"required,uuid"`
	StaffID       string    `json:"staff_id" binding:"omitempty,uuid"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required,min=1,max=100"`
	CustomerPhone string    `json:"customer_phone" binding:"required,max=32"`
	Notes         *string   `json:"notes" binding:"omitempty,max=500"`
}

func (r *CreatePublicBookingRequest) staffSelection() availability.StaffSelection {
	if r.StaffID == "" {
		return availability.AnyAvailableStaff{}
	}
	return availability.SpecificStaff{ID: r.StaffID}
}

type CreateDashboardBookingRequest struct {
	ServiceID     string    `json:"service_id" binding:"required,uuid"`
	StaffID       string    `json:"staff_id" binding:"required,uuid"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required,min=1,max=100"`
	CustomerPhone string    `json:"customer_phone" binding:"required,max=32"`
	Notes         *string   `json:"notes" binding:"omitempty,max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled no_show completed"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type StatsResponse struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Today     int `json:"today"`
}
