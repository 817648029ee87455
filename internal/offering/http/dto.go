package http

import (
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/offering"
)

type ListServicesRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// ServiceRequest is the create and update payload. Update replaces every field.
type ServiceRequest struct {
	Name            string  `json:"name" binding:"required,min=2,max=100"`
	Description     *string `json:"description" binding:"omitempty,max=500"`
	DurationMinutes int     `json:"duration_min" binding:"required,min=5,max=480"`
	PriceCents      *int64  `json:"price_cents" binding:"required,min=0"`
}

func (r *ServiceRequest) toInput() offering.Input {
	return offering.Input{
		Name:            r.Name,
		Description:     r.Description,
		DurationMinutes: r.DurationMinutes,
		PriceCents:      *r.PriceCents,
	}
}

type ServiceResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     *string   `json:"description"`
	DurationMinutes int       `json:"duration_min"`
	PriceCents      int64     `json:"price_cents"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewServiceResponse(o *offering.Offering) ServiceResponse {
	return ServiceResponse{
		ID:              o.ID,
		Name:            o.Name,
		Description:     o.Description,
		DurationMinutes: o.DurationMinutes,
		PriceCents:      o.PriceCents,
		IsActive:        o.IsActive,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// PublicServiceResponse is the customer-facing service card.
type PublicServiceResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	DurationMinutes int     `json:"duration_min"`
	PriceCents      int64   `json:"price_cents"`
}

func NewPublicServiceResponse(o *offering.Offering) PublicServiceResponse {
	return PublicServiceResponse{
		ID:              o.ID,
		Name:            o.Name,
		Description:     o.Description,
		DurationMinutes: o.DurationMinutes,
		PriceCents:      o.PriceCents,
	}
}

type StaffPath struct {
	StaffID string `uri:"staff_id" binding:"required,uuid"`
}

type AssignServicesRequest struct {
	ServiceIDs []string `json:"service_ids" binding:"omitempty,dive,uuid"`
}

type StaffServicesResponse struct {
	StaffID    string   `json:"staff_id"`
	ServiceIDs []string `json:"service_ids"`
}
