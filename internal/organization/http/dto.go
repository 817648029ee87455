package http

import (
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/organization"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/request"
)

// OrganizationResponse is the dashboard view of a shop.
type OrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Logo      *string   `json:"logo"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewOrganizationResponse(o *organization.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:        o.ID,
		Name:      o.Name,
		Slug:      o.Slug,
		Logo:      o.Logo,
		Timezone:  o.Timezone,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// ShopResponse is the public shop page header.
type ShopResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Slug     string  `json:"slug"`
	Logo     *string `json:"logo"`
	Timezone string  `json:"timezone"`
}

func NewShopResponse(o *organization.Organization) ShopResponse {
	return ShopResponse{ID: o.ID, Name: o.Name, Slug: o.Slug, Logo: o.Logo, Timezone: o.Timezone}
}

// OrganizationTag is the compact reference embedded in other responses.
type OrganizationTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UpdateSettingsRequest is the payload for PATCH /dashboard/organization.
type UpdateSettingsRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=100"`
	Slug     *string `json:"slug" binding:"omitempty,slug"`
	Logo     *string `json:"logo" binding:"omitempty,max=2048"`
	Timezone *string `json:"timezone" binding:"omitempty,max=64"`
}

type ShopPath struct {
	Slug string `uri:"slug" binding:"required,slug"`
}

type ListStaffRequest struct {
	request.ListParams
}

type StaffResponse struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	Image       *string `json:"image"`
	Role        string  `json:"role"`
}

func NewStaffResponse(s *organization.Staff) StaffResponse {
	return StaffResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		DisplayName: s.DisplayName,
		Image:       s.Image,
		Role:        s.Role,
	}
}
