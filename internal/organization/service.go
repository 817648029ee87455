package organization

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
)

// UpdateSettingsRequest defines the fields an owner can change.
type UpdateSettingsRequest struct {
	Name     *string
	Slug     *string
	Logo     *string
	Timezone *string
}

// Service defines business logic for organizations.
type Service interface {
	// Organization methods
	GetByID(ctx context.Context, id string) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	UpdateSettings(ctx context.Context, actor auth.Actor, req UpdateSettingsRequest) (*Organization, error)
	// Staff methods
	GetStaff(ctx context.Context, orgID, staffID string) (*Staff, error)
	ListStaff(ctx context.Context, filter StaffFilter) ([]*Staff, int, error)
}

type service struct {
	repo Repository
}

// NewService creates a new organization service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Organization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Organization, error) {
	return s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
}

func (s *service) UpdateSettings(ctx context.Context, actor auth.Actor, req UpdateSettingsRequest) (*Organization, error) {
	if actor.Role != auth.RoleOwner {
		return nil, ErrPermissionDenied
	}
	if req.Name == nil && req.Slug == nil && req.Logo == nil && req.Timezone == nil {
		return nil, ErrEmptyUpdate
	}

	org, err := s.repo.GetByID(ctx, actor.OrganizationID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		org.Name = name
	}
	if req.Slug != nil {
		org.Slug = strings.ToLower(strings.TrimSpace(*req.Slug))
	}
	if req.Logo != nil {
		if logo := strings.TrimSpace(*req.Logo); logo == "" {
			org.Logo = nil
		} else {
			org.Logo = &logo
		}
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil || *req.Timezone == "" || *req.Timezone == "Local" {
			return nil, ErrInvalidTimezone
		}
		org.Timezone = *req.Timezone
	}

	if err := s.repo.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) GetStaff(ctx context.Context, orgID, staffID string) (*Staff, error) {
	return s.repo.GetStaff(ctx, orgID, staffID)
}

func (s *service) ListStaff(ctx context.Context, filter StaffFilter) ([]*Staff, int, error) {
	return s.repo.ListStaff(ctx, filter)
}
