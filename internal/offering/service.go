package offering

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/organization"
)

// Input carries the editable fields of a service.
type Input struct {
	Name            string
	Description     *string
	DurationMinutes int
	PriceCents      int64
}

type Service interface {
	// ListPublic returns the active services of a shop for customers.
	ListPublic(ctx context.Context, orgID string) ([]*Offering, error)
	List(ctx context.Context, actor auth.Actor, includeInactive bool) ([]*Offering, error)
	Get(ctx context.Context, actor auth.Actor, id string) (*Offering, error)
	Create(ctx context.Context, actor auth.Actor, in Input) (*Offering, error)
	Update(ctx context.Context, actor auth.Actor, id string, in Input) (*Offering, error)
	Deactivate(ctx context.Context, actor auth.Actor, id string) error

	AssignToStaff(ctx context.Context, actor auth.Actor, staffID string, serviceIDs []string) error
	ListServiceIDsForStaff(ctx context.Context, actor auth.Actor, staffID string) ([]string, error)
	ListStaffIDs(ctx context.Context, orgID, serviceID string) ([]string, error)
}

type service struct {
	repo Repository
	orgs organization.Service
}

func NewService(repo Repository, orgs organization.Service) Service {
	return &service{repo: repo, orgs: orgs}
}

func (s *service) ListPublic(ctx context.Context, orgID string) ([]*Offering, error) {
	return s.repo.List(ctx, Filter{OrganizationID: orgID})
}

func (s *service) List(ctx context.Context, actor auth.Actor, includeInactive bool) ([]*Offering, error) {
	return s.repo.List(ctx, Filter{
		OrganizationID:  actor.OrganizationID,
		IncludeInactive: includeInactive && actor.IsManager(),
	})
}

func (s *service) Get(ctx context.Context, actor auth.Actor, id string) (*Offering, error) {
	return s.repo.GetByID(ctx, actor.OrganizationID, id)
}

func (s *service) Create(ctx context.Context, actor auth.Actor, in Input) (*Offering, error) {
	if !actor.IsManager() {
		return nil, ErrPermissionDenied
	}
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	o := &Offering{
		OrganizationID:  actor.OrganizationID,
		Name:            in.Name,
		Description:     in.Description,
		DurationMinutes: in.DurationMinutes,
		PriceCents:      in.PriceCents,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("organization_id", o.OrganizationID).
		Str("service_id", o.ID).
		Msg("service created")
	return o, nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, id string, in Input) (*Offering, error) {
	if !actor.IsManager() {
		return nil, ErrPermissionDenied
	}
	in, err := normalize(in)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	o.Name = in.Name
	o.Description = in.Description
	o.DurationMinutes = in.DurationMinutes
	o.PriceCents = in.PriceCents

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Deactivate hides a service from new bookings. Existing bookings keep it.
func (s *service) Deactivate(ctx context.Context, actor auth.Actor, id string) error {
	if !actor.IsManager() {
		return ErrPermissionDenied
	}
	return s.repo.Deactivate(ctx, actor.OrganizationID, id)
}

// AssignToStaff replaces the full set of services staffID performs.
func (s *service) AssignToStaff(ctx context.Context, actor auth.Actor, staffID string, serviceIDs []string) error {
	if !actor.IsManager() {
		return ErrPermissionDenied
	}
	if _, err := s.orgs.GetStaff(ctx, actor.OrganizationID, staffID); err != nil {
		return err
	}

	ids := dedupe(serviceIDs)
	if len(ids) > 0 {
		n, err := s.repo.CountInOrganization(ctx, actor.OrganizationID, ids)
		if err != nil {
			return err
		}
		if n != len(ids) {
			return ErrUnknownService
		}
	}

	return s.repo.ReplaceStaffServices(ctx, staffID, ids)
}

func (s *service) ListServiceIDsForStaff(ctx context.Context, actor auth.Actor, staffID string) ([]string, error) {
	if !actor.CanActOnStaff(staffID) {
		return nil, ErrPermissionDenied
	}
	if _, err := s.orgs.GetStaff(ctx, actor.OrganizationID, staffID); err != nil {
		return nil, err
	}
	return s.repo.ListServiceIDsForStaff(ctx, staffID)
}

func (s *service) ListStaffIDs(ctx context.Context, orgID, serviceID string) ([]string, error) {
	return s.repo.ListStaffIDs(ctx, orgID, serviceID)
}

func normalize(in Input) (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	if n := utf8.RuneCountInString(in.Name); n < MinNameLength || n > MaxNameLength {
		return in, ErrInvalidName
	}

	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		switch {
		case d == "":
			in.Description = nil
		case utf8.RuneCountInString(d) > MaxDescriptionLen:
			return in, ErrInvalidDescription
		default:
			in.Description = &d
		}
	}

	if in.DurationMinutes < MinDuration || in.DurationMinutes > MaxDuration {
		return in, ErrInvalidDuration
	}
	if in.PriceCents < 0 {
		return in, ErrInvalidPrice
	}
	return in, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
