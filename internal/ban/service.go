package ban

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/phone"
)

type BanRequest struct {
	OrganizationID string
	CustomerPhone  string
	Reason         *string
	BannedUntil    *time.Time
}

type Service interface {
	List(ctx context.Context, orgID string) ([]*BannedCustomer, error)
	Ban(ctx context.Context, req BanRequest) (*BannedCustomer, error)
	Unban(ctx context.Context, orgID, id string) error
	// IsPhoneBanned reports whether phone is blocked from booking with orgID at asOf.
	// The phone is normalized before lookup.
	IsPhoneBanned(ctx context.Context, orgID, customerPhone string, asOf time.Time) (bool, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) List(ctx context.Context, orgID string) ([]*BannedCustomer, error) {
	return s.repo.List(ctx, orgID)
}

func (s *service) Ban(ctx context.Context, req BanRequest) (*BannedCustomer, error) {
	normalized := phone.Normalize(req.CustomerPhone)
	if normalized == "" {
		return nil, ErrInvalidPhone
	}
	if req.BannedUntil != nil && !req.BannedUntil.After(s.now()) {
		return nil, ErrUntilPast
	}

	b := &BannedCustomer{
		OrganizationID: req.OrganizationID,
		CustomerPhone:  normalized,
		Reason:         req.Reason,
		BannedUntil:    req.BannedUntil,
	}
	if err := s.repo.Upsert(ctx, b); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("organization_id", b.OrganizationID).
		Str("ban_id", b.ID).
		Msg("customer banned")
	return b, nil
}

func (s *service) Unban(ctx context.Context, orgID, id string) error {
	return s.repo.Delete(ctx, orgID, id)
}

func (s *service) IsPhoneBanned(ctx context.Context, orgID, customerPhone string, asOf time.Time) (bool, error) {
	normalized := phone.Normalize(customerPhone)
	if normalized == "" {
		return false, nil
	}

	b, err := s.repo.GetByPhone(ctx, orgID, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return b.ActiveAt(asOf), nil
}
