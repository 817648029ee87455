package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/availability"
	"github.com/nekogravitycat/barber-booking-backend/internal/ban"
	"github.com/nekogravitycat/barber-booking-backend/internal/metrics"
	"github.com/nekogravitycat/barber-booking-backend/internal/organization"
	"github.com/nekogravitycat/barber-booking-backend/internal/pkg/phone"
)

// ServiceLookup resolves the service being booked.
type ServiceLookup interface {
	GetService(ctx context.Context, serviceID string) (*availability.ServiceInfo, error)
}

// CreatePublicRequest is a booking placed by a customer on the shop page.
type CreatePublicRequest struct {
	OrganizationID string
	ServiceID      string
	Staff          availability.StaffSelection
	StartTime      time.Time
	CustomerName   string
	CustomerPhone  string
	Notes          *string
}

// CreateDashboardRequest is a booking entered by an owner or admin.
type CreateDashboardRequest struct {
	ServiceID     string
	StaffID       string
	StartTime     time.Time
	CustomerName  string
	CustomerPhone string
	Notes         *string
}

type Service interface {
	// CreatePublic books a slot for a customer. The store's exclusion
	// constraint has the final word on conflicts.
	CreatePublic(ctx context.Context, req CreatePublicRequest) (*Booking, error)
	CreateDashboard(ctx context.Context, actor auth.Actor, req CreateDashboardRequest) (*Booking, error)
	GetByID(ctx context.Context, actor auth.Actor, id string) (*Booking, error)
	List(ctx context.Context, actor auth.Actor, filter Filter) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, id string, status Status) (*Booking, error)
	Cancel(ctx context.Context, actor auth.Actor, id string, reason string) (*Booking, error)
	Stats(ctx context.Context, actor auth.Actor) (*Stats, error)
}

type service struct {
	repo         Repository
	services     ServiceLookup
	availability availability.Service
	bans         ban.Service
	orgService   organization.Service
	now          func() time.Time
}

func NewService(
	repo Repository,
	services ServiceLookup,
	availabilityService availability.Service,
	banService ban.Service,
	orgService organization.Service,
) Service {
	return &service{
		repo:         repo,
		services:     services,
		availability: availabilityService,
		bans:         banService,
		orgService:   orgService,
		now:          time.Now,
	}
}

func (s *service) CreatePublic(ctx context.Context, req CreatePublicRequest) (*Booking, error) {
	log := zerolog.Ctx(ctx).With().
		Str("organization_id", req.OrganizationID).
		Str("service_id", req.ServiceID).
		Logger()

	// 1. Validate input
	if req.OrganizationID == "" || req.ServiceID == "" || req.Staff == nil {
		return nil, ErrInvalidInput
	}
	if err := validateCustomer(req.CustomerName, req.CustomerPhone); err != nil {
		return nil, err
	}
	now := s.now()
	if req.StartTime.Before(now) {
		return nil, ErrStartTimePast
	}

	// 2. Banned phones never reach the store
	banned, err := s.bans.IsPhoneBanned(ctx, req.OrganizationID, req.CustomerPhone, now)
	if err != nil {
		return nil, err
	}
	if banned {
		return nil, s.reject(log, ErrCustomerBanned)
	}

	// 3. Resolve the service and compute the booked range once
	svc, err := s.activeService(ctx, req.OrganizationID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	endTime := req.StartTime.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	// 4. Pick or confirm the staff member against current availability
	staffID, err := s.resolveStaff(ctx, req)
	if err != nil {
		return nil, s.reject(log, err)
	}

	// 5. Insert; the exclusion constraint settles races between customers
	b := &Booking{
		OrganizationID: req.OrganizationID,
		ServiceID:      svc.ID,
		ServiceName:    svc.Name,
		StaffID:        staffID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
		Notes:          trimNotes(req.Notes),
		PriceAtBooking: svc.PriceCents,
		StartTime:      req.StartTime,
		EndTime:        endTime,
		Status:         StatusPending,
		Source:         SourcePublic,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, ErrSlotNoLongerAvailable) {
			return nil, s.reject(log, err)
		}
		return nil, err
	}

	metrics.IncBookingCreated(string(SourcePublic))
	log.Info().Str("booking_id", b.ID).Str("staff_id", b.StaffID).Msg("public booking created")
	return b, nil
}

// resolveStaff returns the staff member the booking goes to. For "any
// available" it is the first candidate, in availability order, who still
// offers the requested start time.
func (s *service) resolveStaff(ctx context.Context, req CreatePublicRequest) (string, error) {
	loc := s.availability.Location(ctx, req.OrganizationID)
	local := req.StartTime.In(loc)
	slot := availability.FormatClock(local.Hour()*60 + local.Minute())
	onMinute := local.Second() == 0 && local.Nanosecond() == 0

	perStaff, err := s.availability.StaffSlots(ctx, availability.Query{
		OrganizationID: req.OrganizationID,
		ServiceID:      req.ServiceID,
		Staff:          req.Staff,
		Date:           availability.DateOf(local),
	})
	if err != nil {
		return "", err
	}

	switch sel := req.Staff.(type) {
	case availability.SpecificStaff:
		for _, ps := range perStaff {
			if ps.StaffID == sel.ID && onMinute && contains(ps.Times, slot) {
				return sel.ID, nil
			}
		}
		return "", ErrSlotNoLongerAvailable

	case availability.AnyAvailableStaff:
		if len(perStaff) == 0 {
			return "", ErrNoStaffForService
		}
		if onMinute {
			for _, ps := range perStaff {
				if contains(ps.Times, slot) {
					return ps.StaffID, nil
				}
			}
		}
		return "", ErrNoStaffAvailable
	}
	return "", ErrInvalidInput
}

func (s *service) CreateDashboard(ctx context.Context, actor auth.Actor, req CreateDashboardRequest) (*Booking, error) {
	if !actor.IsManager() {
		return nil, ErrPermissionDenied
	}
	if req.ServiceID == "" || req.StaffID == "" || req.StartTime.IsZero() {
		return nil, ErrInvalidInput
	}
	if err := validateCustomer(req.CustomerName, req.CustomerPhone); err != nil {
		return nil, err
	}

	if _, err := s.orgService.GetStaff(ctx, actor.OrganizationID, req.StaffID); err != nil {
		if errors.Is(err, organization.ErrStaffNotFound) {
			return nil, organization.ErrStaffNotFound
		}
		return nil, err
	}

	svc, err := s.activeService(ctx, actor.OrganizationID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	endTime := req.StartTime.Add(time.Duration(svc.DurationMinutes) * time.Minute)

	hasOverlap, err := s.repo.HasOverlap(ctx, req.StaffID, req.StartTime, endTime)
	if err != nil {
		return nil, err
	}
	if hasOverlap {
		metrics.IncBookingRejected(ErrTimeConflict.Reason)
		return nil, ErrTimeConflict
	}

	b := &Booking{
		OrganizationID: actor.OrganizationID,
		ServiceID:      svc.ID,
		ServiceName:    svc.Name,
		StaffID:        req.StaffID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
		Notes:          trimNotes(req.Notes),
		PriceAtBooking: svc.PriceCents,
		StartTime:      req.StartTime,
		EndTime:        endTime,
		Status:         StatusConfirmed,
		Source:         SourceDashboard,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, ErrSlotNoLongerAvailable) {
			metrics.IncBookingRejected(ErrSlotNoLongerAvailable.Reason)
		}
		return nil, err
	}

	metrics.IncBookingCreated(string(SourceDashboard))
	zerolog.Ctx(ctx).Info().
		Str("booking_id", b.ID).
		Str("staff_id", b.StaffID).
		Str("created_by", actor.UserID).
		Msg("dashboard booking created")
	return b, nil
}

// GetByID hides bookings of other staff from members as not found.
func (s *service) GetByID(ctx context.Context, actor auth.Actor, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOnStaff(b.StaffID) {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) List(ctx context.Context, actor auth.Actor, filter Filter) ([]*Booking, int, error) {
	filter.OrganizationID = actor.OrganizationID
	if !actor.IsManager() {
		filter.StaffID = actor.StaffID
	}
	for _, st := range filter.Statuses {
		if !st.Valid() {
			return nil, 0, ErrInvalidStatus
		}
	}
	if filter.StartTimeFrom != nil && filter.StartTimeTo != nil && !filter.StartTimeFrom.Before(*filter.StartTimeTo) {
		return nil, 0, ErrInvalidTimeRange
	}
	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, actor auth.Actor, id string, status Status) (*Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOnStaff(b.StaffID) {
		return nil, ErrPermissionDenied
	}

	if err := s.repo.UpdateStatus(ctx, actor.OrganizationID, id, status, nil); err != nil {
		return nil, err
	}
	b.Status = status
	return b, nil
}

func (s *service) Cancel(ctx context.Context, actor auth.Actor, id string, reason string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanActOnStaff(b.StaffID) {
		return nil, ErrPermissionDenied
	}

	notes := cancellationNotes(b.Notes, reason)
	if err := s.repo.UpdateStatus(ctx, actor.OrganizationID, id, StatusCancelled, notes); err != nil {
		return nil, err
	}
	b.Status = StatusCancelled
	b.Notes = notes
	return b, nil
}

// Stats counts bookings from the start of today in the organization's timezone.
// Members only see their own numbers.
func (s *service) Stats(ctx context.Context, actor auth.Actor) (*Stats, error) {
	staffID := ""
	if !actor.IsManager() {
		staffID = actor.StaffID
	}

	loc := s.availability.Location(ctx, actor.OrganizationID)
	dayStart, dayEnd := availability.DateOf(s.now().In(loc)).Bounds(loc)
	return s.repo.Stats(ctx, actor.OrganizationID, staffID, dayStart, dayEnd)
}

func (s *service) activeService(ctx context.Context, orgID, serviceID string) (*availability.ServiceInfo, error) {
	svc, err := s.services.GetService(ctx, serviceID)
	if err != nil {
		if errors.Is(err, availability.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if !svc.IsActive || svc.OrganizationID != orgID || svc.DurationMinutes <= 0 {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

func (s *service) reject(log zerolog.Logger, err error) error {
	var reason string
	switch {
	case errors.Is(err, ErrCustomerBanned):
		reason = ErrCustomerBanned.Reason
	case errors.Is(err, ErrSlotNoLongerAvailable):
		reason = ErrSlotNoLongerAvailable.Reason
	case errors.Is(err, ErrNoStaffAvailable), errors.Is(err, ErrNoStaffForService):
		reason = ErrNoStaffAvailable.Reason
	default:
		return err
	}
	metrics.IncBookingRejected(reason)
	log.Info().Str("reason", reason).Msg("public booking rejected")
	return err
}

func validateCustomer(name, customerPhone string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return ErrInvalidInput
	}
	if digits := phone.Normalize(customerPhone); len(digits) < 5 || len(digits) > 20 {
		return ErrInvalidInput
	}
	return nil
}

func trimNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// cancellationNotes appends "[Cancelled: reason]" to the existing notes.
// Without a reason the notes are left as they are.
func cancellationNotes(existing *string, reason string) *string {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return existing
	}
	prev := ""
	if existing != nil {
		prev = *existing
	}
	notes := strings.TrimSpace(prev + "\n[Cancelled: " + reason + "]")
	return &notes
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
