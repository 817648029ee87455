package offering

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/barber-booking-backend/internal/auth"
	"github.com/nekogravitycat/barber-booking-backend/internal/organization"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) List(ctx context.Context, filter Filter) ([]*Offering, error) {
	args := m.Called(ctx, filter)
	o, _ := args.Get(0).([]*Offering)
	return o, args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, orgID, id string) (*Offering, error) {
	args := m.Called(ctx, orgID, id)
	o, _ := args.Get(0).(*Offering)
	return o, args.Error(1)
}

func (m *mockRepo) Create(ctx context.Context, o *Offering) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockRepo) Update(ctx context.Context, o *Offering) error {
	return m.Called(ctx, o).Error(0)
}

func (m *mockRepo) Deactivate(ctx context.Context, orgID, id string) error {
	return m.Called(ctx, orgID, id).Error(0)
}

func (m *mockRepo) CountInOrganization(ctx context.Context, orgID string, ids []string) (int, error) {
	args := m.Called(ctx, orgID, ids)
	return args.Int(0), args.Error(1)
}

func (m *mockRepo) ReplaceStaffServices(ctx context.Context, staffID string, serviceIDs []string) error {
	return m.Called(ctx, staffID, serviceIDs).Error(0)
}

func (m *mockRepo) ListServiceIDsForStaff(ctx context.Context, staffID string) ([]string, error) {
	args := m.Called(ctx, staffID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockRepo) ListStaffIDs(ctx context.Context, orgID, serviceID string) ([]string, error) {
	args := m.Called(ctx, orgID, serviceID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type fakeOrgs struct {
	organization.Service
}

func (fakeOrgs) GetStaff(_ context.Context, orgID, staffID string) (*organization.Staff, error) {
	if orgID == "org1" && staffID == "alice" {
		return &organization.Staff{ID: staffID, OrganizationID: orgID}, nil
	}
	return nil, organization.ErrStaffNotFound
}

var (
	owner  = auth.Actor{UserID: "u0", OrganizationID: "org1", Role: auth.RoleOwner}
	member = auth.Actor{UserID: "u1", OrganizationID: "org1", StaffID: "alice", Role: auth.RoleMember}
)

func strPtr(s string) *string { return &s }

func TestCreate(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(o *Offering) bool {
		return o.OrganizationID == "org1" && o.Name == "Skin Fade" && o.Description == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*Offering).ID = "svc1"
	}).Return(nil).Once()

	o, err := NewService(repo, fakeOrgs{}).Create(context.Background(), owner, Input{
		Name:            "  Skin Fade ",
		Description:     strPtr("   "),
		DurationMinutes: 45,
		PriceCents:      3000,
	})
	require.NoError(t, err)
	assert.Equal(t, "svc1", o.ID)
	repo.AssertExpectations(t)
}

func TestCreateValidation(t *testing.T) {
	valid := Input{Name: "Cut", DurationMinutes: 30, PriceCents: 0}

	tests := []struct {
		name    string
		actor   auth.Actor
		mutate  func(in *Input)
		wantErr error
	}{
		{name: "member cannot create", actor: member, mutate: func(*Input) {}, wantErr: ErrPermissionDenied},
		{name: "name too short", actor: owner, mutate: func(in *Input) { in.Name = " a " }, wantErr: ErrInvalidName},
		{name: "name too long", actor: owner, mutate: func(in *Input) { in.Name = strings.Repeat("x", 101) }, wantErr: ErrInvalidName},
		{name: "description too long", actor: owner, mutate: func(in *Input) { in.Description = strPtr(strings.Repeat("d", 501)) }, wantErr: ErrInvalidDescription},
		{name: "duration too short", actor: owner, mutate: func(in *Input) { in.DurationMinutes = 4 }, wantErr: ErrInvalidDuration},
		{name: "duration too long", actor: owner, mutate: func(in *Input) { in.DurationMinutes = 481 }, wantErr: ErrInvalidDuration},
		{name: "negative price", actor: owner, mutate: func(in *Input) { in.PriceCents = -1 }, wantErr: ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRepo)
			in := valid
			tt.mutate(&in)
			_, err := NewService(repo, fakeOrgs{}).Create(context.Background(), tt.actor, in)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBoundaries(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	svc := NewService(repo, fakeOrgs{})

	for _, in := range []Input{
		{Name: "ab", DurationMinutes: 5},
		{Name: strings.Repeat("ş", 100), DurationMinutes: 480, Description: strPtr(strings.Repeat("d", 500))},
	} {
		_, err := svc.Create(context.Background(), owner, in)
		assert.NoError(t, err)
	}
}

func TestListHidesInactiveFromMembers(t *testing.T) {
	repo := new(mockRepo)
	repo.On("List", mock.Anything, Filter{OrganizationID: "org1", IncludeInactive: true}).Return([]*Offering{{ID: "a"}, {ID: "b"}}, nil).Once()
	repo.On("List", mock.Anything, Filter{OrganizationID: "org1"}).Return([]*Offering{{ID: "a"}}, nil).Twice()
	svc := NewService(repo, fakeOrgs{})

	all, err := svc.List(context.Background(), owner, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	active, err := svc.List(context.Background(), member, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	public, err := svc.ListPublic(context.Background(), "org1")
	require.NoError(t, err)
	assert.Len(t, public, 1)
	repo.AssertExpectations(t)
}

func TestUpdate(t *testing.T) {
	repo := new(mockRepo)
	existing := &Offering{ID: "svc1", OrganizationID: "org1", Name: "Cut", DurationMinutes: 30, PriceCents: 1000, IsActive: true}
	repo.On("GetByID", mock.Anything, "org1", "svc1").Return(existing, nil).Once()
	repo.On("Update", mock.Anything, existing).Return(nil).Once()

	o, err := NewService(repo, fakeOrgs{}).Update(context.Background(), owner, "svc1", Input{
		Name: "Cut & Wash", Description: strPtr("with shampoo"), DurationMinutes: 45, PriceCents: 1500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cut & Wash", o.Name)
	assert.Equal(t, 45, o.DurationMinutes)
	assert.Equal(t, int64(1500), o.PriceCents)
	assert.True(t, o.IsActive)
	repo.AssertExpectations(t)
}

func TestDeactivate(t *testing.T) {
	repo := new(mockRepo)
	repo.On("Deactivate", mock.Anything, "org1", "svc1").Return(nil).Once()
	svc := NewService(repo, fakeOrgs{})

	require.NoError(t, svc.Deactivate(context.Background(), owner, "svc1"))
	assert.ErrorIs(t, svc.Deactivate(context.Background(), member, "svc1"), ErrPermissionDenied)
	repo.AssertExpectations(t)
}

func TestAssignToStaff(t *testing.T) {
	t.Run("replaces with deduplicated ids", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CountInOrganization", mock.Anything, "org1", []string{"s1", "s2"}).Return(2, nil).Once()
		repo.On("ReplaceStaffServices", mock.Anything, "alice", []string{"s1", "s2"}).Return(nil).Once()

		err := NewService(repo, fakeOrgs{}).AssignToStaff(context.Background(), owner, "alice", []string{"s1", "s2", "s1"})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("empty clears without lookup", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("ReplaceStaffServices", mock.Anything, "alice", []string{}).Return(nil).Once()

		require.NoError(t, NewService(repo, fakeOrgs{}).AssignToStaff(context.Background(), owner, "alice", nil))
		repo.AssertNotCalled(t, "CountInOrganization", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign or inactive service", func(t *testing.T) {
		repo := new(mockRepo)
		repo.On("CountInOrganization", mock.Anything, "org1", []string{"s1", "other"}).Return(1, nil).Once()

		err := NewService(repo, fakeOrgs{}).AssignToStaff(context.Background(), owner, "alice", []string{"s1", "other"})
		assert.ErrorIs(t, err, ErrUnknownService)
		repo.AssertNotCalled(t, "ReplaceStaffServices", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown staff", func(t *testing.T) {
		err := NewService(new(mockRepo), fakeOrgs{}).AssignToStaff(context.Background(), owner, "carol", []string{"s1"})
		assert.ErrorIs(t, err, organization.ErrStaffNotFound)
	})

	t.Run("member cannot assign", func(t *testing.T) {
		err := NewService(new(mockRepo), fakeOrgs{}).AssignToStaff(context.Background(), member, "alice", []string{"s1"})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestListServiceIDsForStaff(t *testing.T) {
	repo := new(mockRepo)
	repo.On("ListServiceIDsForStaff", mock.Anything, "alice").Return([]string{"s1"}, nil).Once()
	svc := NewService(repo, fakeOrgs{})

	ids, err := svc.ListServiceIDsForStaff(context.Background(), member, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)

	_, err = svc.ListServiceIDsForStaff(context.Background(), member, "bob")
	assert.ErrorIs(t, err, ErrPermissionDenied)
	repo.AssertExpectations(t)
}
