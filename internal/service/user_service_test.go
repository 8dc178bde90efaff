package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrd-mh/pah-award-api/internal/dto"
	"github.com/wrd-mh/pah-award-api/internal/models"
	appErrors "github.com/wrd-mh/pah-award-api/pkg/errors"
)

type userRepoStub struct {
	users       map[string]*models.User
	byEmail     map[string]*models.User
	adminCount  int
	adminErr    error
	created     []*models.User
	updated     []*models.User
	deleted     []string
	auditLogged []*models.AuditLog
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{
		users:   map[string]*models.User{},
		byEmail: map[string]*models.User{},
	}
}

func (s *userRepoStub) add(u *models.User) {
	s.users[u.ID] = u
	s.byEmail[u.Email] = u
}

func (s *userRepoStub) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	s.created = append(s.created, user)
	s.add(user)
	return nil
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	s.updated = append(s.updated, user)
	s.add(user)
	return nil
}

func (s *userRepoStub) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	if u, ok := s.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (s *userRepoStub) CountActiveAdmins(ctx context.Context) (int, error) {
	return s.adminCount, s.adminErr
}

func (s *userRepoStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	s.auditLogged = append(s.auditLogged, log)
	return nil
}

func strPtr(s string) *string { return &s }

func TestUserCreateNomineeRequiresAssociation(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "farmer@example.com",
		Password: "secret1",
		FullName: "Farmer One",
		Role:     models.RoleNominee,
	}, "admin-1", models.LoginRequest{})

	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	require.Empty(t, repo.created)
}

func TestUserCreateCommitteeRejectsAssociation(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "circle@wrd.gov.in",
		Password: "secret1",
		FullName: "Circle Member",
		Role:     models.RoleCircleCommittee,
		WUAID:    strPtr("wua-1"),
	}, "admin-1", models.LoginRequest{})

	require.Error(t, err)
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUserCreateWritesAuditTrail(t *testing.T) {
	repo := newUserRepoStub()
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "Farmer@Example.com",
		Password: "secret1",
		FullName: "Farmer One",
		Role:     models.RoleNominee,
		WUAID:    strPtr("wua-1"),
	}, "admin-1", models.LoginRequest{IP: "10.0.0.1"})

	require.NoError(t, err)
	require.Equal(t, "farmer@example.com", user.Email)
	require.True(t, user.Active)
	require.NotEqual(t, "secret1", user.PasswordHash)

	require.Len(t, repo.auditLogged, 1)
	entry := repo.auditLogged[0]
	require.Equal(t, models.AuditActionUserCreate, entry.Action)
	require.Equal(t, "admin-1", *entry.UserID)
	require.Equal(t, "10.0.0.1", entry.IPAddress)
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo := newUserRepoStub()
	repo.add(&models.User{ID: "u-1", Email: "taken@example.com", Role: models.RoleAdmin, Active: true})
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreateUserRequest{
		Email:    "taken@example.com",
		Password: "secret1",
		FullName: "Someone",
		Role:     models.RoleAdmin,
	}, "admin-1", models.LoginRequest{})

	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestUserDeleteRefusesLastAdmin(t *testing.T) {
	repo := newUserRepoStub()
	repo.add(&models.User{ID: "admin-2", Email: "a@wrd.gov.in", Role: models.RoleAdmin, Active: true})
	repo.adminCount = 1
	svc := NewUserService(repo, nil, nil)

	err := svc.Delete(context.Background(), "admin-2", "admin-1", models.LoginRequest{})

	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.Empty(t, repo.deleted)
}

func TestUserDeleteRefusesSelf(t *testing.T) {
	repo := newUserRepoStub()
	repo.add(&models.User{ID: "admin-1", Email: "a@wrd.gov.in", Role: models.RoleAdmin, Active: true})
	repo.adminCount = 3
	svc := NewUserService(repo, nil, nil)

	err := svc.Delete(context.Background(), "admin-1", "admin-1", models.LoginRequest{})

	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestUserDeleteSoftDeletesAndAudits(t *testing.T) {
	repo := newUserRepoStub()
	repo.add(&models.User{ID: "u-9", Email: "n@example.com", Role: models.RoleNominee, Active: true})
	svc := NewUserService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "u-9", "admin-1", models.LoginRequest{}))
	require.Equal(t, []string{"u-9"}, repo.deleted)
	require.Len(t, repo.auditLogged, 1)
	require.Equal(t, models.AuditActionUserDelete, repo.auditLogged[0].Action)
}

func TestUserUpdateRefusesDeactivatingLastAdmin(t *testing.T) {
	repo := newUserRepoStub()
	repo.add(&models.User{ID: "admin-2", Email: "a@wrd.gov.in", Role: models.RoleAdmin, Active: true})
	repo.adminCount = 1
	svc := NewUserService(repo, nil, nil)

	inactive := false
	_, err := svc.Update(context.Background(), "admin-2", dto.UpdateUserRequest{Active: &inactive}, "admin-1", models.LoginRequest{})

	require.Error(t, err)
	require.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	require.Empty(t, repo.updated)
}

func TestUserUpdateMutatesNameOnly(t *testing.T) {
	repo := newUserRepoStub()
	repo.add(&models.User{ID: "u-2", Email: "n@example.com", Role: models.RoleNominee, FullName: "Old Name", Active: true})
	svc := NewUserService(repo, nil, nil)

	name := "New Name"
	updated, err := svc.Update(context.Background(), "u-2", dto.UpdateUserRequest{FullName: &name}, "admin-1", models.LoginRequest{})

	require.NoError(t, err)
	require.Equal(t, "New Name", updated.FullName)
	require.Equal(t, models.RoleNominee, updated.Role)
	require.True(t, updated.Active)
	require.Len(t, repo.auditLogged, 1)
}

func TestUserGetNotFound(t *testing.T) {
	svc := NewUserService(newUserRepoStub(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")

	require.Error(t, err)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
