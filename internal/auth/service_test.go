package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/garzamfg/shopfloor-backend/internal/users"
	"github.com/garzamfg/shopfloor-backend/pkg/config"
	"github.com/garzamfg/shopfloor-backend/pkg/db/models"
	pkgerrors "github.com/garzamfg/shopfloor-backend/pkg/errors"
	"github.com/garzamfg/shopfloor-backend/pkg/security"
)

type stubStaffRepo struct {
	byEmail   map[string]*models.StaffUser
	created   []users.CreateStaffDTO
	createErr error
	logins    []uuid.UUID
}

func (s *stubStaffRepo) Create(_ context.Context, dto users.CreateStaffDTO) (*models.StaffUser, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, dto)
	return dto.ToModel(), nil
}

func (s *stubStaffRepo) FindByEmail(_ context.Context, email string) (*models.StaffUser, error) {
	user, ok := s.byEmail[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubStaffRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, _ time.Time) error {
	s.logins = append(s.logins, id)
	return nil
}

type stubSessionManager struct {
	accessIDs []string
	token     string
	err       error
}

func (s *stubSessionManager) Generate(_ context.Context, accessID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.accessIDs = append(s.accessIDs, accessID)
	return s.token, nil
}

func mustHashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password, config.PasswordConfig{})
	require.NoError(t, err)
	return hash
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "shopfloor-test",
		ExpirationMinutes: 15,
		RefreshTokenDays:  30,
	}
}

type authFixture struct {
	svc     Service
	repo    *stubStaffRepo
	session *stubSessionManager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := &stubStaffRepo{byEmail: map[string]*models.StaffUser{}}
	sess := &stubSessionManager{token: "refresh-token"}
	svc, err := NewService(ServiceParams{
		StaffRepo:      repo,
		SessionManager: sess,
		JWTConfig:      testJWTConfig(),
	})
	require.NoError(t, err)
	return &authFixture{svc: svc, repo: repo, session: sess}
}

func (f *authFixture) seedStaff(t *testing.T, email, password string, active bool) *models.StaffUser {
	t.Helper()
	user := &models.StaffUser{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: mustHashPassword(t, password),
		FullName:     "Test Operator",
		IsActive:     active,
	}
	f.repo.byEmail[email] = user
	return user
}

func TestLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	user := f.seedStaff(t, "ana@garzamfg.com", "workshop-pass-1", true)

	resp, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "  Ana@GarzaMFG.com ",
		Password: "workshop-pass-1",
	})
	require.NoError(t, err)
	require.NotNil(t, resp)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotNil(t, resp.User.LastLoginAt)

	require.Len(t, f.repo.logins, 1)
	assert.Equal(t, user.ID, f.repo.logins[0])
	require.Len(t, f.session.accessIDs, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	f.seedStaff(t, "ana@garzamfg.com", "workshop-pass-1", true)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "ana@garzamfg.com",
		Password: "not-the-password",
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
	assert.Empty(t, f.repo.logins)
}

func TestLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@garzamfg.com",
		Password: "whatever",
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestLoginInactiveUser(t *testing.T) {
	f := newAuthFixture(t)
	f.seedStaff(t, "ana@garzamfg.com", "workshop-pass-1", false)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "ana@garzamfg.com",
		Password: "workshop-pass-1",
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestRegisterNormalizesEmail(t *testing.T) {
	f := newAuthFixture(t)

	dto, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    " Luis@GarzaMFG.com ",
		Password: "long-enough-pass",
		FullName: " Luis Garza ",
	})
	require.NoError(t, err)
	assert.Equal(t, "luis@garzamfg.com", dto.Email)
	assert.Equal(t, "Luis Garza", dto.FullName)
	assert.True(t, dto.IsActive)

	require.Len(t, f.repo.created, 1)
	assert.NotEqual(t, "long-enough-pass", f.repo.created[0].PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)

	cases := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "long-enough-pass", FullName: "Luis"}},
		{"missing name", RegisterRequest{Email: "x@garzamfg.com", Password: "long-enough-pass"}},
		{"short password", RegisterRequest{Email: "x@garzamfg.com", Password: "short", FullName: "Luis"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Register(context.Background(), tc.req)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.repo.createErr = errors.New(`duplicate key value violates unique constraint "ux_staff_users_email"`)

	_, err := f.svc.Register(context.Background(), RegisterRequest{
		Email:    "ana@garzamfg.com",
		Password: "long-enough-pass",
		FullName: "Ana",
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}
