package services

import (
	"testing"

	"rent4u_backend/internal/auth"
	"rent4u_backend/internal/config"
	"rent4u_backend/internal/dto"
	"rent4u_backend/internal/email"
	"rent4u_backend/internal/models"
	"rent4u_backend/internal/repositories"
	"rent4u_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthFixture(t *testing.T) (AuthService, *gorm.DB) {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.TTL = 60
	cfg.JWT.RefreshTTL = 24
	config.AppConfig = cfg

	db := setupServiceDB(t)
	svc := NewAuthService(
		repositories.NewUserRepository(db),
		repositories.NewRefreshTokenRepository(db),
		email.NoopProvider{},
	)
	return svc, db
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Email:    "tenant@example.com",
		Password: "password123",
		Name:     "Test Tenant",
		Role:     "tenant",
	}
}

func TestRegister_IssuesTokenPair(t *testing.T) {
	svc, db := newAuthFixture(t)

	resp, err := svc.Register(registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "tenant@example.com", resp.User.Email)

	claims, err := auth.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.UserRoleTenant, claims.Role)

	// The stored refresh token is a hash, never the raw value.
	var stored models.RefreshToken
	require.NoError(t, db.First(&stored).Error)
	assert.NotEqual(t, resp.RefreshToken, stored.TokenHash)
	assert.Len(t, stored.TokenHash, 64)
}

func TestRegister_DuplicateEmailRejected(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(registerRequest())
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, 409, appErr.HTTPCode)
}

func TestRegister_WeakPasswordRejected(t *testing.T) {
	svc, _ := newAuthFixture(t)

	req := registerRequest()
	req.Password = "short"
	_, err := svc.Register(req)
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc, db := newAuthFixture(t)

	_, err := svc.Register(registerRequest())
	require.NoError(t, err)

	resp, err := svc.Login(&dto.LoginRequest{Email: "tenant@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(&dto.LoginRequest{Email: "tenant@example.com", Password: "wrong"})
	require.Error(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	require.Error(t, err)

	// Suspended accounts cannot log in with valid credentials.
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "tenant@example.com").
		Update("status", models.UserStatusSuspended).Error)
	_, err = svc.Login(&dto.LoginRequest{Email: "tenant@example.com", Password: "password123"})
	require.Error(t, err)
}

func TestRefresh_RotatesToken(t *testing.T) {
	svc, _ := newAuthFixture(t)

	registered, err := svc.Register(registerRequest())
	require.NoError(t, err)

	refreshed, err := svc.Refresh(registered.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, registered.RefreshToken, refreshed.RefreshToken)

	// The presented token was revoked by the rotation.
	_, err = svc.Refresh(registered.RefreshToken)
	require.Error(t, err)

	// The new one still works.
	_, err = svc.Refresh(refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestLogout_UnknownTokenIsNoop(t *testing.T) {
	svc, _ := newAuthFixture(t)
	require.NoError(t, svc.Logout("never-issued"))
}

func TestChangePassword_RevokesAllSessions(t *testing.T) {
	svc, _ := newAuthFixture(t)

	registered, err := svc.Register(registerRequest())
	require.NoError(t, err)

	// A second session.
	second, err := svc.Login(&dto.LoginRequest{Email: "tenant@example.com", Password: "password123"})
	require.NoError(t, err)

	err = svc.ChangePassword(registered.User.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "password123",
		NewPassword:     "newpassword456",
		ConfirmPassword: "newpassword456",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(registered.RefreshToken)
	require.Error(t, err)
	_, err = svc.Refresh(second.RefreshToken)
	require.Error(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "tenant@example.com", Password: "password123"})
	require.Error(t, err)
	_, err = svc.Login(&dto.LoginRequest{Email: "tenant@example.com", Password: "newpassword456"})
	require.NoError(t, err)
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	svc, _ := newAuthFixture(t)

	registered, err := svc.Register(registerRequest())
	require.NoError(t, err)

	err = svc.ChangePassword(registered.User.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "newpassword456",
		ConfirmPassword: "newpassword456",
	})
	require.Error(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newAuthFixture(t)

	registered, err := svc.Register(registerRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(registered.User.ID, &dto.UpdateProfileRequest{
		Name:  "Renamed",
		Phone: "+441234567890",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "+441234567890", updated.Phone)

	// Empty fields leave the stored values alone.
	updated, err = svc.UpdateProfile(registered.User.ID, &dto.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
}
