package service

import (
	"context"
	"testing"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/infrastructure/repository/memory"
	"github.com/bkaradeniz/veresiye-api/pkg/apperror"
	"github.com/bkaradeniz/veresiye-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*memory.Store, *AuthService) {
	t.Helper()
	store := memory.NewStore()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return store, NewAuthService(store.Users(), jwtManager)
}

func TestRegisterAndLogin(t *testing.T) {
	_, auth := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, &RegisterInput{
		FirstName: "Burak",
		LastName:  "Karadeniz",
		Email:     "burak@example.com",
		Password:  "gizli-parola",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCashier, user.Role)
	assert.NotEqual(t, "gizli-parola", user.Password)

	output, err := auth.Login(ctx, &LoginInput{
		Email:    "burak@example.com",
		Password: "gizli-parola",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)

	_, err = auth.Login(ctx, &LoginInput{
		Email:    "burak@example.com",
		Password: "yanlış",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = auth.Login(ctx, &LoginInput{
		Email:    "yok@example.com",
		Password: "gizli-parola",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	_, auth := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterInput{
		Email:    "admin@example.com",
		Password: "parola123",
		Role:     entity.RoleAdmin,
	})
	require.NoError(t, err)

	// Duplicate email is refused.
	_, err = auth.Register(ctx, &RegisterInput{
		Email:    "admin@example.com",
		Password: "parola123",
	})
	assert.Error(t, err)

	// Unknown roles are refused.
	_, err = auth.Register(ctx, &RegisterInput{
		Email:    "other@example.com",
		Password: "parola123",
		Role:     "super-admin",
	})
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	_, auth := newAuthFixture(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, &RegisterInput{
		Email:    "kasiyer@example.com",
		Password: "eski-parola",
	})
	require.NoError(t, err)

	err = auth.ChangePassword(ctx, &ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "yanlış",
		NewPassword:     "yeni-parola",
	})
	assert.Error(t, err)

	err = auth.ChangePassword(ctx, &ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "eski-parola",
		NewPassword:     "yeni-parola",
	})
	require.NoError(t, err)

	_, err = auth.Login(ctx, &LoginInput{Email: "kasiyer@example.com", Password: "yeni-parola"})
	assert.NoError(t, err)
}

func TestRefreshToken(t *testing.T) {
	_, auth := newAuthFixture(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, &RegisterInput{
		Email:    "kasa@example.com",
		Password: "parola123",
	})
	require.NoError(t, err)

	output, err := auth.Login(ctx, &LoginInput{Email: "kasa@example.com", Password: "parola123"})
	require.NoError(t, err)

	refreshed, err := auth.RefreshToken(ctx, output.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = auth.RefreshToken(ctx, "not-a-token")
	assert.Error(t, err)
}
