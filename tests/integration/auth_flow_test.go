package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	identityapp "github.com/contactbook/backend/internal/application/identity"
	"github.com/contactbook/backend/internal/domain/shared"
	"github.com/contactbook/backend/internal/infrastructure/auth"
	"github.com/contactbook/backend/internal/infrastructure/config"
	"github.com/contactbook/backend/internal/infrastructure/mail"
	"github.com/contactbook/backend/internal/infrastructure/persistence"
)

// TestAuthFlow_Integration walks the full account lifecycle against a real
// database: signup, confirmation, login and refresh-token rotation.
func TestAuthFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	userRepo := persistence.NewGormUserRepository(testDB.DB)
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-test-secret-key-32chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		EmailTokenExpiration:   24 * time.Hour,
		Issuer:                 "contactbook-test",
	})
	logger := zap.NewNop()
	authService := identityapp.NewAuthService(userRepo, jwtService, mail.NewNopPublisher(logger), logger)
	ctx := context.Background()

	result, err := authService.Signup(ctx, identityapp.SignupInput{
		Username: "grace",
		Email:    "grace@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	require.NotZero(t, result.User.ID)
	assert.False(t, result.User.Confirmed)

	// Login is rejected until the email is confirmed
	_, err = authService.Login(ctx, identityapp.LoginInput{
		Email:    "grace@example.com",
		Password: "s3cretpass",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMAIL_NOT_CONFIRMED", domainErr.Code)

	emailToken, err := jwtService.GenerateEmailToken(result.User.ID, result.User.Email)
	require.NoError(t, err)

	message, err := authService.ConfirmEmail(ctx, emailToken)
	require.NoError(t, err)
	assert.Equal(t, "Email confirmed", message)

	// Confirming twice reports the already-confirmed state
	message, err = authService.ConfirmEmail(ctx, emailToken)
	require.NoError(t, err)
	assert.Equal(t, "Your email is already confirmed", message)

	login, err := authService.Login(ctx, identityapp.LoginInput{
		Email:    "grace@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	require.NotNil(t, login.Tokens)

	// Rotating the refresh token invalidates the previous one
	rotated, err := authService.Refresh(ctx, login.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)

	_, err = authService.Refresh(ctx, login.Tokens.RefreshToken)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_TOKEN", domainErr.Code)
}
