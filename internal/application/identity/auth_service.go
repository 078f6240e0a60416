package identity

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/contactbook/backend/internal/domain/identity"
	"github.com/contactbook/backend/internal/domain/shared"
	"github.com/contactbook/backend/internal/infrastructure/auth"
	"github.com/contactbook/backend/internal/infrastructure/mail"
)

// AuthService handles registration, authentication and email confirmation
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	mailer     mail.Publisher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	mailer mail.Publisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger,
	}
}

// Signup registers a new account and queues a confirmation email
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*SignupResult, error) {
	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		s.logger.Warn("Signup attempt for existing email", zap.String("email", input.Email))
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Account already exists")
	}

	user, err := identity.NewUser(input.Username, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
	)

	if err := s.sendConfirmation(ctx, user); err != nil {
		// Registration stands even if the mail event cannot be queued;
		// the user can request a new confirmation mail later.
		s.logger.Error("Failed to queue confirmation mail", zap.Error(err), zap.Uint("user_id", user.ID))
	}

	return &SignupResult{
		User:   ToUserResponse(user),
		Detail: "User successfully created. Check your email for confirmation.",
	}, nil
}

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email")
		}
		return nil, err
	}

	if !user.Confirmed {
		s.logger.Warn("Login attempt with unconfirmed email", zap.String("email", input.Email))
		return nil, shared.NewDomainError("EMAIL_NOT_CONFIRMED", "Email not confirmed")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid password")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Refresh rotates the token pair using a valid refresh token. The presented
// token must match the one stored for the user, so a stolen token stops
// working after its first use.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid refresh token")
		}
		return nil, err
	}

	if user.RefreshToken != refreshToken {
		s.logger.Warn("Refresh token mismatch, revoking stored token", zap.Uint("user_id", user.ID))
		user.SetRefreshToken("")
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to revoke refresh token", zap.Error(err))
		}
		return nil, shared.NewDomainError("INVALID_TOKEN", "Invalid refresh token")
	}

	return s.issueTokens(ctx, user)
}

// ConfirmEmail marks the account named by the token as confirmed
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (string, error) {
	claims, err := s.jwtService.ValidateEmailToken(token)
	if err != nil {
		return "", shared.NewDomainError("INVALID_TOKEN", "Invalid token for email verification")
	}

	user, err := s.userRepo.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.NewDomainError("INVALID_TOKEN", "Invalid token for email verification")
		}
		return "", err
	}

	if user.Confirmed {
		return "Your email is already confirmed", nil
	}

	user.Confirm()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", err
	}

	s.logger.Info("Email confirmed", zap.Uint("user_id", user.ID))
	return "Email confirmed", nil
}

// RequestConfirmationEmail queues a new confirmation mail. The response does
// not reveal whether the address belongs to an account.
func (s *AuthService) RequestConfirmationEmail(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "Check your email for confirmation.", nil
		}
		return "", err
	}

	if user.Confirmed {
		return "Your email is already confirmed", nil
	}

	if err := s.sendConfirmation(ctx, user); err != nil {
		return "", err
	}
	return "Check your email for confirmation.", nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *identity.User) (*auth.TokenPair, error) {
	tokens, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
	if err != nil {
		return nil, err
	}

	user.SetRefreshToken(tokens.RefreshToken)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (s *AuthService) sendConfirmation(ctx context.Context, user *identity.User) error {
	token, err := s.jwtService.GenerateEmailToken(user.ID, user.Email)
	if err != nil {
		return err
	}
	return s.mailer.PublishConfirmation(ctx, user.ID, user.Email, user.Username, token)
}
