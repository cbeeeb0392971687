package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// oneTimeTokenTTL is the validity window for verification codes and password
// reset tokens.
const oneTimeTokenTTL = time.Hour

// LoginLimiter abstracts the failed-login throttle (Redis). A nil limiter
// disables throttling.
type LoginLimiter interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Reset(ctx context.Context, email string) error
}

// AuthService implements the account lifecycle on top of the user repository,
// the token service and the mailer. All durable state lives in the
// repository; each operation performs at most one persisted mutation after
// validation, so there is no partial-state corruption path.
type AuthService struct {
	users     ports.UserRepository
	tokens    ports.TokenService
	mailer    ports.Mailer
	limiter   LoginLimiter
	clientURL string
	log       zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	mailer ports.Mailer,
	limiter LoginLimiter,
	clientURL string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		mailer:    mailer,
		limiter:   limiter,
		clientURL: clientURL,
		log:       log,
	}
}

// Signup creates an unverified account, issues session tokens right away and
// dispatches the verification code. Mail failures never fail the signup.
func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*domain.User, *ports.TokenPair, error) {
	if name == "" || email == "" || password == "" {
		return nil, nil, domain.ErrMissingFields
	}

	if existing, err := s.users.FindByEmail(ctx, email); err == nil && existing != nil {
		return nil, nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	code, err := generateVerificationCode()
	if err != nil {
		return nil, nil, fmt.Errorf("generate verification code: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:                     name,
		Email:                    email,
		PasswordHash:             string(hash),
		Role:                     domain.RoleUser,
		IsVerified:               false,
		VerificationToken:        code,
		VerificationTokenExpires: now.Add(oneTimeTokenTTL),
		LastLogin:                now,
		CreatedAt:                now,
		UpdatedAt:                now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.Issue(created.ID, created.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}

	if err := s.mailer.SendVerificationEmail(ctx, created.Email, code); err != nil {
		s.log.Warn().Err(err).Str("email", created.Email).Msg("failed to dispatch verification email")
	}

	s.log.Info().Str("user_id", created.ID).Msg("user signed up")
	return created, pair, nil
}

// VerifyEmail consumes a verification code. Codes are single-use: the fields
// are cleared on success, so re-submitting the same code fails.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.users.FindByVerificationToken(ctx, token)
	if err != nil || user == nil {
		return nil, domain.ErrInvalidVerificationToken
	}

	user.IsVerified = true
	user.VerificationToken = ""
	user.VerificationTokenExpires = time.Time{}
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
		s.log.Warn().Err(err).Str("email", user.Email).Msg("failed to dispatch welcome email")
	}

	s.log.Info().Str("user_id", user.ID).Msg("email verified")
	return user, nil
}

// Login authenticates by email and password. Unverified accounts are rejected
// after the password check, so the caller can distinguish 403 from 400.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *ports.TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrMissingFields
	}

	if s.limiter != nil {
		blocked, err := s.limiter.TooManyAttempts(ctx, email)
		if err != nil {
			// Throttle is best-effort: fail open when Redis is unreachable.
			s.log.Warn().Err(err).Msg("login throttle check failed")
		} else if blocked {
			return nil, nil, domain.ErrTooManyLoginAttempts
		}
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, nil, domain.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		if s.limiter != nil {
			if err := s.limiter.RecordFailure(ctx, email); err != nil {
				s.log.Warn().Err(err).Msg("failed to record login failure")
			}
		}
		return nil, nil, domain.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, nil, domain.ErrEmailNotVerified
	}

	pair, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}

	user.LastLogin = time.Now().UTC()
	user.UpdatedAt = user.LastLogin
	if err := s.users.Update(ctx, user); err != nil {
		return nil, nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, pair, nil
}

// ForgotPassword opens a reset window and mails a link embedding the token.
// Note: an unknown email is reported to the caller, which permits account
// enumeration; kept as-is to preserve the documented HTTP contract.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return domain.ErrUserNotFound
	}

	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	user.ResetPasswordToken = token
	user.ResetPasswordExpires = time.Now().UTC().Add(oneTimeTokenTTL)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, resetURL); err != nil {
		s.log.Warn().Err(err).Str("email", user.Email).Msg("failed to dispatch reset email")
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset requested")
	return nil
}

// ResetPassword consumes a reset token and replaces the password hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return domain.ErrMissingFields
	}

	user, err := s.users.FindByResetToken(ctx, token)
	if err != nil || user == nil {
		return domain.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = time.Time{}
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	if err := s.mailer.SendResetSuccessEmail(ctx, user.Email); err != nil {
		s.log.Warn().Err(err).Str("email", user.Email).Msg("failed to dispatch reset success email")
	}

	s.log.Info().Str("user_id", user.ID).Msg("password reset")
	return nil
}

// ChangePassword replaces the password of an authenticated user. Previously
// issued refresh tokens stay valid; tokens are stateless and no denylist
// exists.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (*domain.User, error) {
	if oldPassword == "" || newPassword == "" {
		return nil, domain.ErrMissingFields
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil, domain.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return nil, domain.ErrInvalidOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("password changed")
	return user, nil
}

// Refresh trades a valid refresh token for a fresh pair. The user is
// re-resolved by id so the new tokens carry the current role, not the role
// cached in the old token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *ports.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, ports.RefreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil || user == nil {
		return nil, nil, domain.ErrUserNotFound
	}

	pair, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("issue tokens: %w", err)
	}
	return user, pair, nil
}

// DeleteAccount hard-deletes the user record. Posts and comments are left to
// their own stores' policies.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.users.DeleteByID(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("user deleted")
	return nil
}

// ListUsers returns all accounts (admin operation).
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindAll(ctx)
}

// generateVerificationCode returns a 6-digit numeric code.
func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// generateResetToken returns 32 random bytes as hex.
func generateResetToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
