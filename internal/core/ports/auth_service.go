package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// AuthService orchestrates the account lifecycle:
// signup → verify → login → refresh → logout → reset.
type AuthService interface {
	// Signup creates an unverified account and logs the user in immediately
	// (deliberate product choice; login stays blocked until verification).
	Signup(ctx context.Context, name, email, password string) (*domain.User, *TokenPair, error)
	VerifyEmail(ctx context.Context, token string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) (*domain.User, error)
	// Refresh verifies a refresh token, re-resolves the user by id and
	// reissues both tokens with the user's current role.
	Refresh(ctx context.Context, refreshToken string) (*domain.User, *TokenPair, error)
	DeleteAccount(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
