package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts.
//
// The token lookups must only match records whose corresponding expiry is in
// the future; expired tokens behave exactly like unknown tokens.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*domain.User, error)
	FindByResetToken(ctx context.Context, token string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// Update replaces all mutable fields of the stored record.
	Update(ctx context.Context, user *domain.User) error
	DeleteByID(ctx context.Context, id string) error
}
