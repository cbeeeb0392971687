package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// NewsletterRepository defines persistence for the subscriber list.
type NewsletterRepository interface {
	// Create inserts a subscriber; a duplicate email yields
	// domain.ErrAlreadySubscribed.
	Create(ctx context.Context, sub *domain.Subscriber) (*domain.Subscriber, error)
	FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	FindAll(ctx context.Context) ([]*domain.Subscriber, error)
}

// NewsletterService defines use-case operations for the newsletter list.
type NewsletterService interface {
	Subscribe(ctx context.Context, email string) error
	ListSubscribers(ctx context.Context) ([]*domain.Subscriber, error)
}
