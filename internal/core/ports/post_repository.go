package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// PostRepository defines persistence for blog posts.
type PostRepository interface {
	// Create inserts the post; a slug collision yields domain.ErrSlugTaken.
	Create(ctx context.Context, post *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Post, error)
	// FindAll returns every post, newest first.
	FindAll(ctx context.Context) ([]*domain.Post, error)
	Update(ctx context.Context, post *domain.Post) error
	DeleteByID(ctx context.Context, id string) error
}
