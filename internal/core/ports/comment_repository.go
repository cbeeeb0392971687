package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// CommentRepository defines persistence for post comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	// FindByPost returns a post's comments, oldest first.
	FindByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	Update(ctx context.Context, comment *domain.Comment) error
	DeleteByID(ctx context.Context, id string) error
}
