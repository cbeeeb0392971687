package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// CommentView pairs a comment with its resolved author. The author comes from
// a fresh user lookup at read time, not from data duplicated on the comment.
type CommentView struct {
	Comment domain.Comment        `json:"comment"`
	Author  *domain.CommentAuthor `json:"author,omitempty"`
}

// CommentService defines use-case operations for comments.
// Update is owner-only; Delete allows the owner or an admin.
type CommentService interface {
	ListForPost(ctx context.Context, postID string) ([]CommentView, error)
	Create(ctx context.Context, postID, userID, content string) (*CommentView, error)
	Update(ctx context.Context, commentID, userID, content string) (*CommentView, error)
	Delete(ctx context.Context, commentID, userID, role string) error
}
