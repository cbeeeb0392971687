package ports

import (
	"context"

	"github.com/inkpress/blog-api/internal/core/domain"
)

// CreatePostInput carries everything needed to create a post. Image is
// optional; when present it is uploaded before the post is persisted.
type CreatePostInput struct {
	Title    string
	Category string
	Excerpt  string
	Content  string
	Author   string
	Tags     []string
	Image    *ImageUpload
}

// UpdatePostInput mirrors CreatePostInput for updates. Nil Tags keeps the
// existing tags. RemoveImage deletes the stored image without a replacement;
// it is ignored when a new Image is supplied.
type UpdatePostInput struct {
	Title       string
	Category    string
	Excerpt     string
	Content     string
	Author      string
	Tags        []string
	Image       *ImageUpload
	RemoveImage bool
}

// PostService defines use-case operations for blog posts.
type PostService interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	UpdatePost(ctx context.Context, id string, input UpdatePostInput) (*domain.Post, error)
	DeletePost(ctx context.Context, id string) error
}
