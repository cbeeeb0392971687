package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

const maxCommentLength = 500

// CommentService implements per-post comments. Authors are resolved from the
// user repository at read time so renamed or deleted accounts are reflected
// immediately.
type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	users    ports.UserRepository
	log      zerolog.Logger
}

func NewCommentService(
	comments ports.CommentRepository,
	posts ports.PostRepository,
	users ports.UserRepository,
	log zerolog.Logger,
) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users, log: log}
}

func (s *CommentService) ListForPost(ctx context.Context, postID string) ([]ports.CommentView, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.FindByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	authors := make(map[string]*domain.CommentAuthor, len(comments))
	views := make([]ports.CommentView, 0, len(comments))
	for _, c := range comments {
		author, ok := authors[c.UserID]
		if !ok {
			author = s.resolveAuthor(ctx, c.UserID)
			authors[c.UserID] = author
		}
		views = append(views, ports.CommentView{Comment: *c, Author: author})
	}
	return views, nil
}

func (s *CommentService) Create(ctx context.Context, postID, userID, content string) (*ports.CommentView, error) {
	if content == "" || len(content) > maxCommentLength {
		return nil, domain.ErrMissingFields
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	comment := &domain.Comment{
		Content:   content,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	created, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("comment_id", created.ID).Str("post_id", postID).Msg("comment created")
	return &ports.CommentView{Comment: *created, Author: s.resolveAuthor(ctx, userID)}, nil
}

// Update is restricted to the comment's owner.
func (s *CommentService) Update(ctx context.Context, commentID, userID, content string) (*ports.CommentView, error) {
	if content == "" || len(content) > maxCommentLength {
		return nil, domain.ErrMissingFields
	}

	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, domain.ErrForbidden
	}

	comment.Content = content
	comment.UpdatedAt = time.Now().UTC()
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}

	return &ports.CommentView{Comment: *comment, Author: s.resolveAuthor(ctx, userID)}, nil
}

// Delete is allowed for the comment's owner or an admin.
func (s *CommentService) Delete(ctx context.Context, commentID, userID, role string) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && role != domain.RoleAdmin {
		return domain.ErrForbidden
	}

	if err := s.comments.DeleteByID(ctx, commentID); err != nil {
		return err
	}

	s.log.Info().Str("comment_id", commentID).Msg("comment deleted")
	return nil
}

// resolveAuthor returns nil when the user no longer exists; the comment is
// still shown, just without author details.
func (s *CommentService) resolveAuthor(ctx context.Context, userID string) *domain.CommentAuthor {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil
	}
	return &domain.CommentAuthor{ID: user.ID, Name: user.Name, Email: user.Email}
}
