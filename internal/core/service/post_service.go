package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// PostService implements blog post CRUD including image orchestration:
// upload on create, delete-then-replace on update, cleanup on delete.
type PostService struct {
	repo   ports.PostRepository
	images ports.ImageStore
	log    zerolog.Logger
}

func NewPostService(repo ports.PostRepository, images ports.ImageStore, log zerolog.Logger) *PostService {
	return &PostService{repo: repo, images: images, log: log}
}

func (s *PostService) CreatePost(ctx context.Context, input ports.CreatePostInput) (*domain.Post, error) {
	if input.Title == "" || input.Content == "" || input.Author == "" {
		return nil, domain.ErrMissingFields
	}
	category := domain.PostCategory(input.Category)
	if !category.IsValid() {
		return nil, domain.ErrInvalidCategory
	}

	var mainImage domain.PostImage
	if input.Image != nil {
		img, err := s.images.Upload(ctx, *input.Image)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		mainImage = img
	}

	slug, err := s.uniqueSlug(ctx, input.Title)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	post := &domain.Post{
		Title:       input.Title,
		Category:    category,
		Excerpt:     input.Excerpt,
		Content:     input.Content,
		Author:      input.Author,
		Slug:        slug,
		IsPublished: true,
		MainImage:   mainImage,
		Tags:        normalizeTags(input.Tags),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		// Orphaned upload: the post never existed, remove its image.
		if mainImage.FileID != "" {
			if delErr := s.images.Delete(ctx, mainImage.FileID); delErr != nil {
				s.log.Warn().Err(delErr).Str("file_id", mainImage.FileID).Msg("failed to clean up image after create failure")
			}
		}
		return nil, err
	}

	s.log.Info().Str("post_id", created.ID).Str("slug", created.Slug).Msg("post created")
	return created, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *PostService) GetPostBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *PostService) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	return s.repo.FindAll(ctx)
}

func (s *PostService) UpdatePost(ctx context.Context, id string, input ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Category != "" {
		category := domain.PostCategory(input.Category)
		if !category.IsValid() {
			return nil, domain.ErrInvalidCategory
		}
		post.Category = category
	}

	switch {
	case input.Image != nil:
		if post.MainImage.FileID != "" {
			if err := s.images.Delete(ctx, post.MainImage.FileID); err != nil {
				s.log.Warn().Err(err).Str("file_id", post.MainImage.FileID).Msg("failed to delete replaced image")
			}
		}
		img, err := s.images.Upload(ctx, *input.Image)
		if err != nil {
			return nil, fmt.Errorf("upload image: %w", err)
		}
		post.MainImage = img
	case input.RemoveImage && post.MainImage.FileID != "":
		if err := s.images.Delete(ctx, post.MainImage.FileID); err != nil {
			s.log.Warn().Err(err).Str("file_id", post.MainImage.FileID).Msg("failed to delete removed image")
		}
		post.MainImage = domain.PostImage{}
	}

	if input.Title != "" {
		post.Title = input.Title
	}
	if input.Excerpt != "" {
		post.Excerpt = input.Excerpt
	}
	if input.Content != "" {
		post.Content = input.Content
	}
	if input.Author != "" {
		post.Author = input.Author
	}
	if input.Tags != nil {
		post.Tags = normalizeTags(input.Tags)
	}
	post.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info().Str("post_id", post.ID).Msg("post updated")
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id string) error {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	// Image cleanup is best-effort; the post row is the source of truth.
	for _, img := range append([]domain.PostImage{post.MainImage}, post.OtherImages...) {
		if img.FileID == "" {
			continue
		}
		if err := s.images.Delete(ctx, img.FileID); err != nil {
			s.log.Warn().Err(err).Str("file_id", img.FileID).Msg("failed to delete post image")
		}
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.log.Info().Str("post_id", id).Msg("post deleted")
	return nil
}

// uniqueSlug slugifies the title and, when taken, appends a random suffix.
func (s *PostService) uniqueSlug(ctx context.Context, title string) (string, error) {
	slug := slugify(title)
	if slug == "" {
		slug = "post"
	}
	if _, err := s.repo.FindBySlug(ctx, slug); err != nil {
		// Not found means the slug is free.
		return slug, nil
	}
	return fmt.Sprintf("%s-%s", slug, randomSuffix()), nil
}

// slugify lowercases the title and collapses every non-alphanumeric run into
// a single hyphen.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// randomSuffix returns a short hex discriminator for colliding slugs.
func randomSuffix() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%06x", time.Now().UnixNano()&0xFFFFFF)
	}
	return fmt.Sprintf("%06x", b)
}

// normalizeTags trims whitespace and drops empty entries.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
