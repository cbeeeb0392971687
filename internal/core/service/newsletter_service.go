package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

// NewsletterService manages the subscriber list.
type NewsletterService struct {
	repo ports.NewsletterRepository
	log  zerolog.Logger
}

func NewNewsletterService(repo ports.NewsletterRepository, log zerolog.Logger) *NewsletterService {
	return &NewsletterService{repo: repo, log: log}
}

func (s *NewsletterService) Subscribe(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrMissingFields
	}

	if existing, err := s.repo.FindByEmail(ctx, email); err == nil && existing != nil {
		return domain.ErrAlreadySubscribed
	}

	sub := &domain.Subscriber{Email: email, CreatedAt: time.Now().UTC()}
	if _, err := s.repo.Create(ctx, sub); err != nil {
		return err
	}

	s.log.Info().Str("email", email).Msg("newsletter subscription added")
	return nil
}

func (s *NewsletterService) ListSubscribers(ctx context.Context) ([]*domain.Subscriber, error) {
	return s.repo.FindAll(ctx)
}
