package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/core/domain"
)

type stubNewsletterRepo struct {
	subs   map[string]*domain.Subscriber
	nextID int
}

func newStubNewsletterRepo() *stubNewsletterRepo {
	return &stubNewsletterRepo{subs: make(map[string]*domain.Subscriber)}
}

func (r *stubNewsletterRepo) Create(_ context.Context, sub *domain.Subscriber) (*domain.Subscriber, error) {
	if _, ok := r.subs[sub.Email]; ok {
		return nil, domain.ErrAlreadySubscribed
	}
	r.nextID++
	copy := *sub
	copy.ID = fmt.Sprintf("sub_%d", r.nextID)
	r.subs[copy.Email] = &copy
	return &copy, nil
}

func (r *stubNewsletterRepo) FindByEmail(_ context.Context, email string) (*domain.Subscriber, error) {
	if s, ok := r.subs[email]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, nil
}

func (r *stubNewsletterRepo) FindAll(_ context.Context) ([]*domain.Subscriber, error) {
	out := make([]*domain.Subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		copy := *s
		out = append(out, &copy)
	}
	return out, nil
}

func TestNewsletterService_Subscribe(t *testing.T) {
	svc := NewNewsletterService(newStubNewsletterRepo(), zerolog.Nop())

	if err := svc.Subscribe(context.Background(), "reader@example.com"); err != nil {
		t.Fatalf("Subscribe returned error: %v", err)
	}

	subs, err := svc.ListSubscribers(context.Background())
	if err != nil {
		t.Fatalf("ListSubscribers returned error: %v", err)
	}
	if len(subs) != 1 || subs[0].Email != "reader@example.com" {
		t.Fatalf("unexpected subscribers: %+v", subs)
	}
}

func TestNewsletterService_Subscribe_Duplicate(t *testing.T) {
	svc := NewNewsletterService(newStubNewsletterRepo(), zerolog.Nop())

	if err := svc.Subscribe(context.Background(), "reader@example.com"); err != nil {
		t.Fatalf("first subscribe failed: %v", err)
	}
	if err := svc.Subscribe(context.Background(), "reader@example.com"); err != domain.ErrAlreadySubscribed {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}
}

func TestNewsletterService_Subscribe_MissingEmail(t *testing.T) {
	svc := NewNewsletterService(newStubNewsletterRepo(), zerolog.Nop())

	if err := svc.Subscribe(context.Background(), ""); err != domain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}
