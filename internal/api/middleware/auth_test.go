package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/service"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) { return u, nil }

func (r *stubUserRepo) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByVerificationToken(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) { return nil, nil }

func (r *stubUserRepo) Update(_ context.Context, _ *domain.User) error { return nil }

func (r *stubUserRepo) DeleteByID(_ context.Context, _ string) error { return nil }

func guardFixture(users map[string]*domain.User) (*service.TokenService, echo.MiddlewareFunc) {
	tokens := service.NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	return tokens, AccessGuard(tokens, &stubUserRepo{users: users})
}

func newGuardContext(t *testing.T, cookie string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: cookie})
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAccessGuard_ValidToken(t *testing.T) {
	user := &domain.User{ID: "user_1", Name: "Alice", Role: domain.RoleAdmin}
	tokens, guard := guardFixture(map[string]*domain.User{"user_1": user})

	pair, err := tokens.Issue("user_1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}

	c, rec := newGuardContext(t, pair.AccessToken)
	called := false
	handler := guard(func(c echo.Context) error {
		called = true
		got, ok := c.Get("user").(*domain.User)
		if !ok || got.ID != "user_1" {
			t.Fatalf("user not stored in context: %+v", c.Get("user"))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAccessGuard_MissingCookie(t *testing.T) {
	_, guard := guardFixture(nil)

	c, _ := newGuardContext(t, "")
	handler := guard(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAccessGuard_ExpiredToken(t *testing.T) {
	tokens := service.NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	guard := AccessGuard(tokens, &stubUserRepo{})

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   "user_1",
		"role": domain.RoleUser,
		"iat":  time.Now().Add(-2 * time.Hour).Unix(),
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := expired.SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	c, _ := newGuardContext(t, signed)
	handler := guard(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err = handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message != "access token expired" {
		t.Fatalf("expected expiry message, got %v", he.Message)
	}
}

func TestAccessGuard_GarbageToken(t *testing.T) {
	_, guard := guardFixture(nil)

	c, _ := newGuardContext(t, "not-a-token")
	handler := guard(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestAccessGuard_DeletedUser(t *testing.T) {
	tokens, guard := guardFixture(map[string]*domain.User{})

	pair, err := tokens.Issue("ghost", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue tokens: %v", err)
	}

	c, _ := newGuardContext(t, pair.AccessToken)
	handler := guard(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err = handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %v", err)
	}
}
