package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/inkpress/blog-api/internal/core/domain"
	"github.com/inkpress/blog-api/internal/core/ports"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)

	pair, err := svc.Issue("user_1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", pair)
	}
	if pair.AccessTTL != time.Minute || pair.RefreshTTL != time.Hour {
		t.Fatalf("unexpected TTLs: %+v", pair)
	}

	claims, err := svc.Verify(pair.AccessToken, ports.AccessToken)
	if err != nil {
		t.Fatalf("Verify access token: %v", err)
	}
	if claims.UserID != "user_1" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	claims, err = svc.Verify(pair.RefreshToken, ports.RefreshToken)
	if err != nil {
		t.Fatalf("Verify refresh token: %v", err)
	}
	if claims.UserID != "user_1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_KindMismatch(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)

	pair, err := svc.Issue("user_1", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := svc.Verify(pair.AccessToken, ports.RefreshToken); err != domain.ErrTokenInvalid {
		t.Fatalf("access token accepted as refresh: %v", err)
	}
	if _, err := svc.Verify(pair.RefreshToken, ports.AccessToken); err != domain.ErrTokenInvalid {
		t.Fatalf("refresh token accepted as access: %v", err)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)

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

	if _, err := svc.Verify(signed, ports.AccessToken); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	other := NewTokenService("other-secret", "other-refresh", time.Minute, time.Hour)

	pair, err := other.Issue("user_1", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := svc.Verify(pair.AccessToken, ports.AccessToken); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)

	if _, err := svc.Verify("not-a-token", ports.AccessToken); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_MissingIDClaim(t *testing.T) {
	svc := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": domain.RoleUser,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("access-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(signed, ports.AccessToken); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenService_DefaultTTLs(t *testing.T) {
	svc := NewTokenService("a", "r", 0, 0)

	pair, err := svc.Issue("user_1", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if pair.AccessTTL != defaultAccessTTL || pair.RefreshTTL != defaultRefreshTTL {
		t.Fatalf("expected default TTLs, got %+v", pair)
	}
}
