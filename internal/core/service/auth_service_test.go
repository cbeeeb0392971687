package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/blog-api/internal/core/domain"
)

type stubUserRepo struct {
	users  map[string]*domain.User
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	copy := cloneUser(user)
	r.nextID++
	copy.ID = fmt.Sprintf("user_%d", r.nextID)
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByVerificationToken(_ context.Context, token string) (*domain.User, error) {
	for _, u := range r.users {
		if u.VerificationToken == token && u.VerificationTokenExpires.After(time.Now()) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, token string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ResetPasswordToken == token && u.ResetPasswordExpires.After(time.Now()) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindAll(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// stubMailer records the last payload per template.
type stubMailer struct {
	verificationCode string
	welcomeName      string
	resetURL         string
	resetSuccessTo   string
}

func (m *stubMailer) SendVerificationEmail(_ context.Context, _, code string) error {
	m.verificationCode = code
	return nil
}

func (m *stubMailer) SendWelcomeEmail(_ context.Context, _, name string) error {
	m.welcomeName = name
	return nil
}

func (m *stubMailer) SendPasswordResetEmail(_ context.Context, _, resetURL string) error {
	m.resetURL = resetURL
	return nil
}

func (m *stubMailer) SendResetSuccessEmail(_ context.Context, to string) error {
	m.resetSuccessTo = to
	return nil
}

type stubLimiter struct {
	blocked  bool
	checkErr error
	failures int
	resets   int
}

func (l *stubLimiter) TooManyAttempts(_ context.Context, _ string) (bool, error) {
	return l.blocked, l.checkErr
}

func (l *stubLimiter) RecordFailure(_ context.Context, _ string) error {
	l.failures++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, _ string) error {
	l.resets++
	return nil
}

func newTestAuthService(repo *stubUserRepo, mailer *stubMailer, limiter LoginLimiter) *AuthService {
	tokens := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthService(repo, tokens, mailer, limiter, "http://localhost:3000", zerolog.Nop())
}

func TestAuthService_Signup_Success(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newTestAuthService(repo, mailer, nil)

	user, pair, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("Signup returned error: %v", err)
	}
	if user.IsVerified {
		t.Fatalf("new user should be unverified")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if pair == nil || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected session tokens on signup, got %+v", pair)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(repo.users[user.ID].PasswordHash), []byte("password123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if len(mailer.verificationCode) != 6 {
		t.Fatalf("expected 6-digit verification code, got %q", mailer.verificationCode)
	}
}

func TestAuthService_Signup_MissingFields(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &stubMailer{}, nil)

	if _, _, err := svc.Signup(context.Background(), "", "a@example.com", "password123"); err != domain.ErrMissingFields {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, &stubMailer{}, nil)

	if _, _, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, _, err := svc.Signup(context.Background(), "Alice2", "alice@example.com", "password456"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_VerifyEmail_SingleUse(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newTestAuthService(repo, mailer, nil)

	user, _, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	verified, err := svc.VerifyEmail(context.Background(), mailer.verificationCode)
	if err != nil {
		t.Fatalf("VerifyEmail returned error: %v", err)
	}
	if !verified.IsVerified {
		t.Fatalf("user not marked verified")
	}
	if mailer.welcomeName != "Alice" {
		t.Fatalf("welcome email not dispatched, got %q", mailer.welcomeName)
	}
	if stored := repo.users[user.ID]; stored.VerificationToken != "" {
		t.Fatalf("verification token not cleared")
	}

	// The code is single-use.
	if _, err := svc.VerifyEmail(context.Background(), mailer.verificationCode); err != domain.ErrInvalidVerificationToken {
		t.Fatalf("expected ErrInvalidVerificationToken on reuse, got %v", err)
	}
}

func TestAuthService_VerifyEmail_UnknownCode(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &stubMailer{}, nil)

	if _, err := svc.VerifyEmail(context.Background(), "000000"); err != domain.ErrInvalidVerificationToken {
		t.Fatalf("expected ErrInvalidVerificationToken, got %v", err)
	}
}

func TestAuthService_Login_BeforeVerification(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo, &stubMailer{}, nil)

	if _, _, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "password123"); err != domain.ErrEmailNotVerified {
		t.Fatalf("expected ErrEmailNotVerified, got %v", err)
	}
}

func TestAuthService_Login_FullFlow(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	limiter := &stubLimiter{}
	svc := newTestAuthService(repo, mailer, limiter)

	if _, _, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123"); err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if _, err := svc.VerifyEmail(context.Background(), mailer.verificationCode); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	user, pair, err := svc.Login(context.Background(), "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if pair == nil || pair.AccessToken == "" {
		t.Fatalf("expected tokens, got %+v", pair)
	}
	if user.LastLogin.IsZero() {
		t.Fatalf("LastLogin not updated")
	}
	if limiter.resets != 1 {
		t.Fatalf("expected throttle reset after success, got %d", limiter.resets)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	limiter := &stubLimiter{}
	svc := newTestAuthService(repo, mailer, limiter)

	_, _, _ = svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	_, _ = svc.VerifyEmail(context.Background(), mailer.verificationCode)

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if limiter.failures != 1 {
		t.Fatalf("expected one recorded failure, got %d", limiter.failures)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &stubMailer{}, nil)

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "password"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Login_Throttled(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	limiter := &stubLimiter{blocked: true}
	svc := newTestAuthService(repo, mailer, limiter)

	_, _, _ = svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	_, _ = svc.VerifyEmail(context.Background(), mailer.verificationCode)

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "password123"); err != domain.ErrTooManyLoginAttempts {
		t.Fatalf("expected ErrTooManyLoginAttempts, got %v", err)
	}
}

func TestAuthService_Login_ThrottleFailsOpen(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	limiter := &stubLimiter{blocked: true, checkErr: errors.New("redis down")}
	svc := newTestAuthService(repo, mailer, limiter)

	_, _, _ = svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	_, _ = svc.VerifyEmail(context.Background(), mailer.verificationCode)

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "password123"); err != nil {
		t.Fatalf("throttle errors must not block login, got %v", err)
	}
}

func TestAuthService_ForgotResetPassword_Flow(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newTestAuthService(repo, mailer, nil)

	_, _, _ = svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	_, _ = svc.VerifyEmail(context.Background(), mailer.verificationCode)

	if err := svc.ForgotPassword(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	const prefix = "http://localhost:3000/reset-password/"
	if !strings.HasPrefix(mailer.resetURL, prefix) {
		t.Fatalf("unexpected reset URL: %q", mailer.resetURL)
	}
	token := strings.TrimPrefix(mailer.resetURL, prefix)
	if len(token) != 64 {
		t.Fatalf("expected 32-byte hex token, got %q", token)
	}

	if err := svc.ResetPassword(context.Background(), token, "newpassword1"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
	if mailer.resetSuccessTo != "alice@example.com" {
		t.Fatalf("reset success email not dispatched")
	}

	if _, _, err := svc.Login(context.Background(), "alice@example.com", "newpassword1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "password123"); err != domain.ErrInvalidCredentials {
		t.Fatalf("old password still accepted: %v", err)
	}

	// The reset token is single-use.
	if err := svc.ResetPassword(context.Background(), token, "anotherpass1"); err != domain.ErrInvalidResetToken {
		t.Fatalf("expected ErrInvalidResetToken on reuse, got %v", err)
	}
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &stubMailer{}, nil)

	if err := svc.ForgotPassword(context.Background(), "ghost@example.com"); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newTestAuthService(repo, mailer, nil)

	user, _, _ := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	_, _ = svc.VerifyEmail(context.Background(), mailer.verificationCode)

	if _, err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newpassword1"); err != domain.ErrInvalidOldPassword {
		t.Fatalf("expected ErrInvalidOldPassword, got %v", err)
	}

	if _, err := svc.ChangePassword(context.Background(), user.ID, "password123", "newpassword1"); err != nil {
		t.Fatalf("ChangePassword returned error: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "newpassword1"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestAuthService_Refresh_CarriesCurrentRole(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newTestAuthService(repo, mailer, nil)

	user, pair, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	// Promote the user out of band; the old refresh token still carries "user".
	stored := repo.users[user.ID]
	stored.Role = domain.RoleAdmin

	refreshed, newPair, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if refreshed.Role != domain.RoleAdmin {
		t.Fatalf("expected refreshed role admin, got %s", refreshed.Role)
	}

	tokens := NewTokenService("access-secret", "refresh-secret", time.Minute, time.Hour)
	claims, err := tokens.Verify(newPair.AccessToken, "access")
	if err != nil {
		t.Fatalf("verify new access token: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("new token carries stale role %q", claims.Role)
	}
}

func TestAuthService_Refresh_InvalidToken(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo(), &stubMailer{}, nil)

	if _, _, err := svc.Refresh(context.Background(), "garbage"); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthService_Refresh_DeletedUser(t *testing.T) {
	repo := newStubUserRepo()
	mailer := &stubMailer{}
	svc := newTestAuthService(repo, mailer, nil)

	user, pair, _ := svc.Signup(context.Background(), "Alice", "alice@example.com", "password123")
	if err := svc.DeleteAccount(context.Background(), user.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
