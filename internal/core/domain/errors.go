package domain

import "errors"

// Auth / user errors.
var (
	ErrMissingFields            = errors.New("all fields are required")
	ErrUserExists               = errors.New("user already exists")
	ErrUserNotFound             = errors.New("user not found")
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrEmailNotVerified         = errors.New("email not verified")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrInvalidResetToken        = errors.New("invalid or expired reset token")
	ErrInvalidOldPassword       = errors.New("invalid old password")
	ErrTooManyLoginAttempts     = errors.New("too many failed login attempts")
)

// Token errors. Expired and invalid are distinct on purpose: expired means
// "prompt the client to refresh or re-login", invalid means "reject outright".
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Access control errors.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access forbidden")
)

// Content errors.
var (
	ErrPostNotFound      = errors.New("post not found")
	ErrSlugTaken         = errors.New("slug already in use")
	ErrInvalidCategory   = errors.New("invalid post category")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrAlreadySubscribed = errors.New("email already subscribed to newsletter")
)
