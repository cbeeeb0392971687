package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the identity record behind every account. PasswordHash and the
// one-time token fields never leave the persistence/service layers; outward
// representations go through the handler's user view type.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsVerified   bool

	// Set between signup and successful verification, cleared on success.
	VerificationToken        string
	VerificationTokenExpires time.Time

	// Set only while a password-reset window is open.
	ResetPasswordToken   string
	ResetPasswordExpires time.Time

	LastLogin time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRole reports whether the user's role is one of the given roles.
func (u *User) HasRole(roles ...string) bool {
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}
