package ports

import "time"

// TokenKind selects which signing secret and lifetime apply to a token.
type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

// TokenClaims is the payload carried by both token kinds. The embedded role
// is a cache hint only; authorization always re-fetches the user.
type TokenClaims struct {
	UserID string
	Role   string
}

// TokenPair holds a freshly issued access/refresh token pair. The TTLs are
// included so the transport layer can set matching cookie lifetimes.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	AccessTTL    time.Duration
	RefreshTTL   time.Duration
}

// TokenService issues and verifies the two session token kinds.
// Verify fails closed: signature mismatch, malformed payload, wrong kind and
// expiry all fail, with domain.ErrTokenExpired distinguished from
// domain.ErrTokenInvalid.
type TokenService interface {
	Issue(userID, role string) (*TokenPair, error)
	Verify(token string, kind TokenKind) (*TokenClaims, error)
}
