package ports

import "context"

// Mailer sends the four transactional messages of the account lifecycle.
// The wired implementation is asynchronous: callers treat every send as
// fire-and-forget and never fail an operation because a message did not go out.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, code string) error
	SendWelcomeEmail(ctx context.Context, to, name string) error
	SendPasswordResetEmail(ctx context.Context, to, resetURL string) error
	SendResetSuccessEmail(ctx context.Context, to string) error
}
