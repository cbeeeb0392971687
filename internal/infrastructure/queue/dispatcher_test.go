package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/api/metrics"
)

type recordingMailer struct {
	sent chan string
	err  error
}

func newRecordingMailer() *recordingMailer {
	return &recordingMailer{sent: make(chan string, 16)}
}

func (m *recordingMailer) SendVerificationEmail(_ context.Context, to, _ string) error {
	m.sent <- "verification:" + to
	return m.err
}

func (m *recordingMailer) SendWelcomeEmail(_ context.Context, to, _ string) error {
	m.sent <- "welcome:" + to
	return m.err
}

func (m *recordingMailer) SendPasswordResetEmail(_ context.Context, to, _ string) error {
	m.sent <- "reset_request:" + to
	return m.err
}

func (m *recordingMailer) SendResetSuccessEmail(_ context.Context, to string) error {
	m.sent <- "reset_success:" + to
	return m.err
}

func waitFor(t *testing.T, ch chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func TestMailDispatcher_DeliversAsynchronously(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := newRecordingMailer()
	d := NewMailDispatcher(mailer, 2, zerolog.Nop())
	d.Start(ctx)

	if err := d.SendVerificationEmail(ctx, "alice@example.com", "123456"); err != nil {
		t.Fatalf("enqueue returned error: %v", err)
	}
	waitFor(t, mailer.sent, "verification:alice@example.com")

	if err := d.SendWelcomeEmail(ctx, "alice@example.com", "Alice"); err != nil {
		t.Fatalf("enqueue returned error: %v", err)
	}
	waitFor(t, mailer.sent, "welcome:alice@example.com")
}

func TestMailDispatcher_DeliveryErrorIsSwallowed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := newRecordingMailer()
	mailer.err = errors.New("ses unavailable")
	d := NewMailDispatcher(mailer, 1, zerolog.Nop())
	d.Start(ctx)

	if err := d.SendResetSuccessEmail(ctx, "alice@example.com"); err != nil {
		t.Fatalf("delivery failure must not surface to the caller: %v", err)
	}
	waitFor(t, mailer.sent, "reset_success:alice@example.com")
}

func TestMailDispatcher_FullQueueDropsWithoutBlocking(t *testing.T) {
	// No workers started: the buffer fills and the overflow must be dropped.
	mailer := newRecordingMailer()
	d := NewMailDispatcher(mailer, 1, zerolog.Nop())

	dropped := metrics.EmailsSentTotal.WithLabelValues("verification", "dropped")
	before := testutil.ToFloat64(dropped)

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+1; i++ {
			_ = d.SendVerificationEmail(context.Background(), "alice@example.com", "123456")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("enqueue blocked on a full queue")
	}

	if after := testutil.ToFloat64(dropped); after != before+1 {
		t.Fatalf("expected exactly one dropped message, got %v", after-before)
	}
}
