package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/api/metrics"
	"github.com/inkpress/blog-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type mailJob struct {
	template string
	to       string
	send     func(ctx context.Context) error
}

// MailDispatcher makes any ports.Mailer asynchronous: each Send* call
// enqueues a job and returns immediately. Delivery is at-most-once and
// best-effort; a full queue drops the job, and worker failures are logged,
// never surfaced to the caller.
type MailDispatcher struct {
	jobs    chan mailJob
	mailer  ports.Mailer
	workers int
	log     zerolog.Logger
}

// NewMailDispatcher wraps mailer with numWorkers delivery workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewMailDispatcher(mailer ports.Mailer, numWorkers int, log zerolog.Logger) *MailDispatcher {
	d := &MailDispatcher{
		jobs:   make(chan mailJob, channelBuffer),
		mailer: mailer,
		log:    log,
	}
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d.workers = numWorkers
	return d
}

// Start launches the delivery workers. Workers stop when ctx is cancelled.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		go d.runWorker(ctx, i)
	}
}

func (d *MailDispatcher) SendVerificationEmail(ctx context.Context, to, code string) error {
	return d.enqueue(mailJob{
		template: "verification",
		to:       to,
		send: func(ctx context.Context) error {
			return d.mailer.SendVerificationEmail(ctx, to, code)
		},
	})
}

func (d *MailDispatcher) SendWelcomeEmail(ctx context.Context, to, name string) error {
	return d.enqueue(mailJob{
		template: "welcome",
		to:       to,
		send: func(ctx context.Context) error {
			return d.mailer.SendWelcomeEmail(ctx, to, name)
		},
	})
}

func (d *MailDispatcher) SendPasswordResetEmail(ctx context.Context, to, resetURL string) error {
	return d.enqueue(mailJob{
		template: "reset_request",
		to:       to,
		send: func(ctx context.Context) error {
			return d.mailer.SendPasswordResetEmail(ctx, to, resetURL)
		},
	})
}

func (d *MailDispatcher) SendResetSuccessEmail(ctx context.Context, to string) error {
	return d.enqueue(mailJob{
		template: "reset_success",
		to:       to,
		send: func(ctx context.Context) error {
			return d.mailer.SendResetSuccessEmail(ctx, to)
		},
	})
}

// enqueue never blocks the request path; a full buffer drops the message.
func (d *MailDispatcher) enqueue(job mailJob) error {
	select {
	case d.jobs <- job:
		return nil
	default:
		metrics.EmailsSentTotal.WithLabelValues(job.template, "dropped").Inc()
		d.log.Warn().Str("template", job.template).Str("to", job.to).Msg("mail queue full, message dropped")
		return nil
	}
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-d.jobs:
			if !ok {
				return
			}
			if err := job.send(ctx); err != nil {
				metrics.EmailsSentTotal.WithLabelValues(job.template, "error").Inc()
				d.log.Error().Err(err).
					Str("template", job.template).
					Str("to", job.to).
					Int("worker_id", id).
					Msg("email delivery failed")
				continue
			}
			metrics.EmailsSentTotal.WithLabelValues(job.template, "ok").Inc()
		}
	}
}
