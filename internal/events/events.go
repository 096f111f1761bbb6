package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"climatejobs/internal/logger"
	"climatejobs/internal/metrics"
)

type Type string

const (
	ApplicationCreated  Type = "application.created"
	ApplicationAccepted Type = "application.accepted"
	ApplicationRejected Type = "application.rejected"
	SubmissionCreated   Type = "submission.created"
	SubmissionApproved  Type = "submission.approved"
	SubmissionRejected  Type = "submission.rejected"
	PaymentPaid         Type = "payment.paid"
	JobStatusForced     Type = "job.status_forced"
)

// Event is a lifecycle fact emitted after the owning transaction committed.
type Event struct {
	Type        Type           `json:"type"`
	JobID       string         `json:"job_id"`
	JobTitle    string         `json:"job_title,omitempty"`
	ActorID     string         `json:"actor_id"`
	RecipientID string         `json:"recipient_id,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// Sink consumes events: the notification writer and the external publishers.
type Sink interface {
	Name() string
	Handle(ctx context.Context, e Event) error
}

// Dispatcher fans events out to sinks in the background. Producers never
// wait for delivery.
type Dispatcher struct {
	sinks   []Sink
	log     *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewDispatcher(log *zap.Logger, timeout time.Duration, sinks ...Sink) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{sinks: sinks, log: logger.OrNop(log), timeout: timeout}
}

// Emit schedules delivery and returns immediately.
func (d *Dispatcher) Emit(ctx context.Context, e Event) {
	if d == nil || len(d.sinks) == 0 {
		return
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		deliverCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		for _, s := range d.sinks {
			if err := s.Handle(deliverCtx, e); err != nil {
				metrics.EventDeliveryFailures.WithLabelValues(s.Name()).Inc()
				d.log.Warn("event delivery failed",
					zap.String("sink", s.Name()),
					zap.String("type", string(e.Type)),
					zap.String("job_id", e.JobID),
					zap.Error(err),
				)
			}
		}
	}()
}

// Wait blocks until every scheduled delivery finished.
func (d *Dispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}
