package notification

import (
	"context"
	"fmt"

	"climatejobs/internal/events"
)

// Sink turns lifecycle events into in-app notifications for the event's
// recipient.
type Sink struct {
	repo Repository
}

func NewSink(repo Repository) *Sink {
	return &Sink{repo: repo}
}

func (s *Sink) Name() string { return "notifications" }

func (s *Sink) Handle(ctx context.Context, e events.Event) error {
	if e.RecipientID == "" {
		return nil
	}
	n, ok := render(e)
	if !ok {
		return nil
	}
	n.UserID = e.RecipientID
	return s.repo.Create(ctx, n)
}

func render(e events.Event) (*Notification, bool) {
	title := e.JobTitle
	if title == "" {
		title = "your job"
	}

	switch e.Type {
	case events.ApplicationCreated:
		return &Notification{
			Type:    TypeApplicationReceived,
			Title:   "New application received",
			Message: fmt.Sprintf("A community member applied for %q.", title),
		}, true
	case events.ApplicationAccepted:
		return &Notification{
			Type:    TypeApplicationAccepted,
			Title:   "Application accepted",
			Message: fmt.Sprintf("Your application for %q was accepted. You can start working on it.", title),
		}, true
	case events.ApplicationRejected:
		return &Notification{
			Type:    TypeApplicationRejected,
			Title:   "Application not selected",
			Message: fmt.Sprintf("Your application for %q was not selected.", title),
		}, true
	case events.SubmissionCreated:
		return &Notification{
			Type:    TypeSubmissionReceived,
			Title:   "Proof of work submitted",
			Message: fmt.Sprintf("Proof of completion was submitted for %q and is waiting for verification.", title),
		}, true
	case events.SubmissionApproved:
		return &Notification{
			Type:    TypeSubmissionApproved,
			Title:   "Submission approved",
			Message: fmt.Sprintf("Your work on %q was verified. Payment of %s is pending release.", title, amount(e.Data)),
		}, true
	case events.SubmissionRejected:
		msg := fmt.Sprintf("Your submission for %q was rejected.", title)
		if reason, _ := e.Data["rejection_reason"].(string); reason != "" {
			msg += " Reason: " + reason
		}
		return &Notification{Type: TypeSubmissionRejected, Title: "Submission rejected", Message: msg}, true
	case events.PaymentPaid:
		return &Notification{
			Type:    TypePaymentReleased,
			Title:   "Payment released",
			Message: fmt.Sprintf("You were paid %s for %q.", amount(e.Data), title),
		}, true
	case events.JobStatusForced:
		return &Notification{
			Type:    TypeJobStatusChanged,
			Title:   "Job status changed",
			Message: fmt.Sprintf("An administrator changed the status of %q to %v.", title, e.Data["to"]),
		}, true
	}
	return nil, false
}

func amount(data map[string]any) string {
	if v, ok := data["amount"].(float64); ok {
		return fmt.Sprintf("₹%.2f", v)
	}
	return "the reward"
}
