// Package notify delivers run results to operators. The report email (with
// the xlsx attached) and the Telegram run summary are both Senders behind a
// fan-out Notifier that filters by event type.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Message is one notification. AttachmentPath optionally points at a file to
// deliver alongside the body; senders that cannot carry attachments ignore it.
type Message struct {
	Event          string
	Subject        string
	Body           string
	AttachmentPath string
}

// Sender is the interface that each notification channel must implement.
type Sender interface {
	// Send delivers the message.
	Send(ctx context.Context, msg Message) error
	// Name returns a human-readable identifier for the sender (e.g. "email").
	Name() string
}

// Notifier dispatches messages to one or more Senders, filtered by a set of
// allowed event types.
type Notifier struct {
	senders []Sender
	events  map[string]bool
	logger  *slog.Logger
}

// NewNotifier creates a Notifier that delivers to the given senders. Only
// messages whose event appears in events are forwarded; an empty events list
// allows everything.
func NewNotifier(senders []Sender, events []string, logger *slog.Logger) *Notifier {
	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		allowed[strings.TrimSpace(e)] = true
	}
	return &Notifier{
		senders: senders,
		events:  allowed,
		logger:  logger.With(slog.String("component", "notifier")),
	}
}

// Notify sends the message to all senders if its event type is allowed.
// Errors from individual senders are collected; one sender failing does not
// prevent delivery to the rest.
func (n *Notifier) Notify(ctx context.Context, msg Message) error {
	if len(n.events) > 0 && !n.events[msg.Event] {
		n.logger.DebugContext(ctx, "event filtered out", slog.String("event", msg.Event))
		return nil
	}
	if len(n.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range n.senders {
		if err := s.Send(ctx, msg); err != nil {
			n.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
			continue
		}
		n.logger.DebugContext(ctx, "notification sent",
			slog.String("sender", s.Name()),
			slog.String("event", msg.Event),
		)
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}
