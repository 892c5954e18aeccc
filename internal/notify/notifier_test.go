package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeSender struct {
	name string
	sent []Message
	err  error
}

func (s *fakeSender) Send(ctx context.Context, msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) Name() string { return s.name }

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("filters disallowed events", func(t *testing.T) {
		s := &fakeSender{name: "a"}
		n := NewNotifier([]Sender{s}, []string{"report_sent"}, discard())

		if err := n.Notify(ctx, Message{Event: "debug_noise"}); err != nil {
			t.Fatalf("Notify: %v", err)
		}
		if len(s.sent) != 0 {
			t.Errorf("sent = %d, want 0", len(s.sent))
		}

		if err := n.Notify(ctx, Message{Event: "report_sent", Subject: "hi"}); err != nil {
			t.Fatalf("Notify: %v", err)
		}
		if len(s.sent) != 1 {
			t.Errorf("sent = %d, want 1", len(s.sent))
		}
	})

	t.Run("empty event list allows everything", func(t *testing.T) {
		s := &fakeSender{name: "a"}
		n := NewNotifier([]Sender{s}, nil, discard())

		if err := n.Notify(ctx, Message{Event: "anything"}); err != nil {
			t.Fatalf("Notify: %v", err)
		}
		if len(s.sent) != 1 {
			t.Errorf("sent = %d, want 1", len(s.sent))
		}
	})

	t.Run("one failing sender does not block the rest", func(t *testing.T) {
		bad := &fakeSender{name: "bad", err: errors.New("boom")}
		good := &fakeSender{name: "good"}
		n := NewNotifier([]Sender{bad, good}, nil, discard())

		err := n.Notify(ctx, Message{Event: "report_sent"})
		if err == nil {
			t.Fatal("Notify = nil, want combined error")
		}
		if len(good.sent) != 1 {
			t.Errorf("good.sent = %d, want 1", len(good.sent))
		}
	})
}
