// Package notify is the fire-and-forget feedback channel: pipeline
// operations report outcomes here and never observe a return value.
package notify

import (
	"context"
	"log/slog"
)

type Severity string

const (
	Info    Severity = "info"
	Success Severity = "success"
	Error   Severity = "error"
)

// Notifier delivers a user-facing message. Implementations must not block
// the calling operation on delivery problems.
type Notifier interface {
	Notify(ctx context.Context, severity Severity, message string)
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, severity Severity, message string) {
	switch severity {
	case Error:
		slog.ErrorContext(ctx, "Notification", "severity", severity, "message", message)
	default:
		slog.InfoContext(ctx, "Notification", "severity", severity, "message", message)
	}
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, severity Severity, message string) {
	for _, n := range m {
		n.Notify(ctx, severity, message)
	}
}
