package notify

import (
	"context"
	"log/slog"

	"orbit/internal/amqp"
)

// AMQPNotifier mirrors notifications onto the events queue so the audit
// worker sees them. Publish failures are logged and swallowed: feedback
// must never fail the operation that produced it.
type AMQPNotifier struct {
	client *amqp.Client
}

func NewAMQPNotifier(client *amqp.Client) *AMQPNotifier {
	return &AMQPNotifier{client: client}
}

func (n *AMQPNotifier) Notify(ctx context.Context, severity Severity, message string) {
	if n.client == nil {
		return
	}
	msg := amqp.NewNotificationEvent(string(severity), message)
	if err := n.client.PublishEvent(ctx, msg); err != nil {
		slog.WarnContext(ctx, "Failed to publish notification event",
			"error", err, "severity", severity)
	}
}
