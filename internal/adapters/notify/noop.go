package notify

import (
	"context"
	"log/slog"
)

// NoopNotifier logs alerts instead of sending them.
type NoopNotifier struct{}

// Notify logs the alert length and returns nil.
func (NoopNotifier) Notify(_ context.Context, text string) error {
	slog.Info("noop_notify", "chars", len(text))
	return nil
}
