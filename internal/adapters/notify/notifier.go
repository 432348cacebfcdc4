// Package notify pushes short alerts to the site team's chat when a visitor
// sends an inquiry or signs up for an event.
package notify

import "context"

// Notifier delivers one plain-text alert.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
