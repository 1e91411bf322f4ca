// Package notify pushes realtime events to connected users.
package notify

import "context"

// Notifier delivers payload to every live connection of each user. It never
// blocks on delivery and never reports failure; a user with no connection
// simply misses the event.
type Notifier interface {
	Notify(ctx context.Context, userIDs []uint, payload interface{})
}

// Discard drops every event.
type Discard struct{}

func (Discard) Notify(context.Context, []uint, interface{}) {}
