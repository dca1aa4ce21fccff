// Package service implements the mess operations on top of the
// repositories: identity and sessions, the mess directory, the roster, the
// attendance ledger and billing. Services never talk to each other except
// through the key-value store.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/messmate/internal/queue"
)

// newID returns a prefixed random identifier such as "u_5f0c...".
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// publish sends ev and logs, but otherwise ignores, delivery failures.
func publish(ctx context.Context, p queue.Publisher, ev queue.ActivityEvent) {
	if p == nil {
		return
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := p.Publish(ctx, ev); err != nil {
		slog.Warn("activity event not delivered", "type", ev.Type, "mess_id", ev.MessID, "error", err)
	}
}
