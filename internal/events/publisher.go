package events

import (
	"context"

	"github.com/shuttleday/shuttleday/internal/model"
)

// Publisher delivers engine events to a messaging collaborator.
//
// Publication is fire-and-forget from the engine's perspective: the
// engine emits synchronously and returns; delivery and retry toward
// other devices is the collaborator's responsibility. Implementations
// must not block on I/O in the caller's critical path beyond handing
// the event off.
type Publisher interface {
	Publish(ctx context.Context, event model.Event)
}

// Fanout publishes each event to every wrapped publisher
type Fanout struct {
	publishers []Publisher
}

// NewFanout creates a Fanout over the given publishers
func NewFanout(publishers ...Publisher) *Fanout {
	return &Fanout{publishers: publishers}
}

// Publish delivers the event to all wrapped publishers
func (f *Fanout) Publish(ctx context.Context, event model.Event) {
	for _, p := range f.publishers {
		p.Publish(ctx, event)
	}
}

var _ Publisher = (*Fanout)(nil)
