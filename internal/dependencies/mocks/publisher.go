package mocks

import (
	"context"
	"sync"

	"github.com/shuttleday/shuttleday/internal/events"
	"github.com/shuttleday/shuttleday/internal/model"
)

// RecordingPublisher captures published events for test assertions
type RecordingPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

// Ensure RecordingPublisher implements Publisher
var _ events.Publisher = (*RecordingPublisher)(nil)

// NewRecordingPublisher creates a new RecordingPublisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish appends the event to the recorded list
func (p *RecordingPublisher) Publish(_ context.Context, event model.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

// Events returns a copy of all recorded events
func (p *RecordingPublisher) Events() []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Event, len(p.events))
	copy(out, p.events)
	return out
}

// EventsOfType returns recorded events with the given type
func (p *RecordingPublisher) EventsOfType(t model.EventType) []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []model.Event
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears the recorded events
func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
