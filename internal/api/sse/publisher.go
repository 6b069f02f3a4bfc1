package sse

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/shuttleday/shuttleday/internal/events"
	"github.com/shuttleday/shuttleday/internal/model"
)

// HubPublisher forwards engine events to the SSE hub of the event's
// session, letting connected boards follow live state. Sessions with
// no connected clients have no hub and the event is simply dropped.
type HubPublisher struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewHubPublisher creates a new HubPublisher
func NewHubPublisher(hubManager *HubManager, logger *slog.Logger) *HubPublisher {
	return &HubPublisher{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-publisher")),
	}
}

var _ events.Publisher = (*HubPublisher)(nil)

// Publish broadcasts the event as JSON to the session's hub, if any
func (p *HubPublisher) Publish(_ context.Context, event model.Event) {
	hub := p.hubManager.GetHub(event.SessionID)
	if hub == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("failed to marshal event",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()),
		)
		return
	}

	hub.BroadcastEvent(string(event.Type), string(data))
}
