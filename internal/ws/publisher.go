package ws

import (
	"context"
	"encoding/json"

	"skill-match/internal/events"
)

// Publisher broadcasts analysis events to every connected websocket client.
type Publisher struct {
	Hub *Hub
}

func (p Publisher) Publish(_ context.Context, evt events.Event) error {
	if p.Hub == nil {
		return nil
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	p.Hub.Broadcast(b)
	return nil
}
