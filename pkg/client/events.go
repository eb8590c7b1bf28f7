package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/libvault/registry/pkg/events"
)

// SubscribeEvents opens a websocket stream of registry events. eventType
// filters to one event type; pass "" for all. The returned channel closes
// when the context ends or the connection drops.
func (c *Client) SubscribeEvents(ctx context.Context, eventType string) (<-chan events.Envelope, error) {
	wsURL, err := c.eventsURL(eventType)
	if err != nil {
		return nil, err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect event stream: %w", err)
	}

	ch := make(chan events.Envelope, 64)

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	go func() {
		defer close(ch)
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() == nil {
					c.logger.Debug("event stream closed", zap.Error(err))
				}
				return
			}
			var env events.Envelope
			if err := json.Unmarshal(data, &env); err != nil {
				c.logger.Warn("skipping malformed event frame", zap.Error(err))
				continue
			}
			select {
			case ch <- env:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

func (c *Client) eventsURL(eventType string) (string, error) {
	u, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return "", fmt.Errorf("malformed base URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/v1/events/ws"
	if eventType != "" {
		q := u.Query()
		q.Set("type", eventType)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
