// server/client/subscribe.go
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/vinizap/shelf/server/ws"
)

// WebSocketURL turns the API base URL into the broadcast endpoint URL.
func WebSocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid api url %s: %w", baseURL, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("invalid api url %s: unsupported scheme %q", baseURL, u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Subscribe dials the broadcast channel and calls handle for every message
// until ctx ends or the connection drops.
func Subscribe(ctx context.Context, baseURL string, handle func(ws.Message)) error {
	wsURL, err := WebSocketURL(baseURL)
	if err != nil {
		return err
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", wsURL, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := conn.WriteJSON(map[string]string{"type": "subscribe"}); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		var msg ws.Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue
		}
		handle(msg)
	}
}
