package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/vinizap/shelf/server/domain"
	"github.com/vinizap/shelf/server/ws"
)

func TestSubscribeDeliversMessages(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var hello map[string]string
		if err := conn.ReadJSON(&hello); err != nil || hello["type"] != "subscribe" {
			return
		}
		conn.WriteMessage(websocket.TextMessage, []byte("not json"))
		conn.WriteJSON(ws.Message{Type: domain.EventFolderAdded, Payload: []byte(`{"_id":"f1"}`)})
		conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan ws.Message, 1)
	done := make(chan error, 1)
	go func() {
		done <- Subscribe(ctx, srv.URL, func(msg ws.Message) { got <- msg })
	}()

	select {
	case msg := <-got:
		assert.Equal(t, domain.EventFolderAdded, msg.Type)
		assert.JSONEq(t, `{"_id":"f1"}`, string(msg.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Subscribe did not return after cancel")
	}
}
