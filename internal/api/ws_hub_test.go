package api

import (
	"encoding/json"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastEventPayload(t *testing.T) {
	hub := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 8),
	}

	hub.BroadcastEvent("lead.moved", map[string]interface{}{
		"id":    "lead-1",
		"stage": "won",
	})

	select {
	case msg := <-hub.broadcast:
		var event struct {
			Type    string                 `json:"type"`
			Payload map[string]interface{} `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(msg, &event))
		assert.Equal(t, "lead.moved", event.Type)
		assert.Equal(t, "won", event.Payload["stage"])
	default:
		t.Fatal("no message queued for broadcast")
	}
}

func TestBroadcastMessageDropsWhenFull(t *testing.T) {
	hub := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan []byte, 1),
	}

	hub.BroadcastMessage([]byte("uno"))
	// Канал заполнен: второе сообщение отбрасывается без блокировки
	hub.BroadcastMessage([]byte("dos"))

	assert.Equal(t, []byte("uno"), <-hub.broadcast)
	select {
	case msg := <-hub.broadcast:
		t.Fatalf("unexpected queued message: %s", msg)
	default:
	}
}
