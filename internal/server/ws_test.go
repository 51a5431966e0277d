package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/fingercount/internal/app"
	"github.com/ayusman/fingercount/internal/fingers"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(hub)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	return conn
}

func TestHub_Broadcast(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	hub.Broadcast(app.Snapshot{
		Seq:    9,
		At:     time.UnixMilli(1700000000000),
		Result: fingers.FrameResult{Count: 5, Vertices: make([]fingers.Vertex, 5)},
	})

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage() error = %v", err)
	}

	var msg resultMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if msg.Seq != 9 || msg.Count != 5 || msg.Timestamp != 1700000000000 {
		t.Errorf("unexpected message: seq=%d count=%d ts=%d", msg.Seq, msg.Count, msg.Timestamp)
	}
}

func TestHub_ClientDisconnect(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	conn.Close()

	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client was not removed after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}

	// Broadcasting with no clients is a no-op
	hub.Broadcast(app.Snapshot{Seq: 1})
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	hub.Broadcast(app.Snapshot{Seq: 1})

	if hub.Clients() != 0 {
		t.Errorf("Clients() = %d, want 0", hub.Clients())
	}
}
