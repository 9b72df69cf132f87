package realtime

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"agencydesk-backend/internal/models"
)

// newTestSocket dials a throwaway websocket server and returns the client
// side. The server drains incoming frames until the connection drops.
func newTestSocket(t *testing.T) *websocket.Conn {
	t.Helper()

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}))

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial test socket: %v", err)
	}
	t.Cleanup(func() {
		ws.Close()
		srv.Close()
	})
	return ws
}

func TestSendAfterCloseReturnsError(t *testing.T) {
	conn := NewConnection(uuid.New(), AudienceAgent, newTestSocket(t))
	conn.Start()
	conn.Close(websocket.CloseNormalClosure, "done")

	// A publish can still hold a reference to this connection after it
	// closed; every such send must fail cleanly, never panic.
	for i := 0; i < 200; i++ {
		if err := conn.Send([]byte("late")); err == nil {
			t.Fatalf("Send #%d after Close returned nil, want error", i)
		}
	}
}

func TestPublishRacingDetach(t *testing.T) {
	convID := uuid.New()
	hub := NewHub()

	event := models.MessageResponse{
		ID:             uuid.New(),
		ConversationID: convID,
		SenderType:     models.SenderAgent,
		SenderName:     "Sari",
		Content:        "hello",
	}

	for round := 0; round < 20; round++ {
		conn := NewConnection(convID, AudienceAgent, newTestSocket(t))
		hub.Attach(conn)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				hub.Publish(event)
			}
		}()
		go func() {
			defer wg.Done()
			hub.Detach(conn)
		}()
		wg.Wait()
	}

	if n := hub.SubscriberCount(convID); n != 0 {
		t.Errorf("SubscriberCount after detach = %d, want 0", n)
	}
}

func TestSubscriberCountTracksSubscriptions(t *testing.T) {
	convID := uuid.New()
	hub := NewHub()

	first := NewConnection(convID, AudienceCustomer, newTestSocket(t))
	second := NewConnection(convID, AudienceAgent, newTestSocket(t))
	hub.Attach(first)
	hub.Attach(second)

	if n := hub.SubscriberCount(convID); n != 2 {
		t.Fatalf("SubscriberCount = %d, want 2", n)
	}

	hub.Detach(first)
	if n := hub.SubscriberCount(convID); n != 1 {
		t.Errorf("SubscriberCount after one detach = %d, want 1", n)
	}
	hub.Detach(first) // repeat detach must not disturb the room
	if n := hub.SubscriberCount(convID); n != 1 {
		t.Errorf("SubscriberCount after repeated detach = %d, want 1", n)
	}

	hub.Detach(second)
	if n := hub.SubscriberCount(convID); n != 0 {
		t.Errorf("SubscriberCount after full detach = %d, want 0", n)
	}
}

func TestSlowConsumerIsClosed(t *testing.T) {
	// Without a running write loop nothing drains the buffer; overflowing
	// it must close the connection rather than block the publisher.
	conn := NewConnection(uuid.New(), AudienceAgent, newTestSocket(t))

	var overflowed bool
	for i := 0; i < cap(conn.send)+1; i++ {
		if err := conn.Send([]byte(fmt.Sprintf("msg-%d", i))); err != nil {
			overflowed = true
			break
		}
	}
	if !overflowed {
		t.Fatal("filling the send buffer never errored")
	}
	if err := conn.Send([]byte("after")); err == nil {
		t.Error("Send on an overflowed connection returned nil, want error")
	}
}
