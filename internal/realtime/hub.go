package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"agencydesk-backend/internal/models"

	"github.com/google/uuid"
)

// Hub coordinates websocket subscriptions per conversation. Subscriptions
// are explicit handles owned by the hub: Attach registers a connection and
// starts its write loop, Detach removes and closes it. Each published event
// is delivered at most once per subscriber.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[string]*Connection // conversationID -> connectionID -> conn
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[string]*Connection),
	}
}

// Attach registers a connection in its conversation's room and starts its
// write loop.
func (h *Hub) Attach(conn *Connection) {
	h.mu.Lock()
	room := h.rooms[conn.ConversationID]
	if room == nil {
		room = make(map[string]*Connection)
		h.rooms[conn.ConversationID] = room
	}
	room[conn.ID] = conn
	h.mu.Unlock()

	conn.Start()
}

// Detach removes a connection and closes it. Safe to call more than once.
func (h *Hub) Detach(conn *Connection) {
	h.mu.Lock()
	if room, ok := h.rooms[conn.ConversationID]; ok {
		delete(room, conn.ID)
		if len(room) == 0 {
			delete(h.rooms, conn.ConversationID)
		}
	}
	h.mu.Unlock()

	conn.Close(1000, "unsubscribed")
}

// Publish fans a message event out to the conversation's subscribers,
// applying the per-audience visibility filter.
func (h *Hub) Publish(event models.MessageResponse) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR [Hub] Publish: failed to marshal event for conversation %s: %v", event.ConversationID, err)
		return
	}

	h.mu.RLock()
	conns := make([]*Connection, 0, len(h.rooms[event.ConversationID]))
	for _, c := range h.rooms[event.ConversationID] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if !Visible(c.Audience, event.SenderType, event.SenderName) {
			continue
		}
		if err := c.Send(payload); err != nil {
			// Send already closed the connection; drop it from the room.
			h.Detach(c)
		}
	}
}

// SubscriberCount reports how many connections are attached to a
// conversation. Used by the agent console to show widget presence.
func (h *Hub) SubscriberCount(conversationID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}

// Visible reports whether an event authored by (senderType, senderName)
// should reach a subscriber of the given audience. The customer widget
// receives only live agent replies: customer events would echo its own
// optimistic sends, and the System welcome is already rendered from the
// bootstrap response.
func Visible(aud Audience, senderType models.SenderType, senderName string) bool {
	if aud == AudienceAgent {
		return true
	}
	return senderType == models.SenderAgent && senderName != models.SystemSenderName
}
