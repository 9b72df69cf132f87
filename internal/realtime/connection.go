package realtime

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Audience determines which chat events a subscriber receives.
type Audience string

const (
	// AudienceCustomer is the public chat widget: it sees only real agent
	// replies, never its own echoes or the System welcome duplicate.
	AudienceCustomer Audience = "customer"
	// AudienceAgent is the admin console: it sees every event.
	AudienceAgent Audience = "agent"
)

// Connection wraps a websocket and coordinates outbound writes via a
// buffered channel. Safe for concurrent use; slow consumers are closed to
// keep backpressure bounded.
type Connection struct {
	ID             string
	ConversationID uuid.UUID
	Audience       Audience

	ws    *websocket.Conn
	send  chan []byte
	once  sync.Once
	close chan struct{}
}

// NewConnection constructs a Connection subscribed to one conversation.
func NewConnection(conversationID uuid.UUID, audience Audience, ws *websocket.Conn) *Connection {
	return &Connection{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Audience:       audience,
		ws:             ws,
		send:           make(chan []byte, 128),
		close:          make(chan struct{}),
	}
}

// Start launches the write loop. It must be called exactly once per connection.
func (c *Connection) Start() {
	go c.writeLoop()
}

// Send enqueues payload for delivery. After Close it returns an error;
// calling it concurrently with Close is safe. If the client is slow and the
// buffer is full, the connection is closed.
func (c *Connection) Send(payload []byte) error {
	select {
	case <-c.close:
		return errors.New("connection closed")
	default:
	}
	select {
	case <-c.close:
		return errors.New("connection closed")
	case c.send <- payload:
		return nil
	default:
		c.Close(websocket.CloseGoingAway, "send buffer full")
		return errors.New("connection buffer exceeded")
	}
}

// Close terminates the connection and stops the write loop. The send
// channel is never closed; shutdown is signaled through the close channel
// only.
func (c *Connection) Close(code int, reason string) {
	c.once.Do(func() {
		close(c.close)
		_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		_ = c.ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(writeWait))
		_ = c.ws.Close()
	})
}

func (c *Connection) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.close:
			return
		case msg := <-c.send:
			if err := c.writeMessage(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.writePing(); err != nil {
				return
			}
		}
	}
}

func (c *Connection) writeMessage(payload []byte) error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, payload)
}

func (c *Connection) writePing() error {
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.PingMessage, nil)
}
