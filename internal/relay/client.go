package relay

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/options-data/internal/model"
)

// command is an inbound client request.
type command struct {
	Action     string `json:"action"`
	Instrument string `json:"instrument"`
}

// message is an outbound frame.
type message struct {
	Type       string           `json:"type"`
	Instrument string           `json:"instrument,omitempty"`
	Message    string           `json:"message,omitempty"`
	Data       []model.QuoteRow `json:"data,omitempty"`
}

// subscription pairs an instrument with the newest timestamp delivered so far.
type subscription struct {
	instrument string
	lastSeen   time.Time
}

// client is one connected websocket peer.
type client struct {
	conn         *websocket.Conn
	writeTimeout time.Duration

	// Write serialization
	writeMu sync.Mutex

	mu     sync.Mutex
	subs   map[string]time.Time
	closed bool
}

func newClient(conn *websocket.Conn, writeTimeout time.Duration) *client {
	return &client{
		conn:         conn,
		writeTimeout: writeTimeout,
		subs:         make(map[string]time.Time),
	}
}

func (c *client) subscribe(instrument string, lastSeen time.Time) {
	c.mu.Lock()
	c.subs[instrument] = lastSeen
	c.mu.Unlock()
}

func (c *client) unsubscribe(instrument string) {
	c.mu.Lock()
	delete(c.subs, instrument)
	c.mu.Unlock()
}

// advance moves a subscription's cursor forward. A lost race with
// unsubscribe leaves the map untouched.
func (c *client) advance(instrument string, ts time.Time) {
	c.mu.Lock()
	if _, ok := c.subs[instrument]; ok {
		c.subs[instrument] = ts
	}
	c.mu.Unlock()
}

func (c *client) subscriptions() []subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]subscription, 0, len(c.subs))
	for inst, seen := range c.subs {
		out = append(out, subscription{instrument: inst, lastSeen: seen})
	}
	return out
}

func (c *client) subscriptionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

func (c *client) send(msg message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.conn.WriteJSON(msg)
}

func (c *client) sendError(text string) {
	c.send(message{Type: "error", Message: text})
}

func (c *client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.conn.Close()
}
