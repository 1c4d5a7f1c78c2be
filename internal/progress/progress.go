// Package progress implements the optional HTTP+WebSocket progress feed
// the driver starts when -progress names a listen address. One JSON
// event is pushed per class/method transition so a long-running batch
// can be watched live instead of only read back from the ledger after
// the fact.
package progress

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// EventKind names the four transitions an Event can carry. The driver
// publishes started and done per class and conflict for a method that
// fails to process; it publishes no stub events.
type EventKind string

const (
	EventStarted  EventKind = "started"
	EventDone     EventKind = "done"
	EventConflict EventKind = "conflict"
	EventStub     EventKind = "stub"
)

// Event is one pipeline transition, broadcast verbatim as JSON.
type Event struct {
	Kind      EventKind `json:"kind"`
	Class     string    `json:"class"`
	Method    string    `json:"method,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Broadcaster fans Events out to every connected WebSocket client. A
// write error or closed connection drops that client silently — a
// watching client disconnecting is never the pipeline's problem.
type Broadcaster struct {
	upgrader websocket.Upgrader
	server   *http.Server

	mu      sync.RWMutex
	clients map[*websocket.Conn]bool
}

// NewBroadcaster builds a Broadcaster listening at addr ("/events" is the
// single WebSocket endpoint it serves).
func NewBroadcaster(addr string) *Broadcaster {
	b := &Broadcaster{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]bool),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/events", b.handleUpgrade)
	b.server = &http.Server{Addr: addr, Handler: mux}
	return b
}

// Start begins serving in the background, returning once the listener is
// bound so that a bind failure reaches the caller.
func (b *Broadcaster) Start() error {
	ln, err := net.Listen("tcp", b.server.Addr)
	if err != nil {
		return fmt.Errorf("progress: listening on %s: %w", b.server.Addr, err)
	}
	go b.server.Serve(ln)
	return nil
}

func (b *Broadcaster) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	b.mu.Lock()
	b.clients[conn] = true
	b.mu.Unlock()

	go b.drainUntilClosed(conn)
}

// drainUntilClosed discards everything the client sends; its only job is
// to notice when the client goes away and drop it from the client set.
func (b *Broadcaster) drainUntilClosed(conn *websocket.Conn) {
	defer func() {
		b.mu.Lock()
		delete(b.clients, conn)
		b.mu.Unlock()
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Publish broadcasts ev to every currently-connected client.
func (b *Broadcaster) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}

	b.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(b.clients))
	for c := range b.clients {
		conns = append(conns, c)
	}
	b.mu.RUnlock()

	for _, c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.mu.Lock()
			delete(b.clients, c)
			b.mu.Unlock()
			c.Close()
		}
	}
}

// Close shuts down the HTTP server and every open client connection.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	for c := range b.clients {
		c.Close()
	}
	b.clients = make(map[*websocket.Conn]bool)
	b.mu.Unlock()

	return b.server.Close()
}
