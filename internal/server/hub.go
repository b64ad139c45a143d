package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"livemark/internal/app"
	"livemark/internal/document"
	"livemark/internal/metrics"
)

// client is one connected preview page.
type client struct {
	id   string
	doc  document.ID
	conn *websocket.Conn
	send chan []byte
}

// Hub fans frames out to the preview clients of each document.
//
// Slow clients are dropped rather than allowed to stall a broadcast. The hub
// keeps the last render and diagnostics frame per document so a page joining
// mid-session receives the current state immediately.
type Hub struct {
	log *app.Logger

	mu        sync.RWMutex
	clients   map[document.ID]map[*client]bool
	lastState map[document.ID][][]byte // replayed to joining clients
}

// NewHub creates an empty hub.
func NewHub(log *app.Logger) *Hub {
	return &Hub{
		log:       log.WithComponent("hub"),
		clients:   make(map[document.ID]map[*client]bool),
		lastState: make(map[document.ID][][]byte),
	}
}

// register adds a connection and replays the document's current state.
func (h *Hub) register(doc document.ID, conn *websocket.Conn) *client {
	c := &client{
		id:   uuid.NewString(),
		doc:  doc,
		conn: conn,
		send: make(chan []byte, 64),
	}

	h.mu.Lock()
	if h.clients[doc] == nil {
		h.clients[doc] = make(map[*client]bool)
	}
	h.clients[doc][c] = true
	replay := append([][]byte(nil), h.lastState[doc]...)
	h.mu.Unlock()

	metrics.PreviewClients.Inc()
	h.log.Debug("client %s joined %s", c.id, doc)

	go c.writePump()
	for _, frame := range replay {
		if frame != nil {
			c.send <- frame
		}
	}
	return c
}

// unregister removes a connection. Safe to call more than once for the same
// client: a slow client dropped mid-broadcast is unregistered again when its
// read loop exits.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	peers, ok := h.clients[c.doc]
	removed := ok && peers[c]
	if removed {
		delete(peers, c)
		close(c.send)
		if len(peers) == 0 {
			delete(h.clients, c.doc)
		}
	}
	h.mu.Unlock()

	if removed {
		metrics.PreviewClients.Dec()
		h.log.Debug("client %s left %s", c.id, c.doc)
	}
}

// Broadcast sends a frame to every client of the document. When remember is
// true the frame is kept for replay to later joiners, replacing the prior
// remembered frame of the same kind.
func (h *Hub) Broadcast(doc document.ID, kind int, frame []byte, remember bool) {
	h.mu.Lock()
	if remember {
		state := h.lastState[doc]
		for len(state) <= kind {
			state = append(state, nil)
		}
		state[kind] = frame
		h.lastState[doc] = state
	}
	var stalled []*client
	for c := range h.clients[doc] {
		select {
		case c.send <- frame:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.Unlock()

	for _, c := range stalled {
		h.log.Warn("dropping slow preview client %s", c.id)
		h.unregister(c)
	}
}

// Forget drops the remembered state for a closed document.
func (h *Hub) Forget(doc document.ID) {
	h.mu.Lock()
	delete(h.lastState, doc)
	h.mu.Unlock()
}

// Frame kinds. Render and diagnostics frames are remembered for replay;
// reveal frames are transient.
const (
	frameRender = iota
	frameDiagnostics
	frameReveal
)

// writePump drains the send channel onto the connection.
func (c *client) writePump() {
	for frame := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			return
		}
	}
	_ = c.conn.Close()
}
