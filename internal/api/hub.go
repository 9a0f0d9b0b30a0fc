/*
Package api
File: hub.go
Description:
    The WebSocket Hub fans a session's notifications out to every browser
    watching it.

    Each game session owns one Hub. The session goroutine publishes JSON
    envelopes (balance, location, remaining time, game end); the Hub writes
    them to the sockets of every connected client. When the session stops,
    the Hub is stopped too and every client is disconnected after its
    buffered messages have been flushed.

    Architecture:
    - Hub: one per session, run as a goroutine.
    - Client: one browser connection.
    - Attach: registers a client before its socket exists, so a snapshot
      taken afterwards can never miss a notification.
    - ServeWs: upgrades a GET request to a WebSocket and starts the pumps.
*/

package api

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Message defines the standard JSON envelope for all real-time communication.
type Message struct {
	Type    string      `json:"type"`    // Event Type (e.g., "balance_changed", "game_ended")
	Payload interface{} `json:"payload"` // The actual data
	Sender  string      `json:"sender"`  // Origin of the message (the session id)
}

// Client represents a single connected browser tab.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	greeting []byte      // Written before anything queued on send
	send     chan []byte // Buffered channel for outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	quit     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewHub creates a Hub. Run must be started in its own goroutine.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run is the main event loop for the Hub. It blocks until Stop is called.
func (h *Hub) Run() {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop it rather than stall the game.
					close(client.send)
					delete(h.clients, client)
				}
			}

		case <-h.quit:
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		}
	}
}

// Publish hands message to every client. It returns false once the hub has stopped.
func (h *Hub) Publish(message []byte) bool {
	select {
	case h.broadcast <- message:
		return true
	case <-h.done:
		return false
	}
}

// Stop disconnects every client and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
	<-h.done
}

// upgrader configures the WebSocket handshake.
// CheckOrigin returns true to allow connections from any host.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Attach registers a new client with the hub. Every message published from
// now on is queued for it, even before ServeWs gives it a connection. On a
// stopped hub the client comes back unregistered with send already closed.
func (h *Hub) Attach() *Client {
	client := &Client{hub: h, send: make(chan []byte, 256)}
	select {
	case h.register <- client:
	case <-h.done:
		close(client.send)
	}
	return client
}

// Detach unregisters a client that will never be served.
func (c *Client) Detach() {
	select {
	case c.hub.unregister <- c:
	case <-c.hub.done:
	}
}

// ServeWs upgrades the request and starts pumping the attached client.
// greeting, if non-nil, is the first message the client receives, ahead of
// anything the hub queued since Attach.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request, client *Client, greeting []byte) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WS Upgrade Error:", err)
		client.Detach()
		return
	}
	client.conn = conn
	client.greeting = greeting

	go client.writePump()
	go client.readPump()
}

// readPump watches the connection for closure. Clients only listen; any
// inbound frames are discarded.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WS Error: %v", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
// It exits, closing the connection, once the send channel is closed.
func (c *Client) writePump() {
	defer c.conn.Close()

	if c.greeting != nil {
		if err := c.write(c.greeting); err != nil {
			return
		}
	}
	for message := range c.send {
		if err := c.write(message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
}

func (c *Client) write(message []byte) error {
	w, err := c.conn.NextWriter(websocket.TextMessage)
	if err != nil {
		return err
	}
	w.Write(message)
	return w.Close()
}
