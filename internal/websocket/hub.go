package matchws

import (
	"encoding/json"
	"log"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/puddu045/Layo-backend/internal/models"
)

const (
	EventMatchRequest  = "match.request"
	EventMatchAccepted = "match.accepted"
)

// Event is pushed to a traveler when a match involving them changes.
type Event struct {
	Type  string        `json:"type"`
	Match *models.Match `json:"match"`
	Chat  *models.Chat  `json:"chat,omitempty"`
}

type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     chan targeted
}

type targeted struct {
	userID  int64
	payload []byte
}

type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan targeted, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		id:     uuid.NewString(),
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case event := <-h.events:
			h.deliver(event)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// MatchRequested implements services.MatchNotifier.
func (h *Hub) MatchRequested(receiverID int64, match *models.Match) {
	h.notify(receiverID, Event{Type: EventMatchRequest, Match: match})
}

// MatchAccepted implements services.MatchNotifier.
func (h *Hub) MatchAccepted(senderID int64, match *models.Match, chat *models.Chat) {
	h.notify(senderID, Event{Type: EventMatchAccepted, Match: match, Chat: chat})
}

func (h *Hub) notify(userID int64, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("matchws: marshal event: %v", err)
		return
	}
	select {
	case h.events <- targeted{userID: userID, payload: payload}:
	default:
		// Queue full: drop rather than stall the request path.
		log.Printf("matchws: dropping %s event for user %d", event.Type, userID)
	}
}

func (h *Hub) deliver(event targeted) {
	set, ok := h.clients[event.userID]
	if !ok {
		return
	}
	for client := range set {
		select {
		case client.send <- event.payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, event.userID)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(45 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump drains the connection until it closes. Clients only receive
// events; inbound frames are discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
