package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/RituKumari998/Coordi/game/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		// TODO: Configure this for production
		return true
	},
}

// ServerMessage is the outbound JSON envelope.
type ServerMessage struct {
	Event  string      `json:"event"`
	RoomID string      `json:"room_id,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// ClientMessage is the inbound JSON envelope.
type ClientMessage struct {
	Type      string `json:"type"`
	RoomID    string `json:"room_id,omitempty"`
	PlayerID  string `json:"player_id,omitempty"`
	Game      string `json:"game,omitempty"`
	Wager     int64  `json:"wager,omitempty"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Promotion string `json:"promotion,omitempty"`
}

// ErrorPayload is the data of an "error" event, sent only to the offending
// connection.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type roomEvent struct {
	roomID string
	data   []byte
}

type subscription struct {
	client *Client
	roomID string
	done   chan struct{}
}

// Hub maintains the set of active connections and the per-room topics.
type Hub struct {
	coordinator service.Coordinator

	// Room topics, owned by the Run loop.
	rooms map[string]map[*Client]bool

	// Connection index for direct sends, shared with caller goroutines.
	connMu sync.RWMutex
	conns  map[string]*Client

	broadcast   chan roomEvent
	subscribe   chan subscription
	unsubscribe chan subscription
	register    chan *Client
	unregister  chan *Client
}

// NewHub creates a new hub. Bind must be called before Run.
func NewHub() *Hub {
	return &Hub{
		rooms:       make(map[string]map[*Client]bool),
		conns:       make(map[string]*Client),
		broadcast:   make(chan roomEvent),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
	}
}

// Bind attaches the coordinator the hub dispatches inbound messages to.
// The hub cannot be constructed with it directly because the coordinator is
// itself constructed with the hub as its Notifier.
func (h *Hub) Bind(coordinator service.Coordinator) {
	h.coordinator = coordinator
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case sub := <-h.subscribe:
			h.subscribeClient(sub.client, sub.roomID)
			if sub.done != nil {
				close(sub.done)
			}

		case sub := <-h.unsubscribe:
			h.unsubscribeClient(sub.client, sub.roomID)

		case ev := <-h.broadcast:
			h.fanOut(ev)
		}
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and starts the
// client pumps. Each connection gets a fresh connection ID; seats are bound
// to player identity, not to this ID.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		connID: uuid.NewString(),
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Broadcast implements service.Notifier. It fans an event out to every
// connection subscribed to the room.
func (h *Hub) Broadcast(roomID, event string, data interface{}) {
	payload, err := json.Marshal(&ServerMessage{Event: event, RoomID: roomID, Data: data})
	if err != nil {
		log.Printf("Failed to marshal broadcast %s for room %s: %v", event, roomID, err)
		return
	}
	h.broadcast <- roomEvent{roomID: roomID, data: payload}
}

// Subscribe adds a client to a room topic and returns once the membership
// is applied, so broadcasts emitted afterwards are guaranteed to reach it.
func (h *Hub) Subscribe(client *Client, roomID string) {
	done := make(chan struct{})
	h.subscribe <- subscription{client: client, roomID: roomID, done: done}
	<-done
}

// Send implements service.Notifier. It targets a single connection.
func (h *Hub) Send(connID, event string, data interface{}) {
	h.connMu.RLock()
	client, ok := h.conns[connID]
	h.connMu.RUnlock()
	if !ok {
		return
	}
	client.sendMessage(&ServerMessage{Event: event, Data: data})
}

func (h *Hub) registerClient(client *Client) {
	h.connMu.Lock()
	h.conns[client.connID] = client
	h.connMu.Unlock()

	log.Printf("Client %s connected (total: %d)", client.connID, len(h.conns))
}

func (h *Hub) unregisterClient(client *Client) {
	h.connMu.Lock()
	_, known := h.conns[client.connID]
	delete(h.conns, client.connID)
	h.connMu.Unlock()
	if !known {
		return
	}

	for roomID, members := range h.rooms {
		if members[client] {
			h.unsubscribeClient(client, roomID)
		}
	}
	client.closeSend()

	log.Printf("Client %s disconnected", client.connID)
}

func (h *Hub) subscribeClient(client *Client, roomID string) {
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]bool)
	}
	h.rooms[roomID][client] = true
}

func (h *Hub) unsubscribeClient(client *Client, roomID string) {
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, client)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
}

func (h *Hub) fanOut(ev roomEvent) {
	for client := range h.rooms[ev.roomID] {
		select {
		case client.send <- ev.data:
		default:
			// Client's send buffer is full; drop it rather than block the
			// hub loop. The read pump will observe the close and clean up.
			h.unregisterClient(client)
		}
	}
}
