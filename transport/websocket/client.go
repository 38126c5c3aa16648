package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/RituKumari998/Coordi/game/rules"
	"github.com/RituKumari998/Coordi/game/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 1024
)

// Client represents one WebSocket connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	connID string

	// sendMu guards closed. The hub closes send from its event loop while
	// the read pump and Hub.Send keep writing from other goroutines; every
	// write and the close must go through this lock.
	sendMu sync.Mutex
	closed bool

	// roomID is the room this connection joined, set by the read pump only.
	roomID string
}

// closeSend closes the outbound channel exactly once. Safe against
// concurrent sendMessage calls.
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump pumps messages from the connection to the coordinator. On any
// read error the connection is treated as an implicit disconnect: the seat
// enters its grace window, the session is untouched.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.hub.coordinator.Disconnect(c.connID)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error on %s: %v", c.connID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError("bad_message", "message is not valid JSON")
			continue
		}
		c.dispatch(&msg)
	}
}

// dispatch routes one inbound message to the coordinator.
func (c *Client) dispatch(msg *ClientMessage) {
	switch msg.Type {
	case "join":
		c.handleJoin(msg)
	case "move":
		c.handleMove(msg)
	case "leave":
		c.handleLeave()
	default:
		c.sendError("bad_message", "unknown message type "+msg.Type)
	}
}

func (c *Client) handleJoin(msg *ClientMessage) {
	if msg.PlayerID == "" {
		c.sendError("bad_message", "join requires player_id")
		return
	}

	// Subscribe to the room topic before joining so broadcasts triggered by
	// the join itself (roster, room_active) reach this connection too.
	if msg.RoomID != "" {
		c.hub.Subscribe(c, msg.RoomID)
	}

	res, err := c.hub.coordinator.Join(context.Background(), service.JoinRequest{
		RoomID:   msg.RoomID,
		PlayerID: msg.PlayerID,
		ConnID:   c.connID,
		Game:     msg.Game,
		Wager:    msg.Wager,
	})
	if err != nil {
		if msg.RoomID != "" {
			c.hub.unsubscribe <- subscription{client: c, roomID: msg.RoomID}
		}
		c.sendError(errorCode(err), err.Error())
		return
	}

	if msg.RoomID == "" {
		c.hub.Subscribe(c, res.RoomID)
	}
	c.roomID = res.RoomID

	// The init payload carries the full current position so reconnecting
	// clients resynchronize rather than restart.
	c.sendMessage(&ServerMessage{Event: service.EventInit, RoomID: res.RoomID, Data: res})
}

func (c *Client) handleMove(msg *ClientMessage) {
	roomID := msg.RoomID
	if roomID == "" {
		roomID = c.roomID
	}

	// The accepted position reaches everyone, mover included, through the
	// room broadcast; rejections are reported only to the requester.
	_, err := c.hub.coordinator.SubmitMove(context.Background(), roomID, c.connID, rules.Move{
		From:      msg.From,
		To:        msg.To,
		Promotion: msg.Promotion,
	})
	if err != nil {
		c.sendError(errorCode(err), err.Error())
	}
}

func (c *Client) handleLeave() {
	c.hub.coordinator.Leave(c.connID)
	if c.roomID != "" {
		c.hub.unsubscribe <- subscription{client: c, roomID: c.roomID}
		c.roomID = ""
	}
}

func (c *Client) sendError(code, message string) {
	c.sendMessage(&ServerMessage{Event: service.EventError, Data: ErrorPayload{Code: code, Message: message}})
}

func (c *Client) sendMessage(msg *ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message for %s: %v", c.connID, err)
		return
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Send buffer full for %s, dropping %s", c.connID, msg.Event)
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// errorCode maps coordinator errors to stable wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidRoom):
		return "invalid_room"
	case errors.Is(err, service.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, service.ErrRoomFull):
		return "room_full"
	case errors.Is(err, service.ErrRoomNotActive):
		return "room_not_active"
	case errors.Is(err, service.ErrNotAParticipant):
		return "not_a_participant"
	case errors.Is(err, service.ErrOutOfTurn):
		return "out_of_turn"
	case errors.Is(err, service.ErrIllegalMove):
		return "illegal_move"
	case errors.Is(err, service.ErrUnknownGame):
		return "unknown_game"
	case errors.Is(err, service.ErrInvalidWager):
		return "invalid_wager"
	default:
		return "internal"
	}
}
