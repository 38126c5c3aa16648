package service

import (
	"errors"
	"time"

	"github.com/RituKumari998/Coordi/game/ledger"
	"github.com/RituKumari998/Coordi/game/rules"
	"github.com/RituKumari998/Coordi/game/session"
)

// Rejected-request errors surfaced to callers. None are fatal to the server.
var (
	ErrInvalidRoom       = errors.New("invalid room code")
	ErrRoomNotFound      = errors.New("room not found")
	ErrRoomExists        = errors.New("room already exists")
	ErrRoomFull          = errors.New("room is full")
	ErrRoomNotActive     = errors.New("room is not active")
	ErrNotAParticipant   = errors.New("not a participant in this room")
	ErrOutOfTurn         = errors.New("not your turn")
	ErrUnknownGame       = errors.New("unknown game")
	ErrInvalidWager      = errors.New("invalid wager")
	ErrIllegalMove       = rules.ErrIllegalMove
	ErrLedgerUnavailable = ledger.ErrUnavailable
)

// Wire event names emitted to room participants.
const (
	EventInit                 = "init"
	EventRoster               = "roster"
	EventRoomActive           = "room_active"
	EventMove                 = "move"
	EventGameOver             = "gameover"
	EventOpponentDisconnected = "opponent_disconnected"
	EventOpponentReconnected  = "opponent_reconnected"
	EventError                = "error"
)

// RosterEvent is broadcast whenever the seat count of a room changes.
type RosterEvent struct {
	RoomID string `json:"room_id"`
	Count  int    `json:"count"`
}

// RoomActiveEvent is broadcast once both seats are filled and escrow-locked.
type RoomActiveEvent struct {
	RoomID string `json:"room_id"`
	Turn   string `json:"turn"`
}

// MoveEvent is broadcast for every applied move, in application order.
type MoveEvent struct {
	RoomID   string `json:"room_id"`
	Position string `json:"position"`
	Turn     string `json:"turn"`
}

// GameOverEvent is broadcast when a room reaches a terminal result.
type GameOverEvent struct {
	RoomID string         `json:"room_id"`
	Status session.Status `json:"status"`
	Result session.Result `json:"result"`
}

// PresenceEvent is broadcast to the remaining seat on opponent disconnect
// and reconnect.
type PresenceEvent struct {
	RoomID   string `json:"room_id"`
	PlayerID string `json:"player_id"`
}

// JoinRequest carries a join attempt. ConnID is the transport connection
// making the attempt; PlayerID is the stable identity seat reclaim keys on.
type JoinRequest struct {
	RoomID   string
	PlayerID string
	ConnID   string
	Game     string
	Wager    int64
}

// JoinResult is returned to the joining connection only.
type JoinResult struct {
	RoomID      string         `json:"room_id"`
	Color       string         `json:"color"`
	Position    string         `json:"position"`
	Status      session.Status `json:"status"`
	Turn        string         `json:"turn,omitempty"`
	Reconnected bool           `json:"reconnected"`
	SeatCount   int            `json:"seat_count"`
}

// MoveResult is returned to the moving connection after a move is applied.
type MoveResult struct {
	Position string          `json:"position"`
	Turn     string          `json:"turn"`
	Terminal bool            `json:"terminal"`
	Result   *session.Result `json:"result,omitempty"`
}

// SeatInfo is a read-only seat snapshot for the admin surfaces.
type SeatInfo struct {
	PlayerID  string `json:"player_id"`
	Color     string `json:"color"`
	Connected bool   `json:"connected"`
	Wager     int64  `json:"wager"`
	Locked    bool   `json:"escrow_locked"`
}

// RoomInfo is a read-only room snapshot for the admin surfaces.
type RoomInfo struct {
	RoomID       string          `json:"room_id"`
	Game         string          `json:"game"`
	Status       session.Status  `json:"status"`
	Position     string          `json:"position"`
	Turn         string          `json:"turn,omitempty"`
	Seats        []SeatInfo      `json:"seats"`
	Result       *session.Result `json:"result,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActiveAt time.Time       `json:"last_active_at"`
}
