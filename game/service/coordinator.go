package service

import (
	"context"

	"github.com/RituKumari998/Coordi/game/rules"
)

// Coordinator is the room coordinator consumed by the transports.
type Coordinator interface {
	// CreateRoom registers an empty room. An empty roomID gets a generated
	// code; an empty game gets the configured default.
	CreateRoom(ctx context.Context, roomID, game string) (*RoomInfo, error)

	// Join seats a connection in a room, creating the room on first join to
	// an unknown code. The same player identity rejoining reclaims its seat
	// as a reconnect.
	Join(ctx context.Context, req JoinRequest) (*JoinResult, error)

	// SubmitMove validates and applies a move for the seat owning connID.
	// Rejections never mutate state and are reported only to the caller.
	SubmitMove(ctx context.Context, roomID, connID string, mv rules.Move) (*MoveResult, error)

	// Disconnect marks the seat owning connID as disconnected, starting its
	// reconnection grace window. The session is retained untouched.
	Disconnect(connID string)

	// Leave vacates the seat owning connID immediately. Leaving an active
	// game forfeits it to the opponent.
	Leave(connID string)

	// Room returns a read-only snapshot of one room.
	Room(ctx context.Context, roomID string) (*RoomInfo, error)

	// Rooms returns read-only snapshots of all rooms.
	Rooms(ctx context.Context) []*RoomInfo

	// DeleteRoom evicts a room from the registry.
	DeleteRoom(ctx context.Context, roomID string) error

	// SweepAbandoned forfeits rooms whose disconnected seat outlived the
	// grace window and evicts rooms with no seats left. It returns how many
	// rooms changed state. Driven by a background ticker.
	SweepAbandoned() int

	// CleanupExpired evicts terminal rooms past the retention TTL and
	// returns how many were removed. Driven by a background ticker.
	CleanupExpired() int
}

// Notifier is the outbound event sink, implemented by the websocket hub.
// Broadcast fans an event out to every connection in a room; Send targets a
// single connection. Implementations must not block the caller.
type Notifier interface {
	Broadcast(roomID, event string, data interface{})
	Send(connID, event string, data interface{})
}
