package session

import (
	"sync"
	"time"

	"github.com/RituKumari998/Coordi/game/rules"
)

// Status is the lifecycle state of a room.
type Status string

const (
	// StatusWaiting means fewer than two seats are filled, or escrow is
	// still pending for at least one seat.
	StatusWaiting Status = "waiting"

	// StatusActive means both seats are filled and escrow-locked; moves
	// are accepted.
	StatusActive Status = "active"

	// StatusEnded means a terminal result was recorded by the rules engine.
	StatusEnded Status = "ended"

	// StatusAbandoned means a seat was forfeited by disconnect timeout or
	// explicit leave while the game was active.
	StatusAbandoned Status = "abandoned"
)

// Terminal reports whether the status admits no further moves.
func (s Status) Terminal() bool {
	return s == StatusEnded || s == StatusAbandoned
}

// Wager is one seat's stake. EscrowRef and Locked are set when the ledger
// acknowledges the escrow lock; the wager is immutable from then on.
type Wager struct {
	Amount    int64  `json:"amount"`
	EscrowRef string `json:"escrow_ref,omitempty"`
	Locked    bool   `json:"locked"`
}

// Seat is one player's seat in a room. ConnID is the transient transport
// connection; PlayerID is the stable identity used for seat reclaim.
type Seat struct {
	ConnID         string     `json:"conn_id"`
	PlayerID       string     `json:"player_id"`
	Index          rules.Seat `json:"index"`
	Color          string     `json:"color"`
	Connected      bool       `json:"connected"`
	DisconnectedAt time.Time  `json:"disconnected_at,omitzero"`
	Wager          Wager      `json:"wager"`
}

// Result is the terminal outcome of a room. It is set exactly once, when the
// status transitions to ended or abandoned.
type Result struct {
	Draw   bool   `json:"draw"`
	Winner string `json:"winner,omitempty"` // seat color, empty on draw
	Method string `json:"method"`           // "checkmate", "abandonment", ...
}

// Session is the authoritative state of one room. All field access must
// happen with the embedded mutex held; the store hands out *Session and the
// coordinator serializes every operation against it.
type Session struct {
	sync.Mutex

	RoomID       string
	Game         string
	Position     string
	Seats        []*Seat
	Turn         rules.Seat
	Status       Status
	Result       *Result
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// SeatByConn resolves a seat by its current connection ID.
func (s *Session) SeatByConn(connID string) *Seat {
	for _, seat := range s.Seats {
		if seat.ConnID == connID {
			return seat
		}
	}
	return nil
}

// SeatByPlayer resolves a seat by stable player identity.
func (s *Session) SeatByPlayer(playerID string) *Seat {
	for _, seat := range s.Seats {
		if seat.PlayerID == playerID {
			return seat
		}
	}
	return nil
}

// SeatByColor resolves a seat by its display color.
func (s *Session) SeatByColor(color string) *Seat {
	for _, seat := range s.Seats {
		if seat.Color == color {
			return seat
		}
	}
	return nil
}

// SeatByIndex resolves a seat by its rules-engine index.
func (s *Session) SeatByIndex(idx rules.Seat) *Seat {
	for _, seat := range s.Seats {
		if seat.Index == idx {
			return seat
		}
	}
	return nil
}

// Opponent returns the seat opposing idx, or nil while the room is waiting
// for a second player.
func (s *Session) Opponent(idx rules.Seat) *Seat {
	return s.SeatByIndex(idx.Other())
}

// EscrowComplete reports whether both seats are filled and escrow-locked.
// Zero-amount wagers count as locked; there is nothing to escrow.
func (s *Session) EscrowComplete() bool {
	if len(s.Seats) != 2 {
		return false
	}
	for _, seat := range s.Seats {
		if seat.Wager.Amount > 0 && !seat.Wager.Locked {
			return false
		}
	}
	return true
}
