package rules

import "errors"

// ErrIllegalMove is returned by Engine.Apply when the proposed move is not
// legal in the given position. The position is unchanged.
var ErrIllegalMove = errors.New("illegal move")

// Seat identifies one of the two players from the engine's point of view.
// SeatA is always the first joiner of a room.
type Seat int

const (
	SeatA Seat = iota
	SeatB
)

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	if s == SeatA {
		return SeatB
	}
	return SeatA
}

// Move is a proposed move in square coordinates. From may be empty for games
// where only the destination matters (tic-tac-toe). Promotion is the optional
// promotion piece letter for chess ("q", "r", "b", "n").
type Move struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// Step is the result of applying a legal move.
type Step struct {
	// Position is the new encoded position.
	Position string

	// NextTurn is the seat entitled to move next. Meaningless once Terminal.
	NextTurn Seat

	// Terminal reports whether the game ended with this move.
	Terminal bool

	// Draw reports a drawn terminal outcome.
	Draw bool

	// Winner is the winning seat when Terminal and not Draw.
	Winner Seat

	// Method describes how the game ended ("checkmate", "stalemate", ...).
	Method string
}

// Engine is the rules-engine boundary. Implementations must be pure: Apply
// never mutates shared state and the same inputs always produce the same
// outputs.
type Engine interface {
	// Name is the registry key for this game.
	Name() string

	// Labels returns the display labels for SeatA and SeatB.
	Labels() [2]string

	// InitialPosition returns the encoded starting position.
	InitialPosition() string

	// Apply validates mv against position and returns the resulting step.
	// It returns ErrIllegalMove when the move is not legal; any other error
	// indicates a malformed position or move encoding.
	Apply(position string, mv Move) (Step, error)
}

var engines = map[string]Engine{}

func register(e Engine) {
	engines[e.Name()] = e
}

// Lookup returns the engine registered under name.
func Lookup(name string) (Engine, bool) {
	e, ok := engines[name]
	return e, ok
}

// Names returns the registered game names.
func Names() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	return names
}
