// Package rules defines the rules-engine boundary for the room coordinator.
//
// The coordinator treats a rules engine as a pure function: given an encoded
// position and a proposed move it returns the resulting position, whose turn
// it is next, and whether the game has ended with a result. The coordinator
// never inspects positions itself; it only stores and forwards them.
//
// Core Types:
//
// Engine is the boundary interface. Move carries a from/to square pair plus
// an optional promotion piece. Step is the outcome of applying a move.
//
// Seats:
//
// Engines reason about the two players as SeatA and SeatB, where SeatA is
// always the first joiner of a room. Labels() maps the seats to the game's
// own vocabulary ("white"/"black" for chess, "X"/"O" for tic-tac-toe).
//
// Implementations:
//
// The chess engine delegates legality, move application, and game-over
// detection to github.com/notnil/chess and encodes positions as FEN strings.
// The tic-tac-toe engine is self-contained and encodes positions as a
// 9-cell board string plus the mover's symbol.
//
// Usage:
//
//	eng, ok := rules.Lookup("chess")
//	if !ok {
//		log.Fatal("unknown game")
//	}
//	step, err := eng.Apply(eng.InitialPosition(), rules.Move{From: "e2", To: "e4"})
//	if errors.Is(err, rules.ErrIllegalMove) {
//		// reject, position unchanged
//	}
package rules
