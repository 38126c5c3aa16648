package rules

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

func init() {
	register(chessEngine{})
}

// chessEngine delegates legality and game-over detection to notnil/chess.
// Positions are FEN strings; moves are from/to squares in UCI form.
type chessEngine struct{}

func (chessEngine) Name() string { return "chess" }

func (chessEngine) Labels() [2]string { return [2]string{"white", "black"} }

func (chessEngine) InitialPosition() string {
	return chess.NewGame().Position().String()
}

func (chessEngine) Apply(position string, mv Move) (Step, error) {
	fen, err := chess.FEN(position)
	if err != nil {
		return Step{}, fmt.Errorf("invalid position %q: %w", position, err)
	}
	game := chess.NewGame(fen, chess.UseNotation(chess.UCINotation{}))

	uci := strings.ToLower(mv.From + mv.To + mv.Promotion)
	if err := game.MoveStr(uci); err != nil {
		return Step{}, ErrIllegalMove
	}

	step := Step{
		Position: game.Position().String(),
		NextTurn: seatForColor(game.Position().Turn()),
	}

	if game.Outcome() != chess.NoOutcome {
		step.Terminal = true
		step.Method = strings.ToLower(game.Method().String())
		switch game.Outcome() {
		case chess.WhiteWon:
			step.Winner = SeatA
		case chess.BlackWon:
			step.Winner = SeatB
		default:
			step.Draw = true
		}
	}

	return step, nil
}

func seatForColor(c chess.Color) Seat {
	if c == chess.White {
		return SeatA
	}
	return SeatB
}
