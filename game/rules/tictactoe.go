package rules

import (
	"fmt"
	"strconv"
	"strings"
)

func init() {
	register(tictactoeEngine{})
}

// tictactoeEngine implements 3x3 tic-tac-toe. Positions are encoded as the
// nine board cells (row-major, '-' for empty) followed by ":" and the symbol
// of the player to move, e.g. "X---O----:X". Moves use To as the cell index
// "0".."8"; From is ignored.
type tictactoeEngine struct{}

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

func (tictactoeEngine) Name() string { return "tictactoe" }

func (tictactoeEngine) Labels() [2]string { return [2]string{"X", "O"} }

func (tictactoeEngine) InitialPosition() string { return "---------:X" }

func (tictactoeEngine) Apply(position string, mv Move) (Step, error) {
	board, mover, err := parseTTT(position)
	if err != nil {
		return Step{}, err
	}

	cell, err := strconv.Atoi(mv.To)
	if err != nil || cell < 0 || cell > 8 {
		return Step{}, ErrIllegalMove
	}
	if board[cell] != '-' {
		return Step{}, ErrIllegalMove
	}
	board[cell] = mover

	next := byte('X')
	if mover == 'X' {
		next = 'O'
	}

	step := Step{
		Position: string(board) + ":" + string(next),
		NextTurn: seatForSymbol(next),
	}

	if won(board, mover) {
		step.Terminal = true
		step.Winner = seatForSymbol(mover)
		step.Method = "line"
		return step, nil
	}
	if !strings.ContainsRune(string(board), '-') {
		step.Terminal = true
		step.Draw = true
		step.Method = "board full"
	}
	return step, nil
}

func parseTTT(position string) ([]byte, byte, error) {
	parts := strings.Split(position, ":")
	if len(parts) != 2 || len(parts[0]) != 9 || len(parts[1]) != 1 {
		return nil, 0, fmt.Errorf("invalid position %q", position)
	}
	mover := parts[1][0]
	if mover != 'X' && mover != 'O' {
		return nil, 0, fmt.Errorf("invalid mover in position %q", position)
	}
	board := []byte(parts[0])
	for _, c := range board {
		if c != 'X' && c != 'O' && c != '-' {
			return nil, 0, fmt.Errorf("invalid cell in position %q", position)
		}
	}
	return board, mover, nil
}

func won(board []byte, sym byte) bool {
	for _, line := range winLines {
		if board[line[0]] == sym && board[line[1]] == sym && board[line[2]] == sym {
			return true
		}
	}
	return false
}

func seatForSymbol(sym byte) Seat {
	if sym == 'X' {
		return SeatA
	}
	return SeatB
}
