package session

import (
	"testing"

	"github.com/RituKumari998/Coordi/game/rules"
)

func twoSeatSession() *Session {
	return &Session{
		RoomID:   "ROOM42",
		Game:     "chess",
		Position: "start",
		Status:   StatusActive,
		Seats: []*Seat{
			{ConnID: "conn-a", PlayerID: "alice", Index: rules.SeatA, Color: "white", Connected: true},
			{ConnID: "conn-b", PlayerID: "bob", Index: rules.SeatB, Color: "black", Connected: true},
		},
	}
}

func TestStatusTerminal(t *testing.T) {
	cases := []struct {
		status   Status
		terminal bool
	}{
		{StatusWaiting, false},
		{StatusActive, false},
		{StatusEnded, true},
		{StatusAbandoned, true},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.terminal {
			t.Errorf("Status %q: expected Terminal()=%t, got %t", tc.status, tc.terminal, got)
		}
	}
}

func TestSeatLookups(t *testing.T) {
	sess := twoSeatSession()

	t.Run("by connection", func(t *testing.T) {
		if seat := sess.SeatByConn("conn-a"); seat == nil || seat.PlayerID != "alice" {
			t.Errorf("Expected alice for conn-a, got %+v", seat)
		}
		if seat := sess.SeatByConn("conn-x"); seat != nil {
			t.Errorf("Expected nil for unknown connection, got %+v", seat)
		}
	})

	t.Run("by player", func(t *testing.T) {
		if seat := sess.SeatByPlayer("bob"); seat == nil || seat.Color != "black" {
			t.Errorf("Expected black seat for bob, got %+v", seat)
		}
		if seat := sess.SeatByPlayer("carol"); seat != nil {
			t.Errorf("Expected nil for unknown player, got %+v", seat)
		}
	})

	t.Run("by color", func(t *testing.T) {
		if seat := sess.SeatByColor("white"); seat == nil || seat.PlayerID != "alice" {
			t.Errorf("Expected alice for white, got %+v", seat)
		}
	})

	t.Run("by index and opponent", func(t *testing.T) {
		if seat := sess.SeatByIndex(rules.SeatB); seat == nil || seat.PlayerID != "bob" {
			t.Errorf("Expected bob at SeatB, got %+v", seat)
		}
		if opp := sess.Opponent(rules.SeatA); opp == nil || opp.PlayerID != "bob" {
			t.Errorf("Expected bob as opponent of SeatA, got %+v", opp)
		}
	})

	t.Run("opponent missing while waiting", func(t *testing.T) {
		solo := &Session{Seats: []*Seat{{PlayerID: "alice", Index: rules.SeatA}}}
		if opp := solo.Opponent(rules.SeatA); opp != nil {
			t.Errorf("Expected nil opponent, got %+v", opp)
		}
	})
}

func TestEscrowComplete(t *testing.T) {
	t.Run("single seat", func(t *testing.T) {
		sess := &Session{Seats: []*Seat{{PlayerID: "alice"}}}
		if sess.EscrowComplete() {
			t.Error("Expected escrow incomplete with one seat")
		}
	})

	t.Run("zero wagers count as locked", func(t *testing.T) {
		sess := twoSeatSession()
		if !sess.EscrowComplete() {
			t.Error("Expected escrow complete for unwagered seats")
		}
	})

	t.Run("pending wager blocks", func(t *testing.T) {
		sess := twoSeatSession()
		sess.Seats[0].Wager = Wager{Amount: 100}
		if sess.EscrowComplete() {
			t.Error("Expected escrow incomplete with unlocked stake")
		}
	})

	t.Run("both locked", func(t *testing.T) {
		sess := twoSeatSession()
		sess.Seats[0].Wager = Wager{Amount: 100, Locked: true, EscrowRef: "e1"}
		sess.Seats[1].Wager = Wager{Amount: 100, Locked: true, EscrowRef: "e2"}
		if !sess.EscrowComplete() {
			t.Error("Expected escrow complete when both stakes are locked")
		}
	})
}
