package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/RituKumari998/Coordi/game/config"
	"github.com/RituKumari998/Coordi/game/ledger"
	"github.com/RituKumari998/Coordi/game/rules"
	"github.com/RituKumari998/Coordi/game/session"
)

// coordinatorImpl implements the Coordinator interface. All session
// mutations happen under the session's own mutex; the connIndex mutex is
// never held while acquiring a session lock.
type coordinatorImpl struct {
	store    *session.Store
	gateway  ledger.Gateway
	notifier Notifier
	cfg      *config.Config

	mu        sync.Mutex
	connIndex map[string]string // connID -> roomID
}

// NewCoordinator creates the room coordinator.
func NewCoordinator(store *session.Store, gateway ledger.Gateway, notifier Notifier, cfg *config.Config) Coordinator {
	return &coordinatorImpl{
		store:     store,
		gateway:   gateway,
		notifier:  notifier,
		cfg:       cfg,
		connIndex: make(map[string]string),
	}
}

// CreateRoom registers an empty room ahead of any join.
func (c *coordinatorImpl) CreateRoom(ctx context.Context, roomID, game string) (*RoomInfo, error) {
	eng, err := c.engineFor(game)
	if err != nil {
		return nil, err
	}

	sess, err := c.store.Create(roomID, eng.Name(), eng.InitialPosition())
	switch {
	case errors.Is(err, session.ErrInvalidRoomCode):
		return nil, ErrInvalidRoom
	case errors.Is(err, session.ErrRoomAlreadyExists):
		return nil, ErrRoomExists
	case err != nil:
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()
	return snapshotLocked(sess), nil
}

// Join seats a connection, or reclaims an existing seat for a returning
// identity. First join to an unknown room code creates the room.
func (c *coordinatorImpl) Join(ctx context.Context, req JoinRequest) (*JoinResult, error) {
	eng, err := c.engineFor(req.Game)
	if err != nil {
		return nil, err
	}
	if req.Wager < 0 || (c.cfg.MaxWager > 0 && req.Wager > c.cfg.MaxWager) {
		return nil, ErrInvalidWager
	}

	sess, created, err := c.store.GetOrCreate(req.RoomID, eng.Name(), eng.InitialPosition())
	if errors.Is(err, session.ErrInvalidRoomCode) {
		return nil, ErrInvalidRoom
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open room: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()

	// The room's engine wins over the request when the room already existed.
	if !created {
		eng, err = c.engineFor(sess.Game)
		if err != nil {
			return nil, err
		}
	}

	// Same identity returning reclaims its seat, possibly on a new
	// connection. This is a reconnect, never a third join.
	if seat := sess.SeatByPlayer(req.PlayerID); seat != nil {
		c.reindex(seat.ConnID, req.ConnID, sess.RoomID)
		seat.ConnID = req.ConnID
		seat.Connected = true
		seat.DisconnectedAt = time.Time{}
		sess.LastActiveAt = time.Now()

		if opp := sess.Opponent(seat.Index); opp != nil && opp.Connected {
			c.notifier.Send(opp.ConnID, EventOpponentReconnected, PresenceEvent{
				RoomID:   sess.RoomID,
				PlayerID: seat.PlayerID,
			})
		}
		log.Printf("Room %s: %s reconnected as %s", sess.RoomID, req.PlayerID, seat.Color)
		return c.joinResultLocked(sess, seat, true), nil
	}

	if sess.Status.Terminal() || len(sess.Seats) >= 2 {
		return nil, ErrRoomFull
	}

	// Deterministic seating: the first joiner takes seat A (white/X).
	idx := rules.SeatA
	if len(sess.Seats) == 1 {
		idx = sess.Seats[0].Index.Other()
	}
	seat := &session.Seat{
		ConnID:    req.ConnID,
		PlayerID:  req.PlayerID,
		Index:     idx,
		Color:     eng.Labels()[idx],
		Connected: true,
		Wager:     session.Wager{Amount: req.Wager},
	}
	sess.Seats = append(sess.Seats, seat)
	sess.LastActiveAt = time.Now()
	c.reindex("", req.ConnID, sess.RoomID)

	log.Printf("Room %s: %s joined as %s (%d/2 seats)", sess.RoomID, req.PlayerID, seat.Color, len(sess.Seats))
	c.notifier.Broadcast(sess.RoomID, EventRoster, RosterEvent{RoomID: sess.RoomID, Count: len(sess.Seats)})

	if req.Wager > 0 {
		go c.lockEscrow(sess.RoomID, seat.Color, seat.PlayerID, req.Wager)
	}
	c.maybeActivateLocked(sess)

	return c.joinResultLocked(sess, seat, false), nil
}

// SubmitMove validates a move against membership, turn order, and the rules
// engine, then applies it atomically. Exactly one move can be in flight per
// room; the loser of a race fails against the already-updated position.
func (c *coordinatorImpl) SubmitMove(ctx context.Context, roomID, connID string, mv rules.Move) (*MoveResult, error) {
	sess, err := c.store.Get(roomID)
	if err != nil {
		return nil, ErrRoomNotFound
	}

	sess.Lock()
	defer sess.Unlock()

	seat := sess.SeatByConn(connID)
	if seat == nil {
		return nil, ErrNotAParticipant
	}
	if sess.Status != session.StatusActive {
		return nil, ErrRoomNotActive
	}
	if seat.Index != sess.Turn {
		return nil, ErrOutOfTurn
	}

	eng, err := c.engineFor(sess.Game)
	if err != nil {
		return nil, err
	}
	step, err := eng.Apply(sess.Position, mv)
	if errors.Is(err, rules.ErrIllegalMove) {
		return nil, ErrIllegalMove
	}
	if err != nil {
		return nil, fmt.Errorf("rules engine rejected position: %w", err)
	}

	sess.Position = step.Position
	sess.Turn = step.NextTurn
	sess.LastActiveAt = time.Now()

	result := &MoveResult{
		Position: sess.Position,
		Turn:     eng.Labels()[sess.Turn],
		Terminal: step.Terminal,
	}

	// Broadcast while holding the room lock so hub delivery order matches
	// move-application order.
	c.notifier.Broadcast(sess.RoomID, EventMove, MoveEvent{
		RoomID:   sess.RoomID,
		Position: sess.Position,
		Turn:     result.Turn,
	})

	if step.Terminal {
		sess.Status = session.StatusEnded
		outcome := session.Result{Draw: step.Draw, Method: step.Method}
		if !step.Draw {
			outcome.Winner = eng.Labels()[step.Winner]
		}
		sess.Result = &outcome
		result.Result = &outcome
		result.Turn = ""

		log.Printf("Room %s: game over (%s, winner=%q)", sess.RoomID, outcome.Method, outcome.Winner)
		c.notifier.Broadcast(sess.RoomID, EventGameOver, GameOverEvent{
			RoomID: sess.RoomID,
			Status: sess.Status,
			Result: outcome,
		})
		c.settleLocked(sess, outcome)
	}

	return result, nil
}

// Disconnect starts the grace window for the seat owning connID. Position
// and turn are retained untouched; the opponent is notified, not failed.
func (c *coordinatorImpl) Disconnect(connID string) {
	roomID, ok := c.roomFor(connID)
	if !ok {
		return
	}
	sess, err := c.store.Get(roomID)
	if err != nil {
		c.reindex(connID, "", "")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	seat := sess.SeatByConn(connID)
	if seat == nil {
		c.reindex(connID, "", "")
		return
	}
	seat.Connected = false
	seat.DisconnectedAt = time.Now()
	c.reindex(connID, "", "")

	log.Printf("Room %s: %s (%s) disconnected, grace window started", sess.RoomID, seat.PlayerID, seat.Color)
	if opp := sess.Opponent(seat.Index); opp != nil && opp.Connected {
		c.notifier.Send(opp.ConnID, EventOpponentDisconnected, PresenceEvent{
			RoomID:   sess.RoomID,
			PlayerID: seat.PlayerID,
		})
	}
}

// Leave vacates a seat immediately: no grace window applies. Leaving an
// active game forfeits it to the opponent.
func (c *coordinatorImpl) Leave(connID string) {
	roomID, ok := c.roomFor(connID)
	if !ok {
		return
	}
	sess, err := c.store.Get(roomID)
	if err != nil {
		c.reindex(connID, "", "")
		return
	}

	sess.Lock()
	defer sess.Unlock()

	seat := sess.SeatByConn(connID)
	if seat == nil {
		c.reindex(connID, "", "")
		return
	}
	c.reindex(connID, "", "")

	if sess.Status == session.StatusActive {
		c.forfeitLocked(sess, seat, "forfeit")
		return
	}

	c.removeSeatLocked(sess, seat)
	if len(sess.Seats) == 0 {
		c.evictLocked(sess)
		return
	}
	c.notifier.Broadcast(sess.RoomID, EventRoster, RosterEvent{RoomID: sess.RoomID, Count: len(sess.Seats)})
}

// Room returns a read-only snapshot of one room.
func (c *coordinatorImpl) Room(ctx context.Context, roomID string) (*RoomInfo, error) {
	sess, err := c.store.Get(roomID)
	if err != nil {
		return nil, ErrRoomNotFound
	}
	sess.Lock()
	defer sess.Unlock()
	return snapshotLocked(sess), nil
}

// Rooms returns read-only snapshots of all rooms.
func (c *coordinatorImpl) Rooms(ctx context.Context) []*RoomInfo {
	sessions := c.store.List()
	result := make([]*RoomInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		result = append(result, snapshotLocked(sess))
		sess.Unlock()
	}
	return result
}

// DeleteRoom evicts a room from the registry.
func (c *coordinatorImpl) DeleteRoom(ctx context.Context, roomID string) error {
	sess, err := c.store.Get(roomID)
	if err != nil {
		return ErrRoomNotFound
	}
	sess.Lock()
	defer sess.Unlock()
	c.evictLocked(sess)
	return nil
}

// SweepAbandoned scans for seats whose grace window elapsed without a
// reconnection. Active rooms forfeit to the remaining seat; waiting rooms
// shed the seat and dissolve when empty.
func (c *coordinatorImpl) SweepAbandoned() int {
	grace := c.cfg.GraceWindow.Std()
	cutoff := time.Now().Add(-grace)
	changed := 0

	for _, sess := range c.store.List() {
		sess.Lock()
		if sess.Status.Terminal() {
			sess.Unlock()
			continue
		}

		var expired []*session.Seat
		for _, seat := range sess.Seats {
			if !seat.Connected && !seat.DisconnectedAt.IsZero() && seat.DisconnectedAt.Before(cutoff) {
				expired = append(expired, seat)
			}
		}
		if len(expired) == 0 {
			sess.Unlock()
			continue
		}

		if sess.Status == session.StatusActive {
			if len(expired) == 2 {
				// Both seats timed out; nobody is left to win.
				c.abandonLocked(sess, session.Result{Draw: true, Method: "abandonment"})
			} else {
				c.forfeitLocked(sess, expired[0], "abandonment")
			}
			changed++
			sess.Unlock()
			continue
		}

		// Waiting room: vacate timed-out seats, dissolve when empty.
		for _, seat := range expired {
			c.removeSeatLocked(sess, seat)
		}
		if len(sess.Seats) == 0 {
			c.evictLocked(sess)
		} else {
			c.notifier.Broadcast(sess.RoomID, EventRoster, RosterEvent{RoomID: sess.RoomID, Count: len(sess.Seats)})
		}
		changed++
		sess.Unlock()
	}
	return changed
}

// CleanupExpired evicts terminal rooms past the retention TTL.
func (c *coordinatorImpl) CleanupExpired() int {
	return c.store.CleanupExpired(c.cfg.EndedTTL.Std())
}

// engineFor resolves a game name, defaulting to the configured game.
func (c *coordinatorImpl) engineFor(game string) (rules.Engine, error) {
	if game == "" {
		game = c.cfg.DefaultGame
	}
	eng, ok := rules.Lookup(game)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, game)
	}
	return eng, nil
}

// joinResultLocked builds the resynchronization payload for a joiner: the
// full current position, never just the initial one.
func (c *coordinatorImpl) joinResultLocked(sess *session.Session, seat *session.Seat, reconnected bool) *JoinResult {
	res := &JoinResult{
		RoomID:      sess.RoomID,
		Color:       seat.Color,
		Position:    sess.Position,
		Status:      sess.Status,
		Reconnected: reconnected,
		SeatCount:   len(sess.Seats),
	}
	if sess.Status == session.StatusActive {
		if turn := sess.SeatByIndex(sess.Turn); turn != nil {
			res.Turn = turn.Color
		}
	}
	return res
}

// maybeActivateLocked flips a waiting room to active once both seats are
// filled and escrow-locked. Turn starts with seat A.
func (c *coordinatorImpl) maybeActivateLocked(sess *session.Session) {
	if sess.Status != session.StatusWaiting || !sess.EscrowComplete() {
		return
	}
	sess.Status = session.StatusActive
	sess.Turn = rules.SeatA
	sess.LastActiveAt = time.Now()

	first := sess.SeatByIndex(rules.SeatA)
	log.Printf("Room %s: escrow complete, game active, %s to move", sess.RoomID, first.Color)
	c.notifier.Broadcast(sess.RoomID, EventRoomActive, RoomActiveEvent{
		RoomID: sess.RoomID,
		Turn:   first.Color,
	})
}

// forfeitLocked ends an active room in favor of the opponent of seat.
func (c *coordinatorImpl) forfeitLocked(sess *session.Session, seat *session.Seat, method string) {
	outcome := session.Result{Method: method}
	if opp := sess.Opponent(seat.Index); opp != nil {
		outcome.Winner = opp.Color
	}
	c.abandonLocked(sess, outcome)
}

// abandonLocked records a terminal result outside normal play and settles.
func (c *coordinatorImpl) abandonLocked(sess *session.Session, outcome session.Result) {
	sess.Status = session.StatusAbandoned
	sess.Result = &outcome
	sess.LastActiveAt = time.Now()

	log.Printf("Room %s: abandoned (%s, winner=%q)", sess.RoomID, outcome.Method, outcome.Winner)
	c.notifier.Broadcast(sess.RoomID, EventGameOver, GameOverEvent{
		RoomID: sess.RoomID,
		Status: sess.Status,
		Result: outcome,
	})
	c.settleLocked(sess, outcome)
}

// removeSeatLocked vacates a seat in a non-active room, refunding any
// already-locked stake.
func (c *coordinatorImpl) removeSeatLocked(sess *session.Session, seat *session.Seat) {
	for i, s := range sess.Seats {
		if s == seat {
			sess.Seats = append(sess.Seats[:i], sess.Seats[i+1:]...)
			break
		}
	}
	if seat.Wager.Locked && seat.Wager.Amount > 0 {
		go c.refund(sess.RoomID)
	}
	log.Printf("Room %s: seat %s (%s) vacated", sess.RoomID, seat.Color, seat.PlayerID)
}

// evictLocked drops the room and any connection index entries pointing at it.
func (c *coordinatorImpl) evictLocked(sess *session.Session) {
	for _, seat := range sess.Seats {
		if seat.Connected {
			c.reindex(seat.ConnID, "", "")
		}
	}
	c.store.Remove(sess.RoomID)
	log.Printf("Room %s: evicted", sess.RoomID)
}

// settleLocked dispatches wager settlement for a terminal outcome. The game
// result is final regardless of settlement success; failures are logged and
// retried out of band, never rolled back into game state.
func (c *coordinatorImpl) settleLocked(sess *session.Session, outcome session.Result) {
	staked := int64(0)
	for _, seat := range sess.Seats {
		if seat.Wager.Locked {
			staked += seat.Wager.Amount
		}
	}
	if staked == 0 {
		return
	}
	if outcome.Draw || outcome.Winner == "" {
		go c.refund(sess.RoomID)
		return
	}
	go c.releasePayout(sess.RoomID, outcome.Winner)
}

// lockEscrow asks the ledger to lock a seat's stake and records the
// acknowledgement. Runs on its own goroutine; the join path never waits.
func (c *coordinatorImpl) lockEscrow(roomID, color, playerID string, amount int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err := ledger.Retry(ctx, c.cfg.LedgerRetries, 2*time.Second, func(ctx context.Context) error {
		ref, err := c.gateway.LockEscrow(ctx, roomID, color, playerID, amount)
		if err != nil {
			return err
		}
		c.confirmEscrow(roomID, color, ref)
		return nil
	})
	if err != nil {
		log.Printf("ALERT: room %s: escrow lock for %s failed permanently: %v", roomID, color, err)
	}
}

// confirmEscrow records a ledger acknowledgement and re-checks activation.
func (c *coordinatorImpl) confirmEscrow(roomID, color, ref string) {
	sess, err := c.store.Get(roomID)
	if err != nil {
		log.Printf("ALERT: room %s: escrow ack for %s but room is gone (refund required)", roomID, color)
		go c.refund(roomID)
		return
	}

	sess.Lock()
	defer sess.Unlock()

	seat := sess.SeatByColor(color)
	if seat == nil {
		// The staking player left before the ack landed; the money is
		// locked at the ledger with no seat to attach it to.
		log.Printf("ALERT: room %s: escrow ack for %s but seat is vacated (refund required)", roomID, color)
		go c.refund(roomID)
		return
	}
	if seat.Wager.Locked {
		return
	}
	seat.Wager.EscrowRef = ref
	seat.Wager.Locked = true
	log.Printf("Room %s: escrow locked for %s (ref %s)", roomID, color, ref)
	c.maybeActivateLocked(sess)
}

func (c *coordinatorImpl) releasePayout(roomID, winner string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err := ledger.Retry(ctx, c.cfg.LedgerRetries, 2*time.Second, func(ctx context.Context) error {
		txRef, err := c.gateway.ReleasePayout(ctx, roomID, winner)
		if err != nil {
			return err
		}
		log.Printf("Room %s: payout released to %s (tx %s)", roomID, winner, txRef)
		return nil
	})
	if err != nil {
		log.Printf("ALERT: room %s: payout to %s failed permanently: %v", roomID, winner, err)
	}
}

func (c *coordinatorImpl) refund(roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	err := ledger.Retry(ctx, c.cfg.LedgerRetries, 2*time.Second, func(ctx context.Context) error {
		txRef, err := c.gateway.RefundEscrow(ctx, roomID)
		if err != nil {
			return err
		}
		log.Printf("Room %s: escrow refunded (tx %s)", roomID, txRef)
		return nil
	})
	if err != nil {
		log.Printf("ALERT: room %s: escrow refund failed permanently: %v", roomID, err)
	}
}

// roomFor resolves the room a connection is seated in.
func (c *coordinatorImpl) roomFor(connID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	roomID, ok := c.connIndex[connID]
	return roomID, ok
}

// reindex atomically replaces the index entry for a connection. Empty
// oldConn skips removal; empty newConn records nothing.
func (c *coordinatorImpl) reindex(oldConn, newConn, roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if oldConn != "" {
		delete(c.connIndex, oldConn)
	}
	if newConn != "" {
		c.connIndex[newConn] = roomID
	}
}

// snapshotLocked copies a session into a read-only RoomInfo.
func snapshotLocked(sess *session.Session) *RoomInfo {
	info := &RoomInfo{
		RoomID:       sess.RoomID,
		Game:         sess.Game,
		Status:       sess.Status,
		Position:     sess.Position,
		CreatedAt:    sess.CreatedAt,
		LastActiveAt: sess.LastActiveAt,
	}
	if sess.Result != nil {
		r := *sess.Result
		info.Result = &r
	}
	if sess.Status == session.StatusActive {
		if turn := sess.SeatByIndex(sess.Turn); turn != nil {
			info.Turn = turn.Color
		}
	}
	for _, seat := range sess.Seats {
		info.Seats = append(info.Seats, SeatInfo{
			PlayerID:  seat.PlayerID,
			Color:     seat.Color,
			Connected: seat.Connected,
			Wager:     seat.Wager.Amount,
			Locked:    seat.Wager.Locked,
		})
	}
	return info
}
