package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable indicates the ledger could not serve the request. The call
// may be retried; game state is never rolled back because of it.
var ErrUnavailable = errors.New("ledger unavailable")

// Gateway is the escrow/payout boundary owned by the external ledger
// collaborator. Implementations must be safe for concurrent use.
type Gateway interface {
	// LockEscrow asks the ledger to lock amount for the given seat. It
	// returns an escrow reference on acknowledgement.
	LockEscrow(ctx context.Context, roomID, seatColor, playerID string, amount int64) (string, error)

	// ReleasePayout asks the ledger to pay the locked stakes out to the
	// winning seat. It returns a settlement transaction reference.
	ReleasePayout(ctx context.Context, roomID, winnerColor string) (string, error)

	// RefundEscrow returns both stakes to their owners after a draw or a
	// room that dissolved before becoming active.
	RefundEscrow(ctx context.Context, roomID string) (string, error)
}

// Retry runs fn up to attempts times with a fixed delay between tries,
// stopping early when fn succeeds or ctx is done. It returns the last error.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
	return err
}

// NoopGateway acknowledges every request without talking to a ledger. It
// backs unwagered rooms and tests.
type NoopGateway struct{}

func (NoopGateway) LockEscrow(ctx context.Context, roomID, seatColor, playerID string, amount int64) (string, error) {
	return fmt.Sprintf("noop-escrow-%s-%s", roomID, seatColor), nil
}

func (NoopGateway) ReleasePayout(ctx context.Context, roomID, winnerColor string) (string, error) {
	return fmt.Sprintf("noop-payout-%s", roomID), nil
}

func (NoopGateway) RefundEscrow(ctx context.Context, roomID string) (string, error) {
	return fmt.Sprintf("noop-refund-%s", roomID), nil
}
