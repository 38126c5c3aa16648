// Package ledger defines the coordinator's boundary to the external ledger
// service that escrows and releases wagered funds.
//
// The coordinator never holds funds. It asks the ledger to lock each seat's
// escrow before a room becomes active, and to release the payout once a room
// ends with a determined winner. Both calls happen asynchronously: the
// player-visible game outcome is authoritative and is never blocked on, or
// reverted by, settlement.
//
// Core Types:
//
// Gateway is the boundary interface. HTTPGateway posts JSON requests to a
// configured ledger base URL. NoopGateway acknowledges everything locally
// and serves unwagered rooms and tests.
//
// Failure Handling:
//
// Gateway errors are reported as ErrUnavailable. Callers retry out of band
// via Retry; a settlement that keeps failing is an operational alert, not a
// game-state error.
package ledger
