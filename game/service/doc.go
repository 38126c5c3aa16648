// Package service provides the room coordinator: the business logic layer
// that pairs two clients into a session, validates turn-ordered moves, and
// propagates state changes.
//
// The service package implements:
//   - Seat assignment and identity-keyed seat reclaim (reconnection)
//   - Turn and legality enforcement ahead of the rules engine
//   - The per-seat connection state machine with a reconnection grace window
//   - Escrow gating: rooms become active only once both stakes are locked
//   - Asynchronous payout release on terminal results
//
// Core Interfaces:
//
// Coordinator is the main service interface consumed by the transports.
// Notifier is the outbound event sink the websocket hub implements; the
// coordinator pushes room broadcasts through it while holding the room lock
// so delivery order always equals move-application order.
//
// Architecture:
//
// The coordinator sits between the transports (HTTP/WebSocket/MCP) and the
// rules engines, owning all mutation of session state. Every operation
// against one room is serialized on that room's mutex; operations against
// different rooms run fully in parallel. Ledger calls are dispatched on
// their own goroutines and never block or revert a game outcome.
//
// Usage:
//
//	store := session.NewStore()
//	coord := service.NewCoordinator(store, ledger.NoopGateway{}, hub, cfg)
//
//	res, err := coord.Join(ctx, service.JoinRequest{
//		RoomID:   "AB12CD",
//		PlayerID: "0xa1b2",
//		ConnID:   connID,
//		Wager:    100,
//	})
package service
