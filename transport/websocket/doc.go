// Package websocket provides the WebSocket transport for the room
// coordinator.
//
// The websocket package implements:
//   - A persistent, message-oriented, bidirectional channel per client
//   - Per-room topics with broadcast fan-out
//   - Inbound message dispatch to the coordinator (join, move, leave)
//   - Implicit disconnect handling feeding the reconnection grace window
//
// Architecture:
//
// The package uses a hub-and-spoke model where a central Hub manages all
// connections. Each connection is handled by a dedicated reader and writer
// goroutine; room membership changes and broadcasts flow through the hub's
// single event loop, so events for one room are delivered in the order they
// were emitted.
//
// Message Protocol:
//
// Messages are JSON-encoded. Inbound:
//
//	{"type": "join", "room_id": "AB12CD", "player_id": "0xa1b2", "wager": 100}
//	{"type": "move", "room_id": "AB12CD", "from": "e2", "to": "e4"}
//	{"type": "leave", "room_id": "AB12CD"}
//
// Outbound envelopes carry an event name and payload: "init" (joiner only),
// "roster", "room_active", "move", "gameover", "opponent_disconnected",
// "opponent_reconnected", and "error" (offending connection only).
//
// Connection Lifecycle:
//
// 1. Client connects; a connection ID is minted
// 2. Client joins a room; the hub subscribes it to the room topic
// 3. Moves flow up to the coordinator, state broadcasts flow back down
// 4. Transport loss marks the seat disconnected; the room state is retained
//    so the same player identity can reconnect and resynchronize
package websocket
