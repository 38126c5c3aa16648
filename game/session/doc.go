// Package session provides the session data model and registry for the
// room coordinator.
//
// The session package implements:
//   - The authoritative Session record for a single game room
//   - Thread-safe room storage and retrieval (the Session Store)
//   - Room code generation and format validation
//   - Room lifecycle: creation on first join, eviction on abandonment or TTL
//
// Core Types:
//
// Session holds everything the coordinator knows about one room: the encoded
// position, the (at most two) seat assignments, whose turn it is, the room
// status, and the terminal result once one exists. Store is the keyed
// registry mapping room codes to sessions.
//
// Room Codes:
//
// Rooms use 6-character uppercase alphanumeric codes so players can share
// them out of band. The store generates collision-resistant codes using
// cryptographic randomness when the caller does not supply one.
//
// Concurrency:
//
// The store's own lock guards only the registry map: it guarantees that no
// two rooms interfere, not that a single room's mutations are safe against
// concurrent callers. Each Session embeds its own mutex; all reads and
// writes of session fields must happen with that mutex held. The coordinator
// owns that discipline.
package session
