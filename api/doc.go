// Package api provides the HTTP surface of the coordinator.
//
// Gameplay flows over the WebSocket transport; the REST routes exist for
// room creation ahead of a share link, and for admin and diagnostic reads.
//
// Routes:
//
//	POST   /api/rooms            create a room (optional code and game)
//	GET    /api/rooms            list rooms
//	GET    /api/rooms/{id}       room snapshot
//	DELETE /api/rooms/{id}       evict a room
//	GET    /api/rooms/{id}/state position/turn/status only
//	GET    /api/games            registered rules engines
//	GET    /healthz              liveness probe
//	GET    /ws                   WebSocket upgrade
package api
