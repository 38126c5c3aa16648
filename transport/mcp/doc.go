// Package mcp exposes the coordinator's admin surface as MCP tools.
//
// The package is a thin client: every tool call is proxied to the REST API,
// so MCP agents observe exactly what HTTP callers observe. Gameplay itself
// stays on the WebSocket transport; the tools cover room creation,
// inspection, and cleanup.
//
// Available tools: create_room, list_rooms, get_room, room_state,
// delete_room, list_games.
package mcp
