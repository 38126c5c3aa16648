package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/RituKumari998/Coordi/game/service"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// GetMCPServer returns the underlying MCP server for serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// initMCPServer initializes the MCP server with all tools.
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Game Room Coordinator",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Game Room Coordinator - MCP Interface

This is a thin client that proxies all requests to the REST API server.

The coordinator pairs two players into a room, holds the authoritative game
position, enforces turn order, and settles wagers through an external
ledger. Gameplay happens over the WebSocket endpoint (/ws); these tools
cover room administration and inspection.

AVAILABLE TOOLS:
- create_room: Register a room ahead of sharing its code
- list_rooms: List all rooms with status and seat counts
- get_room: Full room snapshot including seats and wagers
- room_state: Position/turn/status only
- delete_room: Evict a room
- list_games: Supported rules engines`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools.
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_room",
		Description: "Create a new game room with an optional code and game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "6-character room code (optional, generated when omitted)",
				},
				"game": map[string]interface{}{
					"type":        "string",
					"description": "Game name, e.g. chess or tictactoe (optional)",
				},
			},
		},
	}, c.handleCreateRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all game rooms",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_room",
		Description: "Get the full snapshot of a room, seats and wagers included",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room code to retrieve",
				},
			},
			Required: []string{"room_id"},
		},
	}, c.handleGetRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "room_state",
		Description: "Get only the position, turn, and status of a room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room code to inspect",
				},
			},
			Required: []string{"room_id"},
		},
	}, c.handleRoomState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_room",
		Description: "Evict a room from the registry",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room code to delete",
				},
			},
			Required: []string{"room_id"},
		},
	}, c.handleDeleteRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List the supported rules engines",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListGames)
}

// Tool handlers

func (c *Client) handleCreateRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)
	game, _ := args["game"].(string)

	body := map[string]interface{}{}
	if roomID != "" {
		body["room_id"] = roomID
	}
	if game != "" {
		body["game"] = game
	}

	var room service.RoomInfo
	if err := c.apiCall("POST", "/api/rooms", body, &room); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoom(&room)), nil
}

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                 `json:"count"`
		Rooms []*service.RoomInfo `json:"rooms"`
	}
	if err := c.apiCall("GET", "/api/rooms", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if response.Count == 0 {
		return mcp.NewToolResultText("No rooms."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d room(s):\n\n", response.Count)
	for _, room := range response.Rooms {
		fmt.Fprintf(&b, "• %s [%s] %s, %d/2 seats\n", room.RoomID, room.Game, room.Status, len(room.Seats))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)

	var room service.RoomInfo
	if err := c.apiCall("GET", "/api/rooms/"+roomID, nil, &room); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatRoom(&room)), nil
}

func (c *Client) handleRoomState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)

	var state struct {
		RoomID   string `json:"room_id"`
		Game     string `json:"game"`
		Status   string `json:"status"`
		Position string `json:"position"`
		Turn     string `json:"turn"`
	}
	if err := c.apiCall("GET", fmt.Sprintf("/api/rooms/%s/state", roomID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := fmt.Sprintf("Room %s (%s)\nStatus: %s\nPosition: %s", state.RoomID, state.Game, state.Status, state.Position)
	if state.Turn != "" {
		text += fmt.Sprintf("\nTurn: %s", state.Turn)
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleDeleteRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)

	if err := c.apiCall("DELETE", "/api/rooms/"+roomID, nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Room %s deleted.", roomID)), nil
}

func (c *Client) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Games []string `json:"games"`
	}
	if err := c.apiCall("GET", "/api/games", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Supported games: " + strings.Join(response.Games, ", ")), nil
}

// formatRoom renders a room snapshot as human-readable text.
func formatRoom(room *service.RoomInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room %s (%s)\n", room.RoomID, room.Game)
	fmt.Fprintf(&b, "Status: %s\n", room.Status)
	fmt.Fprintf(&b, "Position: %s\n", room.Position)
	if room.Turn != "" {
		fmt.Fprintf(&b, "Turn: %s\n", room.Turn)
	}
	for _, seat := range room.Seats {
		state := "connected"
		if !seat.Connected {
			state = "disconnected"
		}
		fmt.Fprintf(&b, "Seat %s: %s (%s, wager %d, locked %t)\n",
			seat.Color, seat.PlayerID, state, seat.Wager, seat.Locked)
	}
	if room.Result != nil {
		if room.Result.Draw {
			fmt.Fprintf(&b, "Result: draw (%s)\n", room.Result.Method)
		} else {
			fmt.Fprintf(&b, "Result: %s wins (%s)\n", room.Result.Winner, room.Result.Method)
		}
	}
	return b.String()
}

// apiCall performs an HTTP request against the REST API.
func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}
