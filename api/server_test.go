package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/RituKumari998/Coordi/game/config"
	"github.com/RituKumari998/Coordi/game/ledger"
	"github.com/RituKumari998/Coordi/game/service"
	"github.com/RituKumari998/Coordi/game/session"
	"github.com/RituKumari998/Coordi/transport/websocket"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := websocket.NewHub()
	coord := service.NewCoordinator(session.NewStore(), ledger.NoopGateway{}, hub, config.Default())
	hub.Bind(coord)
	go hub.Run()

	ts := httptest.NewServer(NewServer(coord, hub))
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	data, _ := json.Marshal(body)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestAPI_RoomLifecycle(t *testing.T) {
	ts := newTestServer(t)

	t.Run("create room", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/rooms", map[string]string{"room_id": "AB12CD", "game": "tictactoe"})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201, got %d", resp.StatusCode)
		}
		var room service.RoomInfo
		decode(t, resp, &room)
		if room.RoomID != "AB12CD" || room.Game != "tictactoe" {
			t.Errorf("Unexpected room: %+v", room)
		}
		if room.Status != session.StatusWaiting {
			t.Errorf("Expected waiting status, got %s", room.Status)
		}
	})

	t.Run("duplicate room", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/rooms", map[string]string{"room_id": "AB12CD"})
		resp.Body.Close()
		if resp.StatusCode != http.StatusConflict {
			t.Errorf("Expected 409, got %d", resp.StatusCode)
		}
	})

	t.Run("invalid room code", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/rooms", map[string]string{"room_id": "nope"})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("unknown game", func(t *testing.T) {
		resp := postJSON(t, ts.URL+"/api/rooms", map[string]string{"game": "checkers"})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", resp.StatusCode)
		}
	})

	t.Run("list rooms", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/rooms")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		var list struct {
			Count int                 `json:"count"`
			Rooms []*service.RoomInfo `json:"rooms"`
		}
		decode(t, resp, &list)
		if list.Count != 1 {
			t.Errorf("Expected 1 room, got %d", list.Count)
		}
	})

	t.Run("get room", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/rooms/AB12CD")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		var room service.RoomInfo
		decode(t, resp, &room)
		if room.RoomID != "AB12CD" {
			t.Errorf("Expected room AB12CD, got '%s'", room.RoomID)
		}
	})

	t.Run("room state", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/rooms/AB12CD/state")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		var state struct {
			RoomID   string `json:"room_id"`
			Position string `json:"position"`
			Status   string `json:"status"`
		}
		decode(t, resp, &state)
		if state.Position != "---------:X" {
			t.Errorf("Expected initial tictactoe position, got '%s'", state.Position)
		}
	})

	t.Run("missing room", func(t *testing.T) {
		resp, err := http.Get(ts.URL + "/api/rooms/ZZZZZZ")
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", resp.StatusCode)
		}
	})

	t.Run("delete room", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/rooms/AB12CD", nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("DELETE failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("Expected 200, got %d", resp.StatusCode)
		}

		check, _ := http.Get(ts.URL + "/api/rooms/AB12CD")
		check.Body.Close()
		if check.StatusCode != http.StatusNotFound {
			t.Errorf("Expected 404 after delete, got %d", check.StatusCode)
		}
	})
}

func TestAPI_CreateRoomBody(t *testing.T) {
	ts := newTestServer(t)

	t.Run("malformed body rejected", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/rooms", "application/json", strings.NewReader("{nope"))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Expected 400 for malformed body, got %d", resp.StatusCode)
		}

		// Nothing may have been created from the garbage request.
		list, _ := http.Get(ts.URL + "/api/rooms")
		var body struct {
			Count int `json:"count"`
		}
		decode(t, list, &body)
		if body.Count != 0 {
			t.Errorf("Expected no rooms after rejected create, got %d", body.Count)
		}
	})

	t.Run("empty body creates default room", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/api/rooms", "application/json", strings.NewReader(""))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("Expected 201 for empty body, got %d", resp.StatusCode)
		}
		var room service.RoomInfo
		decode(t, resp, &room)
		if room.Game != "chess" {
			t.Errorf("Expected default game, got '%s'", room.Game)
		}
	})
}

func TestAPI_ListGames(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/games")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var body struct {
		Games []string `json:"games"`
	}
	decode(t, resp, &body)

	found := map[string]bool{}
	for _, g := range body.Games {
		found[g] = true
	}
	if !found["chess"] || !found["tictactoe"] {
		t.Errorf("Expected chess and tictactoe, got %v", body.Games)
	}
}

func TestAPI_Health(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

// wsEvent is the decoded outbound envelope used by the flow test.
type wsEvent struct {
	Event  string          `json:"event"`
	RoomID string          `json:"room_id"`
	Data   json.RawMessage `json:"data"`
}

func dialWS(t *testing.T, ts *httptest.Server) *gws.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads events until one with the given name arrives.
func readUntil(t *testing.T, conn *gws.Conn, event string) wsEvent {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg wsEvent
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Read failed while waiting for %q: %v", event, err)
		}
		if msg.Event == event {
			return msg
		}
		if msg.Event == "error" && event != "error" {
			t.Fatalf("Unexpected error event while waiting for %q: %s", event, msg.Data)
		}
	}
}

func TestAPI_WebSocketGameFlow(t *testing.T) {
	ts := newTestServer(t)

	alice := dialWS(t, ts)
	bob := dialWS(t, ts)

	// Alice joins without a code; the server generates one.
	alice.WriteJSON(map[string]interface{}{"type": "join", "player_id": "alice", "game": "tictactoe"})
	init := readUntil(t, alice, "init")

	var joined struct {
		RoomID string `json:"room_id"`
		Color  string `json:"color"`
	}
	if err := json.Unmarshal(init.Data, &joined); err != nil {
		t.Fatalf("Bad init payload: %v", err)
	}
	if joined.Color != "X" {
		t.Errorf("Expected first joiner to be X, got '%s'", joined.Color)
	}

	// Bob joins the shared code; both sides observe activation.
	bob.WriteJSON(map[string]interface{}{"type": "join", "room_id": joined.RoomID, "player_id": "bob"})
	readUntil(t, bob, "init")
	readUntil(t, alice, "room_active")
	readUntil(t, bob, "room_active")

	// X opens in the center; the move reaches both connections.
	alice.WriteJSON(map[string]interface{}{"type": "move", "to": "4"})
	var move struct {
		Position string `json:"position"`
		Turn     string `json:"turn"`
	}
	ev := readUntil(t, alice, "move")
	json.Unmarshal(ev.Data, &move)
	if move.Position != "----X----:O" {
		t.Errorf("Expected '----X----:O', got '%s'", move.Position)
	}
	if move.Turn != "O" {
		t.Errorf("Expected O to move, got '%s'", move.Turn)
	}
	readUntil(t, bob, "move")

	// X again, out of turn. Only the offender hears about it.
	alice.WriteJSON(map[string]interface{}{"type": "move", "to": "3"})
	errEv := readUntil(t, alice, "error")
	var payload struct {
		Code string `json:"code"`
	}
	json.Unmarshal(errEv.Data, &payload)
	if payload.Code != "out_of_turn" {
		t.Errorf("Expected code 'out_of_turn', got '%s'", payload.Code)
	}

	// Play out a win for X on the middle row.
	script := []struct {
		conn *gws.Conn
		cell string
	}{
		{bob, "0"},
		{alice, "3"},
		{bob, "1"},
		{alice, "5"},
	}
	for _, mv := range script {
		mv.conn.WriteJSON(map[string]interface{}{"type": "move", "to": mv.cell})
		readUntil(t, alice, "move")
		readUntil(t, bob, "move")
	}

	over := readUntil(t, alice, "gameover")
	readUntil(t, bob, "gameover")

	var result struct {
		Status string `json:"status"`
		Result struct {
			Winner string `json:"winner"`
			Method string `json:"method"`
		} `json:"result"`
	}
	json.Unmarshal(over.Data, &result)
	if result.Result.Winner != "X" || result.Result.Method != "line" {
		t.Errorf("Expected X to win by line, got %+v", result.Result)
	}
}
