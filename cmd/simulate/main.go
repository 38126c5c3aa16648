// Command simulate drives a full game against a running coordinator server.
// It opens two WebSocket connections, joins both into a fresh room, plays a
// scripted scholar's mate, and prints every event each side receives. Useful
// for smoke-testing the server end to end without a browser.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

var (
	serverURL = flag.String("server", "ws://localhost:8080/ws", "WebSocket URL of the coordinator")
	game      = flag.String("game", "chess", "Game to play")
	wager     = flag.Int64("wager", 0, "Wager amount for both seats")
)

// scriptedMoves is a scholar's mate in UCI, white moves at even indices.
var scriptedMoves = [][2]string{
	{"e2", "e4"},
	{"e7", "e5"},
	{"f1", "c4"},
	{"b8", "c6"},
	{"d1", "h5"},
	{"g8", "f6"},
	{"h5", "f7"},
}

// clientMessage mirrors the wire format the server reads.
type clientMessage struct {
	Type     string `json:"type"`
	RoomID   string `json:"room_id,omitempty"`
	PlayerID string `json:"player_id,omitempty"`
	Game     string `json:"game,omitempty"`
	Wager    int64  `json:"wager,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

// serverMessage mirrors the wire format the server writes.
type serverMessage struct {
	Event  string          `json:"event"`
	RoomID string          `json:"room_id,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// player wraps one WebSocket connection and a channel of decoded events.
type player struct {
	name   string
	conn   *websocket.Conn
	events chan serverMessage
}

func dial(name string) *player {
	conn, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatalf("%s: failed to connect to %s: %v", name, *serverURL, err)
	}

	p := &player{name: name, conn: conn, events: make(chan serverMessage, 32)}
	go func() {
		defer close(p.events)
		for {
			var msg serverMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			fmt.Printf("[%s] %s %s\n", p.name, msg.Event, string(msg.Data))
			p.events <- msg
		}
	}()
	return p
}

// await blocks until the player receives the named event or times out.
func (p *player) await(event string) serverMessage {
	deadline := time.After(10 * time.Second)
	for {
		select {
		case msg, ok := <-p.events:
			if !ok {
				log.Fatalf("%s: connection closed while waiting for %q", p.name, event)
			}
			if msg.Event == event {
				return msg
			}
			if msg.Event == "error" {
				log.Fatalf("%s: server error while waiting for %q: %s", p.name, event, string(msg.Data))
			}
		case <-deadline:
			log.Fatalf("%s: timed out waiting for %q", p.name, event)
		}
	}
}

func (p *player) send(msg clientMessage) {
	if err := p.conn.WriteJSON(msg); err != nil {
		log.Fatalf("%s: write failed: %v", p.name, err)
	}
}

func main() {
	flag.Parse()

	alice := dial("alice")
	defer alice.conn.Close()
	bob := dial("bob")
	defer bob.conn.Close()

	// Alice joins with no room code so the server generates one.
	alice.send(clientMessage{Type: "join", PlayerID: "alice", Game: *game, Wager: *wager})
	init1 := alice.await("init")

	var joined struct {
		RoomID string `json:"room_id"`
		Color  string `json:"color"`
	}
	if err := json.Unmarshal(init1.Data, &joined); err != nil {
		log.Fatalf("alice: bad init payload: %v", err)
	}
	fmt.Printf("\nRoom code: %s (alice is %s)\n\n", joined.RoomID, joined.Color)

	// Bob joins the same room; both sides should see it go active.
	bob.send(clientMessage{Type: "join", RoomID: joined.RoomID, PlayerID: "bob", Game: *game, Wager: *wager})
	bob.await("init")
	alice.await("room_active")
	bob.await("room_active")

	if *game != "chess" {
		fmt.Println("Scripted moves only cover chess; both players joined, exiting.")
		return
	}

	players := [2]*player{alice, bob}
	for i, mv := range scriptedMoves {
		mover := players[i%2]
		mover.send(clientMessage{Type: "move", RoomID: joined.RoomID, From: mv[0], To: mv[1]})
		alice.await("move")
		bob.await("move")
	}

	over := alice.await("gameover")
	bob.await("gameover")

	fmt.Printf("\nGame over: %s\n", string(over.Data))
}
