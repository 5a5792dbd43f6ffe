// Command tichu-watch is a read-only spectator client: it joins a lobby as
// an ordinary WebSocket client of the existing event catalogue and renders
// the shared game state as a live terminal board. It adds no new broadcast
// policy of its own.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/gorilla/websocket"
	"github.com/mattn/go-runewidth"
	"github.com/nsf/termbox-go"
)

var cli struct {
	Addr     string `short:"a" long:"addr" default:"localhost:8080" help:"Server address"`
	GameID   string `short:"g" long:"game" required:"" help:"Lobby game id to watch"`
	Username string `short:"u" long:"username" default:"spectator" help:"Username to join as"`
}

type boardState struct {
	mu        sync.Mutex
	phase     string
	roster    []string
	lastTrick string
	scores    string
	lastError string
}

func main() {
	kong.Parse(&cli)

	url := fmt.Sprintf("ws://%s/ws", cli.Addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial %s: %v\n", url, err)
		os.Exit(1)
	}
	defer conn.Close()

	send(conn, "connect-lobby", map[string]string{"gameId": cli.GameID, "username": cli.Username})

	state := &boardState{phase: "Lobby"}

	if err := termbox.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "termbox init: %v\n", err)
		os.Exit(1)
	}
	defer termbox.Close()

	go readLoop(conn, state)
	render(state)

	events := make(chan termbox.Event)
	go func() {
		for {
			events <- termbox.PollEvent()
		}
	}()
	for {
		select {
		case ev := <-events:
			if ev.Type == termbox.EventKey && (ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q') {
				return
			}
			if ev.Type == termbox.EventResize {
				render(state)
			}
		}
	}
}

func send(conn *websocket.Conn, event string, payload any) {
	_ = conn.WriteJSON(map[string]any{"event": event, "payload": payload})
}

func readLoop(conn *websocket.Conn, state *boardState) {
	for {
		var env struct {
			Event   string          `json:"event"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&env); err != nil {
			state.mu.Lock()
			state.lastError = err.Error()
			state.mu.Unlock()
			render(state)
			return
		}
		applyEvent(state, env.Event, env.Payload)
		render(state)
	}
}

func applyEvent(state *boardState, event string, payload json.RawMessage) {
	state.mu.Lock()
	defer state.mu.Unlock()

	switch event {
	case "game-phase":
		var p struct {
			Phase string `json:"phase"`
		}
		_ = json.Unmarshal(payload, &p)
		state.phase = p.Phase
	case "users-in-lobby":
		var players []struct {
			Username string `json:"username"`
			Team     string `json:"team"`
		}
		_ = json.Unmarshal(payload, &players)
		state.roster = state.roster[:0]
		for _, pl := range players {
			state.roster = append(state.roster, fmt.Sprintf("%s (%s)", pl.Username, pl.Team))
		}
	case "trick-played":
		state.lastTrick = string(payload)
	case "round-ended":
		state.scores = string(payload)
	case "trick-error":
		state.lastError = string(payload)
	}
}

func render(state *boardState) {
	state.mu.Lock()
	defer state.mu.Unlock()

	_ = termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	row := 0
	drawLine(row, fmt.Sprintf("tichu-watch — game %s — phase %s", cli.GameID, state.phase))
	row += 2
	drawLine(row, "players:")
	row++
	for _, p := range state.roster {
		drawLine(row, "  "+p)
		row++
	}
	row++
	drawLine(row, "last trick: "+state.lastTrick)
	row++
	drawLine(row, "scores: "+state.scores)
	row++
	if state.lastError != "" {
		drawLine(row, "error: "+state.lastError)
	}
	_ = termbox.Flush()
}

func drawLine(row int, text string) {
	col := 0
	for _, r := range text {
		termbox.SetCell(col, row, r, termbox.ColorDefault, termbox.ColorDefault)
		col += runewidth.RuneWidth(r)
	}
}
