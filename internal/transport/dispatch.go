package transport

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/marianogappa/tichu-server/internal/config"
	"github.com/marianogappa/tichu-server/internal/store"
	"github.com/marianogappa/tichu-server/internal/tichu"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server owns the process-wide store and connection hub. Every handler
// locks the target game's entry, calls into the core, collects whatever
// outbound events the result implies, unlocks, and only then emits those
// events. No broadcast ever happens while holding a game's lock.
type Server struct {
	store  *store.Store
	hub    *Hub
	cfg    config.Config
	logger *log.Logger
}

// NewServer creates a dispatcher ready to accept WebSocket upgrades.
func NewServer(cfg config.Config, logger *log.Logger) *Server {
	return &Server{
		store:  store.New(),
		hub:    newHub(),
		cfg:    cfg,
		logger: logger,
	}
}

// ServeWS upgrades an HTTP request to a WebSocket and drives it until the
// client disconnects.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("upgrade failed", "error", err)
		return
	}
	conn := newConn(ws, s.logger)
	go conn.writePump()
	conn.readPump(s.dispatch)

	if gameID, username := conn.identity(); gameID != "" {
		s.hub.Leave(gameID, username)
	}
}

func (s *Server) dispatch(conn *Conn, env inboundEnvelope) {
	switch env.Event {
	case eventCreateLobby:
		s.handleCreateLobby(conn, env.Payload)
	case eventConnectLobby:
		s.handleConnectLobby(conn, env.Payload)
	case eventSwapTeam:
		s.handleSwapTeam(conn, env.Payload)
	case eventValidateExch:
		s.handleValidateExchange(conn, env.Payload)
	case eventPlayTurn:
		s.handlePlayTurn(conn, env.Payload)
	case eventShowCards:
		s.handleShowCards(conn, env.Payload)
	case eventStartGame:
		s.handleStartGame(conn, env.Payload)
	default:
		s.logger.Warn("unknown event", "event", env.Event)
	}
}

func (s *Server) handleCreateLobby(conn *Conn, raw json.RawMessage) {
	var p createLobbyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	opts := []tichu.GameOption{tichu.WithTargetScore(s.cfg.TargetScore)}
	if s.cfg.Seed != 0 {
		opts = append(opts, tichu.WithRNG(rand.New(rand.NewSource(s.cfg.Seed))))
	}
	gameID, entry := s.store.Create(opts...)

	entry.Lock()
	_, err := entry.Game.AddPlayer(p.Username, p.Username)
	entry.Unlock()
	if err != nil {
		conn.Emit(eventTrickError, errorPayload(err))
		return
	}

	conn.SetIdentity(gameID, p.Username)
	s.hub.Join(gameID, p.Username, conn)
	conn.Emit(eventLobbyCreated, map[string]string{"gameId": gameID})
}

func (s *Server) handleConnectLobby(conn *Conn, raw json.RawMessage) {
	var p connectLobbyPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	entry, ok := s.store.Get(p.GameID)
	if !ok {
		conn.Emit(eventLobbyNotFound, map[string]string{"gameId": p.GameID})
		return
	}

	entry.Lock()
	_, err := entry.Game.AddPlayer(p.Username, p.Username)
	roster := rosterOf(entry.Game)
	entry.Unlock()
	if err != nil {
		conn.Emit(eventTrickError, errorPayload(err))
		return
	}

	conn.SetIdentity(p.GameID, p.Username)
	s.hub.Join(p.GameID, p.Username, conn)
	s.hub.Broadcast(p.GameID, eventUserJoined, map[string]string{"username": p.Username})
	conn.Emit(eventUsersInLobby, roster)
}

func (s *Server) handleSwapTeam(conn *Conn, raw json.RawMessage) {
	var p playerSwapTeamPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	entry, ok := s.store.Get(p.GameID)
	if !ok {
		conn.Emit(eventLobbyNotFound, map[string]string{"gameId": p.GameID})
		return
	}

	entry.Lock()
	err := entry.Game.SwapTeams(p.Player1, p.Player2)
	roster := rosterOf(entry.Game)
	entry.Unlock()
	if err != nil {
		conn.Emit(eventTrickError, errorPayload(err))
		return
	}
	s.hub.Broadcast(p.GameID, eventTeamJoined, map[string]string{"player1": p.Player1, "player2": p.Player2})
	s.hub.Broadcast(p.GameID, eventUsersInLobby, roster)
}

func (s *Server) handleValidateExchange(conn *Conn, raw json.RawMessage) {
	var p validateExchangePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	gameID := p.GameID
	_, username := conn.identity()
	entry, ok := s.store.Get(gameID)
	if !ok {
		conn.Emit(eventLobbyNotFound, map[string]string{"gameId": gameID})
		return
	}

	entry.Lock()
	err := entry.Game.ValidateExchange(username, p.PlayerCard)
	allSubmitted := err == nil && allExchangesSubmitted(entry.Game)
	entry.Unlock()

	conn.Emit(eventExchangeValidation, map[string]bool{"valid": err == nil})
	if allSubmitted {
		s.completeExchangePhase(gameID)
	}
}

func (s *Server) handlePlayTurn(conn *Conn, raw json.RawMessage) {
	var p playTurnPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	gameID := p.GameID
	_, username := conn.identity()
	entry, ok := s.store.Get(gameID)
	if !ok {
		conn.Emit(eventLobbyNotFound, map[string]string{"gameId": gameID})
		return
	}

	action := tichu.Play
	if p.Action == "Pass" {
		action = tichu.Pass
	}

	type outbound struct {
		event   string
		payload any
	}
	var events []outbound

	entry.Lock()
	g := entry.Game
	seat, seatOK := seatOfUsername(g, username)
	if !seatOK {
		entry.Unlock()
		conn.Emit(eventTrickError, map[string]string{"kind": string(tichu.ErrNotFound), "message": "not seated"})
		return
	}
	trickEnded, err := g.PlayTurn(seat, action, p.Cards, p.PhoenixValue)
	if err != nil {
		entry.Unlock()
		conn.Emit(eventTrickError, errorPayload(err))
		return
	}
	events = append(events, outbound{eventTrickPlayed, combinationStack(g.Round)})

	if trickEnded {
		points, _ := g.CaptureTrick()
		events = append(events, outbound{eventTrickCaptured, map[string]any{"aggressor": int(g.Round.LastAggressor), "points": points}})

		roundEnded, gameEnded, _ := g.EndRoundIfOver()
		if roundEnded {
			events = append(events, outbound{eventRoundEnded, scoresPayload(g)})
			if gameEnded {
				winner, _ := g.Winner()
				events = append(events, outbound{eventGameEnded, map[string]string{"winner": teamName(winner)}})
			} else {
				_ = g.Deal()
				events = append(events, outbound{eventGamePhase, map[string]string{"phase": "Exchanging"}})
			}
		} else {
			events = append(events, outbound{eventNextPlayer, map[string]int{"seat": int(g.Round.CurrentSeat)}})
		}
	} else {
		events = append(events, outbound{eventNextPlayer, map[string]int{"seat": int(g.Round.CurrentSeat)}})
	}
	phaseNowExchanging := g.Phase == tichu.PhaseExchanging
	entry.Unlock()

	for _, e := range events {
		s.hub.Broadcast(gameID, e.event, e.payload)
	}
	if phaseNowExchanging {
		s.dealHandsAndScheduleExchange(gameID)
	}
}

func (s *Server) handleShowCards(conn *Conn, raw json.RawMessage) {
	var p showCardsPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	gameID := p.GameID
	_, username := conn.identity()
	entry, ok := s.store.Get(gameID)
	if !ok {
		conn.Emit(eventLobbyNotFound, map[string]string{"gameId": gameID})
		return
	}
	entry.Lock()
	player, found := playerByUsername(entry.Game, username)
	var hand []tichu.Card
	if found {
		hand = append([]tichu.Card(nil), player.Hand...)
	}
	entry.Unlock()
	conn.Emit(eventHand, hand)
}

func (s *Server) handleStartGame(conn *Conn, raw json.RawMessage) {
	var p startGamePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return
	}
	gameID := p.GameID
	entry, ok := s.store.Get(gameID)
	if !ok {
		conn.Emit(eventLobbyNotFound, map[string]string{"gameId": gameID})
		return
	}
	entry.Lock()
	err := entry.Game.Deal()
	entry.Unlock()
	if err != nil {
		conn.Emit(eventTrickError, errorPayload(err))
		return
	}
	s.hub.Broadcast(gameID, eventGameStarted, nil)
	s.hub.Broadcast(gameID, eventGamePhase, map[string]string{"phase": "Exchanging"})
	s.sendHands(gameID)
	s.scheduleExchangeTimeout(gameID)
}

// dealHandsAndScheduleExchange is the re-deal path taken between rounds of
// the same game: the game-phase transition itself is already part of the
// caller's batch of round-end events, so this only sends the fresh hands
// and arms the exchange timer.
func (s *Server) dealHandsAndScheduleExchange(gameID string) {
	s.sendHands(gameID)
	s.scheduleExchangeTimeout(gameID)
}

func (s *Server) sendHands(gameID string) {
	entry, ok := s.store.Get(gameID)
	if !ok {
		return
	}
	entry.Lock()
	snapshot := make(map[string][]tichu.Card, len(entry.Game.Players))
	for _, p := range entry.Game.Players {
		snapshot[p.ID] = append([]tichu.Card(nil), p.Hand...)
	}
	entry.Unlock()
	for username, hand := range snapshot {
		s.hub.Send(gameID, username, eventHand, hand)
	}
}

// scheduleExchangeTimeout arms a single one-shot timer per round: on
// expiry it force-completes the exchange phase using each player's last
// valid proposal, so a slow or absent player never stalls the table.
func (s *Server) scheduleExchangeTimeout(gameID string) {
	time.AfterFunc(s.cfg.ExchangeTimeout, func() {
		s.completeExchangePhase(gameID)
	})
}

func (s *Server) completeExchangePhase(gameID string) {
	entry, ok := s.store.Get(gameID)
	if !ok {
		return
	}
	entry.Lock()
	g := entry.Game
	if g.Phase != tichu.PhaseExchanging {
		entry.Unlock()
		return
	}
	applyExchange(g)
	err := g.StartGame()
	entry.Unlock()
	if err != nil {
		s.logger.Error("failed to start game after exchange", "gameId", gameID, "error", err)
		return
	}
	s.hub.Broadcast(gameID, eventGamePhase, map[string]string{"phase": "Playing"})
	s.sendHands(gameID)

	entry.Lock()
	seat := g.Round.CurrentSeat
	entry.Unlock()
	s.hub.Broadcast(gameID, eventNextPlayer, map[string]int{"seat": int(seat)})
}

// applyExchange performs the actual 3-for-3 card trade implied by every
// player's last valid proposal; a player with no submitted proposal simply
// offers and receives nothing. The trade's card movement is kept out of
// the core, which only validates proposals, so this operates directly on
// Game's exported Player/Hand fields.
func applyExchange(g *tichu.Game) {
	submitted := map[string]bool{}
	for _, p := range g.Players {
		submitted[p.ID] = p.ProposedExchange != nil
	}
	received := map[string][]tichu.Card{}
	for _, p := range g.Players {
		for recipient, card := range p.ProposedExchange {
			if !submitted[recipient] {
				continue
			}
			received[recipient] = append(received[recipient], card)
			if hand, ok := tichu.RemoveCard(p.Hand, card); ok {
				p.Hand = hand
			}
		}
	}
	for _, p := range g.Players {
		p.Hand = append(p.Hand, received[p.ID]...)
		p.ProposedExchange = nil
	}
}

func allExchangesSubmitted(g *tichu.Game) bool {
	if g.Phase != tichu.PhaseExchanging {
		return false
	}
	count := 0
	for _, p := range g.Players {
		if p.Team == tichu.TeamOne || p.Team == tichu.TeamTwo {
			count++
			if p.ProposedExchange == nil {
				return false
			}
		}
	}
	return count == 4
}

func playerByUsername(g *tichu.Game, username string) (*tichu.Player, bool) {
	for _, p := range g.Players {
		if p.ID == username {
			return p, true
		}
	}
	return nil, false
}

func seatOfUsername(g *tichu.Game, username string) (tichu.Seat, bool) {
	p, ok := playerByUsername(g, username)
	if !ok || (p.Team != tichu.TeamOne && p.Team != tichu.TeamTwo) {
		return 0, false
	}
	return p.Seat, true
}

func combinationStack(r *tichu.Round) []tichu.Combination {
	return append([]tichu.Combination(nil), r.Stack...)
}

func scoresPayload(g *tichu.Game) map[string]int {
	return map[string]int{
		"TeamOne": g.Scores[tichu.TeamOne],
		"TeamTwo": g.Scores[tichu.TeamTwo],
	}
}

func errorPayload(err error) map[string]string {
	var coreErr *tichu.CoreError
	if errors.As(err, &coreErr) {
		return map[string]string{"kind": string(coreErr.Kind), "message": coreErr.Error()}
	}
	return map[string]string{"kind": "Internal", "message": err.Error()}
}
