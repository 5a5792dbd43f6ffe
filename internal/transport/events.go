package transport

import (
	"encoding/json"

	"github.com/marianogappa/tichu-server/internal/tichu"
)

// inboundEnvelope is the wire shape of every client -> server message: a
// named event carrying an opaque JSON payload, decoded per-event below.
type inboundEnvelope struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// outboundEnvelope is the wire shape of every server -> client message.
type outboundEnvelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// Inbound event names, per the catalogue.
const (
	eventCreateLobby  = "create-lobby"
	eventConnectLobby = "connect-lobby"
	eventSwapTeam     = "player-swap-team"
	eventValidateExch = "validate-exchange"
	eventPlayTurn     = "play-turn"
	eventShowCards    = "show-cards"
	eventStartGame    = "start-game"
)

// Outbound event names, per the catalogue.
const (
	eventLobbyCreated       = "lobby-created"
	eventLobbyNotFound      = "lobby-not-found"
	eventUserJoined         = "user-joined"
	eventUsersInLobby       = "users-in-lobby"
	eventTeamJoined         = "team-joined"
	eventExchangeValidation = "exchange-validation"
	eventTrickPlayed        = "trick-played"
	eventNextPlayer         = "next-player"
	eventTrickCaptured      = "trick-captured"
	eventRoundEnded         = "round-ended"
	eventGameEnded          = "game-ended"
	eventTrickError         = "trick-error"
	eventHand               = "hand"
	eventGamePhase          = "game-phase"
	eventGameStarted        = "game-started"
	eventDisconnect         = "disconnect"
)

type createLobbyPayload struct {
	Username string `json:"username"`
}

type connectLobbyPayload struct {
	GameID   string `json:"gameId"`
	Username string `json:"username"`
}

type playerSwapTeamPayload struct {
	GameID  string `json:"gameId"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

type validateExchangePayload struct {
	GameID     string                `json:"gameId"`
	PlayerCard map[string]tichu.Card `json:"playerCard"`
}

type playTurnPayload struct {
	GameID       string       `json:"gameId"`
	Action       string       `json:"action"`
	Cards        []tichu.Card `json:"cards"`
	PhoenixValue int          `json:"phoenixValue,omitempty"`
}

type showCardsPayload struct {
	GameID string `json:"gameId"`
}

type startGamePayload struct {
	GameID string `json:"gameId"`
}

// playerView is the public-facing projection of a tichu.Player used in
// users-in-lobby and similar roster events.
type playerView struct {
	Username string `json:"username"`
	Team     string `json:"team"`
	Seat     int    `json:"seat,omitempty"`
}

func teamName(t tichu.Team) string {
	switch t {
	case tichu.TeamOne:
		return "TeamOne"
	case tichu.TeamTwo:
		return "TeamTwo"
	default:
		return "Spectator"
	}
}

func rosterOf(g *tichu.Game) []playerView {
	out := make([]playerView, 0, len(g.Players))
	for _, p := range g.Players {
		out = append(out, playerView{
			Username: p.ID,
			Team:     teamName(p.Team),
			Seat:     int(p.Seat),
		})
	}
	return out
}
