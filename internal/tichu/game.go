package tichu

import "math/rand"

// Team identifies one of the two partnerships, or the holding area for a
// player who has connected but not yet picked a side.
type Team int

const (
	Spectator Team = iota
	TeamOne
	TeamTwo
)

// Phase is the game's current lifecycle stage.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseExchanging
	PhasePlaying
	PhaseEnded
)

// Player is one of the (up to four) seated participants, plus any number of
// spectators who have joined the lobby but not a team.
type Player struct {
	ID   string
	Name string
	Team Team
	Seat Seat // meaningless while Team == Spectator

	Hand []Card

	// ProposedExchange is this player's most recent valid exchange
	// proposal: three distinct cards from their own hand, keyed by the
	// username of the intended recipient. It persists across repeated
	// submissions so that an exchange-phase timeout can force-complete
	// the round using each player's last valid proposal.
	ProposedExchange map[string]Card

	// TrickPoints accumulates the face value of every trick this player
	// has captured as aggressor during the current round.
	TrickPoints int
}

// Game is the top-level aggregate: the two teams, the lobby/exchange/play
// lifecycle, and (once play starts) the in-progress Round.
type Game struct {
	ID    string
	Phase Phase

	Players []*Player
	bySeat  map[Seat]*Player

	Scores      map[Team]int
	TargetScore int

	Round *Round

	rng *rand.Rand
}

// GameOption configures a Game at construction time.
type GameOption func(*Game)

// WithTargetScore overrides the default 1000-point game-ending threshold.
func WithTargetScore(points int) GameOption {
	return func(g *Game) { g.TargetScore = points }
}

// WithRNG supplies a deterministic random source for dealing, primarily for
// tests. Production callers should omit this and get a fresh shuffle.
func WithRNG(rng *rand.Rand) GameOption {
	return func(g *Game) { g.rng = rng }
}

// NewGame creates an empty lobby with no players.
func NewGame(id string, opts ...GameOption) *Game {
	g := &Game{
		ID:          id,
		Phase:       PhaseLobby,
		bySeat:      map[Seat]*Player{},
		Scores:      map[Team]int{TeamOne: 0, TeamTwo: 0},
		TargetScore: 1000,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Game) player(id string) (*Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

func (g *Game) teamCount(team Team) int {
	n := 0
	for _, p := range g.Players {
		if p.Team == team {
			n++
		}
	}
	return n
}

func (g *Game) seatForNewJoiner(team Team) Seat {
	// Seats alternate team membership around the table: 1 and 3 are
	// TeamOne, 2 and 4 are TeamTwo. The first joiner of a team takes the
	// lower seat, the second takes the higher.
	first, second := Seat(1), Seat(3)
	if team == TeamTwo {
		first, second = Seat(2), Seat(4)
	}
	if _, taken := g.bySeat[first]; !taken {
		return first
	}
	return second
}

// AddPlayer registers a newly connected player as a spectator. It is the
// minimal join-lobby glue the transport layer needs to exercise the core;
// team assignment happens separately via JoinTeam.
func (g *Game) AddPlayer(id, name string) (*Player, error) {
	if g.Phase != PhaseLobby {
		return nil, newErr(ErrWrongPhase, "cannot join after the game has started")
	}
	if _, ok := g.player(id); ok {
		return nil, newErr(ErrExchangeInvalid, "player %q already joined", id)
	}
	p := &Player{ID: id, Name: name, Team: Spectator}
	g.Players = append(g.Players, p)
	return p, nil
}

// JoinTeam moves a player onto TeamOne or TeamTwo, assigning them the next
// free seat for that team. It rejects the move once a team already holds
// two players.
func (g *Game) JoinTeam(playerID string, team Team) error {
	if g.Phase != PhaseLobby {
		return newErr(ErrWrongPhase, "cannot change teams after the game has started")
	}
	p, ok := g.player(playerID)
	if !ok {
		return newErr(ErrNotFound, "unknown player %q", playerID)
	}
	if team != TeamOne && team != TeamTwo {
		return newErr(ErrExchangeInvalid, "must join TeamOne or TeamTwo")
	}
	if p.Team == team {
		return nil
	}
	if g.teamCount(team) >= 2 {
		return newErr(ErrTeamFull, "team is already full")
	}
	if p.Team != Spectator {
		delete(g.bySeat, p.Seat)
	}
	seat := g.seatForNewJoiner(team)
	p.Team = team
	p.Seat = seat
	g.bySeat[seat] = p
	return nil
}

// SwapTeams exchanges two players' team and seat assignments, as triggered
// by the player-swap-team event.
func (g *Game) SwapTeams(id1, id2 string) error {
	if g.Phase != PhaseLobby {
		return newErr(ErrWrongPhase, "cannot change teams after the game has started")
	}
	p1, ok := g.player(id1)
	if !ok {
		return newErr(ErrNotFound, "unknown player %q", id1)
	}
	p2, ok := g.player(id2)
	if !ok {
		return newErr(ErrNotFound, "unknown player %q", id2)
	}
	p1.Team, p2.Team = p2.Team, p1.Team
	p1.Seat, p2.Seat = p2.Seat, p1.Seat
	if p1.Team != Spectator {
		g.bySeat[p1.Seat] = p1
	}
	if p2.Team != Spectator {
		g.bySeat[p2.Seat] = p2
	}
	return nil
}

// Deal shuffles a fresh deck and deals 14 cards to each of the four seated
// players, then opens the exchange phase. Called both to begin the game's
// first round and to begin every subsequent round.
func (g *Game) Deal() error {
	if g.Phase == PhaseEnded {
		return newErr(ErrWrongPhase, "game has already ended")
	}
	if g.teamCount(TeamOne) != 2 || g.teamCount(TeamTwo) != 2 {
		return newErr(ErrWrongPhase, "both teams need exactly two players")
	}
	hands := Deal(g.rng)
	for seat := Seat(1); seat <= 4; seat++ {
		p := g.bySeat[seat]
		p.Hand = hands[seat-1]
		p.TrickPoints = 0
		p.ProposedExchange = nil
	}
	g.Phase = PhaseExchanging
	g.Round = nil
	return nil
}

// ValidateExchange reports whether offers is a legal exchange proposal for
// playerID: exactly three distinct cards, all actually held by playerID,
// offered to three other distinct players (never to playerID itself). On
// success the proposal is retained as the player's current exchange
// proposal, replacing any earlier one.
func (g *Game) ValidateExchange(playerID string, offers map[string]Card) error {
	if g.Phase != PhaseExchanging {
		return newErr(ErrWrongPhase, "not in the exchange phase")
	}
	p, ok := g.player(playerID)
	if !ok {
		return newErr(ErrNotFound, "unknown player %q", playerID)
	}
	if len(offers) != 3 {
		return newErr(ErrExchangeInvalid, "must offer exactly 3 cards")
	}
	seen := make([]Card, 0, 3)
	for recipient, card := range offers {
		if recipient == playerID {
			return newErr(ErrExchangeInvalid, "cannot offer a card to yourself")
		}
		if _, ok := g.player(recipient); !ok {
			return newErr(ErrExchangeInvalid, "unknown recipient %q", recipient)
		}
		if !ContainsCard(p.Hand, card) {
			return newErr(ErrExchangeInvalid, "you do not hold %s", card)
		}
		if ContainsCard(seen, card) {
			return newErr(ErrExchangeInvalid, "the same card was offered twice")
		}
		seen = append(seen, card)
	}
	stored := make(map[string]Card, 3)
	for recipient, card := range offers {
		stored[recipient] = card
	}
	p.ProposedExchange = stored
	return nil
}

// StartGame finalizes the post-exchange hands, builds the seating cycle,
// identifies the Mahjong holder as the opening seat, and enters the
// playing phase. Each player's hand must already reflect their traded-in
// and traded-out cards (applied by the caller using each player's
// ProposedExchange; the exchange's card-for-card mechanics sit outside the
// core, only its validation predicate above is in scope here).
func (g *Game) StartGame() error {
	if g.Phase != PhaseExchanging {
		return newErr(ErrWrongPhase, "not ready to start")
	}
	if g.teamCount(TeamOne) != 2 || g.teamCount(TeamTwo) != 2 {
		return newErr(ErrWrongPhase, "both teams need exactly two players")
	}
	seats := [4]Seat{1, 2, 3, 4}
	seating := NewSeating(seats)

	var hands [4][]Card
	for seat := Seat(1); seat <= 4; seat++ {
		hands[seat-1] = g.bySeat[seat].Hand
	}
	holderIdx, ok := HolderOfMahjong(hands)
	if !ok {
		return newErr(ErrWrongPhase, "no player holds the Mahjong")
	}
	opening := Seat(holderIdx + 1)

	g.Round = NewRound(seating, opening)
	g.Phase = PhasePlaying
	return nil
}

// PlayTurn applies seat's move to the current round: playing a classified
// combination, or passing. It reports whether the trick just ended (the
// caller should then call CaptureTrick and EndRoundIfOver).
func (g *Game) PlayTurn(seat Seat, action Action, cards []Card, phoenixValue int) (trickEnded bool, err error) {
	if g.Phase != PhasePlaying {
		return false, newErr(ErrWrongPhase, "not in the playing phase")
	}
	r := g.Round
	if seat != r.CurrentSeat {
		return false, newErr(ErrNotYourTurn, "it is seat %d's turn", r.CurrentSeat)
	}
	p := g.bySeat[seat]

	if action == Pass {
		if _, hasTop := r.Top(); !hasTop {
			return false, newErr(ErrIllegalTrick, "cannot pass to open a trick")
		}
		r.Log = append(r.Log, RoundLogEntry{Seat: seat, Action: Pass})
		r.LastAction = Pass
		next, ended := r.Seating.Advance(seat, Pass, r.LastAggressor, g.seatIsOut)
		r.CurrentSeat = next
		return ended, nil
	}

	for _, c := range cards {
		if !ContainsCard(p.Hand, c) {
			return false, newErr(ErrNotYourCards, "you do not hold %s", c)
		}
	}
	combo, err := Classify(cards, phoenixValue)
	if err != nil {
		return false, err
	}
	top, hasTop := r.Top()
	switch {
	case !hasTop:
		// any legal combination may open a trick
	case combo.Type == Single && combo.Cards[0].Rank == RankDog:
		return false, newErr(ErrIllegalTrick, "the Dog can only be played to lead")
	default:
		if err := Beats(top, combo); err != nil {
			return false, err
		}
	}

	hand := p.Hand
	for _, c := range combo.Cards {
		hand, _ = RemoveCard(hand, stripAssignment(c))
	}
	p.Hand = hand
	r.Log = append(r.Log, RoundLogEntry{Seat: seat, Action: Play, Combination: combo})

	if len(p.Hand) == 0 && r.FirstFinisher == nil {
		s := seat
		r.FirstFinisher = &s
	}

	if combo.Type == Single && combo.Cards[0].Rank == RankDog && !hasTop {
		r.Stack = append(r.Stack, combo)
		partner := r.Partner(seat)
		r.LastAggressor = partner
		r.LastAction = Play
		r.CurrentSeat = partner
		return true, nil
	}

	r.Stack = append(r.Stack, combo)
	r.LastAction = Play
	r.LastAggressor = seat

	next, ended := r.Seating.Advance(seat, Play, r.LastAggressor, g.seatIsOut)
	r.CurrentSeat = next
	return ended, nil
}

// stripAssignment returns a version of c suitable for matching against a
// hand, which never stores an assigned Phoenix value.
func stripAssignment(c Card) Card {
	if c.Rank == RankPhoenix {
		return NewJoker(RankPhoenix)
	}
	return c
}

func (g *Game) seatIsOut(seat Seat) bool {
	p := g.bySeat[seat]
	return p == nil || len(p.Hand) == 0
}

// CaptureTrick credits the current trick's point value to the aggressor
// and clears the trick stack, leaving the aggressor on lead for the next
// trick.
func (g *Game) CaptureTrick() (points int, err error) {
	if g.Phase != PhasePlaying {
		return 0, newErr(ErrWrongPhase, "not in the playing phase")
	}
	r := g.Round
	for _, combo := range r.Stack {
		for _, c := range combo.Cards {
			points += c.Points()
			r.Captured = append(r.Captured, stripAssignment(c))
		}
	}
	aggressor := g.bySeat[r.LastAggressor]
	if aggressor != nil {
		aggressor.TrickPoints += points
	}
	r.Stack = nil
	r.CurrentSeat = r.LastAggressor
	return points, nil
}

// EndRoundIfOver checks whether the round has concluded, either because at
// most one player still holds cards or because one team's two players both
// finished before either opponent (a "double win"). When the round has
// ended it rolls the round's scoring into each team's cumulative total and
// reports whether the game itself has now ended.
func (g *Game) EndRoundIfOver() (roundEnded, gameEnded bool, err error) {
	if g.Phase != PhasePlaying {
		return false, false, newErr(ErrWrongPhase, "not in the playing phase")
	}
	r := g.Round

	if doubleWinTeam, ok := g.detectDoubleWin(); ok {
		g.Scores[doubleWinTeam] += 200
		// The usual per-card accounting is skipped entirely in a double
		// win, so discard any trickPoints already captured this round
		// before rolling team totals.
		for seat := Seat(1); seat <= 4; seat++ {
			g.bySeat[seat].TrickPoints = 0
		}
		return g.concludeRound()
	}

	var withCards int
	var last Seat
	for seat := Seat(1); seat <= 4; seat++ {
		if !g.seatIsOut(seat) {
			withCards++
			last = seat
		}
	}
	if withCards > 1 {
		return false, false, nil
	}
	if withCards == 1 {
		lastPlayer := g.bySeat[last]
		opposing := TeamOne
		if lastPlayer.Team == TeamOne {
			opposing = TeamTwo
		}
		faceValue := 0
		for _, c := range lastPlayer.Hand {
			faceValue += c.Points()
		}
		g.Scores[opposing] += faceValue

		if r.FirstFinisher != nil {
			firstFinisher := g.bySeat[*r.FirstFinisher]
			firstFinisher.TrickPoints += lastPlayer.TrickPoints
			lastPlayer.TrickPoints = 0
		}
	}

	return g.concludeRound()
}

// detectDoubleWin reports whether exactly two players have emptied their
// hands, both on the same team, while the other team's players still hold
// cards — the condition under which the round ends immediately in a
// double win rather than running to a single final holdout.
func (g *Game) detectDoubleWin() (Team, bool) {
	var finished []Seat
	for seat := Seat(1); seat <= 4; seat++ {
		if g.seatIsOut(seat) {
			finished = append(finished, seat)
		}
	}
	if len(finished) != 2 {
		return Spectator, false
	}
	t1 := g.bySeat[finished[0]].Team
	t2 := g.bySeat[finished[1]].Team
	if t1 != t2 {
		return Spectator, false
	}
	return t1, true
}

func (g *Game) concludeRound() (roundEnded, gameEnded bool, err error) {
	for seat := Seat(1); seat <= 4; seat++ {
		p := g.bySeat[seat]
		g.Scores[p.Team] += p.TrickPoints
		p.TrickPoints = 0
	}

	if g.Scores[TeamOne] >= g.TargetScore || g.Scores[TeamTwo] >= g.TargetScore {
		if g.Scores[TeamOne] == g.Scores[TeamTwo] {
			// Tied at or past the threshold: play another round rather
			// than declare a winner.
			return true, false, nil
		}
		g.Phase = PhaseEnded
		return true, true, nil
	}
	return true, false, nil
}

// IsOver reports whether the game has reached its final, scored end.
func (g *Game) IsOver() bool {
	return g.Phase == PhaseEnded
}

// Winner returns the team with the higher cumulative score once the game
// has ended. ok is false if the game has not ended.
func (g *Game) Winner() (Team, bool) {
	if g.Phase != PhaseEnded {
		return Spectator, false
	}
	if g.Scores[TeamOne] > g.Scores[TeamTwo] {
		return TeamOne, true
	}
	return TeamTwo, true
}
