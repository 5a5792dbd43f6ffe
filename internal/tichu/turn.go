package tichu

// Seat identifies one of the four seats at the table by seating ordinal,
// 1..4. Seat 1 and Seat 3 are always partners, as are Seat 2 and Seat 4,
// since seating alternates team membership around the table.
type Seat int

// Seating is a single 4-cycle next-pointer map: Seating[s] is the seat that
// follows s going around the table.
type Seating map[Seat]Seat

// NewSeating builds a seating cycle from four seats already ordered so that
// consecutive seats alternate team membership (seats[0] and seats[2] on one
// team, seats[1] and seats[3] on the other).
func NewSeating(seats [4]Seat) Seating {
	s := make(Seating, 4)
	for i, seat := range seats {
		s[seat] = seats[(i+1)%4]
	}
	return s
}

// outFunc reports whether the player in a seat has already emptied their
// hand (finished the round) and should be skipped when advancing.
type outFunc func(Seat) bool

// Advance follows the seating cycle from current, skipping any seat for
// which isOut returns true, and reports whether the trick just ended: it
// ends when lastAction was a Pass and the walk reaches lastAggressor's seat,
// whether or not that seat is out.
//
// Advance returns the reached seat and whether the trick ended. If every
// other seat is out, Advance returns current unchanged with trickEnded
// false (the round engine is expected to have already ended the round in
// that case).
func (s Seating) Advance(current Seat, lastAction Action, lastAggressor Seat, isOut outFunc) (next Seat, trickEnded bool) {
	seat := current
	for i := 0; i < 4; i++ {
		seat = s[seat]
		if lastAction == Pass && seat == lastAggressor {
			return seat, true
		}
		if !isOut(seat) {
			return seat, false
		}
	}
	return current, false
}

// Action is a player's move on their turn: playing a combination, or
// passing.
type Action int

const (
	Play Action = iota
	Pass
)

func (a Action) String() string {
	if a == Play {
		return "Play"
	}
	return "Pass"
}
