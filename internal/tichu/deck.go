package tichu

import "math/rand"

// DeckSize is the number of cards in a full deck: 4 suits * 13 numeric
// ranks plus the 4 jokers.
const DeckSize = 4*13 + 4

// HandSize is the number of cards dealt to each of the four players.
const HandSize = 14

var numericRanks = []Rank{
	RankTwo, RankThree, RankFour, RankFive, RankSix, RankSeven,
	RankEight, RankNine, RankTen, RankJack, RankQueen, RankKing, RankAce,
}

var allSuits = []Suit{Black, Blue, Red, Green}

// fullDeck returns the 56 distinct cards of a Tichu deck in a fixed order.
func fullDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, suit := range allSuits {
		for _, rank := range numericRanks {
			deck = append(deck, NewNumeric(rank, suit))
		}
	}
	deck = append(deck, NewJoker(RankDog), NewJoker(RankMahjong), NewJoker(RankPhoenix), NewJoker(RankDragon))
	return deck
}

// Deal draws four 14-card hands uniformly without replacement from a full
// 56-card deck, using rng as the source of randomness. A nil rng uses the
// package-level default source (non-deterministic); tests should always
// supply a seeded *rand.Rand.
func Deal(rng *rand.Rand) [4][]Card {
	deck := fullDeck()
	shuffle(deck, rng)

	var hands [4][]Card
	for i := range hands {
		hands[i] = append([]Card(nil), deck[i*HandSize:(i+1)*HandSize]...)
	}
	return hands
}

// shuffle performs an in-place Fisher-Yates shuffle.
func shuffle(cards []Card, rng *rand.Rand) {
	intn := rand.Intn
	if rng != nil {
		intn = rng.Intn
	}
	for i := len(cards) - 1; i > 0; i-- {
		j := intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// HolderOfMahjong returns the index (0..3) of the hand holding the Mahjong.
// Exactly one hand must hold it after a valid Deal; ok is false only if
// hands was not produced by Deal (a programmer error).
func HolderOfMahjong(hands [4][]Card) (int, bool) {
	for i, hand := range hands {
		for _, c := range hand {
			if c.Rank == RankMahjong {
				return i, true
			}
		}
	}
	return 0, false
}
