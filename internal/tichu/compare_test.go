package tichu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classify(t *testing.T, cards []Card, phoenixValue int) Combination {
	t.Helper()
	cb, err := Classify(cards, phoenixValue)
	require.NoError(t, err)
	return cb
}

func TestBeats_AnyCombinationMayOpenAnEmptyTrick(t *testing.T) {
	cand := classify(t, []Card{NewNumeric(RankTwo, Black)}, 0)
	assert.NoError(t, Beats(Combination{}, cand))
}

func TestBeats_BombOverridesNonBomb(t *testing.T) {
	top := classify(t, []Card{NewNumeric(RankKing, Black), NewNumeric(RankKing, Blue)}, 0)
	bomb := classify(t, []Card{
		NewNumeric(RankTwo, Black), NewNumeric(RankTwo, Blue),
		NewNumeric(RankTwo, Red), NewNumeric(RankTwo, Green),
	}, 0)
	assert.NoError(t, Beats(top, bomb))

	higherBomb := classify(t, []Card{
		NewNumeric(RankAce, Black), NewNumeric(RankAce, Blue),
		NewNumeric(RankAce, Red), NewNumeric(RankAce, Green),
	}, 0)
	assert.NoError(t, Beats(bomb, higherBomb))
}

func TestBeats_StraightFlushBeatsFourOfAKind_NeverReverse(t *testing.T) {
	fourOfAKind := classify(t, []Card{
		NewNumeric(RankSix, Black), NewNumeric(RankSix, Blue),
		NewNumeric(RankSix, Red), NewNumeric(RankSix, Green),
	}, 0)
	straightFlush := classify(t, []Card{
		NewNumeric(RankTwo, Red), NewNumeric(RankThree, Red),
		NewNumeric(RankFour, Red), NewNumeric(RankFive, Red), NewNumeric(RankSix, Red),
	}, 0)
	assert.NoError(t, Beats(fourOfAKind, straightFlush))
	assert.Error(t, Beats(straightFlush, fourOfAKind))
}

func TestBeats_RejectsMismatchedType(t *testing.T) {
	top := classify(t, []Card{NewNumeric(RankTwo, Black), NewNumeric(RankTwo, Blue)}, 0)
	cand := classify(t, []Card{
		NewNumeric(RankThree, Black), NewNumeric(RankThree, Blue), NewNumeric(RankThree, Red),
	}, 0)
	assert.Error(t, Beats(top, cand))
}

func TestBeats_PhoenixSingleTie_RealCardWins(t *testing.T) {
	top := classify(t, []Card{NewJoker(RankPhoenix)}, 10)
	cand := classify(t, []Card{NewNumeric(RankTen, Black)}, 0)
	assert.NoError(t, Beats(top, cand), "a real card beats a phoenix single of equal value")

	assert.Error(t, Beats(cand, top), "a phoenix single never beats a real card of equal value")
}

func TestBeats_DragonBeatsAnyNonBombSingle(t *testing.T) {
	dragon := classify(t, []Card{NewJoker(RankDragon)}, 0)
	ace := classify(t, []Card{NewNumeric(RankAce, Black)}, 0)
	assert.NoError(t, Beats(ace, dragon))
	assert.Error(t, Beats(dragon, ace))
}

func TestBeats_DogCannotBeBeatenOrBeat(t *testing.T) {
	dog := classify(t, []Card{NewJoker(RankDog)}, 0)
	two := classify(t, []Card{NewNumeric(RankTwo, Black)}, 0)
	assert.Error(t, Beats(dog, two))
	assert.Error(t, Beats(two, dog))
}

func TestBeats_Reflexivity_FalseForNonBomb(t *testing.T) {
	pair := classify(t, []Card{NewNumeric(RankSeven, Black), NewNumeric(RankSeven, Blue)}, 0)
	assert.Error(t, Beats(pair, pair))
}

func TestBeats_Transitivity_WithinAType(t *testing.T) {
	a := classify(t, []Card{NewNumeric(RankFour, Black)}, 0)
	b := classify(t, []Card{NewNumeric(RankSeven, Black)}, 0)
	c := classify(t, []Card{NewNumeric(RankJack, Black)}, 0)
	require.NoError(t, Beats(a, b))
	require.NoError(t, Beats(b, c))
	assert.NoError(t, Beats(a, c))
}
