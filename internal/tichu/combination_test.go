package tichu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClassify(t *testing.T, cards []Card, phoenixValue int) Combination {
	t.Helper()
	cb, err := Classify(cards, phoenixValue)
	require.NoError(t, err)
	return cb
}

func TestClassify_Single(t *testing.T) {
	cb := mustClassify(t, []Card{NewNumeric(RankSeven, Black)}, 0)
	assert.Equal(t, Single, cb.Type)
}

func TestClassify_Single_PhoenixRequiresExplicitValue(t *testing.T) {
	_, err := Classify([]Card{NewJoker(RankPhoenix)}, 0)
	require.Error(t, err)
	var coreErr *CoreError
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, ErrIllegalTrick, coreErr.Kind)
}

func TestClassify_Pair_WithPhoenix(t *testing.T) {
	cb := mustClassify(t, []Card{NewNumeric(RankJack, Red), NewJoker(RankPhoenix)}, 0)
	assert.Equal(t, Pair, cb.Type)
	n, ok := cb.Cards[1].Number()
	require.True(t, ok)
	assert.Equal(t, 11, n)
}

func TestClassify_Pair_RejectsTwoPhoenixes(t *testing.T) {
	_, err := Classify([]Card{NewJoker(RankPhoenix), NewJoker(RankPhoenix)}, 0)
	assert.Error(t, err)
}

func TestClassify_Pair_RejectsDogDragonMahjong(t *testing.T) {
	_, err := Classify([]Card{NewJoker(RankDog), NewJoker(RankDog)}, 0)
	assert.Error(t, err)

	_, err = Classify([]Card{NewJoker(RankDragon), NewJoker(RankPhoenix)}, 0)
	assert.Error(t, err)

	_, err = Classify([]Card{NewJoker(RankMahjong), NewJoker(RankPhoenix)}, 0)
	assert.Error(t, err)
}

func TestClassify_FourOfAKind(t *testing.T) {
	cb := mustClassify(t, []Card{
		NewNumeric(RankNine, Black), NewNumeric(RankNine, Blue),
		NewNumeric(RankNine, Red), NewNumeric(RankNine, Green),
	}, 0)
	assert.Equal(t, FourOfAKind, cb.Type)
	assert.True(t, cb.IsBomb())
}

func TestClassify_FullHouse_WithPhoenixCompletingPair(t *testing.T) {
	cb := mustClassify(t, []Card{
		NewNumeric(RankFive, Black), NewNumeric(RankFive, Blue), NewNumeric(RankFive, Red),
		NewNumeric(RankEight, Black), NewJoker(RankPhoenix),
	}, 0)
	assert.Equal(t, FullHouse, cb.Type)
	assert.Equal(t, 5, cb.rank())
}

func TestClassify_SequenceOfPairs_ContiguousAscending(t *testing.T) {
	cb := mustClassify(t, []Card{
		NewNumeric(RankThree, Black), NewNumeric(RankThree, Blue),
		NewNumeric(RankFour, Black), NewNumeric(RankFour, Blue),
		NewNumeric(RankFive, Black), NewNumeric(RankFive, Blue),
	}, 0)
	assert.Equal(t, SequenceOfPairs, cb.Type)
}

func TestClassify_SequenceOfPairs_RejectsNonContiguous(t *testing.T) {
	_, err := Classify([]Card{
		NewNumeric(RankThree, Black), NewNumeric(RankThree, Blue),
		NewNumeric(RankFive, Black), NewNumeric(RankFive, Blue),
	}, 0)
	assert.Error(t, err)
}

func TestClassify_Straight_MahjongLeadsAsOne(t *testing.T) {
	cb := mustClassify(t, []Card{
		NewJoker(RankMahjong),
		NewNumeric(RankTwo, Black), NewNumeric(RankThree, Black),
		NewNumeric(RankFour, Black), NewNumeric(RankFive, Blue),
	}, 0)
	assert.Equal(t, Straight, cb.Type)
}

func TestClassify_StraightFlush(t *testing.T) {
	cb := mustClassify(t, []Card{
		NewNumeric(RankFour, Red), NewNumeric(RankFive, Red),
		NewNumeric(RankSix, Red), NewNumeric(RankSeven, Red), NewNumeric(RankEight, Red),
	}, 0)
	assert.Equal(t, StraightFlush, cb.Type)
	assert.True(t, cb.IsBomb())
}

func TestClassify_Straight_PhoenixFillsGap(t *testing.T) {
	cb := mustClassify(t, []Card{
		NewNumeric(RankFour, Black), NewNumeric(RankFive, Black),
		NewJoker(RankPhoenix),
		NewNumeric(RankSeven, Black), NewNumeric(RankEight, Black),
	}, 0)
	assert.Equal(t, Straight, cb.Type)
}

func TestClassify_Straight_PhoenixExtendsEnd_RequiresExplicitValueWhenAmbiguous(t *testing.T) {
	cards := []Card{
		NewNumeric(RankFour, Black), NewNumeric(RankFive, Black),
		NewNumeric(RankSix, Black), NewNumeric(RankSeven, Black),
		NewJoker(RankPhoenix),
	}
	_, err := Classify(cards, 0)
	assert.Error(t, err, "ambiguous: phoenix could extend low (3) or high (8) without a hint")

	cb, err := Classify(cards, 8)
	require.NoError(t, err)
	assert.Equal(t, Straight, cb.Type)
	assert.Equal(t, 8, cb.rank())
}

func TestClassify_RejectsWrongSizedOrEmpty(t *testing.T) {
	_, err := Classify(nil, 0)
	assert.Error(t, err)

	_, err = Classify([]Card{
		NewNumeric(RankTwo, Black), NewNumeric(RankThree, Blue), NewNumeric(RankFour, Red),
	}, 0)
	assert.Error(t, err)
}

func TestClassify_Deterministic_RegardlessOfInputOrder(t *testing.T) {
	a := []Card{NewNumeric(RankTen, Black), NewNumeric(RankTen, Blue)}
	b := []Card{NewNumeric(RankTen, Blue), NewNumeric(RankTen, Black)}
	cbA, errA := Classify(a, 0)
	cbB, errB := Classify(b, 0)
	require.NoError(t, errA)
	require.NoError(t, errB)
	assert.Equal(t, cbA.Type, cbB.Type)
	assert.Equal(t, cbA.rank(), cbB.rank())
}
