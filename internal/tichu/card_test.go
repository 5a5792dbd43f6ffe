package tichu

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCard_Equal_PhoenixIgnoresAssignedValue(t *testing.T) {
	a := NewJoker(RankPhoenix).WithPhoenixValue(5)
	b := NewJoker(RankPhoenix).WithPhoenixValue(9)
	assert.True(t, a.Equal(b))
}

func TestCard_Equal_MahjongIgnoresWish(t *testing.T) {
	a := NewJoker(RankMahjong).WithWish(RankKing)
	b := NewJoker(RankMahjong)
	assert.True(t, a.Equal(b))
}

func TestCard_Equal_NumericRequiresSuit(t *testing.T) {
	a := NewNumeric(RankFive, Red)
	b := NewNumeric(RankFive, Blue)
	assert.False(t, a.Equal(b))
	assert.True(t, a.Equal(NewNumeric(RankFive, Red)))
}

func TestCard_Points(t *testing.T) {
	assert.Equal(t, 5, NewNumeric(RankFive, Black).Points())
	assert.Equal(t, 10, NewNumeric(RankTen, Black).Points())
	assert.Equal(t, 10, NewNumeric(RankKing, Black).Points())
	assert.Equal(t, 25, NewJoker(RankDragon).Points())
	assert.Equal(t, -25, NewJoker(RankPhoenix).Points())
	assert.Equal(t, 0, NewNumeric(RankSeven, Black).Points())
}

func TestCard_JSON_RoundTrip_Numeric(t *testing.T) {
	c := NewNumeric(RankQueen, Green)
	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Queen","suit":"Green"}`, string(data))

	var out Card
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, c.Equal(out))
	assert.Equal(t, Green, out.Suit)
}

func TestCard_JSON_RoundTrip_PhoenixWithValue(t *testing.T) {
	c := NewJoker(RankPhoenix).WithPhoenixValue(11)
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var out Card
	require.NoError(t, json.Unmarshal(data, &out))
	n, ok := out.Number()
	require.True(t, ok)
	assert.Equal(t, 11, n)
}

func TestCard_JSON_RoundTrip_MahjongWithWish(t *testing.T) {
	c := NewJoker(RankMahjong).WithWish(RankAce)
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var out Card
	require.NoError(t, json.Unmarshal(data, &out))
	require.NotNil(t, out.Wish)
	assert.Equal(t, RankAce, *out.Wish)
}

func TestContainsAndRemoveCard(t *testing.T) {
	hand := []Card{NewNumeric(RankTwo, Black), NewJoker(RankDragon)}
	assert.True(t, ContainsCard(hand, NewJoker(RankDragon)))

	remaining, ok := RemoveCard(hand, NewJoker(RankDragon))
	require.True(t, ok)
	assert.Len(t, remaining, 1)
	assert.False(t, ContainsCard(remaining, NewJoker(RankDragon)))

	_, ok = RemoveCard(remaining, NewJoker(RankDragon))
	assert.False(t, ok)
}
