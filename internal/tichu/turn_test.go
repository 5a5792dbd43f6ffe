package tichu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSeating_FourCycleReturnsToStart(t *testing.T) {
	s := NewSeating([4]Seat{1, 2, 3, 4})
	seat := Seat(1)
	for i := 0; i < 4; i++ {
		seat = s[seat]
	}
	assert.Equal(t, Seat(1), seat)
}

func TestNewSeating_PartnersAreTwoSeatsApart(t *testing.T) {
	s := NewSeating([4]Seat{1, 2, 3, 4})
	assert.Equal(t, Seat(3), s[s[1]])
	assert.Equal(t, Seat(4), s[s[2]])
}

func TestAdvance_SkipsOutSeats(t *testing.T) {
	s := NewSeating([4]Seat{1, 2, 3, 4})
	isOut := func(seat Seat) bool { return seat == 2 }
	next, ended := s.Advance(1, Play, 1, isOut)
	assert.Equal(t, Seat(3), next)
	assert.False(t, ended)
}

func TestAdvance_EndsTrickWhenPassReturnsToAggressor(t *testing.T) {
	s := NewSeating([4]Seat{1, 2, 3, 4})
	isOut := func(Seat) bool { return false }
	next, ended := s.Advance(4, Pass, 1, isOut)
	assert.Equal(t, Seat(1), next)
	assert.True(t, ended)
}

func TestAdvance_DoesNotEndTrickOnPlay(t *testing.T) {
	s := NewSeating([4]Seat{1, 2, 3, 4})
	isOut := func(Seat) bool { return false }
	next, ended := s.Advance(1, Play, 1, isOut)
	assert.Equal(t, Seat(2), next)
	assert.False(t, ended)
}
