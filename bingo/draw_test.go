package bingo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDrawSequence(t *testing.T) {
	seq := DrawSequence(3)
	require.Len(t, seq, MaxBall)

	seen := make(map[int]bool)
	for _, n := range seq {
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, MaxBall)
		assert.False(t, seen[n], "ball %d drawn twice", n)
		seen[n] = true
	}
}

func TestRemainingBalls(t *testing.T) {
	t.Run("nothing drawn", func(t *testing.T) {
		assert.Len(t, RemainingBalls(nil), MaxBall)
	})

	t.Run("some drawn", func(t *testing.T) {
		remaining := RemainingBalls([]int{1, 2, 75})
		assert.Len(t, remaining, MaxBall-3)
		assert.NotContains(t, remaining, 1)
		assert.NotContains(t, remaining, 75)
		assert.Contains(t, remaining, 3)
	})

	t.Run("all drawn", func(t *testing.T) {
		assert.Empty(t, RemainingBalls(DrawSequence(1)))
	})
}

func TestPrizeFractions(t *testing.T) {
	assert.Equal(t, 0.10, PrizeFraction(LineVerticalB))
	assert.Equal(t, 0.10, PrizeFraction(FourCorners))
	assert.Equal(t, 0.25, PrizeFraction(ShapeX))
	assert.Equal(t, 0.50, PrizeFraction(FullCard))
	assert.Equal(t, 0.0, PrizeFraction("NOT_A_PATTERN"))

	assert.Equal(t, 500.0, Prize(FullCard, 1000))
}
