package seating

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocator_Pool(t *testing.T) {
	a, err := NewAllocator("")
	require.NoError(t, err)

	pool := a.Pool(180)
	assert.Len(t, pool, 180)
	assert.Equal(t, []string{"A1", "B1", "C1", "D1", "E1", "F1", "A2"}, pool[:7])
	assert.Equal(t, "F30", pool[179])
	assert.Len(t, lo.Uniq(pool), 180)
}

func TestAllocator_PoolPartialRow(t *testing.T) {
	a, err := NewAllocator("ABCD")
	require.NoError(t, err)
	assert.Equal(t, []string{"A1", "B1", "C1", "D1", "A2", "B2"}, a.Pool(6))
}

func TestAllocator_AllocateSkipsTaken(t *testing.T) {
	a, err := NewAllocator("AB")
	require.NoError(t, err)

	seats, err := a.Allocate(4, []string{"A1", "B2"}, 2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"B1", "A2"}, seats)
}

func TestAllocator_AllocateWithoutReplacement(t *testing.T) {
	a, err := NewAllocator("")
	require.NoError(t, err)

	var taken []string
	for len(taken) < 180 {
		seats, err := a.Allocate(180, taken, 7)
		if len(taken)+7 > 180 {
			require.ErrorIs(t, err, ErrPoolExhausted)
			seats, err = a.Allocate(180, taken, 180-len(taken))
		}
		require.NoError(t, err)
		taken = append(taken, seats...)
	}
	assert.Len(t, lo.Uniq(taken), 180)
	assert.ElementsMatch(t, a.Pool(180), taken)
}

func TestAllocator_DeterministicSource(t *testing.T) {
	a, err := NewAllocator("ABC", WithRandom(func(int) int { return 0 }))
	require.NoError(t, err)

	seats, err := a.Allocate(6, []string{"A1"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "C1", "A2"}, seats)
}

func TestAllocator_ZeroRequest(t *testing.T) {
	a, err := NewAllocator("")
	require.NoError(t, err)
	seats, err := a.Allocate(10, nil, 0)
	assert.NoError(t, err)
	assert.Empty(t, seats)
}

func TestNewAllocator_InvalidLetters(t *testing.T) {
	_, err := NewAllocator("AAB")
	assert.Error(t, err)
	_, err = NewAllocator("ab")
	assert.Error(t, err)
}
