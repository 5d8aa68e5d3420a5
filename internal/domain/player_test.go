package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerMove(t *testing.T) {
	ident, ok := LookupIdentity("neutral")
	require.True(t, ok)
	p := NewPlayer("c1", "Alice", ident)

	assert.Equal(t, RingOuter, p.Position)
	assert.Equal(t, 19, p.Move(-2))
	assert.Equal(t, 20, p.Move(1))

	// both card directions clamp at the board edges
	assert.Equal(t, RingOuter, p.Move(5))
	p.Position = 3
	assert.Equal(t, RingCenter, p.Move(-10))
}

func TestEventForRing(t *testing.T) {
	wantTypes := map[int]RingEventType{
		2:  RingEventWar,
		6:  RingEventGlobalWarming,
		10: RingEventCorruption,
		14: RingEventCrisis,
		18: RingEventFascism,
	}
	for ring, want := range wantTypes {
		ev, ok := EventForRing(ring)
		require.True(t, ok, "ring %d", ring)
		assert.Equal(t, want, ev.Type)
		assert.Equal(t, ring, ev.Ring)
	}

	for _, ring := range []int{1, 3, 21, 0, 22} {
		_, ok := EventForRing(ring)
		assert.False(t, ok, "ring %d", ring)
	}
}

func TestIdentityCatalog(t *testing.T) {
	identities := Identities()
	require.Len(t, identities, 10)

	seen := make(map[string]bool)
	for _, ident := range identities {
		assert.NotEmpty(t, ident.ID)
		assert.NotEmpty(t, ident.Name)
		assert.NotEmpty(t, ident.Color)
		assert.False(t, seen[ident.ID], "duplicate id %s", ident.ID)
		seen[ident.ID] = true
	}

	_, ok := LookupIdentity("white_man")
	assert.True(t, ok)
	_, ok = LookupIdentity("unknown")
	assert.False(t, ok)
}
