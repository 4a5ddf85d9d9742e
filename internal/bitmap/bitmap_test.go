package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFreeAscendingFirstFit(t *testing.T) {
	bm := New(8)
	bm.Mark(true, []int{0, 1, 3})

	free, err := bm.FindFree(3)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 5}, free)
}

func TestFindFreeFailsWhenInsufficient(t *testing.T) {
	bm := New(2)
	bm.Mark(true, []int{0, 1})

	_, err := bm.FindFree(1)
	assert.Error(t, err)
}

func TestParseAndStringRoundTrip(t *testing.T) {
	bm := New(6)
	bm.Mark(true, []int{1, 4})

	s := bm.String()
	assert.Equal(t, "010010", s)

	parsed, err := Parse(s)
	require.NoError(t, err)
	assert.Equal(t, s, parsed.String())
}

func TestMarkDoesNotPartiallyCommitOnFailedFind(t *testing.T) {
	bm := New(2)
	bm.Mark(true, []int{0})

	before := bm.String()
	_, err := bm.FindFree(5)
	assert.Error(t, err)
	assert.Equal(t, before, bm.String())
}

func TestSizeForGrowsUntilCapacityReached(t *testing.T) {
	bitmapBlocks, dataBlocks := SizeFor(100, 16)
	assert.Greater(t, bitmapBlocks, 0)
	assert.Equal(t, 100-bitmapBlocks, dataBlocks)
	assert.GreaterOrEqual(t, bitmapBlocks*16, dataBlocks)
}
