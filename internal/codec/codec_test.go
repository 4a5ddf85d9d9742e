package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringRoundTrip(t *testing.T) {
	encoded := EncodeString("hello world")
	decoded, consumed, err := DecodeString(encoded)
	require.NoError(t, err)
	assert.Equal(t, "hello world", decoded)
	assert.Equal(t, len(encoded), consumed)
}

func TestIntRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, -1, 42, 1 << 20} {
		encoded := EncodeInt(n)
		decoded, _, err := DecodeInt(encoded)
		require.NoError(t, err)
		assert.Equal(t, n, decoded)
	}
}

func TestIntListRoundTrip(t *testing.T) {
	values := []int{3, 1, 4, 1, 5}
	encoded := EncodeIntList(values)
	decoded, _, err := DecodeIntList(encoded)
	require.NoError(t, err)
	assert.Equal(t, values, decoded)
}

func TestStringIntMapRoundTrip(t *testing.T) {
	m := map[string]int{".": 3, "..": 1, "child": 7}
	order := []string{".", "..", "child"}
	encoded := EncodeStringIntMap(m, order)
	decoded, decodedOrder, _, err := DecodeStringIntMap(encoded)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
	assert.Equal(t, order, decodedOrder)
}

func TestInodeRoundTrip(t *testing.T) {
	in := Inode{
		ID:            3,
		FileName:      []string{"a", "b"},
		FileType:      TypeRegular,
		LinksCnt:      2,
		FileSize:      128,
		DataBlocksMap: []int{0, 1, 2},
	}
	encoded := EncodeInode(in)
	decoded, ok, err := DecodeInode(encoded)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, decoded)
}

func TestEmptySlotSentinel(t *testing.T) {
	slot := make([]byte, 256)
	assert.True(t, IsEmpty(slot))

	record, ok, err := DecodeInode(slot)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Inode{}, record)

	in := Inode{ID: 0, FileType: TypeDirectory, LinksCnt: 2, FileName: []string{"/"}}
	encoded := EncodeInode(in)
	require.NoError(t, WriteIntoSlot(slot, encoded))
	assert.False(t, IsEmpty(slot))
}

func TestWriteIntoSlotTooLarge(t *testing.T) {
	slot := make([]byte, 4)
	err := WriteIntoSlot(slot, EncodeString("too big for four bytes"))
	assert.Error(t, err)
}

func TestWriteIntoSlotZeroesStaleTail(t *testing.T) {
	slot := make([]byte, 32)
	require.NoError(t, WriteIntoSlot(slot, EncodeString("0123456789abcdef")))
	require.NoError(t, WriteIntoSlot(slot, EncodeString("x")))

	decoded, _, err := DecodeString(slot)
	require.NoError(t, err)
	assert.Equal(t, "x", decoded)
}
