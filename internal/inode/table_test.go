package inode

import (
	"testing"

	"github.com/mihailBz/ExtLikeFS/internal/blockdev"
	"github.com/mihailBz/ExtLikeFS/internal/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, count int) *Table {
	t.Helper()
	dev := blockdev.NewInMemory(int64(count * Size))
	drv := blockdev.NewDriver(dev)
	return NewTable(drv, 0, count)
}

func TestGetFreeFindsFirstEmptySlot(t *testing.T) {
	table := newTestTable(t, 4)

	id, err := table.GetFree()
	require.NoError(t, err)
	assert.Equal(t, 0, id)

	require.NoError(t, table.Write(codec.Inode{ID: 0, FileType: codec.TypeDirectory, LinksCnt: 2, FileName: []string{"/"}}))

	id, err = table.GetFree()
	require.NoError(t, err)
	assert.Equal(t, 1, id)
}

func TestGetFreeFailsWhenFull(t *testing.T) {
	table := newTestTable(t, 1)
	require.NoError(t, table.Write(codec.Inode{ID: 0, FileType: codec.TypeRegular, LinksCnt: 1}))

	_, err := table.GetFree()
	assert.Error(t, err)
}

func TestWriteReadClearRoundTrip(t *testing.T) {
	table := newTestTable(t, 2)
	record := codec.Inode{
		ID:            1,
		FileName:      []string{"f"},
		FileType:      codec.TypeRegular,
		LinksCnt:      1,
		FileSize:      5,
		DataBlocksMap: []int{2},
	}
	require.NoError(t, table.Write(record))

	got, ok, err := table.Read(1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, record, got)

	require.NoError(t, table.Clear(1))
	_, ok, err = table.Read(1)
	require.NoError(t, err)
	assert.False(t, ok)
}
