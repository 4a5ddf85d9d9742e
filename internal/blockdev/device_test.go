package blockdev

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWriteRoundTrip(t *testing.T) {
	dev := NewInMemory(64)
	drv := NewDriver(dev)

	require.NoError(t, drv.Write(10, []byte("hello")))
	got, err := drv.Read(10, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestClearZeroesRange(t *testing.T) {
	dev := NewInMemory(32)
	drv := NewDriver(dev)

	require.NoError(t, drv.Write(0, []byte("abcdefgh")))
	require.NoError(t, drv.Clear(2, 4))

	got, err := drv.Read(0, 8)
	require.NoError(t, err)
	assert.Equal(t, []byte{'a', 'b', 0, 0, 0, 0, 'g', 'h'}, got)
}

func TestOutOfRangeFails(t *testing.T) {
	dev := NewInMemory(16)
	drv := NewDriver(dev)

	_, err := drv.Read(10, 10)
	assert.Error(t, err)

	err = drv.Write(-1, []byte("x"))
	assert.Error(t, err)
}
