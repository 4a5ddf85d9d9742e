package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetKnownPreset(t *testing.T) {
	p, err := Get("tiny")
	require.NoError(t, err)
	assert.Equal(t, 512, p.BlockSize)
	assert.Equal(t, 16, p.Inodes)
	assert.Equal(t, 32, p.DataBlocks)
}

func TestGetUnknownPresetFails(t *testing.T) {
	_, err := Get("does-not-exist")
	assert.Error(t, err)
}

func TestNamesIncludesEveryRow(t *testing.T) {
	names := Names()
	assert.Contains(t, names, "tiny")
	assert.Contains(t, names, "bigdisk")
}
