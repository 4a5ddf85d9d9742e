package fsck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerAccumulatesEveryViolation(t *testing.T) {
	c := New()
	assert.NoError(t, c.Err())

	c.Violation("bitmap bit %d should be clear", 3)
	c.Violation("inode %d has links_cnt %d, want %d", 7, 0, 1)

	assert.Equal(t, 2, c.Len())
	assert.Error(t, c.Err())
	assert.Contains(t, c.Err().Error(), "bitmap bit 3")
	assert.Contains(t, c.Err().Error(), "inode 7")
}
