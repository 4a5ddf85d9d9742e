// Package bitmap implements the data-block allocation bitmap: a first-fit,
// ascending allocator persisted on disk as an ASCII string of '0'/'1'
// characters (one per data block), backed in-memory by
// github.com/boljen/go-bitmap for fast scans.
package bitmap

import (
	"strings"

	gobitmap "github.com/boljen/go-bitmap"
	"github.com/mihailBz/ExtLikeFS/internal/codec"
	"github.com/mihailBz/ExtLikeFS/internal/fserrors"
)

// Bitmap tracks which of a fixed number of data blocks are allocated.
type Bitmap struct {
	bits  gobitmap.Bitmap
	total int
}

// New creates a Bitmap with every bit cleared (all blocks free).
func New(total int) *Bitmap {
	return &Bitmap{bits: gobitmap.New(total), total: total}
}

// Parse reconstructs a Bitmap from its persisted ASCII '0'/'1' form.
func Parse(s string) (*Bitmap, error) {
	bm := New(len(s))
	for i, ch := range s {
		switch ch {
		case '0':
			bm.bits.Set(i, false)
		case '1':
			bm.bits.Set(i, true)
		default:
			return nil, fserrors.InvalidSize.WithMessage("bitmap contains a byte that isn't '0' or '1'")
		}
	}
	return bm, nil
}

// String renders the bitmap back to its persisted ASCII '0'/'1' form.
func (bm *Bitmap) String() string {
	var sb strings.Builder
	sb.Grow(bm.total)
	for i := 0; i < bm.total; i++ {
		if bm.bits.Get(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

// Total returns the number of data blocks this bitmap tracks.
func (bm *Bitmap) Total() int {
	return bm.total
}

// IsAllocated reports whether block i is currently marked in-use.
func (bm *Bitmap) IsAllocated(i int) bool {
	return bm.bits.Get(i)
}

// FindFree returns the first n indices whose bit is clear, in ascending
// order. It fails with fserrors.OutOfBlocks if fewer than n blocks are free;
// no bits are modified by this call - callers compute first, then commit
// with Mark in one write.
func (bm *Bitmap) FindFree(n int) ([]int, error) {
	free := make([]int, 0, n)
	for i := 0; i < bm.total && len(free) < n; i++ {
		if !bm.bits.Get(i) {
			free = append(free, i)
		}
	}
	if len(free) < n {
		return nil, fserrors.OutOfBlocks
	}
	return free, nil
}

// Mark sets every index in indices to value (true = allocated).
func (bm *Bitmap) Mark(value bool, indices []int) {
	for _, i := range indices {
		bm.bits.Set(i, value)
	}
}

// SizeFor replicates the original implementation's iterative sizing of the
// bitmap region: grow the region one block at a time until it's large
// enough to hold an ASCII bitmap string (with the codec's fixed per-value
// overhead) for all candidateDataBlocks, then carve those bitmap blocks out
// of the candidate count. It returns the number of blocks reserved for the
// bitmap and the number of data blocks left for user data.
func SizeFor(candidateDataBlocks int, blockSize int) (bitmapBlocks int, dataBlocks int) {
	for bitmapBlocks*blockSize-codec.EmptyStringOverhead < candidateDataBlocks {
		bitmapBlocks++
	}
	return bitmapBlocks, candidateDataBlocks - bitmapBlocks
}
