// Package inode implements the fixed-size inode table: a flat array of
// INODE_SIZE-byte slots, each either the all-zero empty sentinel or one
// codec-encoded inode record.
package inode

import (
	"github.com/mihailBz/ExtLikeFS/internal/blockdev"
	"github.com/mihailBz/ExtLikeFS/internal/codec"
	"github.com/mihailBz/ExtLikeFS/internal/fserrors"
)

// Size is INODE_SIZE: the fixed number of bytes reserved per inode slot.
const Size = 256

// Table is the on-disk array of inode slots, addressed through a block
// driver starting at a fixed byte offset.
type Table struct {
	driver *blockdev.Driver
	offset int64
	count  int
}

// NewTable wraps the inode region of a backing store: count slots of Size
// bytes each, starting at offset.
func NewTable(driver *blockdev.Driver, offset int64, count int) *Table {
	return &Table{driver: driver, offset: offset, count: count}
}

// Count returns the number of inode slots (INODES_N).
func (t *Table) Count() int {
	return t.count
}

func (t *Table) slotOffset(id int) int64 {
	return t.offset + int64(id)*Size
}

// Read decodes the inode record in slot id. ok is false if the slot is
// empty (free).
func (t *Table) Read(id int) (record codec.Inode, ok bool, err error) {
	slot, err := t.driver.Read(t.slotOffset(id), Size)
	if err != nil {
		return codec.Inode{}, false, err
	}
	return codec.DecodeInode(slot)
}

// Write encodes record into slot record.ID, zero-padding the remainder of
// the slot. Fails if the encoded record doesn't fit in a Size-byte slot.
func (t *Table) Write(record codec.Inode) error {
	slot := make([]byte, Size)
	if err := codec.WriteIntoSlot(slot, codec.EncodeInode(record)); err != nil {
		return err
	}
	return t.driver.Write(t.slotOffset(record.ID), slot)
}

// Clear zero-fills slot id, marking it free.
func (t *Table) Clear(id int) error {
	return t.driver.Clear(t.slotOffset(id), Size)
}

// GetFree scans slots 0..count-1 in order and returns the first whose
// sentinel byte is zero. Fails with fserrors.OutOfInodes if the table is
// full.
func (t *Table) GetFree() (int, error) {
	for id := 0; id < t.count; id++ {
		slot, err := t.driver.Read(t.slotOffset(id), Size)
		if err != nil {
			return 0, err
		}
		if codec.IsEmpty(slot) {
			return id, nil
		}
	}
	return 0, fserrors.OutOfInodes
}
