// Package fs implements the filesystem facade: the on-disk layout, path
// resolution, directory protocol, open-file table, and link manager wired
// together over internal/blockdev, internal/bitmap and internal/inode.
package fs

import (
	"fmt"

	"github.com/mihailBz/ExtLikeFS/internal/bitmap"
	"github.com/mihailBz/ExtLikeFS/internal/blockdev"
	"github.com/mihailBz/ExtLikeFS/internal/codec"
	"github.com/mihailBz/ExtLikeFS/internal/fserrors"
	"github.com/mihailBz/ExtLikeFS/internal/inode"
)

// maxOpenFiles is the open-file table's cap.
const maxOpenFiles = 10000

// maxSymlinkDepth bounds symlink-chasing during path resolution; exceeding it
// fails with fserrors.InvalidPath rather than looping forever on a cycle.
const maxSymlinkDepth = 40

// rootInodeID is the inode id the root directory always occupies.
const rootInodeID = 0

// openFile is one entry in the open-file table: the inode it was opened
// against, its decoded content read at open time, and a private seek cursor.
type openFile struct {
	inodeID int
	data    []byte
	cursor  int
}

// FileSystem is the facade over one formatted backing store: path
// resolution, directory entries, regular-file I/O and link bookkeeping all
// go through it.
type FileSystem struct {
	driver    *blockdev.Driver
	blockSize int

	bitmap     *bitmap.Bitmap
	bitmapOff  int64
	inodes     *inode.Table
	dataOffset int64
	dataBlocks int

	cwd string

	openFiles map[int]*openFile
}

// Mkfs lays out a fresh filesystem over device: a bitmap region sized to
// cover candidateDataBlocks (minus whatever it carves out for itself), an
// inode table of inodesN slots, and the remaining data region, then creates
// the root directory at inode 0. The device is sized to fit the requested
// layout exactly rather than the layout being reverse-engineered from a
// pre-existing device size.
func Mkfs(device *blockdev.Device, blockSize int, inodesN int, candidateDataBlocks int) (*FileSystem, error) {
	if blockSize <= 0 || inodesN <= 0 || candidateDataBlocks <= 0 {
		return nil, fserrors.InvalidSize.WithMessage("block size, inode count and data block count must all be positive")
	}

	bitmapBlocks, dataBlocks := bitmap.SizeFor(candidateDataBlocks, blockSize)
	if dataBlocks <= 0 {
		return nil, fserrors.InvalidSize.WithMessage("candidate data block count is too small to leave room for the bitmap")
	}

	bitmapBytes := int64(bitmapBlocks * blockSize)
	inodeOffset := bitmapBytes + 1
	inodeBytes := int64(inodesN * inode.Size)
	dataOffset := inodeOffset + inodeBytes + 1
	dataBytes := int64(dataBlocks * blockSize)
	needed := dataOffset + dataBytes

	if device.Size() != needed {
		return nil, fserrors.InvalidSize.WithMessage(
			fmt.Sprintf("backing store is %d bytes, layout needs exactly %d", device.Size(), needed),
		)
	}

	driver := blockdev.NewDriver(device)
	bm := bitmap.New(dataBlocks)
	if err := driver.Write(0, []byte(bm.String())); err != nil {
		return nil, err
	}

	fsys := &FileSystem{
		driver:     driver,
		blockSize:  blockSize,
		bitmap:     bm,
		bitmapOff:  0,
		inodes:     inode.NewTable(driver, inodeOffset, inodesN),
		dataOffset: dataOffset,
		dataBlocks: dataBlocks,
		cwd:        "/",
		openFiles:  make(map[int]*openFile),
	}

	if err := fsys.createRoot(); err != nil {
		return nil, err
	}
	return fsys, nil
}

// RequiredSize returns the exact backing-store size Mkfs needs for the given
// parameters, so callers (mkfs CLI, tests) can size the device before
// creating it.
func RequiredSize(blockSize int, inodesN int, candidateDataBlocks int) int64 {
	bitmapBlocks, dataBlocks := bitmap.SizeFor(candidateDataBlocks, blockSize)
	if dataBlocks < 0 {
		dataBlocks = 0
	}
	bitmapBytes := int64(bitmapBlocks * blockSize)
	inodeOffset := bitmapBytes + 1
	inodeBytes := int64(inodesN * inode.Size)
	dataOffset := inodeOffset + inodeBytes + 1
	dataBytes := int64(dataBlocks * blockSize)
	return dataOffset + dataBytes
}

// Open reattaches to an existing image previously formatted by Mkfs with the
// same blockSize, inodesN and candidateDataBlocks, mirroring
// FileSystem.__init__(use_existing=True): the layout is recomputed, not
// stored in a superblock, so the caller must supply the same parameters
// mkfs was given.
func Open(device *blockdev.Device, blockSize int, inodesN int, candidateDataBlocks int) (*FileSystem, error) {
	bitmapBlocks, dataBlocks := bitmap.SizeFor(candidateDataBlocks, blockSize)
	if dataBlocks <= 0 {
		return nil, fserrors.InvalidSize.WithMessage("candidate data block count is too small to leave room for the bitmap")
	}

	bitmapBytes := int64(bitmapBlocks * blockSize)
	inodeOffset := bitmapBytes + 1
	inodeBytes := int64(inodesN * inode.Size)
	dataOffset := inodeOffset + inodeBytes + 1

	driver := blockdev.NewDriver(device)
	raw, err := driver.Read(0, bitmapBytes)
	if err != nil {
		return nil, err
	}
	bm, err := bitmap.Parse(string(raw[:dataBlocks]))
	if err != nil {
		return nil, err
	}

	return &FileSystem{
		driver:     driver,
		blockSize:  blockSize,
		bitmap:     bm,
		bitmapOff:  0,
		inodes:     inode.NewTable(driver, inodeOffset, inodesN),
		dataOffset: dataOffset,
		dataBlocks: dataBlocks,
		cwd:        "/",
		openFiles:  make(map[int]*openFile),
	}, nil
}

// Cwd returns the current working directory, always an absolute path.
func (f *FileSystem) Cwd() string {
	return f.cwd
}

func (f *FileSystem) persistBitmap() error {
	return f.driver.Write(f.bitmapOff, []byte(f.bitmap.String()))
}

func (f *FileSystem) readInode(id int) (codec.Inode, error) {
	record, ok, err := f.inodes.Read(id)
	if err != nil {
		return codec.Inode{}, err
	}
	if !ok {
		return codec.Inode{}, fserrors.FileDoesNotExist.WithMessage("inode is not allocated")
	}
	return record, nil
}

func (f *FileSystem) writeInode(record codec.Inode) error {
	return f.inodes.Write(record)
}

func (f *FileSystem) blockAddr(block int) int64 {
	return f.dataOffset + int64(block)*int64(f.blockSize)
}

// readBlocks reads and concatenates every block in addrs.
func (f *FileSystem) readBlocks(addrs []int) ([]byte, error) {
	var out []byte
	for _, addr := range addrs {
		chunk, err := f.driver.Read(f.blockAddr(addr), int64(f.blockSize))
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

// allocateBlocks reserves enough free blocks to hold len(payload) bytes,
// without committing the bitmap - the caller commits in one write via
// writeBlocks.
func (f *FileSystem) allocateBlocks(payload []byte) ([]int, error) {
	n := 0
	for n*f.blockSize < len(payload) {
		n++
	}
	if n == 0 {
		return nil, nil
	}
	return f.bitmap.FindFree(n)
}

// writeBlocks writes payload across addrs (one blockSize chunk per address,
// zero-padding the final chunk) and marks them allocated in the bitmap.
func (f *FileSystem) writeBlocks(addrs []int, payload []byte) error {
	for i, addr := range addrs {
		start := i * f.blockSize
		end := start + f.blockSize
		var chunk []byte
		if start >= len(payload) {
			chunk = make([]byte, f.blockSize)
		} else if end > len(payload) {
			chunk = make([]byte, f.blockSize)
			copy(chunk, payload[start:])
		} else {
			chunk = payload[start:end]
		}
		if err := f.driver.Write(f.blockAddr(addr), chunk); err != nil {
			return err
		}
	}
	f.bitmap.Mark(true, addrs)
	return f.persistBitmap()
}

// freeBlocks clears addrs on the backing store and marks them free in the
// bitmap.
func (f *FileSystem) freeBlocks(addrs []int) error {
	for _, addr := range addrs {
		if err := f.driver.Clear(f.blockAddr(addr), int64(f.blockSize)); err != nil {
			return err
		}
	}
	f.bitmap.Mark(false, addrs)
	return f.persistBitmap()
}
