package fs

import (
	"github.com/mihailBz/ExtLikeFS/internal/codec"
	"github.com/mihailBz/ExtLikeFS/internal/fsck"
)

// Fsck walks the whole image and checks its consistency invariants: bitmap
// bits match block references, every non-free inode has links_cnt >= 1,
// every directory's "." and ".." are correct, and no name is duplicated
// within a directory. It returns every violation found, not just the first.
func (f *FileSystem) Fsck() error {
	checker := fsck.New()

	referenced := make(map[int]int) // block index -> inode id that claims it
	linksSeen := make(map[int]int)  // inode id -> directory entries referring to it
	records := make(map[int]codec.Inode)
	dirEntries := make(map[int]map[string]int) // directory inode id -> its entries

	for id := 0; id < f.inodes.Count(); id++ {
		record, ok, err := f.inodes.Read(id)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		records[id] = record

		if record.LinksCnt < 1 {
			checker.Violation("inode %d is allocated but has links_cnt %d", id, record.LinksCnt)
		}

		for _, blk := range record.DataBlocksMap {
			if blk < 0 || blk >= f.dataBlocks {
				checker.Violation("inode %d references out-of-range block %d", id, blk)
				continue
			}
			if owner, claimed := referenced[blk]; claimed {
				checker.Violation("block %d is referenced by both inode %d and inode %d", blk, owner, id)
			}
			referenced[blk] = id
			if !f.bitmap.IsAllocated(blk) {
				checker.Violation("block %d is used by inode %d but clear in the bitmap", blk, id)
			}
		}

		if record.FileType == codec.TypeDirectory {
			entries, order, err := f.readDirPayload(record)
			if err != nil {
				checker.Violation("inode %d: directory payload did not decode: %v", id, err)
				continue
			}
			dirEntries[id] = entries
			if len(order) != len(entries) {
				checker.Violation("inode %d: directory holds a duplicated name", id)
			}
			if entries["."] != id {
				checker.Violation("inode %d: \".\" entry is %d, want %d", id, entries["."], id)
			}
			if id != rootInodeID {
				if _, ok := entries[".."]; !ok {
					checker.Violation("inode %d: missing \"..\" entry", id)
				}
			} else if entries[".."] != rootInodeID {
				checker.Violation("root inode: \"..\" entry is %d, want %d", entries[".."], rootInodeID)
			}
			for name, childID := range entries {
				if name == "." || name == ".." {
					continue
				}
				linksSeen[childID]++
			}
		}
	}

	for parentID, entries := range dirEntries {
		for name, childID := range entries {
			child, isDir := dirEntries[childID]
			if name != "." && name != ".." && isDir && child[".."] != parentID {
				checker.Violation("inode %d: \"..\" entry is %d, want %d", childID, child[".."], parentID)
			}
		}
	}

	for blk := 0; blk < f.dataBlocks; blk++ {
		if f.bitmap.IsAllocated(blk) {
			if _, claimed := referenced[blk]; !claimed {
				checker.Violation("block %d is marked allocated but no inode references it", blk)
			}
		}
	}

	for id, record := range records {
		if record.FileType == codec.TypeDirectory {
			continue
		}
		if linksSeen[id] != record.LinksCnt {
			checker.Violation("inode %d: links_cnt is %d, but %d directory entries reference it", id, record.LinksCnt, linksSeen[id])
		}
	}

	return checker.Err()
}
