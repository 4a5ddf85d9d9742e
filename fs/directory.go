package fs

import (
	"sort"
	"strconv"

	"github.com/mihailBz/ExtLikeFS/internal/codec"
	"github.com/mihailBz/ExtLikeFS/internal/fserrors"
)

// readDirPayload decodes a directory inode's data blocks into its
// name->inode-id entries, plus the key order as persisted.
func (f *FileSystem) readDirPayload(record codec.Inode) (map[string]int, []string, error) {
	raw, err := f.readBlocks(record.DataBlocksMap)
	if err != nil {
		return nil, nil, err
	}
	if len(raw) == 0 {
		return map[string]int{}, nil, nil
	}
	entries, order, _, err := codec.DecodeStringIntMap(raw)
	return entries, order, err
}

func (f *FileSystem) readSymlinkTarget(record codec.Inode) (string, error) {
	raw, err := f.readBlocks(record.DataBlocksMap)
	if err != nil {
		return "", err
	}
	target, _, err := codec.DecodeString(raw)
	return target, err
}

func (f *FileSystem) readFileContent(record codec.Inode) ([]byte, error) {
	if len(record.DataBlocksMap) == 0 {
		return nil, nil
	}
	raw, err := f.readBlocks(record.DataBlocksMap)
	if err != nil {
		return nil, err
	}
	s, _, err := codec.DecodeString(raw)
	return []byte(s), err
}

// writeDirectoryGrow re-encodes a directory's entries and commits them,
// allocating one additional block first if the new payload overflows the
// blocks it already has.
func (f *FileSystem) writeDirectoryGrow(record *codec.Inode, entries map[string]int, order []string) error {
	payload := codec.EncodeStringIntMap(entries, order)
	if len(payload) > f.blockSize*len(record.DataBlocksMap) {
		extra, err := f.bitmap.FindFree(1)
		if err != nil {
			return err
		}
		record.DataBlocksMap = append(record.DataBlocksMap, extra...)
	}
	record.FileSize = len(payload)
	if err := f.writeBlocks(record.DataBlocksMap, payload); err != nil {
		return err
	}
	return f.writeInode(*record)
}

// writeDirectoryShrink re-encodes a directory's entries after a removal. If
// the resulting payload leaves more than one whole block of slack, the
// directory's blocks are freed and reallocated just large enough; otherwise
// the existing blocks are reused in place.
func (f *FileSystem) writeDirectoryShrink(record *codec.Inode, entries map[string]int, order []string) error {
	payload := codec.EncodeStringIntMap(entries, order)
	addrs := record.DataBlocksMap

	if f.blockSize*len(record.DataBlocksMap)-len(payload) > f.blockSize {
		if err := f.freeBlocks(record.DataBlocksMap); err != nil {
			return err
		}
		newAddrs, err := f.allocateBlocks(payload)
		if err != nil {
			return err
		}
		addrs = newAddrs
		record.DataBlocksMap = addrs
	}

	record.FileSize = len(payload)
	if err := f.writeBlocks(addrs, payload); err != nil {
		return err
	}
	return f.writeInode(*record)
}

// createRoot formats inode 0 as the root directory, self-referencing for
// both "." and "..".
func (f *FileSystem) createRoot() error {
	entries := map[string]int{".": rootInodeID, "..": rootInodeID}
	order := []string{".", ".."}
	payload := codec.EncodeStringIntMap(entries, order)

	addrs, err := f.allocateBlocks(payload)
	if err != nil {
		return err
	}
	if err := f.writeBlocks(addrs, payload); err != nil {
		return err
	}

	record := codec.Inode{
		ID:            rootInodeID,
		FileName:      []string{"/"},
		FileType:      codec.TypeDirectory,
		LinksCnt:      2,
		FileSize:      len(payload),
		DataBlocksMap: addrs,
	}
	return f.writeInode(record)
}

// addEntryToDirectory inserts childName -> childInodeID into the directory
// at parentID, bumping the parent's links_cnt when the new entry is itself a
// directory (its ".." is a new hard reference to the parent). Fails with
// FileAlreadyExists if the name is already bound.
func (f *FileSystem) addEntryToDirectory(parentID int, childName string, childInodeID int, childType codec.FileType) error {
	parentRecord, err := f.readInode(parentID)
	if err != nil {
		return err
	}
	entries, order, err := f.readDirPayload(parentRecord)
	if err != nil {
		return err
	}
	if _, exists := entries[childName]; exists {
		return fserrors.FileAlreadyExists
	}

	if childType == codec.TypeDirectory {
		parentRecord.LinksCnt++
	}
	entries[childName] = childInodeID
	order = append(order, childName)

	return f.writeDirectoryGrow(&parentRecord, entries, order)
}

// removeEntryFromDirectory deletes childName from the directory at
// parentID. It does not itself touch the parent's links_cnt: callers decide
// whether the removal also releases a hard reference to the parent (rmdir
// does; unlink of a regular file or symlink does not).
func (f *FileSystem) removeEntryFromDirectory(parentID int, childName string) error {
	parentRecord, err := f.readInode(parentID)
	if err != nil {
		return err
	}
	entries, order, err := f.readDirPayload(parentRecord)
	if err != nil {
		return err
	}
	delete(entries, childName)
	order = removeFromOrder(order, childName)

	return f.writeDirectoryShrink(&parentRecord, entries, order)
}

// removeEntryAndDropParentLink deletes childName from the directory at
// parentID and also decrements the parent's links_cnt, for the rmdir case
// where the removed child was itself a directory whose ".." held a hard
// reference to the parent (the mirror image of addEntryToDirectory's
// increment).
func (f *FileSystem) removeEntryAndDropParentLink(parentID int, childName string) error {
	parentRecord, err := f.readInode(parentID)
	if err != nil {
		return err
	}
	entries, order, err := f.readDirPayload(parentRecord)
	if err != nil {
		return err
	}
	delete(entries, childName)
	order = removeFromOrder(order, childName)
	parentRecord.LinksCnt--

	return f.writeDirectoryShrink(&parentRecord, entries, order)
}

func removeFromOrder(order []string, name string) []string {
	out := order[:0]
	for _, n := range order {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}

// formatListing renders a directory's entries the way ls prints them:
// "<inode_id> <name>", one per line, in ascending-id order.
func formatListing(entries map[string]int, order []string) string {
	names := append([]string(nil), order...)
	sort.SliceStable(names, func(i, j int) bool {
		return entries[names[i]] < entries[names[j]]
	})

	var out string
	for i, name := range names {
		if i > 0 {
			out += "\n"
		}
		out += strconv.Itoa(entries[name]) + " " + name
	}
	return out
}
