package fs

import (
	"fmt"
	"strings"

	"github.com/mihailBz/ExtLikeFS/internal/codec"
)

// Ls lists the current working directory's entries, one per line, as
// "<inode_id> <name>".
func (f *FileSystem) Ls() (string, error) {
	inodeID, err := f.walk(f.cwd, false)
	if err != nil {
		return "", err
	}
	record, err := f.readInode(inodeID)
	if err != nil {
		return "", err
	}
	entries, order, err := f.readDirPayload(record)
	if err != nil {
		return "", err
	}
	return formatListing(entries, order), nil
}

// Stat returns the inode record for path itself - a terminal symlink is
// reported as a symlink, never followed.
func (f *FileSystem) Stat(path string) (codec.Inode, error) {
	inodeID, err := f.walk(f.resolvePath(path), true)
	if err != nil {
		return codec.Inode{}, err
	}
	return f.readInode(inodeID)
}

// FormatInode renders an inode record the way the REPL's stat output does.
func FormatInode(record codec.Inode) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "id: %d\n", record.ID)
	fmt.Fprintf(&sb, "file_name: %s\n", strings.Join(record.FileName, ", "))
	fmt.Fprintf(&sb, "file_type: %s\n", record.FileType)
	fmt.Fprintf(&sb, "links_cnt: %d\n", record.LinksCnt)
	fmt.Fprintf(&sb, "file_size: %d\n", record.FileSize)
	fmt.Fprintf(&sb, "data_blocks_map: %v", record.DataBlocksMap)
	return sb.String()
}
