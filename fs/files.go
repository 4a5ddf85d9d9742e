package fs

import (
	"github.com/mihailBz/ExtLikeFS/internal/codec"
	"github.com/mihailBz/ExtLikeFS/internal/fserrors"
)

// Create makes a new, empty regular file at path.
func (f *FileSystem) Create(path string) error {
	return f.createFile(f.resolvePath(path), codec.TypeRegular, nil)
}

// createFile is the shared machinery behind Create, Symlink and the mkdir
// half of the link manager: allocate a free inode, bind it into its
// parent's directory entries, optionally persist a payload built once the
// inode id (and, for directories, the parent id) is known, and commit the
// inode record.
func (f *FileSystem) createFile(resolved string, fileType codec.FileType, buildPayload func(inodeID, parentID int) []byte) error {
	parentPath, name := parentAndName(resolved)
	parentID, err := f.walk(parentPath, false)
	if err != nil {
		return err
	}

	inodeID, err := f.inodes.GetFree()
	if err != nil {
		return err
	}

	if err := f.addEntryToDirectory(parentID, name, inodeID, fileType); err != nil {
		return err
	}

	var addrs []int
	size := 0
	if buildPayload != nil {
		payload := buildPayload(inodeID, parentID)
		addrs, err = f.allocateBlocks(payload)
		if err != nil {
			return err
		}
		if err := f.writeBlocks(addrs, payload); err != nil {
			return err
		}
		size = len(payload)
	}

	links := 1
	if fileType == codec.TypeDirectory {
		links = 2
	}
	record := codec.Inode{
		ID:            inodeID,
		FileName:      []string{name},
		FileType:      fileType,
		LinksCnt:      links,
		FileSize:      size,
		DataBlocksMap: addrs,
	}
	return f.writeInode(record)
}

// Open resolves path (following symlinks), reads its content into the
// open-file table and returns a descriptor. Fails with TooManyFilesOpened
// once maxOpenFiles descriptors are outstanding.
func (f *FileSystem) Open(path string) (int, error) {
	if len(f.openFiles) >= maxOpenFiles {
		return 0, fserrors.TooManyFilesOpened
	}

	inodeID, err := f.walk(f.resolvePath(path), false)
	if err != nil {
		return 0, err
	}
	record, err := f.readInode(inodeID)
	if err != nil {
		return 0, err
	}
	content, err := f.readFileContent(record)
	if err != nil {
		return 0, err
	}

	fd := nextDescriptor(f.openFiles)
	f.openFiles[fd] = &openFile{inodeID: inodeID, data: content, cursor: 0}
	return fd, nil
}

func nextDescriptor(open map[int]*openFile) int {
	max := 0
	for fd := range open {
		if fd > max {
			max = fd
		}
	}
	return max + 1
}

// Close removes fd from the open-file table.
func (f *FileSystem) Close(fd int) error {
	if _, ok := f.openFiles[fd]; !ok {
		return fserrors.WrongFileDescriptorNumber
	}
	delete(f.openFiles, fd)
	return nil
}

// Seek sets fd's cursor. Out-of-range positions are accepted; Read clamps.
func (f *FileSystem) Seek(fd int, pos int) error {
	of, ok := f.openFiles[fd]
	if !ok {
		return fserrors.WrongFileDescriptorNumber
	}
	of.cursor = pos
	return nil
}

// Read returns up to n bytes from fd starting at its cursor and advances the
// cursor. At a non-zero cursor the read actually starts at cursor-1, not
// cursor - a deliberately preserved off-by-one.
func (f *FileSystem) Read(fd int, n int) ([]byte, error) {
	of, ok := f.openFiles[fd]
	if !ok {
		return nil, fserrors.WrongFileDescriptorNumber
	}

	start := of.cursor
	if start != 0 {
		start--
	}
	if start < 0 {
		start = 0
	}
	if start > len(of.data) {
		start = len(of.data)
	}

	end := start + n
	if end > len(of.data) {
		of.cursor = len(of.data)
		return append([]byte(nil), of.data[start:]...), nil
	}
	of.cursor = end
	return append([]byte(nil), of.data[start:end]...), nil
}

// Write overwrites fd's content from its cursor with bytes[:n] and advances
// the cursor by n, then persists the new content: allocate new blocks,
// write them, free the old ones, update the inode.
func (f *FileSystem) Write(fd int, data []byte, n int) error {
	of, ok := f.openFiles[fd]
	if !ok {
		return fserrors.WrongFileDescriptorNumber
	}
	if n > len(data) {
		n = len(data)
	}
	chunk := data[:n]

	var newContent []byte
	switch {
	case len(of.data) == 0:
		newContent = append(make([]byte, of.cursor), chunk...)
	case len(of.data) < of.cursor:
		pad := make([]byte, of.cursor-len(of.data))
		newContent = append(append(append([]byte(nil), of.data...), pad...), chunk...)
	default:
		newContent = append(append([]byte(nil), of.data[:of.cursor]...), chunk...)
	}
	of.cursor += n

	record, err := f.readInode(of.inodeID)
	if err != nil {
		return err
	}
	oldAddrs := record.DataBlocksMap

	payload := codec.EncodeString(string(newContent))
	addrs, err := f.allocateBlocks(payload)
	if err != nil {
		return err
	}
	if err := f.writeBlocks(addrs, payload); err != nil {
		return err
	}
	if err := f.freeBlocks(oldAddrs); err != nil {
		return err
	}

	record.FileSize = len(payload)
	record.DataBlocksMap = addrs
	if err := f.writeInode(record); err != nil {
		return err
	}

	of.data = newContent
	return nil
}

// Truncate resizes the file at path to exactly size bytes, padding with
// zero bytes or dropping the tail as needed. The new content is written to
// freshly allocated blocks before the old ones are freed, so the file's
// block addresses are not kept.
func (f *FileSystem) Truncate(path string, size int) error {
	inodeID, err := f.walk(f.resolvePath(path), false)
	if err != nil {
		return err
	}
	record, err := f.readInode(inodeID)
	if err != nil {
		return err
	}
	content, err := f.readFileContent(record)
	if err != nil {
		return err
	}

	var newContent []byte
	if size <= len(content) {
		newContent = content[:size]
	} else {
		newContent = append(append([]byte(nil), content...), make([]byte, size-len(content))...)
	}

	payload := codec.EncodeString(string(newContent))
	addrs, err := f.allocateBlocks(payload)
	if err != nil {
		return err
	}
	if err := f.writeBlocks(addrs, payload); err != nil {
		return err
	}
	if err := f.freeBlocks(record.DataBlocksMap); err != nil {
		return err
	}

	record.FileSize = len(payload)
	record.DataBlocksMap = addrs
	return f.writeInode(record)
}
