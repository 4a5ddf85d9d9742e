package fs

import (
	"github.com/mihailBz/ExtLikeFS/internal/codec"
	"github.com/mihailBz/ExtLikeFS/internal/fserrors"
)

// Link creates dst as a new hard link to the inode src resolves to.
// Directories cannot be hard-linked this way (use Mkdir).
func (f *FileSystem) Link(src, dst string) error {
	srcResolved := f.resolvePath(src)
	dstResolved := f.resolvePath(dst)

	inodeID, err := f.walk(srcResolved, false)
	if err != nil {
		return err
	}
	record, err := f.readInode(inodeID)
	if err != nil {
		return err
	}
	if record.FileType == codec.TypeDirectory {
		return fserrors.DirectoryLinkException.WithMessage("cannot create hardlink for directory")
	}

	dstParentPath, dstName := parentAndName(dstResolved)
	parentID, err := f.walk(dstParentPath, false)
	if err != nil {
		return err
	}

	record.FileName = append(record.FileName, dstName)
	record.LinksCnt++

	if err := f.addEntryToDirectory(parentID, dstName, inodeID, record.FileType); err != nil {
		return err
	}
	return f.writeInode(record)
}

// Unlink removes path's binding to its inode. When that drops links_cnt to
// zero the inode and its data blocks are freed. Fails with
// CannotUnlinkOpenFile if a descriptor still references the inode, and with
// DirectoryLinkException for a directory (use Rmdir).
func (f *FileSystem) Unlink(path string) error {
	resolved := f.resolvePath(path)
	inodeID, err := f.walk(resolved, true)
	if err != nil {
		return err
	}

	for _, of := range f.openFiles {
		if of.inodeID == inodeID {
			return fserrors.CannotUnlinkOpenFile
		}
	}

	record, err := f.readInode(inodeID)
	if err != nil {
		return err
	}
	if record.FileType == codec.TypeDirectory {
		return fserrors.DirectoryLinkException.WithMessage("cannot unlink directory")
	}

	parentPath, name := parentAndName(resolved)
	record.FileName = removeFromSlice(record.FileName, name)
	record.LinksCnt--

	if record.LinksCnt == 0 {
		if err := f.freeBlocks(record.DataBlocksMap); err != nil {
			return err
		}
		if err := f.inodes.Clear(inodeID); err != nil {
			return err
		}
	} else {
		if err := f.writeInode(record); err != nil {
			return err
		}
	}

	parentID, err := f.walk(parentPath, false)
	if err != nil {
		return err
	}
	return f.removeEntryFromDirectory(parentID, name)
}

func removeFromSlice(names []string, target string) []string {
	out := names[:0]
	for _, n := range names {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// Symlink creates linkPath as a symbolic link whose payload is target's
// resolved path string. Fails with TooLongSymlink if the encoded target
// doesn't fit in one block.
func (f *FileSystem) Symlink(target, linkPath string) error {
	targetResolved := f.resolvePath(target)
	linkResolved := f.resolvePath(linkPath)

	payload := codec.EncodeString(targetResolved)
	if len(payload) > f.blockSize {
		return fserrors.TooLongSymlink
	}

	return f.createFile(linkResolved, codec.TypeSymlink, func(_, _ int) []byte {
		return payload
	})
}

// Mkdir creates a new, empty directory at path.
func (f *FileSystem) Mkdir(path string) error {
	resolved := f.resolvePath(path)
	if resolved == "/" {
		return fserrors.FileAlreadyExists
	}

	return f.createFile(resolved, codec.TypeDirectory, func(inodeID, parentID int) []byte {
		entries := map[string]int{".": inodeID, "..": parentID}
		order := []string{".", ".."}
		return codec.EncodeStringIntMap(entries, order)
	})
}

// Rmdir removes the empty directory at path, dropping the parent's
// links_cnt by one for the hard reference its ".." entry held.
func (f *FileSystem) Rmdir(path string) error {
	resolved := f.resolvePath(path)
	if resolved == "/" {
		return fserrors.CannotRemoveDirectory.WithMessage("root directory cannot be removed")
	}

	inodeID, err := f.walk(resolved, false)
	if err != nil {
		return err
	}
	record, err := f.readInode(inodeID)
	if err != nil {
		return err
	}
	entries, _, err := f.readDirPayload(record)
	if err != nil {
		return err
	}
	if len(entries) > 2 {
		return fserrors.CannotRemoveDirectory.WithMessage("directory is not empty")
	}

	if err := f.freeBlocks(record.DataBlocksMap); err != nil {
		return err
	}
	if err := f.inodes.Clear(inodeID); err != nil {
		return err
	}

	parentPath, name := parentAndName(resolved)
	parentID, err := f.walk(parentPath, false)
	if err != nil {
		return err
	}
	return f.removeEntryAndDropParentLink(parentID, name)
}

// Cd sets cwd to the absolutized form of path. Unlike the other operations
// it does not validate that path exists.
func (f *FileSystem) Cd(path string) {
	f.cwd = f.resolvePath(path)
}
