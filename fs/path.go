package fs

import (
	"path"
	"strings"

	"github.com/mihailBz/ExtLikeFS/internal/codec"
	"github.com/mihailBz/ExtLikeFS/internal/fserrors"
)

// resolvePath joins raw to cwd when it isn't already absolute, then
// absolutizes the result, relying on the standard library's POSIX path
// cleaner rather than hand-rolling the "..".pop() loop.
func (f *FileSystem) resolvePath(raw string) string {
	if strings.HasPrefix(raw, "/") {
		return path.Clean(raw)
	}
	return path.Clean(path.Join(f.cwd, raw))
}

// splitComponents breaks an absolute, cleaned path into its non-empty
// segments. "/" yields no segments.
func splitComponents(clean string) []string {
	trimmed := strings.Trim(clean, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func parentAndName(clean string) (string, string) {
	return path.Dir(clean), path.Base(clean)
}

// walk resolves clean (an absolute, already-cleaned path) to an inode id,
// following symlinks transparently at every component. When
// returnSymlinkInodeID is set and the final component names a symlink, the
// symlink's own inode id is returned instead of following it to its
// target - the mechanism Stat relies on to report a terminal symlink as
// itself.
func (f *FileSystem) walk(clean string, returnSymlinkInodeID bool) (int, error) {
	return f.walkDepth(clean, returnSymlinkInodeID, 0)
}

func (f *FileSystem) walkDepth(clean string, returnSymlinkInodeID bool, depth int) (int, error) {
	if depth > maxSymlinkDepth {
		return 0, fserrors.InvalidPath.WithMessage("symlink chain too deep")
	}

	components := splitComponents(clean)
	inodeID := rootInodeID

	for i, name := range components {
		dirRecord, err := f.readInode(inodeID)
		if err != nil {
			return 0, err
		}
		if dirRecord.FileType != codec.TypeDirectory {
			return 0, fserrors.FileDoesNotExist.WithMessage("not a directory: " + name)
		}
		entries, _, err := f.readDirPayload(dirRecord)
		if err != nil {
			return 0, err
		}
		childID, ok := entries[name]
		if !ok {
			return 0, fserrors.FileDoesNotExist
		}

		childRecord, err := f.readInode(childID)
		if err != nil {
			return 0, err
		}
		if childRecord.FileType == codec.TypeSymlink {
			isLast := i == len(components)-1
			ownName := ""
			if len(childRecord.FileName) > 0 {
				ownName = childRecord.FileName[0]
			}
			if isLast && returnSymlinkInodeID && ownName == name {
				return childID, nil
			}
			target, err := f.readSymlinkTarget(childRecord)
			if err != nil {
				return 0, err
			}
			resolved, err := f.walkDepth(f.resolvePath(target), false, depth+1)
			if err != nil {
				return 0, err
			}
			inodeID = resolved
			continue
		}

		inodeID = childID
	}

	return inodeID, nil
}
