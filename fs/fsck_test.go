package fs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFsckCleanAfterTypicalOperations(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)

	require.NoError(t, fsys.Mkdir("/a"))
	require.NoError(t, fsys.Create("/a/f"))
	fd, err := fsys.Open("/a/f")
	require.NoError(t, err)
	require.NoError(t, fsys.Write(fd, []byte("payload"), 7))
	require.NoError(t, fsys.Close(fd))
	require.NoError(t, fsys.Link("/a/f", "/g"))
	require.NoError(t, fsys.Symlink("/a", "/s"))

	require.NoError(t, fsys.Fsck())
}

func TestFsckCatchesLinksCntMismatch(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)
	require.NoError(t, fsys.Create("/f"))

	record, err := fsys.readInode(1)
	require.NoError(t, err)
	record.LinksCnt = 2
	require.NoError(t, fsys.writeInode(record))

	err = fsys.Fsck()
	require.Error(t, err)
}
