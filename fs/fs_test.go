package fs

import (
	"errors"
	"testing"

	"github.com/mihailBz/ExtLikeFS/internal/blockdev"
	"github.com/mihailBz/ExtLikeFS/internal/codec"
	"github.com/mihailBz/ExtLikeFS/internal/fserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFS(t *testing.T, inodesN, blockSize, dataBlocks int) *FileSystem {
	t.Helper()
	size := RequiredSize(blockSize, inodesN, dataBlocks)
	device := blockdev.NewInMemory(size)
	fsys, err := Mkfs(device, blockSize, inodesN, dataBlocks)
	require.NoError(t, err)
	return fsys
}

func TestFreshRootListing(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)

	out, err := fsys.Ls()
	require.NoError(t, err)
	assert.Equal(t, "0 .\n0 ..", out)
}

func TestMkdirThenList(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)

	require.NoError(t, fsys.Mkdir("/a"))
	out, err := fsys.Ls()
	require.NoError(t, err)
	assert.Equal(t, "0 .\n0 ..\n1 a", out)

	record, err := fsys.Stat("/a")
	require.NoError(t, err)
	assert.Equal(t, 2, record.LinksCnt)
	assert.Equal(t, codec.TypeDirectory, record.FileType)
}

func TestCreateWriteSeekRead(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)

	require.NoError(t, fsys.Create("/f"))
	fd, err := fsys.Open("/f")
	require.NoError(t, err)

	require.NoError(t, fsys.Write(fd, []byte("hello"), 5))
	require.NoError(t, fsys.Seek(fd, 0))

	got, err := fsys.Read(fd, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestLinkAndUnlinkAdjustLinksCnt(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)

	require.NoError(t, fsys.Create("/f"))
	require.NoError(t, fsys.Link("/f", "/g"))

	record, err := fsys.Stat("/g")
	require.NoError(t, err)
	assert.Equal(t, 2, record.LinksCnt)

	require.NoError(t, fsys.Unlink("/f"))

	record, err = fsys.Stat("/g")
	require.NoError(t, err)
	assert.Equal(t, 1, record.LinksCnt)
}

func TestSymlinkTransparencyAndTerminalStat(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)

	require.NoError(t, fsys.Mkdir("/a"))
	require.NoError(t, fsys.Symlink("/a", "/s"))

	fsys.Cd("/s")
	out, err := fsys.Ls()
	require.NoError(t, err)
	assert.Equal(t, "0 ..\n1 .", out)

	record, err := fsys.Stat("/s")
	require.NoError(t, err)
	assert.Equal(t, codec.TypeSymlink, record.FileType)
}

func TestRmdirRejections(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)

	require.NoError(t, fsys.Mkdir("/a"))
	require.NoError(t, fsys.Mkdir("/a/b"))

	err := fsys.Rmdir("/a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fserrors.CannotRemoveDirectory))

	err = fsys.Rmdir("/")
	require.Error(t, err)
	assert.True(t, errors.Is(err, fserrors.CannotRemoveDirectory))
}

func TestMkdirRootAlreadyExists(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)
	err := fsys.Mkdir("/")
	assert.True(t, errors.Is(err, fserrors.FileAlreadyExists))
}

func TestUnlinkRejectsDirectory(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)
	require.NoError(t, fsys.Mkdir("/a"))
	err := fsys.Unlink("/a")
	assert.True(t, errors.Is(err, fserrors.DirectoryLinkException))
}

func TestUnlinkRejectsOpenFile(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)
	require.NoError(t, fsys.Create("/f"))
	_, err := fsys.Open("/f")
	require.NoError(t, err)

	err = fsys.Unlink("/f")
	assert.True(t, errors.Is(err, fserrors.CannotUnlinkOpenFile))
}

func TestOpenNonexistentFails(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)
	_, err := fsys.Open("/nope")
	assert.True(t, errors.Is(err, fserrors.FileDoesNotExist))
}

func TestSymlinkTooLongFails(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 4)
	longTarget := "/" + string(make([]byte, 4096))
	err := fsys.Symlink(longTarget, "/s")
	assert.True(t, errors.Is(err, fserrors.TooLongSymlink))
}

func TestTruncateShrinksToPrefix(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)
	require.NoError(t, fsys.Create("/f"))
	fd, err := fsys.Open("/f")
	require.NoError(t, err)
	require.NoError(t, fsys.Write(fd, []byte("hello world"), 11))
	require.NoError(t, fsys.Close(fd))

	require.NoError(t, fsys.Truncate("/f", 5))
	record, err := fsys.Stat("/f")
	require.NoError(t, err)
	assert.Equal(t, 5, record.FileSize-codec.EmptyStringOverhead)

	fd, err = fsys.Open("/f")
	require.NoError(t, err)
	got, err := fsys.Read(fd, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestCloseUnknownDescriptorFails(t *testing.T) {
	fsys := newTestFS(t, 20, 4096, 50)
	err := fsys.Close(999)
	assert.True(t, errors.Is(err, fserrors.WrongFileDescriptorNumber))
}
