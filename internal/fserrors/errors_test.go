package fserrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindSatisfiesError(t *testing.T) {
	var err error = FileDoesNotExist
	assert.Equal(t, "FileDoesNotExist", err.Error())
}

func TestWithMessagePreservesIs(t *testing.T) {
	err := FileDoesNotExist.WithMessage("/no/such/path")
	assert.True(t, errors.Is(err, FileDoesNotExist))
	assert.Contains(t, err.Error(), "/no/such/path")
}

func TestWrapErrorPreservesIsAndCause(t *testing.T) {
	cause := errors.New("boom")
	err := OutOfBlocks.WrapError(cause)
	assert.True(t, errors.Is(err, OutOfBlocks))
	assert.True(t, errors.Is(err, cause))
}

func TestNameOfUnwraps(t *testing.T) {
	assert.Equal(t, "TooLongSymlink", NameOf(TooLongSymlink))
	assert.Equal(t, "TooLongSymlink", NameOf(TooLongSymlink.WithMessage("x")))
	assert.Equal(t, "", NameOf(errors.New("not a fs error")))
}
