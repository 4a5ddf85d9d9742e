// Package fserrors defines the filesystem's error taxonomy: a string-based
// sentinel type implementing error, with WithMessage and WrapError
// decorators that return a richer error while still satisfying errors.Is
// against the original sentinel. Filesystem domain failures are reported as
// one of the sentinels below (optionally decorated). Errors from
// internal/codec (malformed data, a value too large for its slot), from
// host file calls in internal/blockdev, and from internal/presets are plain
// errors, not sentinels.
package fserrors

import "fmt"

// Kind is a filesystem error sentinel. Its string value is also the name the
// REPL prints for it (mirroring the original tool printing
// e.__class__.__name__ on any FileSystemException).
type Kind string

const (
	OutOfInodes               = Kind("OutOfInodes")
	OutOfBlocks               = Kind("OutOfBlocks")
	InvalidPath               = Kind("InvalidPath")
	FileDoesNotExist          = Kind("FileDoesNotExist")
	FileAlreadyExists         = Kind("FileAlreadyExists")
	InvalidSize               = Kind("InvalidSize")
	CannotRemoveDirectory     = Kind("CannotRemoveDirectory")
	TooLongSymlink            = Kind("TooLongSymlink")
	TooManyFilesOpened        = Kind("TooManyFilesOpened")
	WrongFileDescriptorNumber = Kind("WrongFileDescriptorNumber")
	DirectoryLinkException    = Kind("DirectoryLinkException")
	CannotUnlinkOpenFile      = Kind("CannotUnlinkOpenFile")
	InvalidInput              = Kind("InvalidInput")
)

// Error implements the error interface.
func (k Kind) Error() string {
	return string(k)
}

// Name returns the bare sentinel name, e.g. "FileDoesNotExist", regardless
// of any message attached by WithMessage/WrapError. This is what the REPL
// prints, matching the original implementation's per-exception-class
// output.
func (k Kind) Name() string {
	return string(k)
}

// WithMessage decorates the sentinel with additional context, returning a
// new error that still unwraps to k.
func (k Kind) WithMessage(message string) error {
	return &detailedError{kind: k, message: fmt.Sprintf("%s: %s", k, message)}
}

// WrapError decorates the sentinel with an underlying cause.
func (k Kind) WrapError(cause error) error {
	return &detailedError{kind: k, message: fmt.Sprintf("%s: %s", k, cause.Error()), cause: cause}
}

type detailedError struct {
	kind    Kind
	message string
	cause   error
}

func (e *detailedError) Error() string {
	return e.message
}

func (e *detailedError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return e.kind
}

// Is lets errors.Is(err, fserrors.FileDoesNotExist) succeed for a decorated
// error built from that sentinel.
func (e *detailedError) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.kind
}

// NameOf returns the sentinel name for err if it (or something it wraps) is
// a Kind, and "" otherwise. Used by the REPL to print the exception class
// name for any FileSystemException-equivalent error.
func NameOf(err error) string {
	for err != nil {
		if k, ok := err.(Kind); ok {
			return k.Name()
		}
		if de, ok := err.(*detailedError); ok {
			return de.kind.Name()
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = unwrapper.Unwrap()
	}
	return ""
}
