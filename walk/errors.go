package walk

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrPathNotFound     = errors.New("path not found")
	ErrNotADirectory    = errors.New("not a directory")
	ErrPermissionDenied = errors.New("permission denied")
)

// Error is returned by Walk when a directory cannot be stat'ed or listed.
// errors.Is matches both Kind and the underlying filesystem error.
type Error struct {
	Op   string
	Path string
	Kind error // one of the Err* sentinels, or nil when unclassified
	Err  error // underlying filesystem error, may be nil
}

func (e *Error) Error() string {
	switch {
	case e.Kind != nil && e.Err != nil:
		cause := unwrapPathError(e.Err)
		if cause.Error() == e.Kind.Error() {
			return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
		}
		return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, cause)
	case e.Kind != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Kind)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// newError classifies a filesystem error into one of the sentinels.
func newError(op, path string, err error) *Error {
	walkErr := &Error{Op: op, Path: path, Err: err}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		walkErr.Kind = ErrPathNotFound
	case errors.Is(err, fs.ErrPermission):
		walkErr.Kind = ErrPermissionDenied
	}
	return walkErr
}

// unwrapPathError drops the op/path prefix of an *fs.PathError so the path is
// not printed twice.
func unwrapPathError(err error) error {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return pathErr.Err
	}
	return err
}
