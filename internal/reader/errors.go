package reader

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyFile       = errors.New("file has no header row")
	ErrUnsupportedFile = errors.New("unsupported file type")
)

// ReadError reports a source file that is missing or could not be parsed.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
