package player

import (
	"errors"
	"fmt"
)

var (
	ErrIO                    = errors.New("i/o error")
	ErrUnsupportedFileFormat = errors.New("unsupported file format")
	ErrInvalidFileName       = errors.New("invalid file name")
	ErrStream                = errors.New("audio stream error")

	errEngineClosed = errors.New("engine closed")
)

// StreamError reports a failure to open, configure or drive the output
// stream. It matches ErrStream as well as the underlying cause.
type StreamError struct {
	Msg string
	Err error
}

func (e *StreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrStream, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %v", ErrStream, e.Msg, e.Err)
}

func (e *StreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStream}
	}
	return []error{ErrStream, e.Err}
}

func streamError(msg string, err error) error {
	return &StreamError{Msg: msg, Err: err}
}
