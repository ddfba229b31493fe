package wav

import (
	"errors"
	"fmt"
)

var (
	ErrFormat         = errors.New("invalid WAV data")
	ErrHeaderTooShort = fmt.Errorf("%w: file is too short to be a valid WAV", ErrFormat)
	ErrBadMagic       = fmt.Errorf("%w: invalid WAV header", ErrFormat)
)
