package pic

import (
	"errors"
	"fmt"
)

// oldSignature marks archives written for clients before 7.0. They use a
// different generation of the format and are rejected outright.
const oldSignature = 0x01FD0302

// ErrUnsupportedVersion is returned by Parse when the archive carries the
// pre-7.0 signature. Callers can tell "wrong format generation" apart from
// plain corruption.
var ErrUnsupportedVersion = errors.New("pic: archive version older than 7.0 is not supported")

// FormatError reports a structurally invalid archive.
type FormatError struct {
	Offset int // byte position in the input, -1 when not applicable
	Msg    string
}

func (e *FormatError) Error() string {
	if e.Offset < 0 {
		return "pic: " + e.Msg
	}
	return fmt.Sprintf("pic: %s at offset %d", e.Msg, e.Offset)
}

func formatErr(offset int, format string, args ...any) error {
	return &FormatError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// SizeMismatchError reports a pixel buffer whose dimensions do not match the
// picture it was meant to replace.
type SizeMismatchError struct {
	WantWidth, WantHeight int
	GotWidth, GotHeight   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("pic: image must be %dx%d pixels, got %dx%d",
		e.WantWidth, e.WantHeight, e.GotWidth, e.GotHeight)
}
