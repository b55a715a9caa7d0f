package funding

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat indicates an input file extension that has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported input format")

var errNullSegment = errors.New("segment is null")

// ConversionError reports a field that could not be converted to the type
// the model needs. It is fatal: no partial document is produced.
type ConversionError struct {
	Field string // "goal", "label", "segments", "segments[3]"
	Value any
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
