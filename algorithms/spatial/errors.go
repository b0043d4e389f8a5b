package spatial

import (
	"errors"
	"fmt"

	"github.com/RyanBlaney/sonido-doa/algorithms/spectral"
)

// Error kinds. Match with errors.Is; the concrete error is a
// *ValidationError naming the offending field.
var (
	ErrInvalidGeometry   = errors.New("invalid array geometry")
	ErrInvalidAngleGrid  = errors.New("invalid angle grid")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrInvalidSignal     = errors.New("invalid signal")
	ErrDimensionMismatch = spectral.ErrDimensionMismatch
	ErrInvalidWindow     = spectral.ErrInvalidWindow
	ErrInvalidBand       = spectral.ErrInvalidBand
	ErrInvalidSampleRate = spectral.ErrInvalidSampleRate
)

// ValidationError reports an input rejected before any computation.
type ValidationError struct {
	Kind   error
	Field  string
	Value  any
	Reason string
	Cause  error // optional underlying error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s=%v: %s", e.Kind, e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}

func invalid(kind error, field string, value any, reason string) error {
	return &ValidationError{Kind: kind, Field: field, Value: value, Reason: reason}
}

func invalidCause(kind error, field string, value any, cause error) error {
	return &ValidationError{Kind: kind, Field: field, Value: value, Reason: cause.Error(), Cause: cause}
}
