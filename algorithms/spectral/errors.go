package spectral

import "errors"

var (
	ErrInvalidWindow     = errors.New("invalid window")
	ErrInvalidBand       = errors.New("invalid frequency band")
	ErrInvalidSampleRate = errors.New("invalid sample rate")
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
