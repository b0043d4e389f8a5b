// Package windowing provides the analysis windows applied to STFT frames.
package windowing

import (
	"fmt"
	"slices"
	"strings"
)

// Window tapers one frame before its FFT.
type Window interface {
	ApplyInPlace(frame []float64) error
	GetCoefficients() []float64
	GetSize() int
	GetType() string
	Sum() float64
}

// Window type names accepted by New.
const (
	TypeRectangular = "rectangular"
	TypeHann        = "hann"
	TypeHamming     = "hamming"
	TypeBlackman    = "blackman"
)

// Types lists every name New accepts.
var Types = []string{TypeRectangular, TypeHann, TypeHamming, TypeBlackman}

// Valid reports whether New accepts name. It allocates nothing.
func Valid(name string) bool {
	name = strings.ToLower(name)
	return name == "" || slices.Contains(Types, name)
}

// New returns the window called name with size coefficients. Names are
// case-insensitive; "" selects the rectangular window.
func New(name string, size int) (Window, error) {
	switch strings.ToLower(name) {
	case "", TypeRectangular:
		return NewRectangular(size)
	case TypeHann:
		return NewHann(size)
	case TypeHamming:
		return NewHamming(size)
	case TypeBlackman:
		return NewBlackman(size)
	default:
		return nil, fmt.Errorf("unknown window type %q, expected one of %s",
			name, strings.Join(Types, ", "))
	}
}
