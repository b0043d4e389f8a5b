package spatial

import (
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-doa/algorithms/common"
)

// DefaultSoundSpeed is the speed of sound in air at about 20 °C (m/s).
const DefaultSoundSpeed = 343.0

// ArrayGeometry describes a uniform linear array.
type ArrayGeometry struct {
	Channels   int     `json:"channels" yaml:"channels"`       // Number of microphones
	Spacing    float64 `json:"spacing" yaml:"spacing"`         // Inter-element spacing (m)
	SoundSpeed float64 `json:"sound_speed" yaml:"sound_speed"` // Propagation speed (m/s)
}

// Validate checks that every field is positive and finite.
func (g ArrayGeometry) Validate() error {
	if g.Channels <= 0 {
		return invalid(ErrInvalidGeometry, "channels", g.Channels, "must be > 0")
	}
	if !common.IsFinite(g.Spacing) || g.Spacing <= 0 {
		return invalid(ErrInvalidGeometry, "spacing", g.Spacing, "must be a finite value > 0")
	}
	if !common.IsFinite(g.SoundSpeed) || g.SoundSpeed <= 0 {
		return invalid(ErrInvalidGeometry, "sound_speed", g.SoundSpeed, "must be a finite value > 0")
	}
	return nil
}

// Aperture returns the distance between the outermost elements (m).
func (g ArrayGeometry) Aperture() float64 {
	return float64(g.Channels-1) * g.Spacing
}

// AliasingFrequency returns c/(2d). Above it the array can produce grating
// lobes, i.e. several angles with identical steering vectors.
func (g ArrayGeometry) AliasingFrequency() float64 {
	return g.SoundSpeed / (2 * g.Spacing)
}

// SteeringVector returns the far-field array manifold vector for a plane
// wave of frequency freq (Hz) arriving at angleDeg from broadside:
//
//	a[n] = exp(-j * 2*pi * freq * d * sin(angle) * n / c)
func SteeringVector(geom ArrayGeometry, freq, angleDeg float64) []complex128 {
	a := make([]complex128, geom.Channels)
	fillSteering(a, geom, freq, angleDeg)
	return a
}

// SteeringMatrix returns one steering vector per angle, all for the same
// frequency.
func SteeringMatrix(geom ArrayGeometry, freq float64, anglesDeg []float64) [][]complex128 {
	vectors := make([][]complex128, len(anglesDeg))
	for i, angle := range anglesDeg {
		vectors[i] = SteeringVector(geom, freq, angle)
	}
	return vectors
}

func fillSteering(dst []complex128, geom ArrayGeometry, freq, angleDeg float64) {
	w := 2 * math.Pi * freq * geom.Spacing * math.Sin(common.DegToRad(angleDeg)) / geom.SoundSpeed
	for n := range dst {
		dst[n] = cmplx.Rect(1, -w*float64(n))
	}
}
