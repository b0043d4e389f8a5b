package spatial

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/RyanBlaney/sonido-doa/algorithms/common"
)

// PlaneWave synthesizes what the array records from a distant tone.
// Channel n receives the tone delayed by n*d*sin(angle)/c, which is the
// same model SteeringVector uses.
type PlaneWave struct {
	Geometry   ArrayGeometry
	SampleRate float64 // Hz
	Frequency  float64 // Tone frequency (Hz)
	AngleDeg   float64 // Arrival angle from broadside
	Amplitude  float64
	Offset     float64 // DC offset added to every channel
	Samples    int

	// NoiseStd adds white Gaussian noise with this standard deviation to
	// every channel. Seed makes the noise reproducible.
	NoiseStd float64
	Seed     uint64
}

// Generate returns the synthesized recording.
func (p PlaneWave) Generate() (ArraySignal, error) {
	if err := p.Geometry.Validate(); err != nil {
		return nil, err
	}
	if !common.IsFinite(p.SampleRate) || p.SampleRate <= 0 {
		return nil, invalid(ErrInvalidSampleRate, "sample_rate", p.SampleRate, "must be a finite value > 0")
	}
	if !common.IsFinite(p.Frequency) || p.Frequency < 0 {
		return nil, invalid(ErrInvalidConfig, "frequency", p.Frequency, "must be a finite value >= 0")
	}
	if p.Samples <= 0 {
		return nil, invalid(ErrInvalidConfig, "samples", p.Samples, "must be > 0")
	}
	if !common.IsFinite(p.Offset) {
		return nil, invalid(ErrInvalidConfig, "offset", p.Offset, "must be finite")
	}
	if !common.IsFinite(p.NoiseStd) || p.NoiseStd < 0 {
		return nil, invalid(ErrInvalidConfig, "noise_std", p.NoiseStd, "must be a finite value >= 0")
	}

	nch := p.Geometry.Channels
	delays := make([]float64, nch)
	sinTheta := math.Sin(common.DegToRad(p.AngleDeg))
	for n := range delays {
		delays[n] = float64(n) * p.Geometry.Spacing * sinTheta / p.Geometry.SoundSpeed
	}

	var noise *distuv.Normal
	if p.NoiseStd > 0 {
		noise = &distuv.Normal{
			Mu:    0,
			Sigma: p.NoiseStd,
			Src:   rand.NewPCG(p.Seed, p.Seed^0x9e3779b97f4a7c15),
		}
	}

	w := 2 * math.Pi * p.Frequency
	signal := make(ArraySignal, p.Samples)
	for t := range signal {
		ts := float64(t) / p.SampleRate
		sample := make([]float64, nch)
		for n := range sample {
			sample[n] = p.Offset + p.Amplitude*math.Cos(w*(ts-delays[n]))
			if noise != nil {
				sample[n] += noise.Rand()
			}
		}
		signal[t] = sample
	}

	return signal, nil
}
