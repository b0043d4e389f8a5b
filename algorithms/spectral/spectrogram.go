package spectral

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// Spectrogram is a multichannel one-sided complex spectrogram.
//
// Values are stored bin-major: every stored frequency bin owns one
// contiguous Channels x Frames block, so a single bin can be handed to
// matrix code without copying. A spectrogram may hold only a subset of
// the bins of its frequency axis.
type Spectrogram struct {
	Frequencies  []float64 // Centre frequency of every bin of the axis (Hz)
	Channels     int       // Number of array channels
	Frames       int       // Number of time frames
	SampleRate   float64   // Sample rate of the source signal (Hz)
	WindowLength int       // Analysis window length (samples)
	HopSize      int       // Hop between frames (samples)

	stored []int // ascending bin indices that have a block
	slots  []int // bin -> block index, -1 when not stored
	data   []complex128
}

// newSpectrogram allocates blocks for the given bins of freqs; nil bins
// means every bin. bins must be ascending, distinct and in range.
func newSpectrogram(freqs []float64, channels, frames int, bins []int) *Spectrogram {
	if bins == nil {
		bins = make([]int, len(freqs))
		for k := range bins {
			bins[k] = k
		}
	} else {
		bins = slices.Clone(bins)
	}

	slots := make([]int, len(freqs))
	for k := range slots {
		slots[k] = -1
	}
	for slot, k := range bins {
		slots[k] = slot
	}

	return &Spectrogram{
		Frequencies: freqs,
		Channels:    channels,
		Frames:      frames,
		stored:      bins,
		slots:       slots,
		data:        make([]complex128, len(bins)*channels*frames),
	}
}

// Bins returns the number of frequency bins of the axis.
func (s *Spectrogram) Bins() int {
	return len(s.Frequencies)
}

// StoredBins returns the bin indices that hold data, ascending.
func (s *Spectrogram) StoredBins() []int {
	out := make([]int, len(s.stored))
	copy(out, s.stored)
	return out
}

// Has reports whether bin holds data.
func (s *Spectrogram) Has(bin int) bool {
	return bin >= 0 && bin < len(s.slots) && s.slots[bin] >= 0
}

func (s *Spectrogram) slotOffset(slot int) int {
	return slot * s.Channels * s.Frames
}

// At returns the value for the given bin, channel and frame. Bins that
// were not stored read as zero.
func (s *Spectrogram) At(bin, channel, frame int) complex128 {
	if !s.Has(bin) {
		return 0
	}
	return s.data[s.slotOffset(s.slots[bin])+channel*s.Frames+frame]
}

func (s *Spectrogram) setSlot(slot, channel, frame int, v complex128) {
	s.data[s.slotOffset(slot)+channel*s.Frames+frame] = v
}

// Slice returns the Channels x Frames matrix for one stored frequency bin.
// The matrix shares storage with the spectrogram and must not be modified.
func (s *Spectrogram) Slice(bin int) (*mat.CDense, error) {
	if bin < 0 || bin >= s.Bins() {
		return nil, fmt.Errorf("bin index %d out of range [0, %d)", bin, s.Bins())
	}
	if !s.Has(bin) {
		return nil, fmt.Errorf("bin %d (%g Hz) was not computed", bin, s.Frequencies[bin])
	}

	off := s.slotOffset(s.slots[bin])
	end := off + s.Channels*s.Frames
	return mat.NewCDense(s.Channels, s.Frames, s.data[off:end:end]), nil
}
