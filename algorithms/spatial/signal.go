package spatial

import "fmt"

// ArraySignal is a synchronized multichannel recording indexed
// [sample][channel].
type ArraySignal [][]float64

// Len returns the number of samples.
func (s ArraySignal) Len() int {
	return len(s)
}

// Channels returns the per-sample width. Every sample must have the same
// width; an empty signal has zero channels.
func (s ArraySignal) Channels() (int, error) {
	if len(s) == 0 {
		return 0, nil
	}

	width := len(s[0])
	for t, sample := range s {
		if len(sample) != width {
			return 0, invalid(ErrDimensionMismatch, "signal",
				fmt.Sprintf("sample %d width %d", t, len(sample)),
				fmt.Sprintf("expected width %d", width))
		}
	}
	return width, nil
}

// Channel returns a copy of one channel's samples.
func (s ArraySignal) Channel(ch int) []float64 {
	out := make([]float64, len(s))
	for t, sample := range s {
		out[t] = sample[ch]
	}
	return out
}

// FromInterleaved builds an ArraySignal from frames laid out
// ch0, ch1, ..., chN-1, ch0, ... as delivered by most capture drivers.
func FromInterleaved(data []float64, channels int) (ArraySignal, error) {
	if channels <= 0 {
		return nil, invalid(ErrInvalidGeometry, "channels", channels, "must be > 0")
	}
	if len(data)%channels != 0 {
		return nil, invalid(ErrDimensionMismatch, "data", len(data),
			fmt.Sprintf("length is not a multiple of %d channels", channels))
	}

	signal := make(ArraySignal, len(data)/channels)
	for t := range signal {
		sample := make([]float64, channels)
		copy(sample, data[t*channels:(t+1)*channels])
		signal[t] = sample
	}
	return signal, nil
}
