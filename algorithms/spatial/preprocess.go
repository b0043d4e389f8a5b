package spatial

import (
	"github.com/RyanBlaney/sonido-doa/algorithms/filters"
)

// removeDC returns a high-passed copy of signal; the input is not
// modified. Each channel gets its own filter state.
func removeDC(signal ArraySignal, sampleRate, cutoff float64) (ArraySignal, error) {
	nch, err := signal.Channels()
	if err != nil {
		return nil, err
	}

	out := make(ArraySignal, signal.Len())
	for t := range out {
		out[t] = make([]float64, nch)
	}

	for ch := range nch {
		blocker, err := filters.NewDCBlocker(sampleRate, cutoff)
		if err != nil {
			return nil, invalidCause(ErrInvalidConfig, "dc_cutoff", cutoff, err)
		}

		x := signal.Channel(ch)
		blocker.ProcessInPlace(x)
		for t, v := range x {
			out[t][ch] = v
		}
	}
	return out, nil
}
