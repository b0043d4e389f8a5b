package spectral

import (
	"fmt"
	"math"
	"math/bits"
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/RyanBlaney/sonido-doa/algorithms/windowing"
	"github.com/RyanBlaney/sonido-doa/logging"
)

// STFT provides Short-Time Fourier Transform functionality for
// synchronized multichannel signals.
type STFT struct {
	fft    *FFT
	logger logging.Logger
}

// Window is an analysis window applied to every frame before the FFT.
type Window interface {
	ApplyInPlace(frame []float64) error
	GetSize() int
	Sum() float64
}

// NewSTFT creates a new STFT calculator
func NewSTFT() *STFT {
	return &STFT{
		fft:    NewFFT(),
		logger: logging.GetGlobalLogger(),
	}
}

// SetLogger replaces the logger used for diagnostics.
func (s *STFT) SetLogger(logger logging.Logger) {
	if logger == nil {
		logger = &logging.NoOpLogger{}
	}
	s.logger = logger
}

// ComputeMultichannel computes a unit-hop STFT of signal with a rectangular
// window of windowLength samples. signal is indexed [sample][channel].
//
// Every channel is transformed over the same time-aligned windows, giving
// len(signal)-windowLength+1 frames and windowLength/2+1 bins.
func (s *STFT) ComputeMultichannel(signal [][]float64, sampleRate float64, windowLength int) (*Spectrogram, error) {
	if windowLength <= 0 {
		return nil, fmt.Errorf("%w: window length must be > 0: %d", ErrInvalidWindow, windowLength)
	}

	window, err := windowing.NewRectangular(windowLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWindow, err)
	}

	return s.ComputeMultichannelWithWindow(signal, sampleRate, window)
}

// ComputeMultichannelWithWindow is ComputeMultichannel with a caller-supplied
// window. Bins are divided by the window sum.
func (s *STFT) ComputeMultichannelWithWindow(signal [][]float64, sampleRate float64, window Window) (*Spectrogram, error) {
	return s.ComputeBins(signal, sampleRate, window, nil)
}

// ComputeBins is ComputeMultichannelWithWindow restricted to the given
// one-sided bins, which must be ascending and distinct; nil selects every
// bin. Only the selected bins are stored. When few bins are selected
// they are evaluated as direct DFT sums instead of a full FFT per frame.
func (s *STFT) ComputeBins(signal [][]float64, sampleRate float64, window Window, bins []int) (*Spectrogram, error) {
	if math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) || sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	windowSize := window.GetSize()
	numSamples := len(signal)
	if windowSize <= 0 || windowSize > numSamples {
		return nil, fmt.Errorf("%w: window length %d for %d samples", ErrInvalidWindow, windowSize, numSamples)
	}

	freqBins := OneSidedBins(windowSize)
	if err := checkBins(bins, freqBins); err != nil {
		return nil, err
	}

	channels, err := deinterleave(signal)
	if err != nil {
		return nil, err
	}

	gain := window.Sum()
	if gain == 0 {
		return nil, fmt.Errorf("%w: window coefficients sum to zero", ErrInvalidWindow)
	}
	scale := complex(1/gain, 0)

	numFrames := numSamples - windowSize + 1

	spec := newSpectrogram(FrequencyAxis(sampleRate, windowSize), len(channels), numFrames, bins)
	spec.SampleRate = sampleRate
	spec.WindowLength = windowSize
	spec.HopSize = 1

	selected := spec.stored
	var twiddles [][]complex128
	if useDirectDFT(len(selected), windowSize) {
		twiddles = dftTwiddles(windowSize, selected)
	}

	numWorkers := s.getOptimalWorkerCount(numFrames)

	s.logger.Debug("computing multichannel STFT", logging.Fields{
		"channels": len(channels),
		"frames":   numFrames,
		"bins":     len(selected),
		"direct":   twiddles != nil,
		"workers":  numWorkers,
	})

	jobs := make(chan int, numFrames)
	errs := make(chan error, numWorkers)

	var wg sync.WaitGroup

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Reuse frame buffer for this worker
			frameBuffer := make([]float64, windowSize)

			for frame := range jobs {
				for ch, samples := range channels {
					copy(frameBuffer, samples[frame:frame+windowSize])

					if err := window.ApplyInPlace(frameBuffer); err != nil {
						errs <- fmt.Errorf("%w: %v", ErrInvalidWindow, err)
						return
					}

					if twiddles != nil {
						for slot, tw := range twiddles {
							var sum complex128
							for n, x := range frameBuffer {
								sum += complex(x, 0) * tw[n]
							}
							spec.setSlot(slot, ch, frame, sum*scale)
						}
						continue
					}

					fftResult := s.fft.Compute(frameBuffer)
					for slot, k := range selected {
						spec.setSlot(slot, ch, frame, fftResult[k]*scale)
					}
				}
			}
		}()
	}

	for frame := range numFrames {
		jobs <- frame
	}
	close(jobs)

	wg.Wait()
	close(errs)

	if err := <-errs; err != nil {
		return nil, err
	}

	return spec, nil
}

func checkBins(bins []int, freqBins int) error {
	for i, k := range bins {
		if k < 0 || k >= freqBins {
			return fmt.Errorf("%w: bin %d out of range [0, %d)", ErrInvalidBand, k, freqBins)
		}
		if i > 0 && k <= bins[i-1] {
			return fmt.Errorf("%w: bins must be ascending and distinct, got %d after %d", ErrInvalidBand, k, bins[i-1])
		}
	}
	return nil
}

// useDirectDFT reports whether evaluating numBins DFT sums of length n
// (numBins*n multiplies) is cheaper than one n-point FFT.
func useDirectDFT(numBins, n int) bool {
	return numBins < max(1, bits.Len(uint(n))-1)
}

// dftTwiddles returns exp(-j*2*pi*k*m/n) for every selected bin k and
// sample m. The exponent is reduced modulo n to keep the phase exact.
func dftTwiddles(n int, bins []int) [][]complex128 {
	twiddles := make([][]complex128, len(bins))
	for i, k := range bins {
		tw := make([]complex128, n)
		for m := range tw {
			tw[m] = cmplx.Rect(1, -2*math.Pi*float64((k*m)%n)/float64(n))
		}
		twiddles[i] = tw
	}
	return twiddles
}

// deinterleave splits [sample][channel] data into per-channel slices and
// rejects ragged input.
func deinterleave(signal [][]float64) ([][]float64, error) {
	numChannels := len(signal[0])
	if numChannels == 0 {
		return nil, fmt.Errorf("%w: samples have no channels", ErrDimensionMismatch)
	}

	channels := make([][]float64, numChannels)
	for ch := range channels {
		channels[ch] = make([]float64, len(signal))
	}

	for t, sample := range signal {
		if len(sample) != numChannels {
			return nil, fmt.Errorf("%w: sample %d has %d channels, expected %d",
				ErrDimensionMismatch, t, len(sample), numChannels)
		}
		for ch, v := range sample {
			channels[ch][t] = v
		}
	}

	return channels, nil
}

// getOptimalWorkerCount determines the optimal number of workers based on workload
func (s *STFT) getOptimalWorkerCount(numFrames int) int {
	numCPU := runtime.NumCPU()

	// For small workloads, don't over-parallelize
	if numFrames < 100 {
		return max(1, min(numCPU/2, numFrames))
	}

	if numFrames < 1000 {
		return min(numCPU, 8)
	}

	return numCPU
}
