package spatial

import (
	"context"
	"fmt"
	"math/cmplx"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/cmplxs"

	"github.com/RyanBlaney/sonido-doa/algorithms/common"
	"github.com/RyanBlaney/sonido-doa/algorithms/filters"
	"github.com/RyanBlaney/sonido-doa/algorithms/spectral"
	"github.com/RyanBlaney/sonido-doa/algorithms/windowing"
	"github.com/RyanBlaney/sonido-doa/logging"
)

// Beamformer computes delay-and-sum spatial spectra for one array
// configuration. It holds no per-call state and is safe for concurrent use.
type Beamformer struct {
	cfg    Config
	logger logging.Logger
}

// Option configures a Beamformer.
type Option func(*Beamformer)

// WithLogger sets the logger. The global logger is used otherwise.
func WithLogger(logger logging.Logger) Option {
	return func(b *Beamformer) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBeamformer validates cfg and returns a Beamformer for it.
func NewBeamformer(cfg Config, opts ...Option) (*Beamformer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.Angles = slices.Clone(cfg.Angles)

	b := &Beamformer{
		cfg:    cfg,
		logger: logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.WithFields(logging.Fields{"component": "bartlett"})

	if f := cfg.Geometry.AliasingFrequency(); cfg.Band.High > f {
		b.logger.Warn("band extends above the spatial aliasing frequency", logging.Fields{
			"band_high":          cfg.Band.High,
			"aliasing_frequency": f,
		})
	}

	return b, nil
}

// Config returns a copy of the beamformer configuration.
func (b *Beamformer) Config() Config {
	cfg := b.cfg
	cfg.Angles = slices.Clone(b.cfg.Angles)
	return cfg
}

// Estimate computes the spatial spectrum of signal sampled at sampleRate.
func (b *Beamformer) Estimate(signal ArraySignal, sampleRate float64) (*SpatialSpectrum, error) {
	return b.EstimateContext(context.Background(), signal, sampleRate)
}

// EstimateContext is Estimate with cancellation checked between frequency
// bins. All inputs are validated before any spectral work starts.
func (b *Beamformer) EstimateContext(ctx context.Context, signal ArraySignal, sampleRate float64) (*SpatialSpectrum, error) {
	bins, freqs, err := b.validateInput(signal, sampleRate)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if b.cfg.DCCutoff > 0 {
		if signal, err = removeDC(signal, sampleRate, b.cfg.DCCutoff); err != nil {
			return nil, err
		}
	}

	window, err := windowing.New(b.cfg.Window, b.cfg.WindowLength)
	if err != nil {
		return nil, invalidCause(ErrInvalidWindow, "window", b.cfg.Window, err)
	}

	stft := spectral.NewSTFT()
	stft.SetLogger(b.logger)

	spec, err := stft.ComputeBins(signal, sampleRate, window, bins)
	if err != nil {
		return nil, fmt.Errorf("spectral transform: %w", err)
	}

	acc, err := b.accumulateParallel(ctx, spec, bins)
	if err != nil {
		return nil, err
	}

	magnitude, err := Finalize(acc, len(bins))
	if err != nil {
		return nil, err
	}

	selected := make([]float64, len(bins))
	for i, k := range bins {
		selected[i] = freqs[k]
	}

	return &SpatialSpectrum{
		Angles:      slices.Clone(b.cfg.Angles),
		Magnitude:   magnitude,
		Frequencies: selected,
	}, nil
}

// validateInput checks the per-call inputs and returns the selected bins
// together with the frequency axis they index.
func (b *Beamformer) validateInput(signal ArraySignal, sampleRate float64) ([]int, []float64, error) {
	if !common.IsFinite(sampleRate) || sampleRate <= 0 {
		return nil, nil, invalid(ErrInvalidSampleRate, "sample_rate", sampleRate, "must be a finite value > 0")
	}

	width, err := signal.Channels()
	if err != nil {
		return nil, nil, err
	}
	if signal.Len() > 0 && width != b.cfg.Geometry.Channels {
		return nil, nil, invalid(ErrDimensionMismatch, "signal", fmt.Sprintf("%d channels", width),
			fmt.Sprintf("array has %d channels", b.cfg.Geometry.Channels))
	}

	for t, sample := range signal {
		if !common.AllFinite(sample) {
			return nil, nil, invalid(ErrInvalidSignal, "signal", fmt.Sprintf("sample %d", t), "contains NaN or Inf")
		}
	}

	if b.cfg.DCCutoff > 0 {
		if _, err := filters.NewDCBlocker(sampleRate, b.cfg.DCCutoff); err != nil {
			return nil, nil, invalidCause(ErrInvalidConfig, "dc_cutoff", b.cfg.DCCutoff, err)
		}
	}

	if b.cfg.WindowLength > signal.Len() {
		return nil, nil, invalid(ErrInvalidWindow, "window_length", b.cfg.WindowLength,
			fmt.Sprintf("exceeds signal length %d", signal.Len()))
	}

	freqs := spectral.FrequencyAxis(sampleRate, b.cfg.WindowLength)
	bins, err := spectral.SelectBand(freqs, b.cfg.Band)
	if err != nil {
		return nil, nil, invalid(ErrInvalidBand, "band", b.cfg.Band,
			fmt.Sprintf("no bins between 0 and %g Hz at %g Hz resolution",
				sampleRate/2, sampleRate/float64(b.cfg.WindowLength)))
	}

	return bins, freqs, nil
}

// Accumulate returns the un-normalized complex power accumulator for the
// given bins of spec:
//
//	P[i] = sum_f a_i(f)^H R(f) a_i(f) / nch^2
//
// Accumulators for disjoint bin sets can be added element-wise and passed
// to Finalize with the total bin count.
func (b *Beamformer) Accumulate(spec *spectral.Spectrogram, bins []int) ([]complex128, error) {
	if spec.Channels != b.cfg.Geometry.Channels {
		return nil, invalid(ErrDimensionMismatch, "spectrogram", fmt.Sprintf("%d channels", spec.Channels),
			fmt.Sprintf("array has %d channels", b.cfg.Geometry.Channels))
	}

	acc := make([]complex128, len(b.cfg.Angles))
	if err := b.accumulateInto(context.Background(), acc, spec, bins); err != nil {
		return nil, err
	}
	return acc, nil
}

func (b *Beamformer) accumulateInto(ctx context.Context, acc []complex128, spec *spectral.Spectrogram, bins []int) error {
	nch := b.cfg.Geometry.Channels
	norm := complex(1/float64(nch*nch), 0)
	steering := make([]complex128, nch)

	for _, k := range bins {
		if err := ctx.Err(); err != nil {
			return err
		}

		x, err := spec.Slice(k)
		if err != nil {
			return invalid(ErrInvalidBand, "bin", k, err.Error())
		}

		r := EstimateCovariance(x, b.cfg.CenterCovariance)
		freq := spec.Frequencies[k]

		for i, angle := range b.cfg.Angles {
			fillSteering(steering, b.cfg.Geometry, freq, angle)
			acc[i] += QuadraticForm(r, steering) * norm
		}
	}
	return nil
}

// accumulateParallel splits bins into contiguous chunks, one per worker.
// Each worker owns its accumulator; they are summed after the join.
func (b *Beamformer) accumulateParallel(ctx context.Context, spec *spectral.Spectrogram, bins []int) ([]complex128, error) {
	workers := b.cfg.Workers
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	workers = max(1, min(workers, len(bins)))

	chunks := partition(bins, workers)
	partials := make([][]complex128, len(chunks))

	b.logger.Debug("accumulating spatial power", logging.Fields{
		"bins":    len(bins),
		"angles":  len(b.cfg.Angles),
		"frames":  spec.Frames,
		"workers": len(chunks),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for w, chunk := range chunks {
		partials[w] = make([]complex128, len(b.cfg.Angles))
		g.Go(func() error {
			return b.accumulateInto(gctx, partials[w], spec, chunk)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := partials[0]
	for _, p := range partials[1:] {
		cmplxs.Add(total, p)
	}
	return total, nil
}

// partition splits s into n contiguous, nearly equal chunks.
func partition(s []int, n int) [][]int {
	chunks := make([][]int, 0, n)
	size := (len(s) + n - 1) / n
	for start := 0; start < len(s); start += size {
		end := min(start+size, len(s))
		chunks = append(chunks, s[start:end])
	}
	return chunks
}

// Finalize converts an accumulator into magnitudes |P[i]| / numBands.
func Finalize(acc []complex128, numBands int) ([]float64, error) {
	if numBands <= 0 {
		return nil, invalid(ErrInvalidBand, "bands", numBands, "at least one frequency bin is required")
	}

	magnitude := make([]float64, len(acc))
	for i, p := range acc {
		magnitude[i] = cmplx.Abs(p) / float64(numBands)
	}
	return magnitude, nil
}
