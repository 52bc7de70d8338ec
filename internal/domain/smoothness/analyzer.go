// Package smoothness scores movement quality from the frequency-domain shape
// of a velocity or acceleration magnitude window. Smooth, planned motion
// concentrates spectral energy in few bins; jerky motion spreads it, which
// lengthens the spectral arc and lowers the score.
package smoothness

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/stat"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
)

// NeutralScore is returned when a window is too short or numerically
// degenerate. It is deliberately mid-scale so downstream averages are not
// dragged toward either extreme by missing data.
const NeutralScore = 50.0

// Analyzer converts magnitude windows into throttled, exponentially smoothed
// 0-100 scores. It keeps the FFT plans, the smoothing state, and the failure
// health counter; the rolling window itself lives with the caller.
//
// An Analyzer belongs to one session and is not safe for concurrent use.
type Analyzer struct {
	minSamples      int
	blendWeight     float64
	alpha           float64
	publishInterval float64
	failureLimit    int
	varianceGain    float64

	ffts map[int]*fourier.FFT

	ema     float64
	haveEMA bool

	lastPublish float64
	published   bool
	cadence     float64

	failures int
	degraded bool
}

// NewAnalyzer creates an analyzer with the documented defaults, adjusted by
// any options.
func NewAnalyzer(opt ...Option) *Analyzer {
	a := &Analyzer{
		minSamples:      defaultMinSamples,
		blendWeight:     defaultBlendWeight,
		alpha:           defaultSmoothingAlpha,
		publishInterval: defaultPublishInterval,
		failureLimit:    defaultFailureLimit,
		varianceGain:    defaultVarianceGain,
		ffts:            make(map[int]*fourier.FFT),
		cadence:         1,
	}
	for _, o := range opt {
		o(a)
	}
	return a
}

// Reset discards smoothing, throttle, and health state. FFT plans are kept;
// they are shape-dependent, not session-dependent.
func (a *Analyzer) Reset() {
	a.haveEMA = false
	a.published = false
	a.lastPublish = 0
	a.cadence = 1
	a.failures = 0
	a.degraded = false
}

// Degraded reports whether spectral analysis has failed often enough in a
// row that the caller should stop relying on smoothness output for this
// session. Rep and ROM processing are unaffected.
func (a *Analyzer) Degraded() bool { return a.degraded }

// Pressure halves the publish cadence. Called on low-memory or load signals.
func (a *Analyzer) Pressure() { a.cadence = 2 }

// Analyze scores one magnitude window. The boolean is false when the result
// was suppressed by the publish throttle; internal smoothing state still
// advances so the next published value reflects every window seen.
func (a *Analyzer) Analyze(mags []float64, t float64) (model.SmoothnessSample, bool) {
	value, confidence, source, healthy := a.score(mags)

	if healthy {
		a.failures = 0
	} else {
		a.failures++
		if a.failures >= a.failureLimit {
			a.degraded = true
		}
	}

	if !a.haveEMA {
		a.ema = value
		a.haveEMA = true
	} else {
		a.ema = a.alpha*value + (1-a.alpha)*a.ema
	}

	if a.published && t-a.lastPublish < a.publishInterval*a.cadence {
		return model.SmoothnessSample{}, false
	}
	a.published = true
	a.lastPublish = t

	return model.SmoothnessSample{
		Timestamp:  t,
		Value:      clampScore(a.ema),
		Confidence: confidence,
		Source:     source,
	}, true
}

// score computes the blended raw score for one window. healthy is false for
// the degenerate paths that fell back to the neutral default.
func (a *Analyzer) score(mags []float64) (value, confidence float64, source model.SmoothnessSource, healthy bool) {
	if len(mags) < a.minSamples {
		return NeutralScore, 0.2, model.SourceSpectral, false
	}

	spectral, ok := a.spectralScore(mags)
	if !ok {
		return NeutralScore, 0.2, model.SourceSpectral, false
	}

	confidence = math.Min(1, float64(len(mags))/float64(2*a.minSamples))

	variance := stat.Variance(mags, nil)
	if math.IsNaN(variance) || math.IsInf(variance, 0) {
		return clampScore(spectral), confidence, model.SourceSpectral, true
	}
	varScore := 100 / (1 + a.varianceGain*variance)

	blended := (1-a.blendWeight)*spectral + a.blendWeight*varScore
	return clampScore(blended), confidence, model.SourceBlended, true
}

// spectralScore computes the spectral arc length score for one window.
func (a *Analyzer) spectralScore(mags []float64) (float64, bool) {
	n := len(mags)
	mean := stat.Mean(mags, nil)

	padded := make([]float64, nextPowerOfTwo(n))
	for i, m := range mags {
		if math.IsNaN(m) || math.IsInf(m, 0) {
			return 0, false
		}
		padded[i] = m - mean
	}
	window.Hann(padded[:n])

	fft := a.fftFor(len(padded))
	coeffs := fft.Coefficients(nil, padded)

	// One-sided spectrum, normalized by its peak.
	spectrum := make([]float64, len(coeffs))
	var peak float64
	for i, c := range coeffs {
		m := math.Hypot(real(c), imag(c))
		spectrum[i] = m
		if m > peak {
			peak = m
		}
	}
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		// Zero total spectral power: a flat window carries no smoothness
		// information.
		return 0, false
	}

	bins := float64(len(spectrum))
	df := 1 / (bins - 1)
	var arc float64
	for i := 1; i < len(spectrum); i++ {
		dm := (spectrum[i] - spectrum[i-1]) / peak
		arc += math.Hypot(df, dm)
	}

	normalized := arc / bins
	return 100 * (1 - normalized), true
}

func (a *Analyzer) fftFor(n int) *fourier.FFT {
	if fft, ok := a.ffts[n]; ok {
		return fft
	}
	fft := fourier.NewFFT(n)
	a.ffts[n] = fft
	return fft
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func clampScore(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return NeutralScore
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
