package smoothness

const (
	defaultMinSamples      = 10
	defaultBlendWeight     = 0.45
	defaultSmoothingAlpha  = 0.15
	defaultPublishInterval = 0.25
	defaultFailureLimit    = 5
	defaultVarianceGain    = 10.0
)

// Option adjusts analyzer construction.
type Option func(*Analyzer)

// WithMinSamples sets the minimum window length below which the neutral
// default is returned.
func WithMinSamples(n int) Option {
	return func(a *Analyzer) {
		if n > 1 {
			a.minSamples = n
		}
	}
}

// WithBlendWeight sets the weight of the variance-based secondary estimate
// in the blended score.
func WithBlendWeight(w float64) Option {
	return func(a *Analyzer) {
		if w >= 0 && w <= 1 {
			a.blendWeight = w
		}
	}
}

// WithSmoothingAlpha sets the exponential smoothing factor applied before a
// score is surfaced.
func WithSmoothingAlpha(alpha float64) Option {
	return func(a *Analyzer) {
		if alpha > 0 && alpha < 1 {
			a.alpha = alpha
		}
	}
}

// WithPublishInterval sets the minimum seconds between published samples.
func WithPublishInterval(seconds float64) Option {
	return func(a *Analyzer) {
		if seconds > 0 {
			a.publishInterval = seconds
		}
	}
}

// WithFailureLimit sets the consecutive-failure count after which the
// analyzer reports itself degraded.
func WithFailureLimit(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.failureLimit = n
		}
	}
}

// WithVarianceGain sets the scale applied to window variance in the
// inverse-mapped secondary estimate.
func WithVarianceGain(g float64) Option {
	return func(a *Analyzer) {
		if g > 0 {
			a.varianceGain = g
		}
	}
}
