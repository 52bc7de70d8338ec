// Package buffer provides fixed-capacity, FIFO-evicting containers for
// recent motion samples. Buffers are owned by exactly one detector or
// analyzer and are not internally synchronized; callers serialize access.
package buffer

import "github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"

// Default capacities: roughly ten seconds of positional data at 60 Hz and a
// few seconds of magnitude history for spectral work.
const (
	defaultTrajectoryCapacity = 600
	defaultSeriesCapacity     = 256
)

// TimedPoint is a position sample retained for the current repetition.
type TimedPoint struct {
	Point geometry.Vec3
	T     float64
}

// Trajectory holds the positions belonging to the current, not-yet-completed
// repetition. When full, the oldest sample is evicted and counted.
type Trajectory struct {
	data     []TimedPoint
	start    int
	count    int
	capacity int
	evicted  uint64
}

// NewTrajectory creates a trajectory buffer with configuration options.
func NewTrajectory(opts ...TrajectoryOption) *Trajectory {
	t := &Trajectory{capacity: defaultTrajectoryCapacity}
	for _, opt := range opts {
		opt(t)
	}
	t.data = make([]TimedPoint, t.capacity)
	return t
}

// Append adds a point, evicting the oldest when at capacity.
func (t *Trajectory) Append(p geometry.Vec3, ts float64) {
	if t.count == t.capacity {
		t.start = (t.start + 1) % t.capacity
		t.count--
		t.evicted++
	}
	t.data[(t.start+t.count)%t.capacity] = TimedPoint{Point: p, T: ts}
	t.count++
}

// Len returns the number of buffered points.
func (t *Trajectory) Len() int { return t.count }

// Evicted returns how many points have been dropped to stay within capacity.
func (t *Trajectory) Evicted() uint64 { return t.evicted }

// Points returns the buffered positions oldest-first as a fresh slice.
func (t *Trajectory) Points() []geometry.Vec3 {
	out := make([]geometry.Vec3, t.count)
	for i := 0; i < t.count; i++ {
		out[i] = t.data[(t.start+i)%t.capacity].Point
	}
	return out
}

// Clear drops all buffered points. Called when a repetition completes.
func (t *Trajectory) Clear() {
	t.start = 0
	t.count = 0
}

// Shrink reduces the buffer capacity to floor, dropping the oldest points.
// It is the low-memory pressure hook; shrinking below one point is ignored.
func (t *Trajectory) Shrink(floor int) {
	if floor < 1 || floor >= t.capacity {
		return
	}
	kept := t.count
	if kept > floor {
		t.evicted += uint64(kept - floor)
		t.start = (t.start + kept - floor) % t.capacity
		t.count = floor
		kept = floor
	}
	data := make([]TimedPoint, floor)
	for i := 0; i < kept; i++ {
		data[i] = t.data[(t.start+i)%t.capacity]
	}
	t.data = data
	t.start = 0
	t.capacity = floor
}

// Series holds recent scalar magnitudes (speed or acceleration) as a rolling
// window for the smoothness analyzer.
type Series struct {
	data     []float64
	start    int
	count    int
	capacity int
	evicted  uint64
}

// NewSeries creates a scalar ring with configuration options.
func NewSeries(opts ...SeriesOption) *Series {
	s := &Series{capacity: defaultSeriesCapacity}
	for _, opt := range opts {
		opt(s)
	}
	s.data = make([]float64, s.capacity)
	return s
}

// Append adds a value, evicting the oldest when at capacity.
func (s *Series) Append(v float64) {
	if s.count == s.capacity {
		s.start = (s.start + 1) % s.capacity
		s.count--
		s.evicted++
	}
	s.data[(s.start+s.count)%s.capacity] = v
	s.count++
}

// Len returns the number of buffered values.
func (s *Series) Len() int { return s.count }

// Evicted returns how many values have been dropped to stay within capacity.
func (s *Series) Evicted() uint64 { return s.evicted }

// Snapshot returns the window oldest-first as a fresh slice.
func (s *Series) Snapshot() []float64 {
	out := make([]float64, s.count)
	for i := 0; i < s.count; i++ {
		out[i] = s.data[(s.start+i)%s.capacity]
	}
	return out
}

// Clear drops all buffered values.
func (s *Series) Clear() {
	s.start = 0
	s.count = 0
}

// Shrink reduces capacity to floor, dropping the oldest values.
func (s *Series) Shrink(floor int) {
	if floor < 1 || floor >= s.capacity {
		return
	}
	kept := s.count
	if kept > floor {
		s.evicted += uint64(kept - floor)
		s.start = (s.start + kept - floor) % s.capacity
		s.count = floor
		kept = floor
	}
	data := make([]float64, floor)
	for i := 0; i < kept; i++ {
		data[i] = s.data[(s.start+i)%s.capacity]
	}
	s.data = data
	s.start = 0
	s.capacity = floor
}
