package buffer

// TrajectoryOption applies a configuration option to a Trajectory.
type TrajectoryOption func(*Trajectory)

// WithTrajectoryCapacity sets the maximum number of retained points.
func WithTrajectoryCapacity(capacity int) TrajectoryOption {
	return func(t *Trajectory) {
		if capacity > 0 {
			t.capacity = capacity
		}
	}
}

// SeriesOption applies a configuration option to a Series.
type SeriesOption func(*Series)

// WithSeriesCapacity sets the maximum number of retained values.
func WithSeriesCapacity(capacity int) SeriesOption {
	return func(s *Series) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}
