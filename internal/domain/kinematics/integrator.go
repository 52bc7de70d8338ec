// Package kinematics estimates velocity and position from raw acceleration
// for modalities without direct position sensing. The estimate drifts by
// construction; damping bounds it well enough for repetition geometry, not
// for absolute localization.
package kinematics

import (
	"math"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
)

const (
	defaultCalibrationSamples = 30
	defaultDamping            = 0.96
	maxStepSeconds            = 0.5
)

// Option adjusts integrator construction.
type Option func(*Integrator)

// WithCalibrationSamples sets how many initial rest samples are averaged to
// establish the gravity vector.
func WithCalibrationSamples(n int) Option {
	return func(i *Integrator) {
		if n > 0 {
			i.calibrationSamples = n
		}
	}
}

// WithDamping sets the per-step velocity damping multiplier.
func WithDamping(d float64) Option {
	return func(i *Integrator) {
		if d > 0 && d < 1 {
			i.damping = d
		}
	}
}

// State is the integrator's current estimate.
type State struct {
	Velocity geometry.Vec3
	Position geometry.Vec3
	Speed    float64
}

// Integrator accumulates gravity-compensated acceleration into a damped
// velocity and position estimate. The first samples are assumed to be at
// rest and are averaged into a gravity baseline; platform-provided gravity
// vectors, when present, take precedence over the baseline.
//
// An Integrator belongs to one session and is not safe for concurrent use.
type Integrator struct {
	calibrationSamples int
	damping            float64

	gravitySum   geometry.Vec3
	gravityCount int
	gravity      geometry.Vec3
	calibrated   bool

	velocity geometry.Vec3
	position geometry.Vec3

	lastT float64
	haveT bool
}

// NewIntegrator creates an integrator with the documented defaults.
func NewIntegrator(opt ...Option) *Integrator {
	i := &Integrator{
		calibrationSamples: defaultCalibrationSamples,
		damping:            defaultDamping,
	}
	for _, o := range opt {
		o(i)
	}
	return i
}

// Reset discards calibration and the accumulated estimate.
func (i *Integrator) Reset() {
	*i = Integrator{
		calibrationSamples: i.calibrationSamples,
		damping:            i.damping,
	}
}

// Calibrated reports whether the gravity baseline is established.
func (i *Integrator) Calibrated() bool { return i.calibrated }

// State returns the current estimate.
func (i *Integrator) State() State {
	return State{
		Velocity: i.velocity,
		Position: i.position,
		Speed:    i.velocity.Norm(),
	}
}

// Step consumes one inertial sample and returns the updated estimate. The
// boolean is false while calibrating or when the sample was rejected (bad
// vectors, non-positive or glitch-sized dt); rejected samples do not mutate
// velocity or position.
func (i *Integrator) Step(s model.Inertial) (State, bool) {
	if !s.Accel.IsFinite() || math.IsNaN(s.Timestamp) {
		return State{}, false
	}

	if !i.calibrated {
		i.calibrate(s)
		i.lastT = s.Timestamp
		i.haveT = true
		return State{}, false
	}

	if !i.haveT {
		i.lastT = s.Timestamp
		i.haveT = true
		return State{}, false
	}

	dt := s.Timestamp - i.lastT
	if dt <= 0 || dt > maxStepSeconds {
		// Sensor glitch or clock jump; advance the clock, keep the estimate.
		i.lastT = s.Timestamp
		return State{}, false
	}
	i.lastT = s.Timestamp

	linear := s.Accel.Sub(i.gravityFor(s))
	i.velocity = i.velocity.Add(linear.Scale(dt)).Scale(i.damping)
	i.position = i.position.Add(i.velocity.Scale(dt))

	return i.State(), true
}

func (i *Integrator) calibrate(s model.Inertial) {
	i.gravitySum = i.gravitySum.Add(s.Accel)
	i.gravityCount++
	if i.gravityCount >= i.calibrationSamples {
		i.gravity = i.gravitySum.Scale(1 / float64(i.gravityCount))
		i.calibrated = true
	}
}

func (i *Integrator) gravityFor(s model.Inertial) geometry.Vec3 {
	if s.Gravity.IsFinite() && s.Gravity.Norm() > 0 {
		return s.Gravity
	}
	return i.gravity
}
