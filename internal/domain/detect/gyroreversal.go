package detect

import (
	"math"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/buffer"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/rom"
)

// GyroReversalTuning configures the three-tier angular velocity reversal
// detector. The tier multipliers are expressed relative to Threshold so a
// single calibration knob shifts the whole envelope.
type GyroReversalTuning struct {
	// MinIntervalSec is the repetition cooldown.
	MinIntervalSec float64 `koanf:"min_interval_sec"`

	// Threshold is the base angular speed in rad/s around which the tiers
	// are built.
	Threshold float64 `koanf:"threshold"`

	// ActivationMultiplier scales Threshold to the speed that arms the
	// detector.
	ActivationMultiplier float64 `koanf:"activation_multiplier"`

	// DecayMultiplier scales Threshold to the speed below which an armed
	// motion is considered finished and validated.
	DecayMultiplier float64 `koanf:"decay_multiplier"`

	// StrictMultiplier scales Threshold to the peak speed the motion must
	// have reached for validation to pass.
	StrictMultiplier float64 `koanf:"strict_multiplier"`

	// ReversalCos is the maximum cosine between the current rotation axis
	// and the peak rotation axis for the motion to count as reversed.
	ReversalCos float64 `koanf:"reversal_cos"`

	// BufferCapacity bounds the per-rep trajectory buffer fed by the
	// velocity integrator.
	BufferCapacity int `koanf:"buffer_capacity"`
}

// DefaultGyroReversalTuning returns the documented defaults.
func DefaultGyroReversalTuning() GyroReversalTuning {
	return GyroReversalTuning{
		MinIntervalSec:       0.4,
		Threshold:            1.2,
		ActivationMultiplier: 1.5,
		DecayMultiplier:      0.8,
		StrictMultiplier:     1.2,
		ReversalCos:          -0.1,
		BufferCapacity:       600,
	}
}

func (t GyroReversalTuning) normalized() GyroReversalTuning {
	d := DefaultGyroReversalTuning()
	if t.MinIntervalSec <= 0 {
		t.MinIntervalSec = d.MinIntervalSec
	}
	if t.Threshold <= 0 {
		t.Threshold = d.Threshold
	}
	if t.ActivationMultiplier <= 0 {
		t.ActivationMultiplier = d.ActivationMultiplier
	}
	if t.DecayMultiplier <= 0 || t.DecayMultiplier >= t.ActivationMultiplier {
		t.DecayMultiplier = d.DecayMultiplier
	}
	if t.StrictMultiplier <= 0 {
		t.StrictMultiplier = d.StrictMultiplier
	}
	if t.ReversalCos == 0 || t.ReversalCos <= -1 || t.ReversalCos >= 1 {
		t.ReversalCos = d.ReversalCos
	}
	if t.BufferCapacity <= 0 {
		t.BufferCapacity = d.BufferCapacity
	}
	return t
}

// GyroReversal counts repetitions from raw angular velocity with a
// three-tier hysteresis envelope: the rotation speed must exceed the
// activation tier to arm, the peak speed and axis are tracked while armed,
// and when speed decays below the decay tier the motion validates only if
// the peak cleared the strict tier and the rotation axis flipped relative
// to the peak axis. The wide gap between activation and decay suppresses
// double counting on speed oscillation near a single tier.
type GyroReversal struct {
	tuning GyroReversalTuning
	calc   *rom.Calculator
	traj   *buffer.Trajectory

	armed    bool
	peak     float64
	peakAxis geometry.Vec3
	lastAxis geometry.Vec3
	haveAxis bool

	cd    cooldown
	index repCounter
}

// NewGyroReversal creates an angular velocity reversal detector.
func NewGyroReversal(tuning GyroReversalTuning, calc *rom.Calculator) *GyroReversal {
	tuning = tuning.normalized()
	return &GyroReversal{
		tuning: tuning,
		calc:   calc,
		traj:   buffer.NewTrajectory(buffer.WithTrajectoryCapacity(tuning.BufferCapacity)),
		cd:     cooldown{minInterval: tuning.MinIntervalSec},
	}
}

// Kind returns the detector kind.
func (g *GyroReversal) Kind() Kind { return model.KindGyroReversal }

// Reset discards all state including the rep index.
func (g *GyroReversal) Reset() {
	g.traj.Clear()
	g.armed = false
	g.peak = 0
	g.haveAxis = false
	g.cd.reset()
	g.index.reset()
}

// Trajectory exposes the per-rep buffer for pressure handling.
func (g *GyroReversal) Trajectory() *buffer.Trajectory { return g.traj }

// ObservePosition records the integrator's position estimate so completed
// reversals can be converted to a ROM angle.
func (g *GyroReversal) ObservePosition(p geometry.Vec3, t float64) {
	if p.IsFinite() {
		g.traj.Append(p, t)
	}
}

// Process consumes an Inertial sample; other sample kinds are ignored.
func (g *GyroReversal) Process(s model.Sample) (model.RepEvent, bool) {
	imu, ok := s.(model.Inertial)
	if !ok || !imu.Gyro.IsFinite() || math.IsNaN(imu.Timestamp) {
		return model.RepEvent{}, false
	}

	speed := imu.Gyro.Norm()
	axis, hasAxis := imu.Gyro.Normalize()

	activate := g.tuning.Threshold * g.tuning.ActivationMultiplier
	decay := g.tuning.Threshold * g.tuning.DecayMultiplier
	strict := g.tuning.Threshold * g.tuning.StrictMultiplier

	if !g.armed {
		if speed >= activate && hasAxis {
			g.armed = true
			g.peak = speed
			g.peakAxis = axis
			g.lastAxis = axis
			g.haveAxis = true
		}
		return model.RepEvent{}, false
	}

	if !hasAxis {
		// Zero rotation vector while armed: the motion stopped dead with no
		// axis to compare against. Disarm without counting.
		g.armed = false
		g.peak = 0
		return model.RepEvent{}, false
	}

	if speed > g.peak {
		g.peak = speed
		g.peakAxis = axis
	}
	g.lastAxis = axis

	if speed >= decay {
		return model.RepEvent{}, false
	}

	// Speed decayed; the motion is over. Validate before counting.
	reversed := axis.Dot(g.peakAxis) <= g.tuning.ReversalCos
	strong := g.peak >= strict
	g.armed = false
	g.peak = 0

	if !reversed || !strong || !g.cd.ready(imu.Timestamp) {
		return model.RepEvent{}, false
	}

	g.cd.mark(imu.Timestamp)
	romDeg := g.calc.FromTrajectory(g.traj.Points(), rom.Chord)
	g.traj.Clear()
	return g.index.event(model.KindGyroReversal, romDeg, imu.Timestamp), true
}
