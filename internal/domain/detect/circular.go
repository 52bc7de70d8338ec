package detect

import (
	"math"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/buffer"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/rom"
)

// CircularTuning configures the rotational accumulation detector.
type CircularTuning struct {
	// MinIntervalSec is the repetition cooldown.
	MinIntervalSec float64 `koanf:"min_interval_sec"`

	// CenterDrift blends the rotation center toward the current position
	// each sample so slow translation of the whole motion is absorbed.
	CenterDrift float64 `koanf:"center_drift"`

	// PlaneDrift smooths the rotation-plane normal the same way.
	PlaneDrift float64 `koanf:"plane_drift"`

	// MaxStepRad clamps the per-sample angular delta; larger jumps are
	// outliers.
	MaxStepRad float64 `koanf:"max_step_rad"`

	// MinRadiusM is the distance from the drifting center below which
	// motion is treated as hovering noise and nothing is accumulated.
	MinRadiusM float64 `koanf:"min_radius_m"`

	// TargetRad is the accumulated rotation that completes one repetition:
	// pi for half-rotation exercises, 2*pi for full circles.
	TargetRad float64 `koanf:"target_rad"`

	// CompletionToleranceRad closes the gap left by the angle baseline and
	// the hover gate at the start of a revolution: sampled data for one
	// revolution always sweeps slightly less than the full target.
	CompletionToleranceRad float64 `koanf:"completion_tolerance_rad"`

	// BufferCapacity bounds the per-rep trajectory buffer.
	BufferCapacity int `koanf:"buffer_capacity"`
}

// DefaultCircularTuning returns the documented full-circle defaults.
func DefaultCircularTuning() CircularTuning {
	return CircularTuning{
		MinIntervalSec:         0.5,
		CenterDrift:            0.06,
		PlaneDrift:             0.06,
		MaxStepRad:             math.Pi / 2,
		MinRadiusM:             0.015,
		TargetRad:              2 * math.Pi,
		CompletionToleranceRad: math.Pi / 12,
		BufferCapacity:         600,
	}
}

func (t CircularTuning) normalized() CircularTuning {
	d := DefaultCircularTuning()
	if t.MinIntervalSec <= 0 {
		t.MinIntervalSec = d.MinIntervalSec
	}
	if t.CenterDrift <= 0 || t.CenterDrift >= 1 {
		t.CenterDrift = d.CenterDrift
	}
	if t.PlaneDrift <= 0 || t.PlaneDrift >= 1 {
		t.PlaneDrift = d.PlaneDrift
	}
	if t.MaxStepRad <= 0 {
		t.MaxStepRad = d.MaxStepRad
	}
	if t.MinRadiusM <= 0 {
		t.MinRadiusM = d.MinRadiusM
	}
	if t.TargetRad <= 0 {
		t.TargetRad = d.TargetRad
	}
	if t.CompletionToleranceRad <= 0 {
		t.CompletionToleranceRad = d.CompletionToleranceRad
	}
	if t.BufferCapacity <= 0 {
		t.BufferCapacity = d.BufferCapacity
	}
	return t
}

// Circular detects rotational repetitions. It maintains a drifting center
// (to gate out hovering near the middle of the motion), a smoothed
// rotation-plane normal, and an accumulated signed in-plane turning angle.
// When the accumulator reaches the target rotation a rep fires and the
// accumulator is reduced by the target amount rather than reset, preserving
// phase continuity across repetitions.
type Circular struct {
	tuning CircularTuning
	calc   *rom.Calculator
	traj   *buffer.Trajectory

	center     geometry.Vec3
	haveCenter bool

	prevPos geometry.Vec3
	prevDir geometry.Vec3
	haveDir bool

	normal     geometry.Vec3
	haveNormal bool

	accum float64

	cd    cooldown
	index repCounter
}

// NewCircular creates a rotational accumulation detector.
func NewCircular(tuning CircularTuning, calc *rom.Calculator) *Circular {
	tuning = tuning.normalized()
	return &Circular{
		tuning: tuning,
		calc:   calc,
		traj:   buffer.NewTrajectory(buffer.WithTrajectoryCapacity(tuning.BufferCapacity)),
		cd:     cooldown{minInterval: tuning.MinIntervalSec},
	}
}

// Kind returns the detector kind.
func (c *Circular) Kind() Kind { return model.KindCircular }

// Reset discards all state including the rep index and the accumulator.
func (c *Circular) Reset() {
	c.traj.Clear()
	c.haveCenter = false
	c.haveDir = false
	c.haveNormal = false
	c.accum = 0
	c.cd.reset()
	c.index.reset()
}

// Trajectory exposes the per-rep buffer for pressure handling.
func (c *Circular) Trajectory() *buffer.Trajectory { return c.traj }

// Process consumes a Position3D sample; other sample kinds are ignored.
func (c *Circular) Process(s model.Sample) (model.RepEvent, bool) {
	pos, ok := s.(model.Position3D)
	if !ok || !pos.Point.IsFinite() || math.IsNaN(pos.Timestamp) {
		return model.RepEvent{}, false
	}

	if !c.haveCenter {
		c.center = pos.Point
		c.prevPos = pos.Point
		c.haveCenter = true
		return model.RepEvent{}, false
	}

	drift := c.tuning.CenterDrift
	c.center = c.center.Scale(1 - drift).Add(pos.Point.Scale(drift))

	if pos.Point.Sub(c.center).Norm() < c.tuning.MinRadiusM {
		// Hovering near the center of the motion; not rotation.
		return model.RepEvent{}, false
	}

	dir, ok := pos.Point.Sub(c.prevPos).Normalize()
	if !ok {
		return model.RepEvent{}, false
	}
	c.prevPos = pos.Point
	c.traj.Append(pos.Point, pos.Timestamp)

	if !c.haveDir {
		c.prevDir = dir
		c.haveDir = true
		return model.RepEvent{}, false
	}

	delta, ok := c.turningDelta(dir)
	c.prevDir = dir
	if !ok {
		return model.RepEvent{}, false
	}
	if delta > c.tuning.MaxStepRad {
		delta = c.tuning.MaxStepRad
	} else if delta < -c.tuning.MaxStepRad {
		delta = -c.tuning.MaxStepRad
	}
	c.accum += delta

	target := c.tuning.TargetRad - c.tuning.CompletionToleranceRad
	if math.Abs(c.accum) < target || !c.cd.ready(pos.Timestamp) {
		return model.RepEvent{}, false
	}

	romDeg := c.calc.FromTrajectory(c.traj.Points(), rom.Arc)
	c.traj.Clear()
	if c.accum > 0 {
		c.accum -= c.tuning.TargetRad
	} else {
		c.accum += c.tuning.TargetRad
	}
	c.cd.mark(pos.Timestamp)
	return c.index.event(model.KindCircular, romDeg, pos.Timestamp), true
}

// turningDelta returns the signed in-plane angle between the previous and
// current movement directions, maintaining the smoothed plane normal that
// defines the sign.
func (c *Circular) turningDelta(dir geometry.Vec3) (float64, bool) {
	inst, ok := c.prevDir.Cross(dir).Normalize()
	if !ok {
		// Collinear directions: no plane information, zero turning.
		return 0, c.haveNormal
	}

	if !c.haveNormal {
		c.normal = inst
		c.haveNormal = true
	} else {
		// Keep the normal's orientation stable so the accumulated sign does
		// not flip between samples.
		if inst.Dot(c.normal) < 0 {
			inst = inst.Scale(-1)
		}
		pd := c.tuning.PlaneDrift
		if blended, ok := c.normal.Scale(1 - pd).Add(inst.Scale(pd)).Normalize(); ok {
			c.normal = blended
		}
	}

	sin := c.prevDir.Cross(dir).Dot(c.normal)
	cos := c.prevDir.Dot(dir)
	return math.Atan2(sin, cos), true
}
