package detect

import (
	"math"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/buffer"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/rom"
)

// PendulumTuning configures the linear/pendulum reversal detector. Zero
// fields are replaced with the documented defaults.
type PendulumTuning struct {
	// MinIntervalSec is the repetition cooldown.
	MinIntervalSec float64 `koanf:"min_interval_sec"`

	// MinDisplacementM is the per-sample displacement below which motion is
	// treated as jitter and direction is not updated.
	MinDisplacementM float64 `koanf:"min_displacement_m"`

	// ReversalDot is the direction dot-product at or below which a movement
	// reversal is declared.
	ReversalDot float64 `koanf:"reversal_dot"`

	// BufferCapacity bounds the per-rep trajectory buffer.
	BufferCapacity int `koanf:"buffer_capacity"`
}

// DefaultPendulumTuning returns the documented pendulum defaults.
func DefaultPendulumTuning() PendulumTuning {
	return PendulumTuning{
		MinIntervalSec:   0.6,
		MinDisplacementM: 0.005,
		ReversalDot:      -0.2,
		BufferCapacity:   600,
	}
}

func (t PendulumTuning) normalized() PendulumTuning {
	d := DefaultPendulumTuning()
	if t.MinIntervalSec <= 0 {
		t.MinIntervalSec = d.MinIntervalSec
	}
	if t.MinDisplacementM <= 0 {
		t.MinDisplacementM = d.MinDisplacementM
	}
	if t.ReversalDot == 0 {
		t.ReversalDot = d.ReversalDot
	}
	if t.BufferCapacity <= 0 {
		t.BufferCapacity = d.BufferCapacity
	}
	return t
}

// Pendulum detects repetitions of back-and-forth motion by watching for a
// reversal in the unit movement direction between consecutive position
// samples. ROM is computed from the positions buffered since the last rep.
type Pendulum struct {
	tuning PendulumTuning
	calc   *rom.Calculator
	traj   *buffer.Trajectory

	prevPos geometry.Vec3
	prevDir geometry.Vec3
	havePos bool
	haveDir bool

	cd    cooldown
	index repCounter
}

// NewPendulum creates a pendulum reversal detector.
func NewPendulum(tuning PendulumTuning, calc *rom.Calculator) *Pendulum {
	tuning = tuning.normalized()
	return &Pendulum{
		tuning: tuning,
		calc:   calc,
		traj:   buffer.NewTrajectory(buffer.WithTrajectoryCapacity(tuning.BufferCapacity)),
		cd:     cooldown{minInterval: tuning.MinIntervalSec},
	}
}

// Kind returns the detector kind.
func (p *Pendulum) Kind() Kind { return model.KindPendulum }

// Reset discards all state including the rep index.
func (p *Pendulum) Reset() {
	p.traj.Clear()
	p.havePos = false
	p.haveDir = false
	p.cd.reset()
	p.index.reset()
}

// Trajectory exposes the per-rep buffer for pressure handling.
func (p *Pendulum) Trajectory() *buffer.Trajectory { return p.traj }

// Process consumes a Position3D sample; other sample kinds are ignored.
func (p *Pendulum) Process(s model.Sample) (model.RepEvent, bool) {
	pos, ok := s.(model.Position3D)
	if !ok || !pos.Point.IsFinite() || math.IsNaN(pos.Timestamp) {
		return model.RepEvent{}, false
	}

	p.traj.Append(pos.Point, pos.Timestamp)

	if !p.havePos {
		p.prevPos = pos.Point
		p.havePos = true
		return model.RepEvent{}, false
	}

	delta := pos.Point.Sub(p.prevPos)
	dist := delta.Norm()
	if dist < p.tuning.MinDisplacementM {
		// Jitter; keep the previous anchor so slow drift still accumulates.
		return model.RepEvent{}, false
	}

	dir, ok := delta.Normalize()
	p.prevPos = pos.Point
	if !ok {
		return model.RepEvent{}, false
	}

	reversed := p.haveDir && dir.Dot(p.prevDir) <= p.tuning.ReversalDot
	p.prevDir = dir
	p.haveDir = true

	if !reversed || !p.cd.ready(pos.Timestamp) {
		return model.RepEvent{}, false
	}

	romDeg := p.calc.FromTrajectory(p.traj.Points(), rom.Chord)
	p.traj.Clear()
	p.cd.mark(pos.Timestamp)
	return p.index.event(model.KindPendulum, romDeg, pos.Timestamp), true
}
