package detect

import (
	"math"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/buffer"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/rom"
)

// LateralSwingTuning configures the gravity-compensated lateral swing
// detector. Threshold magnitudes are exercise-specific calibration inputs;
// the defaults here match the unit convention of g-force accelerometer
// samples.
type LateralSwingTuning struct {
	// MinIntervalSec is the repetition cooldown.
	MinIntervalSec float64 `koanf:"min_interval_sec"`

	// SmoothingAlpha is the exponential smoothing factor applied to the
	// lateral acceleration component.
	SmoothingAlpha float64 `koanf:"smoothing_alpha"`

	// Deadband is the band around zero that counts as "center".
	Deadband float64 `koanf:"deadband"`

	// Threshold is the smoothed lateral magnitude a swing must sustain.
	Threshold float64 `koanf:"threshold"`

	// SustainSamples is how many consecutive samples must stay above
	// Threshold before a departure counts as a swing.
	SustainSamples int `koanf:"sustain_samples"`

	// BufferCapacity bounds the per-rep trajectory buffer fed by the
	// velocity integrator.
	BufferCapacity int `koanf:"buffer_capacity"`
}

// DefaultLateralSwingTuning returns the documented defaults.
func DefaultLateralSwingTuning() LateralSwingTuning {
	return LateralSwingTuning{
		MinIntervalSec: 0.3,
		SmoothingAlpha: 0.3,
		Deadband:       0.05,
		Threshold:      0.12,
		SustainSamples: 3,
		BufferCapacity: 600,
	}
}

func (t LateralSwingTuning) normalized() LateralSwingTuning {
	d := DefaultLateralSwingTuning()
	if t.MinIntervalSec <= 0 {
		t.MinIntervalSec = d.MinIntervalSec
	}
	if t.SmoothingAlpha <= 0 || t.SmoothingAlpha >= 1 {
		t.SmoothingAlpha = d.SmoothingAlpha
	}
	if t.Deadband <= 0 {
		t.Deadband = d.Deadband
	}
	if t.Threshold <= 0 {
		t.Threshold = d.Threshold
	}
	if t.SustainSamples <= 0 {
		t.SustainSamples = d.SustainSamples
	}
	if t.BufferCapacity <= 0 {
		t.BufferCapacity = d.BufferCapacity
	}
	return t
}

type swingPhase int

const (
	phaseCenter swingPhase = iota
	phaseLeft
	phaseRight
)

type swingDirection int

const (
	swingNone swingDirection = iota
	swingLeft
	swingRight
)

// deviceForward is the device's forward axis in its own frame: the screen
// normal on the platforms this core was tuned for.
var deviceForward = geometry.Vec3{X: 0, Y: 0, Z: 1}

// LateralSwing runs a three-phase state machine {center, left, right} on the
// smoothed lateral acceleration component (perpendicular to gravity and to
// the device's forward axis). A swing counts only when motion departs the
// center deadband, sustains above threshold for several consecutive samples,
// and the previous completed swing went the other way or none: a full
// left-right cycle counts as two reps only when alternating, never as two
// same-direction detections.
type LateralSwing struct {
	tuning LateralSwingTuning
	calc   *rom.Calculator
	traj   *buffer.Trajectory

	ema     float64
	prevEMA float64
	haveEMA bool
	lastT   float64
	haveT   bool
	rate    float64

	phase     swingPhase
	candidate swingDirection
	sustain   int
	lastSwing swingDirection

	cd    cooldown
	index repCounter
}

// NewLateralSwing creates a lateral swing detector.
func NewLateralSwing(tuning LateralSwingTuning, calc *rom.Calculator) *LateralSwing {
	tuning = tuning.normalized()
	return &LateralSwing{
		tuning: tuning,
		calc:   calc,
		traj:   buffer.NewTrajectory(buffer.WithTrajectoryCapacity(tuning.BufferCapacity)),
		cd:     cooldown{minInterval: tuning.MinIntervalSec},
	}
}

// Kind returns the detector kind.
func (l *LateralSwing) Kind() Kind { return model.KindLateralSwing }

// Reset discards all state including the rep index.
func (l *LateralSwing) Reset() {
	l.traj.Clear()
	l.haveEMA = false
	l.haveT = false
	l.prevEMA = 0
	l.rate = 0
	l.phase = phaseCenter
	l.candidate = swingNone
	l.sustain = 0
	l.lastSwing = swingNone
	l.cd.reset()
	l.index.reset()
}

// Trajectory exposes the per-rep buffer for pressure handling.
func (l *LateralSwing) Trajectory() *buffer.Trajectory { return l.traj }

// ObservePosition records the integrator's position estimate so completed
// swings can be converted to a ROM angle.
func (l *LateralSwing) ObservePosition(p geometry.Vec3, t float64) {
	if p.IsFinite() {
		l.traj.Append(p, t)
	}
}

// Process consumes an Inertial sample; other sample kinds are ignored.
func (l *LateralSwing) Process(s model.Sample) (model.RepEvent, bool) {
	imu, ok := s.(model.Inertial)
	if !ok || !imu.Accel.IsFinite() || !imu.Gravity.IsFinite() || math.IsNaN(imu.Timestamp) {
		return model.RepEvent{}, false
	}

	lateral, ok := l.lateralComponent(imu)
	if !ok {
		return model.RepEvent{}, false
	}

	alpha := l.tuning.SmoothingAlpha
	if !l.haveEMA {
		l.ema = lateral
		l.haveEMA = true
	} else {
		l.ema = alpha*lateral + (1-alpha)*l.ema
	}

	// Differentiate the smoothed signal as a cheap angular velocity
	// estimate; it is surfaced for diagnostics but phase decisions use the
	// smoothed magnitude itself.
	if l.haveT {
		if dt := imu.Timestamp - l.lastT; dt > 0 {
			l.rate = (l.ema - l.prevEMA) / dt
		}
	}
	l.prevEMA = l.ema
	l.lastT = imu.Timestamp
	l.haveT = true

	return l.step(imu.Timestamp)
}

// Rate returns the derivative of the smoothed lateral component, a rough
// swing velocity useful for logging and pressure heuristics.
func (l *LateralSwing) Rate() float64 { return l.rate }

func (l *LateralSwing) lateralComponent(imu model.Inertial) (float64, bool) {
	g, ok := imu.Gravity.Normalize()
	if !ok {
		return 0, false
	}
	axis, ok := g.Cross(deviceForward).Normalize()
	if !ok {
		// Gravity aligned with the forward axis (device flat); fall back to
		// the device X axis.
		axis = geometry.Vec3{X: 1, Y: 0, Z: 0}
	}
	return imu.Accel.Dot(axis), true
}

func (l *LateralSwing) step(t float64) (model.RepEvent, bool) {
	switch l.phase {
	case phaseCenter:
		dir := swingNone
		switch {
		case l.ema > l.tuning.Threshold:
			dir = swingRight
		case l.ema < -l.tuning.Threshold:
			dir = swingLeft
		}
		if dir == swingNone {
			if math.Abs(l.ema) <= l.tuning.Deadband {
				l.candidate = swingNone
				l.sustain = 0
			}
			return model.RepEvent{}, false
		}
		if dir != l.candidate {
			l.candidate = dir
			l.sustain = 1
			return model.RepEvent{}, false
		}
		l.sustain++
		if l.sustain < l.tuning.SustainSamples {
			return model.RepEvent{}, false
		}

		// Departure confirmed; enter the side phase either way.
		if dir == swingRight {
			l.phase = phaseRight
		} else {
			l.phase = phaseLeft
		}
		l.sustain = 0
		l.candidate = swingNone

		if l.lastSwing == dir || !l.cd.ready(t) {
			// Two consecutive same-direction detections never double count.
			return model.RepEvent{}, false
		}
		l.lastSwing = dir
		l.cd.mark(t)
		romDeg := l.calc.FromTrajectory(l.traj.Points(), rom.Chord)
		l.traj.Clear()
		return l.index.event(model.KindLateralSwing, romDeg, t), true

	default:
		if math.Abs(l.ema) < l.tuning.Deadband {
			l.phase = phaseCenter
			l.sustain = 0
			l.candidate = swingNone
		}
		return model.RepEvent{}, false
	}
}
