// Package detect implements one repetition state machine per motion
// modality. Detectors share a common contract: feed samples in, get at most
// one repetition event back per call. Detectors are defensive: malformed
// input (NaN, zero-length vectors, too few samples) is skipped and prior
// state retained; no detector ever emits a spurious event for bad input.
//
// A detector instance is owned by exactly one session and must only be
// mutated by one caller at a time. No detector synchronizes internally.
package detect

import (
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
)

// Kind aliases the model-level detector kind for convenience.
type Kind = model.DetectorKind

// Detector is the shared repetition-detection contract.
type Detector interface {
	// Process consumes one sample. The boolean is false when no repetition
	// completed on this sample, which is the overwhelmingly common case.
	Process(s model.Sample) (model.RepEvent, bool)

	// Reset discards all internal state. Replaying an identical sample
	// sequence after Reset reproduces identical rep indices and ROM values.
	Reset()

	// Kind identifies the detector's modality.
	Kind() Kind
}

// PositionObserver is implemented by inertial detectors that have no direct
// position sensing. The session feeds them the integrator's position
// estimate so completed repetitions can still be converted to a ROM angle.
type PositionObserver interface {
	ObservePosition(p geometry.Vec3, t float64)
}

// cooldown rejects repetitions closer together than a modality-specific
// minimum interval.
type cooldown struct {
	minInterval float64
	last        float64
	fired       bool
}

func (c *cooldown) ready(t float64) bool {
	return !c.fired || t-c.last >= c.minInterval
}

func (c *cooldown) mark(t float64) {
	c.fired = true
	c.last = t
}

func (c *cooldown) reset() {
	c.fired = false
	c.last = 0
}

// repCounter issues monotonically increasing, never-reused rep indices.
type repCounter struct {
	next uint32
}

func (r *repCounter) event(kind Kind, romDegrees, t float64) model.RepEvent {
	e := model.RepEvent{
		Index:      r.next,
		ROMDegrees: clampROM(romDegrees),
		Timestamp:  t,
		Method:     kind,
	}
	r.next++
	return e
}

func (r *repCounter) reset() { r.next = 0 }

func clampROM(deg float64) float64 {
	if deg < 0 || deg != deg { // negative or NaN
		return 0
	}
	if deg > 360 {
		return 360
	}
	return deg
}
