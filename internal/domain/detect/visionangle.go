package detect

import (
	"math"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
)

// VisionAngleTuning configures the camera joint-angle detector.
type VisionAngleTuning struct {
	// MinIntervalSec is the repetition cooldown.
	MinIntervalSec float64 `koanf:"min_interval_sec"`

	// ExtensionThresholdDeg is the joint angle above which the limb counts
	// as extended.
	ExtensionThresholdDeg float64 `koanf:"extension_threshold_deg"`

	// FlexionThresholdDeg is the joint angle below which the limb counts as
	// returned to flexion, completing the repetition.
	FlexionThresholdDeg float64 `koanf:"flexion_threshold_deg"`
}

// DefaultVisionAngleTuning returns the documented elbow-curl defaults.
func DefaultVisionAngleTuning() VisionAngleTuning {
	return VisionAngleTuning{
		MinIntervalSec:        0.5,
		ExtensionThresholdDeg: 150,
		FlexionThresholdDeg:   60,
	}
}

func (t VisionAngleTuning) normalized() VisionAngleTuning {
	d := DefaultVisionAngleTuning()
	if t.MinIntervalSec <= 0 {
		t.MinIntervalSec = d.MinIntervalSec
	}
	if t.ExtensionThresholdDeg <= 0 {
		t.ExtensionThresholdDeg = d.ExtensionThresholdDeg
	}
	if t.FlexionThresholdDeg <= 0 {
		t.FlexionThresholdDeg = d.FlexionThresholdDeg
	}
	if t.FlexionThresholdDeg >= t.ExtensionThresholdDeg {
		t.ExtensionThresholdDeg = d.ExtensionThresholdDeg
		t.FlexionThresholdDeg = d.FlexionThresholdDeg
	}
	return t
}

// VisionAngle counts repetitions from pose-estimation joint angles: the
// joint must extend past the extension threshold and then return below the
// flexion threshold for one rep. ROM is the tracked peak angle minus the
// flexion threshold, so a signal that never crosses extension yields zero
// reps no matter how long it runs.
//
// The elbow angle is preferred; when a frame carries only a shoulder angle
// that is used instead, so partial occlusion degrades rather than stalls.
type VisionAngle struct {
	tuning VisionAngleTuning

	extended bool
	peak     float64

	cd    cooldown
	index repCounter
}

// NewVisionAngle creates a joint-angle threshold detector.
func NewVisionAngle(tuning VisionAngleTuning) *VisionAngle {
	tuning = tuning.normalized()
	return &VisionAngle{
		tuning: tuning,
		cd:     cooldown{minInterval: tuning.MinIntervalSec},
	}
}

// Kind returns the detector kind.
func (v *VisionAngle) Kind() Kind { return model.KindVisionAngle }

// Reset discards all state including the rep index.
func (v *VisionAngle) Reset() {
	v.extended = false
	v.peak = 0
	v.cd.reset()
	v.index.reset()
}

// Process consumes a JointAngles sample; other sample kinds are ignored.
func (v *VisionAngle) Process(s model.Sample) (model.RepEvent, bool) {
	ja, ok := s.(model.JointAngles)
	if !ok || math.IsNaN(ja.Timestamp) {
		return model.RepEvent{}, false
	}

	angle, ok := v.selectAngle(ja)
	if !ok {
		return model.RepEvent{}, false
	}

	if !v.extended {
		if angle >= v.tuning.ExtensionThresholdDeg {
			v.extended = true
			v.peak = angle
		}
		return model.RepEvent{}, false
	}

	if angle > v.peak {
		v.peak = angle
	}
	if angle > v.tuning.FlexionThresholdDeg {
		return model.RepEvent{}, false
	}

	// Returned to flexion; the repetition is complete.
	peak := v.peak
	v.extended = false
	v.peak = 0

	if !v.cd.ready(ja.Timestamp) {
		return model.RepEvent{}, false
	}
	v.cd.mark(ja.Timestamp)
	romDeg := peak - v.tuning.FlexionThresholdDeg
	return v.index.event(model.KindVisionAngle, romDeg, ja.Timestamp), true
}

func (v *VisionAngle) selectAngle(ja model.JointAngles) (float64, bool) {
	if ja.HasElbow && !math.IsNaN(ja.Elbow) {
		return ja.Elbow, true
	}
	if ja.HasShoulder && !math.IsNaN(ja.Shoulder) {
		return ja.Shoulder, true
	}
	return 0, false
}
