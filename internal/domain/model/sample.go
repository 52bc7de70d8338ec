// Package model contains domain models passed between layers.
package model

import "github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"

// Side identifies which arm a joint-angle sample belongs to.
type Side string

// Side values.
const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Sample is the tagged union of motion inputs consumed by the core.
// Timestamps are monotonic, session-relative seconds. Samples are immutable;
// producers hand them over by value.
type Sample interface {
	// Time returns the sample timestamp in monotonic seconds.
	Time() float64

	sample()
}

// Position3D is a world-tracked position sample in meters.
type Position3D struct {
	Point     geometry.Vec3
	Timestamp float64
}

// Inertial is a device-frame IMU sample. Units follow the producing
// platform's convention (g-force for acceleration, rad/s for rotation); the
// core treats them as opaque scalars and the detector thresholds are tuned
// to that convention.
type Inertial struct {
	Accel     geometry.Vec3
	Gyro      geometry.Vec3
	Gravity   geometry.Vec3
	Timestamp float64
}

// JointAngles carries scalar joint angles, in degrees, derived from 2D body
// keypoints. HasShoulder/HasElbow mark which joints were visible; producers
// that track raw landmarks submit Keypoints instead and let the core derive
// the angles.
type JointAngles struct {
	Shoulder    float64
	Elbow       float64
	HasShoulder bool
	HasElbow    bool
	Side        Side
	Timestamp   float64
}

// DefaultKeypointConfidence is the confidence floor below which a keypoint
// is treated as not visible.
const DefaultKeypointConfidence = 0.5

// Keypoint is one detected 2D body landmark in normalized image coordinates
// with the pose model's confidence for it.
type Keypoint struct {
	P          geometry.Vec2
	Confidence float64
}

// Keypoints is a pose-estimation sample for one arm: normalized shoulder,
// elbow, and wrist landmarks. Joint angles are derived on ingestion.
type Keypoints struct {
	Shoulder  Keypoint
	Elbow     Keypoint
	Wrist     Keypoint
	Side      Side
	Timestamp float64
}

// JointAnglesFromKeypoints derives scalar joint angles from 2D landmarks.
// The elbow angle is the angle at the elbow between the upper arm and the
// forearm; the shoulder angle is the upper arm's deviation from hanging
// straight down (image y grows downward). A joint whose landmarks fall below
// minConfidence, or whose segments are degenerate, stays marked not visible.
func JointAnglesFromKeypoints(k Keypoints, minConfidence float64) JointAngles {
	ja := JointAngles{Side: k.Side, Timestamp: k.Timestamp}

	shoulderOK := k.Shoulder.Confidence >= minConfidence
	elbowOK := k.Elbow.Confidence >= minConfidence
	wristOK := k.Wrist.Confidence >= minConfidence

	if shoulderOK && elbowOK && wristOK {
		if a, ok := geometry.AngleBetween(k.Shoulder.P.Sub(k.Elbow.P), k.Wrist.P.Sub(k.Elbow.P)); ok {
			ja.Elbow = a
			ja.HasElbow = true
		}
	}
	if shoulderOK && elbowOK {
		if a, ok := geometry.AngleBetween(k.Elbow.P.Sub(k.Shoulder.P), geometry.Vec2{X: 0, Y: 1}); ok {
			ja.Shoulder = a
			ja.HasShoulder = true
		}
	}
	return ja
}

func (s Position3D) Time() float64  { return s.Timestamp }
func (s Inertial) Time() float64    { return s.Timestamp }
func (s JointAngles) Time() float64 { return s.Timestamp }
func (s Keypoints) Time() float64   { return s.Timestamp }

func (Position3D) sample()  {}
func (Inertial) sample()    {}
func (JointAngles) sample() {}
func (Keypoints) sample()   {}
