package model

// DetectorKind names the state machine that produced a repetition event.
type DetectorKind string

// Detector kinds, one per motion modality.
const (
	KindPendulum     DetectorKind = "pendulum"
	KindCircular     DetectorKind = "circular"
	KindLateralSwing DetectorKind = "lateral_swing"
	KindGyroReversal DetectorKind = "gyro_reversal"
	KindVisionAngle  DetectorKind = "vision_angle"
)

// RepEvent is emitted exactly once per completed repetition. Index is
// monotonically increasing per session and never reused; ROMDegrees is
// always within [0, 360].
type RepEvent struct {
	Index      uint32       `json:"index"`
	ROMDegrees float64      `json:"rom_degrees"`
	Timestamp  float64      `json:"timestamp"`
	Method     DetectorKind `json:"method"`
}

// SmoothnessSource tells consumers how a smoothness value was produced.
type SmoothnessSource string

// Smoothness sources.
const (
	SourceSpectral SmoothnessSource = "spectral"
	SourceBlended  SmoothnessSource = "blended"
)

// SmoothnessSample is a throttled movement-smoothness reading. Value is a
// 0-100 score (higher is smoother) and Confidence is 0-1. Samples are never
// retroactively revised.
type SmoothnessSample struct {
	Timestamp  float64          `json:"timestamp"`
	Value      float64          `json:"value"`
	Confidence float64          `json:"confidence"`
	Source     SmoothnessSource `json:"source"`
}

// MagnitudeWindow is a snapshot of a session's rolling velocity or
// acceleration magnitudes, handed to the spectral workers so FFT work never
// runs on the sample-ingestion path.
type MagnitudeWindow struct {
	SessionID  string
	Magnitudes []float64
	Timestamp  float64
}
