package model

// DefaultArmRadiusMeters is the assumed arm-plus-grip radius used when no
// calibration was supplied at session start.
const DefaultArmRadiusMeters = 0.67

// Calibration is the read-only calibration context for ROM conversion.
type Calibration struct {
	ArmRadiusMeters float64 `json:"arm_radius_meters"`

	// Defaulted marks that the radius was not measured for this user. It is
	// carried onto the session summary as a quality flag.
	Defaulted bool `json:"defaulted"`
}

// DefaultCalibration returns the documented fallback calibration.
func DefaultCalibration() Calibration {
	return Calibration{ArmRadiusMeters: DefaultArmRadiusMeters, Defaulted: true}
}

// Normalize replaces a missing or non-positive radius with the default and
// flags the substitution.
func (c Calibration) Normalize() Calibration {
	if c.ArmRadiusMeters <= 0 {
		return DefaultCalibration()
	}
	return c
}

// SessionSummary is the end-of-session aggregate handed to downstream
// consumers. The core discards all other state at session end.
type SessionSummary struct {
	SessionID         string       `json:"session_id"`
	Detector          DetectorKind `json:"detector"`
	RepCount          int          `json:"rep_count"`
	ROMPerRep         []float64    `json:"rom_per_rep"`
	AverageSmoothness float64      `json:"average_smoothness"`
	PeakSmoothness    float64      `json:"peak_smoothness"`

	// Quality flags.
	CalibrationDefaulted bool `json:"calibration_defaulted"`
	SpectralDegraded     bool `json:"spectral_degraded"`

	StartedAt float64 `json:"started_at"`
	EndedAt   float64 `json:"ended_at"`
}
