// Package rom converts the buffered trajectory of one repetition into a
// single range-of-motion angle in degrees.
package rom

import (
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
)

// Profile selects how a trajectory is converted to an angle. The choice is a
// per-exercise classification made once at session start, not per sample.
type Profile int

// Profiles.
const (
	// Chord treats the dominant signal as peak displacement from the rest
	// position (pendulum and linear motion). Capped at 180 degrees.
	Chord Profile = iota

	// Arc treats the dominant signal as accumulated path length (circular
	// and rotational motion). Capped at 360 degrees.
	Arc
)

// Calculator turns repetition trajectories into ROM angles using the
// session's arm radius calibration.
type Calculator struct {
	radius float64
}

// NewCalculator builds a calculator from the session calibration. A missing
// radius falls back to the documented default.
func NewCalculator(cal model.Calibration) *Calculator {
	cal = cal.Normalize()
	return &Calculator{radius: cal.ArmRadiusMeters}
}

// ArmRadius returns the radius in use, in meters.
func (c *Calculator) ArmRadius() float64 { return c.radius }

// FromTrajectory computes the ROM angle for one repetition. Insufficient
// data yields 0 rather than an error; the repetition still counts.
func (c *Calculator) FromTrajectory(points []geometry.Vec3, profile Profile) float64 {
	if len(points) < 2 {
		return 0
	}

	plane := geometry.FitPlane(points)
	projected := geometry.ProjectToPlane(points, plane)

	switch profile {
	case Arc:
		return geometry.ArcAngle(geometry.ArcLength(projected, true), c.radius)
	default:
		// Peak displacement from the rest position (the first sample of the
		// repetition window).
		var chord float64
		rest := projected[0]
		for _, p := range projected[1:] {
			if d := p.Dist(rest); d > chord {
				chord = d
			}
		}
		return geometry.ChordAngle(chord, c.radius)
	}
}
