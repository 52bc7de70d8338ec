package geometry

import "math"

// Angle caps. Chord conversion is used for back-and-forth motion where the
// dominant signal is peak displacement; it can never exceed a half turn. Arc
// conversion is used for circular motion and caps at a full turn.
const (
	maxChordDegrees = 180
	maxArcDegrees   = 360
)

// SmoothPath applies a 3-point moving average to suppress sensor jitter.
// The first and last samples are preserved unsmoothed so endpoints (and with
// them chord measurements) are not pulled inward.
func SmoothPath(points []Vec2) []Vec2 {
	if len(points) < 3 {
		out := make([]Vec2, len(points))
		copy(out, points)
		return out
	}
	out := make([]Vec2, len(points))
	out[0] = points[0]
	out[len(points)-1] = points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		out[i] = Vec2{
			X: (points[i-1].X + points[i].X + points[i+1].X) / 3,
			Y: (points[i-1].Y + points[i].Y + points[i+1].Y) / 3,
		}
	}
	return out
}

// ArcLength sums consecutive Euclidean distances along a projected path.
// When smooth is set the path is pre-smoothed with SmoothPath.
func ArcLength(points []Vec2, smooth bool) float64 {
	if len(points) < 2 {
		return 0
	}
	if smooth {
		points = SmoothPath(points)
	}
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i].Dist(points[i-1])
	}
	return total
}

// ChordAngle converts a chord length to the subtended angle in degrees for a
// circle of the given radius: 2*asin(chord/(2r)). The ratio is clamped so a
// chord longer than the diameter saturates at 180 degrees.
func ChordAngle(chord, radius float64) float64 {
	if radius <= 0 || chord <= 0 {
		return 0
	}
	ratio := math.Min(1, chord/(2*radius))
	deg := 2 * math.Asin(ratio) * 180 / math.Pi
	return math.Min(deg, maxChordDegrees)
}

// ArcAngle converts an accumulated arc length to degrees for a circle of the
// given radius, capped at a full rotation.
func ArcAngle(arcLength, radius float64) float64 {
	if radius <= 0 || arcLength <= 0 {
		return 0
	}
	deg := arcLength / radius * 180 / math.Pi
	return math.Min(deg, maxArcDegrees)
}
