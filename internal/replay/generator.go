// Package replay feeds deterministic synthetic motion streams through the
// service, one per detector kind. It doubles as a smoke test and a demo
// driver for the cmd/replay entrypoint.
package replay

import (
	"math"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/detect"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
)

// Stream pairs a named deterministic sample sequence with the detector kind
// that should process it.
type Stream struct {
	Name    string
	Kind    detect.Kind
	Samples []model.Sample
}

// Circle generates points on a circle of the given radius in the XY plane,
// one revolution per 360/stepDeg samples.
func Circle(radius float64, revolutions int, stepDeg, hz float64) Stream {
	dt := 1 / hz
	n := int(float64(revolutions) * 360 / stepDeg)
	samples := make([]model.Sample, 0, n)
	for i := 0; i < n; i++ {
		theta := float64(i) * stepDeg * math.Pi / 180
		samples = append(samples, model.Position3D{
			Point: geometry.Vec3{
				X: radius * math.Cos(theta),
				Y: radius * math.Sin(theta),
				Z: 0.3,
			},
			Timestamp: float64(i) * dt,
		})
	}
	return Stream{Name: "circle", Kind: model.KindCircular, Samples: samples}
}

// Pendulum generates out-and-back motion along X as a triangular wave:
// monotonically forward for half a swing, monotonically back for the rest.
func Pendulum(amplitude float64, swings, samplesPerSwing int, hz float64) Stream {
	dt := 1 / hz
	half := samplesPerSwing / 2
	step := amplitude / float64(half)
	samples := make([]model.Sample, 0, swings*samplesPerSwing)
	i := 0
	for s := 0; s < swings; s++ {
		for j := 0; j < half; j++ {
			samples = append(samples, positionX(float64(j+1)*step, float64(i)*dt))
			i++
		}
		for j := half - 1; j >= 0; j-- {
			samples = append(samples, positionX(float64(j)*step, float64(i)*dt))
			i++
		}
	}
	return Stream{Name: "pendulum", Kind: model.KindPendulum, Samples: samples}
}

func positionX(x, t float64) model.Position3D {
	return model.Position3D{Point: geometry.Vec3{X: x, Y: 0.1, Z: 0.2}, Timestamp: t}
}

// LateralSwing generates alternating left/right lateral acceleration pulses
// separated by settled center periods.
func LateralSwing(cycles int, hz float64) Stream {
	const (
		pulseSamples  = 8
		settleSamples = 16
		pulseAccel    = 0.3
	)
	dt := 1 / hz
	gravity := geometry.Vec3{X: 0, Y: -1, Z: 0}

	samples := make([]model.Sample, 0, cycles*2*(pulseSamples+settleSamples))
	i := 0
	emit := func(lateral float64) {
		samples = append(samples, model.Inertial{
			Accel:     geometry.Vec3{X: lateral, Y: -1, Z: 0},
			Gravity:   gravity,
			Timestamp: float64(i) * dt,
		})
		i++
	}
	for c := 0; c < cycles; c++ {
		for j := 0; j < pulseSamples; j++ {
			emit(pulseAccel)
		}
		for j := 0; j < settleSamples; j++ {
			emit(0)
		}
		for j := 0; j < pulseSamples; j++ {
			emit(-pulseAccel)
		}
		for j := 0; j < settleSamples; j++ {
			emit(0)
		}
	}
	return Stream{Name: "lateral-swing", Kind: model.KindLateralSwing, Samples: samples}
}

// GyroPulses generates rotation-rate pulses with alternating axis sign. Each
// pulse ramps above the activation tier, then swings back the other way so
// the rotation axis is reversed by the time the speed decays.
func GyroPulses(pulses int, hz float64) Stream {
	ramp := []float64{0.6, 1.5, 2.4, 1.8, 1.2, -0.5, -0.1}
	dt := 1 / hz
	gravity := geometry.Vec3{X: 0, Y: -1, Z: 0}

	samples := make([]model.Sample, 0, pulses*(len(ramp)+30))
	i := 0
	sign := 1.0
	for p := 0; p < pulses; p++ {
		for _, speed := range ramp {
			samples = append(samples, model.Inertial{
				Accel:     gravity,
				Gyro:      geometry.Vec3{Z: sign * speed},
				Gravity:   gravity,
				Timestamp: float64(i) * dt,
			})
			i++
		}
		// Rest gap so consecutive pulses clear the cooldown.
		for j := 0; j < 30; j++ {
			samples = append(samples, model.Inertial{
				Accel:     gravity,
				Gyro:      geometry.Vec3{Z: -sign * 0.05},
				Gravity:   gravity,
				Timestamp: float64(i) * dt,
			})
			i++
		}
		sign = -sign
	}
	return Stream{Name: "gyro-pulses", Kind: model.KindGyroReversal, Samples: samples}
}

// ElbowCurl generates pose keypoints sweeping the forearm from flexed to
// extended and back, one repetition per curl. The shoulder and elbow stay
// fixed with the upper arm hanging straight down; the wrist rotates about
// the elbow so the derived elbow angle tracks the curl exactly.
func ElbowCurl(curls int, hz float64) Stream {
	const (
		low       = 30.0
		high      = 160.0
		rampSteps = 20
		forearm   = 0.22
	)
	dt := 1 / hz
	step := (high - low) / rampSteps
	shoulder := geometry.Vec2{X: 0.50, Y: 0.20}
	elbow := geometry.Vec2{X: 0.50, Y: 0.45}

	samples := make([]model.Sample, 0, curls*2*rampSteps)
	i := 0
	emit := func(angle float64) {
		rad := angle * math.Pi / 180
		samples = append(samples, model.Keypoints{
			Shoulder: model.Keypoint{P: shoulder, Confidence: 0.95},
			Elbow:    model.Keypoint{P: elbow, Confidence: 0.95},
			Wrist: model.Keypoint{
				P: geometry.Vec2{
					X: elbow.X + forearm*math.Sin(rad),
					Y: elbow.Y - forearm*math.Cos(rad),
				},
				Confidence: 0.9,
			},
			Side:      model.SideRight,
			Timestamp: float64(i) * dt,
		})
		i++
	}
	for c := 0; c < curls; c++ {
		for j := 0; j <= rampSteps; j++ {
			emit(low + float64(j)*step)
		}
		for j := rampSteps - 1; j >= 0; j-- {
			emit(low + float64(j)*step)
		}
	}
	return Stream{Name: "elbow-curl", Kind: model.KindVisionAngle, Samples: samples}
}

// All returns one modest stream per detector kind.
func All() []Stream {
	return []Stream{
		Circle(0.25, 3, 1, 60),
		Pendulum(0.3, 4, 30, 30),
		LateralSwing(4, 60),
		GyroPulses(4, 60),
		ElbowCurl(4, 30),
	}
}
