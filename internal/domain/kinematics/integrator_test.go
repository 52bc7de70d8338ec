package kinematics_test

import (
	"math"
	"testing"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	kinematics "github.com/aadsidhu-design/flexa-sub004/internal/domain/kinematics"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func restSample(t float64) model.Inertial {
	return model.Inertial{Accel: geometry.Vec3{Y: -1}, Timestamp: t}
}

// calibrateAt runs the integrator through its rest calibration window and
// returns the timestamp after the last calibration sample.
func calibrateAt(in *kinematics.Integrator, samples int, hz float64) float64 {
	dt := 1 / hz
	var t float64
	for j := 0; j < samples; j++ {
		t = float64(j) * dt
		in.Step(restSample(t))
	}
	return t
}

func TestIntegratorCalibration(t *testing.T) {
	Convey("Given a fresh integrator", t, func() {
		in := kinematics.NewIntegrator()

		Convey("Then it starts uncalibrated", func() {
			So(in.Calibrated(), ShouldBeFalse)
		})

		Convey("When fed the rest calibration window", func() {
			last := calibrateAt(in, 30, 60)

			Convey("Then calibration completes after the documented count", func() {
				So(in.Calibrated(), ShouldBeTrue)
			})

			Convey("And a post-calibration rest sample integrates to near zero", func() {
				// The calibrated baseline cancels the rest acceleration.
				state, ok := in.Step(restSample(last + 1.0/60))
				So(ok, ShouldBeTrue)
				So(state.Speed, ShouldAlmostEqual, 0, 1e-9)
			})
		})

		Convey("When fed fewer samples than the window", func() {
			calibrateAt(in, 29, 60)

			Convey("Then it stays in calibration", func() {
				So(in.Calibrated(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a custom calibration window", t, func() {
		in := kinematics.NewIntegrator(kinematics.WithCalibrationSamples(5))
		calibrateAt(in, 5, 60)

		Convey("Then the option shortens the window", func() {
			So(in.Calibrated(), ShouldBeTrue)
		})
	})
}

func TestIntegratorStep(t *testing.T) {
	Convey("Given a calibrated integrator", t, func() {
		in := kinematics.NewIntegrator()
		last := calibrateAt(in, 30, 60)
		dt := 1.0 / 60

		Convey("When constant forward acceleration is applied", func() {
			var state kinematics.State
			tt := last
			for j := 0; j < 30; j++ {
				tt += dt
				state, _ = in.Step(model.Inertial{
					Accel:     geometry.Vec3{X: 0.5, Y: -1},
					Timestamp: tt,
				})
			}

			Convey("Then velocity and position grow along the acceleration axis", func() {
				So(state.Velocity.X, ShouldBeGreaterThan, 0)
				So(state.Position.X, ShouldBeGreaterThan, 0)
				So(math.Abs(state.Velocity.Y), ShouldBeLessThan, 1e-9)
			})

			Convey("And damping bounds the terminal speed", func() {
				// v <= a*dt*d/(1-d) for damping d applied every step.
				So(state.Speed, ShouldBeLessThan, 0.5*dt*0.96/(1-0.96)+1e-9)
			})
		})

		Convey("When a sample carries its own gravity vector", func() {
			state, ok := in.Step(model.Inertial{
				Accel:     geometry.Vec3{X: 0.2, Y: -1},
				Gravity:   geometry.Vec3{X: 0.2, Y: -1},
				Timestamp: last + dt,
			})

			Convey("Then the platform gravity takes precedence over the baseline", func() {
				So(ok, ShouldBeTrue)
				So(state.Speed, ShouldAlmostEqual, 0, 1e-9)
			})
		})
	})
}

func TestIntegratorRejectsGlitches(t *testing.T) {
	Convey("Given a calibrated integrator with some velocity", t, func() {
		in := kinematics.NewIntegrator()
		last := calibrateAt(in, 30, 60)
		dt := 1.0 / 60

		moving, ok := in.Step(model.Inertial{Accel: geometry.Vec3{X: 1, Y: -1}, Timestamp: last + dt})
		So(ok, ShouldBeTrue)
		So(moving.Speed, ShouldBeGreaterThan, 0)

		Convey("When the clock jumps far forward", func() {
			_, ok := in.Step(model.Inertial{Accel: geometry.Vec3{X: 1, Y: -1}, Timestamp: last + 10})

			Convey("Then the sample is rejected and the estimate kept", func() {
				So(ok, ShouldBeFalse)
				So(in.State(), ShouldResemble, moving)
			})

			Convey("And integration resumes from the new clock", func() {
				state, ok := in.Step(model.Inertial{Accel: geometry.Vec3{X: 1, Y: -1}, Timestamp: last + 10 + dt})
				So(ok, ShouldBeTrue)
				So(state.Speed, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the clock runs backwards", func() {
			_, ok := in.Step(model.Inertial{Accel: geometry.Vec3{X: 1, Y: -1}, Timestamp: last - 1})

			Convey("Then the sample is rejected", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When acceleration is not finite", func() {
			_, ok := in.Step(model.Inertial{Accel: geometry.Vec3{X: math.NaN()}, Timestamp: last + 2*dt})

			Convey("Then the sample is rejected without touching the clock", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestIntegratorReset(t *testing.T) {
	Convey("Given a calibrated, moving integrator", t, func() {
		in := kinematics.NewIntegrator(kinematics.WithCalibrationSamples(5))
		last := calibrateAt(in, 5, 60)
		in.Step(model.Inertial{Accel: geometry.Vec3{X: 1, Y: -1}, Timestamp: last + 1.0/60})

		Convey("When reset", func() {
			in.Reset()

			Convey("Then calibration and the estimate are discarded", func() {
				So(in.Calibrated(), ShouldBeFalse)
				So(in.State().Speed, ShouldEqual, 0)
			})

			Convey("And the configured window survives the reset", func() {
				calibrateAt(in, 5, 60)
				So(in.Calibrated(), ShouldBeTrue)
			})
		})
	})
}
