package detect_test

import (
	"testing"

	detect "github.com/aadsidhu-design/flexa-sub004/internal/domain/detect"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	rom "github.com/aadsidhu-design/flexa-sub004/internal/domain/rom"
	. "github.com/smartystreets/goconvey/convey"
)

// gyroSeq turns signed Z rotation rates into inertial samples at the given
// rate, offset so timestamps keep advancing across calls.
func gyroSeq(zRates []float64, hz, t0 float64) []model.Inertial {
	dt := 1 / hz
	samples := make([]model.Inertial, 0, len(zRates))
	for i, z := range zRates {
		samples = append(samples, model.Inertial{
			Accel:     geometry.Vec3{Y: -1},
			Gyro:      geometry.Vec3{Z: z},
			Gravity:   geometry.Vec3{Y: -1},
			Timestamp: t0 + float64(i)*dt,
		})
	}
	return samples
}

func feedGyro(det *detect.GyroReversal, samples []model.Inertial) []model.RepEvent {
	var events []model.RepEvent
	for _, s := range samples {
		if ev, ok := det.Process(s); ok {
			events = append(events, ev)
		}
	}
	return events
}

func TestGyroReversalEnvelope(t *testing.T) {
	// Default tiers: activation 1.8, decay 0.96, strict 1.44 rad/s.
	Convey("Given a gyro reversal detector with the default tuning", t, func() {
		calc := rom.NewCalculator(model.DefaultCalibration())
		det := detect.NewGyroReversal(detect.DefaultGyroReversalTuning(), calc)

		Convey("When the rotation peaks and then reverses axis before decaying", func() {
			events := feedGyro(det, gyroSeq([]float64{0.6, 1.5, 2.4, 1.8, 1.2, -0.5, -0.1}, 60, 0))

			Convey("Then exactly one repetition is validated", func() {
				So(len(events), ShouldEqual, 1)
				So(events[0].Method, ShouldEqual, model.KindGyroReversal)
			})
		})

		Convey("When the rotation decays on the same axis it peaked on", func() {
			events := feedGyro(det, gyroSeq([]float64{2.4, 1.8, 1.2, 0.5, 0.1}, 60, 0))

			Convey("Then validation rejects the motion", func() {
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When the rotation vector drops to zero while armed", func() {
			events := feedGyro(det, gyroSeq([]float64{2.4, 0, -0.5}, 60, 0))

			Convey("Then the detector disarms without counting", func() {
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When the speed never reaches the activation tier", func() {
			events := feedGyro(det, gyroSeq([]float64{1.0, 1.5, 1.7, -1.5, -0.5}, 60, 0))

			Convey("Then the detector never arms", func() {
				So(events, ShouldBeEmpty)
			})
		})
	})
}

func TestGyroReversalStrictTier(t *testing.T) {
	Convey("Given a tuning whose strict tier sits above activation", t, func() {
		tuning := detect.DefaultGyroReversalTuning()
		tuning.StrictMultiplier = 2.5 // strict = 3.0 rad/s
		calc := rom.NewCalculator(model.DefaultCalibration())
		det := detect.NewGyroReversal(tuning, calc)

		Convey("When a reversed motion peaks below the strict tier", func() {
			events := feedGyro(det, gyroSeq([]float64{2.4, 1.8, -0.5}, 60, 0))

			Convey("Then the peak is too weak to validate", func() {
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When a reversed motion clears the strict tier", func() {
			events := feedGyro(det, gyroSeq([]float64{2.4, 3.2, 1.8, -0.5}, 60, 0))

			Convey("Then it validates", func() {
				So(len(events), ShouldEqual, 1)
			})
		})
	})
}

func TestGyroReversalCooldown(t *testing.T) {
	Convey("Given two valid reversals closer together than the cooldown", t, func() {
		calc := rom.NewCalculator(model.DefaultCalibration())
		det := detect.NewGyroReversal(detect.DefaultGyroReversalTuning(), calc)

		pulse := []float64{2.4, 1.8, -0.5}
		first := feedGyro(det, gyroSeq(pulse, 60, 0))
		// Well inside the 0.4s cooldown.
		second := feedGyro(det, gyroSeq([]float64{-2.4, -1.8, 0.5}, 60, 0.1))

		Convey("Then only the first counts", func() {
			So(len(first), ShouldEqual, 1)
			So(second, ShouldBeEmpty)
		})

		Convey("And a reversal after the cooldown counts again", func() {
			third := feedGyro(det, gyroSeq([]float64{2.4, 1.8, -0.5}, 60, 1.0))
			So(len(third), ShouldEqual, 1)
			So(third[0].Index, ShouldEqual, 1)
		})
	})
}
