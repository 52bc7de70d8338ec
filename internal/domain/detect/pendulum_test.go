package detect_test

import (
	"math"
	"testing"

	detect "github.com/aadsidhu-design/flexa-sub004/internal/domain/detect"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	rom "github.com/aadsidhu-design/flexa-sub004/internal/domain/rom"
	. "github.com/smartystreets/goconvey/convey"
)

// outAndBack moves monotonically forward along X and then monotonically back,
// with per-sample displacement well above the jitter threshold.
func outAndBack(amplitude float64, steps int, dt float64) []model.Position3D {
	var samples []model.Position3D
	i := 0
	step := amplitude / float64(steps)
	for j := 1; j <= steps; j++ {
		samples = append(samples, model.Position3D{
			Point:     geometry.Vec3{X: float64(j) * step},
			Timestamp: float64(i) * dt,
		})
		i++
	}
	for j := steps - 1; j >= 0; j-- {
		samples = append(samples, model.Position3D{
			Point:     geometry.Vec3{X: float64(j) * step},
			Timestamp: float64(i) * dt,
		})
		i++
	}
	return samples
}

func TestPendulumOutAndBack(t *testing.T) {
	Convey("Given a pendulum detector with the default tuning", t, func() {
		const radius = 0.67
		calc := rom.NewCalculator(model.Calibration{ArmRadiusMeters: radius})
		det := detect.NewPendulum(detect.DefaultPendulumTuning(), calc)

		Convey("When fed one out-and-back trajectory", func() {
			var events []model.RepEvent
			for _, s := range outAndBack(0.3, 10, 0.1) {
				if ev, ok := det.Process(s); ok {
					events = append(events, ev)
				}
			}

			Convey("Then exactly one repetition is detected", func() {
				So(len(events), ShouldEqual, 1)
				So(events[0].Index, ShouldEqual, 0)
				So(events[0].Method, ShouldEqual, model.KindPendulum)
			})

			Convey("And ROM matches the chord from the rest anchor to the peak", func() {
				// The rest anchor is the first buffered sample (x=0.03).
				want := geometry.ChordAngle(0.3-0.03, radius)
				So(events[0].ROMDegrees, ShouldAlmostEqual, want, 1e-6)
			})
		})

		Convey("When fed motion below the displacement threshold", func() {
			var fired bool
			for i := 0; i < 50; i++ {
				s := model.Position3D{
					Point:     geometry.Vec3{X: 0.0001 * math.Sin(float64(i))},
					Timestamp: float64(i) * 0.1,
				}
				if _, ok := det.Process(s); ok {
					fired = true
				}
			}

			Convey("Then no repetition is detected", func() {
				So(fired, ShouldBeFalse)
			})
		})

		Convey("When fed malformed samples", func() {
			_, ok := det.Process(model.Position3D{Point: geometry.Vec3{X: math.NaN()}, Timestamp: 1})
			So(ok, ShouldBeFalse)
			_, ok = det.Process(model.Inertial{Timestamp: 2})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestPendulumRepIndices(t *testing.T) {
	Convey("Given repeated out-and-back swings", t, func() {
		calc := rom.NewCalculator(model.DefaultCalibration())
		det := detect.NewPendulum(detect.DefaultPendulumTuning(), calc)

		var events []model.RepEvent
		t0 := 0.0
		for swing := 0; swing < 4; swing++ {
			for _, s := range outAndBack(0.3, 10, 0.1) {
				s.Timestamp += t0
				if ev, ok := det.Process(s); ok {
					events = append(events, ev)
				}
			}
			t0 += 2.0
		}

		Convey("Then indices increase monotonically from zero", func() {
			So(len(events), ShouldBeGreaterThanOrEqualTo, 4)
			for i, ev := range events {
				So(ev.Index, ShouldEqual, uint32(i))
			}
		})

		Convey("And every ROM stays within bounds", func() {
			for _, ev := range events {
				So(ev.ROMDegrees, ShouldBeBetweenOrEqual, 0, 180)
			}
		})
	})
}
