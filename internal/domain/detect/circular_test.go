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

// circleSamples traces n points of a circle in the XY plane, stepDeg degrees
// per sample. A negative stepDeg traces the circle clockwise.
func circleSamples(radius float64, n int, stepDeg, hz float64) []model.Position3D {
	dt := 1 / hz
	samples := make([]model.Position3D, 0, n)
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
	return samples
}

func feedCircular(det *detect.Circular, samples []model.Position3D) []model.RepEvent {
	var events []model.RepEvent
	for _, s := range samples {
		if ev, ok := det.Process(s); ok {
			events = append(events, ev)
		}
	}
	return events
}

func TestCircularFullRevolution(t *testing.T) {
	Convey("Given a circular detector with the default tuning", t, func() {
		calc := rom.NewCalculator(model.Calibration{ArmRadiusMeters: 0.25})
		det := detect.NewCircular(detect.DefaultCircularTuning(), calc)

		Convey("When fed one full revolution", func() {
			events := feedCircular(det, circleSamples(0.25, 360, 1, 60))

			Convey("Then exactly one repetition is detected", func() {
				So(len(events), ShouldEqual, 1)
				So(events[0].Index, ShouldEqual, 0)
				So(events[0].Method, ShouldEqual, model.KindCircular)
			})

			Convey("And ROM reflects most of the traced circumference", func() {
				So(events[0].ROMDegrees, ShouldBeBetweenOrEqual, 300, 360)
			})
		})

		Convey("When fed only half a revolution", func() {
			events := feedCircular(det, circleSamples(0.25, 180, 1, 60))

			Convey("Then no repetition is detected", func() {
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When fed two full revolutions", func() {
			events := feedCircular(det, circleSamples(0.25, 720, 1, 60))

			Convey("Then exactly two repetitions are detected", func() {
				So(len(events), ShouldEqual, 2)
				So(events[0].Index, ShouldEqual, 0)
				So(events[1].Index, ShouldEqual, 1)
			})
		})

		Convey("When fed a clockwise revolution", func() {
			events := feedCircular(det, circleSamples(0.25, 360, -1, 60))

			Convey("Then rotation direction does not matter", func() {
				So(len(events), ShouldEqual, 1)
			})
		})
	})
}

func TestCircularDeterminism(t *testing.T) {
	Convey("Given an identical sample sequence replayed after Reset", t, func() {
		calc := rom.NewCalculator(model.Calibration{ArmRadiusMeters: 0.25})
		det := detect.NewCircular(detect.DefaultCircularTuning(), calc)
		samples := circleSamples(0.25, 720, 1, 60)

		first := feedCircular(det, samples)
		det.Reset()
		second := feedCircular(det, samples)

		Convey("Then the detector reproduces identical events", func() {
			So(second, ShouldResemble, first)
		})
	})
}

func TestCircularRejectsDegenerateInput(t *testing.T) {
	Convey("Given a circular detector", t, func() {
		calc := rom.NewCalculator(model.DefaultCalibration())
		det := detect.NewCircular(detect.DefaultCircularTuning(), calc)

		Convey("When the hand hovers near the center of the motion", func() {
			var fired bool
			for i := 0; i < 200; i++ {
				s := model.Position3D{
					Point: geometry.Vec3{
						X: 0.001 * math.Cos(float64(i)),
						Y: 0.001 * math.Sin(float64(i)),
					},
					Timestamp: float64(i) / 60,
				}
				if _, ok := det.Process(s); ok {
					fired = true
				}
			}

			Convey("Then nothing accumulates", func() {
				So(fired, ShouldBeFalse)
			})
		})

		Convey("When samples carry NaN coordinates", func() {
			_, ok := det.Process(model.Position3D{Point: geometry.Vec3{X: math.NaN()}, Timestamp: 1})

			Convey("Then they are skipped without firing", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
