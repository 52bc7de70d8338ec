package rom_test

import (
	"math"
	"testing"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	rom "github.com/aadsidhu-design/flexa-sub004/internal/domain/rom"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewCalculator(t *testing.T) {
	Convey("Given session calibration", t, func() {
		Convey("A measured radius is used as-is", func() {
			calc := rom.NewCalculator(model.Calibration{ArmRadiusMeters: 0.5})
			So(calc.ArmRadius(), ShouldEqual, 0.5)
		})

		Convey("A missing radius falls back to the documented default", func() {
			calc := rom.NewCalculator(model.Calibration{})
			So(calc.ArmRadius(), ShouldEqual, model.DefaultArmRadiusMeters)
		})
	})
}

func TestFromTrajectoryChord(t *testing.T) {
	Convey("Given a chord-profile calculator with radius 1", t, func() {
		calc := rom.NewCalculator(model.Calibration{ArmRadiusMeters: 1})

		Convey("When the trajectory moves 1 unit from rest", func() {
			points := []geometry.Vec3{
				{X: 0, Y: 0, Z: 0},
				{X: 0.5, Y: 0, Z: 0},
				{X: 1, Y: 0, Z: 0},
				{X: 0.5, Y: 0, Z: 0},
			}

			Convey("Then ROM is the angle subtended by the peak displacement", func() {
				got := calc.FromTrajectory(points, rom.Chord)
				So(got, ShouldAlmostEqual, geometry.ChordAngle(1, 1), 1e-6)
			})
		})

		Convey("When the trajectory is huge", func() {
			points := []geometry.Vec3{{X: 0}, {X: 100}}

			Convey("Then ROM never exceeds 180", func() {
				So(calc.FromTrajectory(points, rom.Chord), ShouldBeLessThanOrEqualTo, 180)
			})
		})
	})
}

func TestFromTrajectoryArc(t *testing.T) {
	Convey("Given an arc-profile calculator with radius 1", t, func() {
		calc := rom.NewCalculator(model.Calibration{ArmRadiusMeters: 1})

		Convey("When the trajectory is a half circle of radius 1", func() {
			var points []geometry.Vec3
			for i := 0; i <= 180; i++ {
				theta := float64(i) * math.Pi / 180
				points = append(points, geometry.Vec3{X: math.Cos(theta), Y: math.Sin(theta)})
			}

			Convey("Then ROM approximates 180 degrees", func() {
				got := calc.FromTrajectory(points, rom.Arc)
				So(got, ShouldAlmostEqual, 180, 1.0)
			})
		})

		Convey("When the trajectory is absurdly long", func() {
			var points []geometry.Vec3
			for i := 0; i < 100; i++ {
				points = append(points, geometry.Vec3{X: float64(i)})
			}

			Convey("Then ROM is capped at 360", func() {
				So(calc.FromTrajectory(points, rom.Arc), ShouldEqual, 360)
			})
		})
	})
}

func TestFromTrajectoryDegenerate(t *testing.T) {
	Convey("Given insufficient trajectory data", t, func() {
		calc := rom.NewCalculator(model.DefaultCalibration())

		Convey("Then ROM is zero rather than an error", func() {
			So(calc.FromTrajectory(nil, rom.Chord), ShouldEqual, 0)
			So(calc.FromTrajectory([]geometry.Vec3{{X: 1}}, rom.Arc), ShouldEqual, 0)
		})
	})
}
