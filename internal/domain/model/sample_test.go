package model_test

import (
	"testing"

	"github.com/aadsidhu-design/flexa-sub004/internal/domain/geometry"
	"github.com/aadsidhu-design/flexa-sub004/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func armKeypoints(wrist geometry.Vec2) model.Keypoints {
	return model.Keypoints{
		Shoulder:  model.Keypoint{P: geometry.Vec2{X: 0.50, Y: 0.20}, Confidence: 0.95},
		Elbow:     model.Keypoint{P: geometry.Vec2{X: 0.50, Y: 0.45}, Confidence: 0.95},
		Wrist:     model.Keypoint{P: wrist, Confidence: 0.9},
		Side:      model.SideRight,
		Timestamp: 1.5,
	}
}

func TestJointAnglesFromKeypoints(t *testing.T) {
	Convey("Given confident shoulder, elbow, and wrist keypoints", t, func() {
		Convey("When the forearm is horizontal", func() {
			ja := model.JointAnglesFromKeypoints(armKeypoints(geometry.Vec2{X: 0.72, Y: 0.45}), model.DefaultKeypointConfidence)

			Convey("Then the elbow sits at a right angle", func() {
				So(ja.HasElbow, ShouldBeTrue)
				So(ja.Elbow, ShouldAlmostEqual, 90, 1e-9)
			})

			Convey("And the hanging upper arm reads zero shoulder deviation", func() {
				So(ja.HasShoulder, ShouldBeTrue)
				So(ja.Shoulder, ShouldAlmostEqual, 0, 1e-9)
			})

			Convey("And side and timestamp carry through", func() {
				So(ja.Side, ShouldEqual, model.SideRight)
				So(ja.Timestamp, ShouldEqual, 1.5)
			})
		})

		Convey("When the arm hangs fully straight", func() {
			ja := model.JointAnglesFromKeypoints(armKeypoints(geometry.Vec2{X: 0.50, Y: 0.67}), model.DefaultKeypointConfidence)

			Convey("Then the elbow reads fully extended", func() {
				So(ja.HasElbow, ShouldBeTrue)
				So(ja.Elbow, ShouldAlmostEqual, 180, 1e-9)
			})
		})
	})

	Convey("Given degraded keypoints", t, func() {
		Convey("When the wrist confidence falls below the floor", func() {
			kp := armKeypoints(geometry.Vec2{X: 0.72, Y: 0.45})
			kp.Wrist.Confidence = 0.3
			ja := model.JointAnglesFromKeypoints(kp, model.DefaultKeypointConfidence)

			Convey("Then the elbow is hidden but the shoulder survives", func() {
				So(ja.HasElbow, ShouldBeFalse)
				So(ja.HasShoulder, ShouldBeTrue)
			})
		})

		Convey("When the wrist collapses onto the elbow", func() {
			ja := model.JointAnglesFromKeypoints(armKeypoints(geometry.Vec2{X: 0.50, Y: 0.45}), model.DefaultKeypointConfidence)

			Convey("Then the degenerate elbow stays hidden", func() {
				So(ja.HasElbow, ShouldBeFalse)
			})
		})

		Convey("When the shoulder confidence falls below the floor", func() {
			kp := armKeypoints(geometry.Vec2{X: 0.72, Y: 0.45})
			kp.Shoulder.Confidence = 0.1
			ja := model.JointAnglesFromKeypoints(kp, model.DefaultKeypointConfidence)

			Convey("Then no joint is visible", func() {
				So(ja.HasElbow, ShouldBeFalse)
				So(ja.HasShoulder, ShouldBeFalse)
			})
		})
	})
}
