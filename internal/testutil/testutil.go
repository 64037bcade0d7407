// Package testutil provides shared test fixtures.
//
// The helpers build synthetic landmark groups with known geometry so tests
// can assert exact joint angles, speeds and face ratios.
package testutil

import (
	"math"
	"testing"
	"time"

	"github.com/bharatha77/Stroke-Recovery-System/internal/kinematics"
)

// Landmark counts of the detector's pose and face models.
const (
	PoseLandmarkCount = 33
	FaceLandmarkCount = 468
)

// Segment lengths of the synthetic arm, in normalized image units.
const (
	UpperArmLength = 0.2
	ForearmLength  = 0.2
)

// Arm places one synthetic arm.
type Arm struct {
	ElbowDeg float64 // interior angle at the elbow between forearm and upper arm
	OffsetX  float64 // horizontal shift applied to every point of the arm
}

// NewPose returns a pose group in which every landmark is undetected.
func NewPose() kinematics.Landmarks {
	pose := make(kinematics.Landmarks, PoseLandmarkCount)
	for i := range pose {
		pose[i] = kinematics.Undetected()
	}
	return pose
}

// PlaceArm writes shoulder, elbow, wrist and hip for side into pose. The
// upper arm hangs straight down from the shoulder and the forearm opens
// outward by arm.ElbowDeg.
func PlaceArm(pose kinematics.Landmarks, side kinematics.Side, arm Arm) {
	shoulderIdx, elbowIdx, wristIdx, hipIdx := kinematics.PoseLeftShoulder, kinematics.PoseLeftElbow, kinematics.PoseLeftWrist, kinematics.PoseLeftHip
	x, dir := 0.4, 1.0
	if side == kinematics.Right {
		shoulderIdx, elbowIdx, wristIdx, hipIdx = kinematics.PoseRightShoulder, kinematics.PoseRightElbow, kinematics.PoseRightWrist, kinematics.PoseRightHip
		x, dir = 0.6, -1.0
	}
	x += arm.OffsetX

	rad := arm.ElbowDeg * math.Pi / 180
	shoulder := kinematics.Keypoint{X: x, Y: 0.3}
	elbow := kinematics.Keypoint{X: x, Y: 0.3 + UpperArmLength}
	wrist := kinematics.Keypoint{
		X: elbow.X + dir*ForearmLength*math.Sin(rad),
		Y: elbow.Y - ForearmLength*math.Cos(rad),
	}
	hip := kinematics.Keypoint{X: x + dir*0.05, Y: 0.8}

	pose[shoulderIdx] = shoulder
	pose[elbowIdx] = elbow
	pose[wristIdx] = wrist
	pose[hipIdx] = hip
}

// PoseFrame builds a frame at the given time. A nil arm is left undetected.
func PoseFrame(at time.Time, left, right *Arm) kinematics.Frame {
	pose := NewPose()
	if left != nil {
		PlaceArm(pose, kinematics.Left, *left)
	}
	if right != nil {
		PlaceArm(pose, kinematics.Right, *right)
	}
	return kinematics.Frame{Timestamp: at, Pose: pose}
}

// Face returns a face group whose left eye has the given opening and
// corner-to-corner width and whose lips are lipGap apart.
func Face(eyeOpen, eyeWidth, lipGap float64) kinematics.Landmarks {
	face := make(kinematics.Landmarks, FaceLandmarkCount)
	for i := range face {
		face[i] = kinematics.Keypoint{X: 0.5, Y: 0.5}
	}
	cx, cy := 0.4, 0.4
	face[kinematics.FaceLeftEyeOuter] = kinematics.Keypoint{X: cx - eyeWidth/2, Y: cy}
	face[kinematics.FaceLeftEyeInner] = kinematics.Keypoint{X: cx + eyeWidth/2, Y: cy}
	face[kinematics.FaceLeftEyeTop] = kinematics.Keypoint{X: cx, Y: cy - eyeOpen/2}
	face[kinematics.FaceLeftEyeBottom] = kinematics.Keypoint{X: cx, Y: cy + eyeOpen/2}
	face[kinematics.FaceUpperLip] = kinematics.Keypoint{X: 0.5, Y: 0.6}
	face[kinematics.FaceLowerLip] = kinematics.Keypoint{X: 0.5, Y: 0.6 + lipGap}
	return face
}

// FrameTimes returns n timestamps spaced by interval starting at start.
func FrameTimes(start time.Time, interval time.Duration, n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = start.Add(time.Duration(i) * interval)
	}
	return out
}

// Epoch is a fixed reference time for deterministic frame timestamps.
var Epoch = time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
