package kinematics

import (
	"math"
	"time"
)

// Pose landmark indices (33-point body model).
const (
	PoseLeftShoulder  = 11
	PoseRightShoulder = 12
	PoseLeftElbow     = 13
	PoseRightElbow    = 14
	PoseLeftWrist     = 15
	PoseRightWrist    = 16
	PoseLeftHip       = 23
	PoseRightHip      = 24
)

// Face mesh landmark indices (468-point model) for the eye and lip cues.
const (
	FaceLeftEyeTop    = 159
	FaceLeftEyeBottom = 145
	FaceLeftEyeOuter  = 33
	FaceLeftEyeInner  = 133
	FaceUpperLip      = 13
	FaceLowerLip      = 14
)

// Keypoint is one landmark estimate in normalized image coordinates.
// Confidence is optional; zero means the detector did not report one.
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Confidence float64 `json:"visibility,omitempty"`
}

// Undetected returns the placeholder used for a landmark the detector did
// not find. Any keypoint with a non-finite coordinate counts as undetected.
func Undetected() Keypoint {
	nan := math.NaN()
	return Keypoint{X: nan, Y: nan, Z: nan}
}

// Detected reports whether all three coordinates are finite.
func (k Keypoint) Detected() bool {
	return isFinite(k.X) && isFinite(k.Y) && isFinite(k.Z)
}

// Landmarks is one indexed landmark group as produced by the detector.
// An empty group means the detector found nothing for that group.
type Landmarks []Keypoint

// At returns the keypoint at index i and whether it exists and is detected.
func (l Landmarks) At(i int) (Keypoint, bool) {
	if i < 0 || i >= len(l) {
		return Keypoint{}, false
	}
	kp := l[i]
	return kp, kp.Detected()
}

// Frame is one synchronized snapshot of every landmark group.
// A zero Timestamp is stamped by the SessionController on arrival.
type Frame struct {
	Timestamp time.Time `json:"timestamp"`
	Pose      Landmarks `json:"pose,omitempty"`
	LeftHand  Landmarks `json:"left_hand,omitempty"`
	RightHand Landmarks `json:"right_hand,omitempty"`
	Face      Landmarks `json:"face,omitempty"`
}

// HasPose reports whether the frame carries any body pose landmarks.
func (f *Frame) HasPose() bool { return len(f.Pose) > 0 }

// HasFace reports whether the frame carries any face landmarks.
func (f *Frame) HasFace() bool { return len(f.Face) > 0 }

// Side selects the left or right limb.
type Side int

const (
	Left Side = iota
	Right
)

// Sides lists both limbs in feature-schema order.
var Sides = [2]Side{Left, Right}

// Prefix returns the feature-name prefix for the side ("L" or "R").
func (s Side) Prefix() string {
	if s == Right {
		return "R"
	}
	return "L"
}

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// armLandmarks holds the pose indices that make up one arm.
type armLandmarks struct {
	shoulder, elbow, wrist, hip int
}

var arms = [2]armLandmarks{
	Left:  {shoulder: PoseLeftShoulder, elbow: PoseLeftElbow, wrist: PoseLeftWrist, hip: PoseLeftHip},
	Right: {shoulder: PoseRightShoulder, elbow: PoseRightElbow, wrist: PoseRightWrist, hip: PoseRightHip},
}
