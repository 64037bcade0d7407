package kinematics

import (
	"math"
	"time"

	"github.com/bharatha77/Stroke-Recovery-System/internal/monitoring"
)

// limbState is the previous-frame state of one arm needed for finite
// differences. The derivative chain (velocity, acceleration) restarts
// whenever the wrist drops out of a posed frame.
type limbState struct {
	seen  bool
	at    time.Time
	wrist Keypoint

	hasElbow   bool
	elbowAngle float64

	hasVel bool
	vx, vy float64

	hasAcc bool
	ax, ay float64
}

// FrameProcessor turns frames into per-channel samples. It keeps the state
// of the previous frame per limb and appends every computed value to the
// session's ChannelSet.
//
// FrameProcessor is not safe for concurrent use; SessionController
// serializes access.
type FrameProcessor struct {
	cfg      Config
	channels *ChannelSet
	smoother *landmarkSmoother
	limbs    [2]limbState
	frames   int
}

// NewFrameProcessor creates a processor writing into channels.
func NewFrameProcessor(channels *ChannelSet, cfg Config) *FrameProcessor {
	return &FrameProcessor{
		cfg:      cfg,
		channels: channels,
		smoother: newLandmarkSmoother(cfg.SmoothingAlpha),
	}
}

// Process extracts every channel it can from frame observed at now and
// returns a live preview of the running statistics. Groups missing from the
// frame are skipped; the frame is never rejected.
func (p *FrameProcessor) Process(frame *Frame, now time.Time) Preview {
	p.frames++

	if frame.HasPose() {
		left := p.resolveArm(frame.Pose, arms[Left])
		right := p.resolveArm(frame.Pose, arms[Right])
		width, widthOK := 0.0, left.shoulder.ok && right.shoulder.ok
		if widthOK {
			width = PlanarDistance(left.shoulder.kp, right.shoulder.kp)
		}
		p.processLimb(Left, left, now, width, widthOK)
		p.processLimb(Right, right, now, width, widthOK)
	} else {
		monitoring.Debugf("kinematics: frame %d has no pose landmarks", p.frames)
	}

	if frame.HasFace() {
		p.processFace(frame.Face)
	} else {
		monitoring.Debugf("kinematics: frame %d has no face landmarks", p.frames)
	}

	return newPreview(p.channels, p.frames)
}

// Frames returns the number of frames processed so far.
func (p *FrameProcessor) Frames() int {
	return p.frames
}

// Reset drops all previous-frame state.
func (p *FrameProcessor) Reset() {
	p.limbs = [2]limbState{}
	p.smoother.reset()
	p.frames = 0
}

func (p *FrameProcessor) detected(kp Keypoint, ok bool) bool {
	if !ok {
		return false
	}
	if p.cfg.MinConfidence > 0 && kp.Confidence > 0 && kp.Confidence < p.cfg.MinConfidence {
		return false
	}
	return true
}

func (p *FrameProcessor) poseKeypoint(pose Landmarks, idx int) (Keypoint, bool) {
	kp, ok := pose.At(idx)
	if !p.detected(kp, ok) {
		return Keypoint{}, false
	}
	return p.smoother.smooth(idx, kp), true
}

type point struct {
	kp Keypoint
	ok bool
}

type armPoints struct {
	shoulder, elbow, wrist, hip point
}

// resolveArm looks up and smooths the four landmarks of one arm. Each
// landmark passes through the smoother exactly once per frame.
func (p *FrameProcessor) resolveArm(pose Landmarks, lm armLandmarks) armPoints {
	get := func(idx int) point {
		kp, ok := p.poseKeypoint(pose, idx)
		return point{kp: kp, ok: ok}
	}
	return armPoints{
		shoulder: get(lm.shoulder),
		elbow:    get(lm.elbow),
		wrist:    get(lm.wrist),
		hip:      get(lm.hip),
	}
}

func (p *FrameProcessor) faceKeypoint(face Landmarks, idx int) (Keypoint, bool) {
	kp, ok := face.At(idx)
	return kp, p.detected(kp, ok)
}

// interval converts the time since the limb was last seen into seconds,
// floored at MinFrameInterval. ok is false for non-positive gaps.
func (p *FrameProcessor) interval(prev, now time.Time) (float64, bool) {
	dt := now.Sub(prev)
	if dt <= 0 {
		return 0, false
	}
	if dt < p.cfg.MinFrameInterval {
		dt = p.cfg.MinFrameInterval
	}
	return dt.Seconds(), true
}

func (p *FrameProcessor) processLimb(side Side, arm armPoints, now time.Time, shoulderWidth float64, widthOK bool) {
	ch := limbs[side]
	st := &p.limbs[side]

	shoulder, shoulderOK := arm.shoulder.kp, arm.shoulder.ok
	elbow, elbowOK := arm.elbow.kp, arm.elbow.ok
	wrist, wristOK := arm.wrist.kp, arm.wrist.ok
	hip, hipOK := arm.hip.kp, arm.hip.ok

	elbowAngle, hasElbow := 0.0, false
	if wristOK && elbowOK && shoulderOK {
		elbowAngle, hasElbow = Angle(wrist, elbow, shoulder), true
		p.channels.History(ch.elbowAngle).Append(elbowAngle)
	}
	if elbowOK && shoulderOK && hipOK {
		p.channels.History(ch.shoulderAngle).Append(Angle(elbow, shoulder, hip))
	}

	if !wristOK {
		monitoring.Debugf("kinematics: %s wrist missing in frame %d", side, p.frames)
		st.hasVel, st.hasAcc = false, false
		return
	}

	if st.seen {
		dt, ok := p.interval(st.at, now)
		if !ok {
			// Out-of-order or duplicate timestamp: keep the older reference.
			monitoring.Debugf("kinematics: %s non-positive frame interval at frame %d", side, p.frames)
			return
		}

		speed := Speed(st.wrist, wrist, dt)
		p.channels.History(ch.handSpeed).AppendAt(speed, now)
		if widthOK {
			p.channels.History(ch.handSpeedNorm).Append(Ratio(speed, shoulderWidth))
		}

		if hasElbow && st.hasElbow {
			p.channels.History(ch.angleVel).Append(math.Abs(elbowAngle-st.elbowAngle) / dt)
		}

		vx := (wrist.X - st.wrist.X) / dt
		vy := (wrist.Y - st.wrist.Y) / dt
		if st.hasVel {
			ax := (vx - st.vx) / dt
			ay := (vy - st.vy) / dt
			if st.hasAcc {
				jerk := math.Hypot(ax-st.ax, ay-st.ay) / dt
				p.channels.History(ch.smoothness).Append(jerk)
			}
			st.ax, st.ay, st.hasAcc = ax, ay, true
		}
		st.vx, st.vy, st.hasVel = vx, vy, true
	}

	st.seen = true
	st.at = now
	st.wrist = wrist
	st.elbowAngle, st.hasElbow = elbowAngle, hasElbow
}

func (p *FrameProcessor) processFace(face Landmarks) {
	top, topOK := p.faceKeypoint(face, FaceLeftEyeTop)
	bottom, bottomOK := p.faceKeypoint(face, FaceLeftEyeBottom)
	outer, outerOK := p.faceKeypoint(face, FaceLeftEyeOuter)
	inner, innerOK := p.faceKeypoint(face, FaceLeftEyeInner)
	if topOK && bottomOK && outerOK && innerOK {
		vertical := PlanarDistance(top, bottom)
		horizontal := PlanarDistance(outer, inner)
		p.channels.History(EyeRatio).Append(Ratio(vertical, horizontal))
	}

	upper, upperOK := p.faceKeypoint(face, FaceUpperLip)
	lower, lowerOK := p.faceKeypoint(face, FaceLowerLip)
	if upperOK && lowerOK {
		p.channels.History(LipDistance).Append(PlanarDistance(upper, lower))
	}
}
