package kinematics

// landmarkSmoother applies a per-landmark exponential moving average to
// detected keypoints. The first sample of each landmark seeds its average.
type landmarkSmoother struct {
	alpha float64
	state map[int]Keypoint
}

func newLandmarkSmoother(alpha float64) *landmarkSmoother {
	return &landmarkSmoother{alpha: alpha, state: make(map[int]Keypoint)}
}

func (s *landmarkSmoother) enabled() bool {
	return s.alpha > 0 && s.alpha < 1
}

// smooth returns the filtered keypoint for landmark idx.
func (s *landmarkSmoother) smooth(idx int, kp Keypoint) Keypoint {
	if !s.enabled() {
		return kp
	}
	prev, ok := s.state[idx]
	if !ok {
		s.state[idx] = kp
		return kp
	}
	a := s.alpha
	out := Keypoint{
		X:          a*kp.X + (1-a)*prev.X,
		Y:          a*kp.Y + (1-a)*prev.Y,
		Z:          a*kp.Z + (1-a)*prev.Z,
		Confidence: kp.Confidence,
	}
	s.state[idx] = out
	return out
}

func (s *landmarkSmoother) reset() {
	clear(s.state)
}
