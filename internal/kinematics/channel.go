package kinematics

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Unit is the measurement unit of a channel.
type Unit string

const (
	UnitDegrees          Unit = "deg"
	UnitDegreesPerSecond Unit = "deg/s"
	UnitSpeed            Unit = "norm/s"   // normalized image units per second
	UnitJerk             Unit = "norm/s^3" // normalized image units per second cubed
	UnitBodyScaledSpeed  Unit = "shoulder_widths/s"
	UnitRatio            Unit = "ratio"
	UnitDistance         Unit = "norm"
)

// Channel names one per-frame scalar measurement.
type Channel string

const (
	LeftElbowAngle     Channel = "L_elbow_angle"
	RightElbowAngle    Channel = "R_elbow_angle"
	LeftShoulderAngle  Channel = "L_shoulder_angle"
	RightShoulderAngle Channel = "R_shoulder_angle"
	LeftHandSpeed      Channel = "L_hand_speed"
	RightHandSpeed     Channel = "R_hand_speed"
	LeftAngleVel       Channel = "L_angle_vel"
	RightAngleVel      Channel = "R_angle_vel"
	LeftSmoothness     Channel = "L_smoothness"
	RightSmoothness    Channel = "R_smoothness"
	LeftHandSpeedNorm  Channel = "L_hand_speed_norm"
	RightHandSpeedNorm Channel = "R_hand_speed_norm"
	EyeRatio           Channel = "eye_ratio"
	LipDistance        Channel = "lip_distance"
)

var channelUnits = map[Channel]Unit{
	LeftElbowAngle:     UnitDegrees,
	RightElbowAngle:    UnitDegrees,
	LeftShoulderAngle:  UnitDegrees,
	RightShoulderAngle: UnitDegrees,
	LeftHandSpeed:      UnitSpeed,
	RightHandSpeed:     UnitSpeed,
	LeftAngleVel:       UnitDegreesPerSecond,
	RightAngleVel:      UnitDegreesPerSecond,
	LeftSmoothness:     UnitJerk,
	RightSmoothness:    UnitJerk,
	LeftHandSpeedNorm:  UnitBodyScaledSpeed,
	RightHandSpeedNorm: UnitBodyScaledSpeed,
	EyeRatio:           UnitRatio,
	LipDistance:        UnitDistance,
}

// AllChannels lists every raw channel in a stable order.
var AllChannels = []Channel{
	LeftElbowAngle, RightElbowAngle,
	LeftShoulderAngle, RightShoulderAngle,
	LeftHandSpeed, RightHandSpeed,
	LeftAngleVel, RightAngleVel,
	LeftSmoothness, RightSmoothness,
	LeftHandSpeedNorm, RightHandSpeedNorm,
	EyeRatio, LipDistance,
}

// Unit returns the channel's measurement unit, or "" for an unknown channel.
func (c Channel) Unit() Unit {
	return channelUnits[c]
}

// limbChannels groups the per-limb channels of one side.
type limbChannels struct {
	elbowAngle, shoulderAngle, handSpeed, angleVel, smoothness, handSpeedNorm Channel
}

var limbs = [2]limbChannels{
	Left: {
		elbowAngle: LeftElbowAngle, shoulderAngle: LeftShoulderAngle,
		handSpeed: LeftHandSpeed, angleVel: LeftAngleVel,
		smoothness: LeftSmoothness, handSpeedNorm: LeftHandSpeedNorm,
	},
	Right: {
		elbowAngle: RightElbowAngle, shoulderAngle: RightShoulderAngle,
		handSpeed: RightHandSpeed, angleVel: RightAngleVel,
		smoothness: RightSmoothness, handSpeedNorm: RightHandSpeedNorm,
	},
}

// Stats summarizes a sample sequence. The zero value describes an empty one.
type Stats struct {
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"` // population standard deviation
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
	Range float64 `json:"range"`
}

// runningStats is a Welford accumulator giving O(1) live summaries.
type runningStats struct {
	n        int
	mean, m2 float64
	max, min float64
}

func (r *runningStats) add(v float64) {
	r.n++
	if r.n == 1 {
		r.max, r.min = v, v
	} else {
		r.max = math.Max(r.max, v)
		r.min = math.Min(r.min, v)
	}
	delta := v - r.mean
	r.mean += delta / float64(r.n)
	r.m2 += delta * (v - r.mean)
}

func (r *runningStats) stats() Stats {
	if r.n == 0 {
		return Stats{}
	}
	return Stats{
		Mean:  r.mean,
		Std:   math.Sqrt(math.Max(0, r.m2/float64(r.n))),
		Max:   r.max,
		Min:   r.min,
		Range: r.max - r.min,
	}
}

// ChannelHistory is the append-only sample sequence of one channel for the
// lifetime of a recording session.
type ChannelHistory struct {
	channel Channel
	values  []float64

	// Cadence of timestamped samples, for spectral metrics.
	timed       int
	first, last time.Time

	running runningStats
}

// NewChannelHistory creates an empty history for ch.
func NewChannelHistory(ch Channel) *ChannelHistory {
	return &ChannelHistory{channel: ch}
}

// Channel returns the channel this history records.
func (h *ChannelHistory) Channel() Channel {
	return h.channel
}

// Append adds one sample. Non-finite samples are dropped so that every
// derived statistic stays finite.
func (h *ChannelHistory) Append(value float64) {
	if !isFinite(value) {
		return
	}
	h.values = append(h.values, value)
	h.running.add(value)
}

// AppendAt adds one sample observed at the given time.
func (h *ChannelHistory) AppendAt(value float64, at time.Time) {
	if !isFinite(value) {
		return
	}
	h.Append(value)
	if h.timed == 0 {
		h.first = at
	}
	h.last = at
	h.timed++
}

// Len returns the number of samples.
func (h *ChannelHistory) Len() int {
	return len(h.values)
}

// Values returns a copy of the samples in arrival order.
func (h *ChannelHistory) Values() []float64 {
	out := make([]float64, len(h.values))
	copy(out, h.values)
	return out
}

// Stats recomputes the summary over the entire sequence.
func (h *ChannelHistory) Stats() Stats {
	if len(h.values) == 0 {
		return Stats{}
	}
	mean, std := stat.PopMeanStdDev(h.values, nil)
	hi := floats.Max(h.values)
	lo := floats.Min(h.values)
	return Stats{
		Mean:  mean,
		Std:   std,
		Max:   hi,
		Min:   lo,
		Range: hi - lo,
	}
}

// Running returns the incrementally maintained summary. It matches Stats up
// to floating-point rounding and costs O(1).
func (h *ChannelHistory) Running() Stats {
	return h.running.stats()
}

// SampleRate returns the mean rate in Hz of the timestamped samples, or 0
// when fewer than two were recorded or they span no time.
func (h *ChannelHistory) SampleRate() float64 {
	if h.timed < 2 {
		return 0
	}
	span := h.last.Sub(h.first).Seconds()
	if span <= 0 {
		return 0
	}
	return float64(h.timed-1) / span
}

// Reset discards every sample.
func (h *ChannelHistory) Reset() {
	h.values = h.values[:0]
	h.timed = 0
	h.first, h.last = time.Time{}, time.Time{}
	h.running = runningStats{}
}

// ChannelSet owns one ChannelHistory per raw channel for a single session.
type ChannelSet struct {
	histories map[Channel]*ChannelHistory
}

// NewChannelSet creates empty histories for every channel in AllChannels.
func NewChannelSet() *ChannelSet {
	cs := &ChannelSet{histories: make(map[Channel]*ChannelHistory, len(AllChannels))}
	for _, ch := range AllChannels {
		cs.histories[ch] = NewChannelHistory(ch)
	}
	return cs
}

// History returns the history for ch. Unknown channels get a detached empty
// history so callers never have to nil-check.
func (cs *ChannelSet) History(ch Channel) *ChannelHistory {
	if h, ok := cs.histories[ch]; ok {
		return h
	}
	return NewChannelHistory(ch)
}

// Stats is shorthand for History(ch).Stats().
func (cs *ChannelSet) Stats(ch Channel) Stats {
	return cs.History(ch).Stats()
}

// Samples returns the total number of samples across all channels.
func (cs *ChannelSet) Samples() int {
	n := 0
	for _, h := range cs.histories {
		n += h.Len()
	}
	return n
}

// Reset clears every history.
func (cs *ChannelSet) Reset() {
	for _, h := range cs.histories {
		h.Reset()
	}
}
