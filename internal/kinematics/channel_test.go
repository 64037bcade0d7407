package kinematics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelHistory_EmptyStats(t *testing.T) {
	t.Parallel()

	h := NewChannelHistory(LeftElbowAngle)
	assert.Equal(t, Stats{}, h.Stats())
	assert.Equal(t, Stats{}, h.Running())
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, 0.0, h.SampleRate())
}

func TestChannelHistory_Stats(t *testing.T) {
	t.Parallel()

	h := NewChannelHistory(LeftElbowAngle)
	for _, v := range []float64{10, 20, 30} {
		h.Append(v)
	}

	st := h.Stats()
	assert.InDelta(t, 20, st.Mean, 1e-12)
	assert.InDelta(t, math.Sqrt(200.0/3.0), st.Std, 1e-9)
	assert.Equal(t, 30.0, st.Max)
	assert.Equal(t, 10.0, st.Min)
	assert.Equal(t, 20.0, st.Range)
}

func TestChannelHistory_SingleSample(t *testing.T) {
	t.Parallel()

	h := NewChannelHistory(EyeRatio)
	h.Append(0.27)
	st := h.Stats()
	assert.InDelta(t, 0.27, st.Mean, 1e-12)
	assert.Equal(t, 0.0, st.Std)
	assert.Equal(t, 0.0, st.Range)
}

func TestChannelHistory_RunningMatchesStats(t *testing.T) {
	t.Parallel()

	h := NewChannelHistory(RightHandSpeed)
	values := []float64{0.12, 0.5, 0.33, 1.7, 0.02, 0.9, 0.44, 0.61}
	for _, v := range values {
		h.Append(v)
	}

	full, running := h.Stats(), h.Running()
	assert.InDelta(t, full.Mean, running.Mean, 1e-12)
	assert.InDelta(t, full.Std, running.Std, 1e-12)
	assert.Equal(t, full.Max, running.Max)
	assert.Equal(t, full.Min, running.Min)
	assert.Equal(t, full.Range, running.Range)
}

func TestChannelHistory_DropsNonFinite(t *testing.T) {
	t.Parallel()

	h := NewChannelHistory(LipDistance)
	h.Append(math.NaN())
	h.Append(math.Inf(1))
	h.AppendAt(math.Inf(-1), time.Now())
	h.Append(4)

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, []float64{4}, h.Values())
	assert.Equal(t, 0.0, h.SampleRate())
}

func TestChannelHistory_ValuesIsCopy(t *testing.T) {
	t.Parallel()

	h := NewChannelHistory(LeftHandSpeed)
	h.Append(1)
	vals := h.Values()
	vals[0] = 99
	assert.Equal(t, []float64{1}, h.Values())
}

func TestChannelHistory_SampleRate(t *testing.T) {
	t.Parallel()

	h := NewChannelHistory(LeftHandSpeed)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 11; i++ {
		h.AppendAt(float64(i), start.Add(time.Duration(i)*40*time.Millisecond))
	}
	assert.InDelta(t, 25.0, h.SampleRate(), 1e-9)

	// Untimed appends do not change the cadence.
	h.Append(3)
	assert.InDelta(t, 25.0, h.SampleRate(), 1e-9)
	assert.Equal(t, 12, h.Len())
}

func TestChannelHistory_Reset(t *testing.T) {
	t.Parallel()

	h := NewChannelHistory(LeftHandSpeed)
	now := time.Now()
	h.AppendAt(1, now)
	h.AppendAt(2, now.Add(time.Second))
	require.Equal(t, 2, h.Len())

	h.Reset()
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, Stats{}, h.Stats())
	assert.Equal(t, Stats{}, h.Running())
	assert.Equal(t, 0.0, h.SampleRate())
	assert.Equal(t, LeftHandSpeed, h.Channel())
}

func TestChannelSet(t *testing.T) {
	t.Parallel()

	cs := NewChannelSet()
	for _, ch := range AllChannels {
		require.NotNil(t, cs.History(ch), ch)
		assert.NotEmpty(t, ch.Unit(), ch)
	}
	assert.Len(t, AllChannels, 14)

	cs.History(LeftElbowAngle).Append(45)
	cs.History(EyeRatio).Append(0.3)
	assert.Equal(t, 2, cs.Samples())
	assert.InDelta(t, 45, cs.Stats(LeftElbowAngle).Mean, 1e-12)

	// Unknown channels read as empty and are not retained.
	ghost := cs.History(Channel("ghost"))
	ghost.Append(1)
	assert.Equal(t, 0, cs.History(Channel("ghost")).Len())
	assert.Equal(t, Unit(""), Channel("ghost").Unit())

	cs.Reset()
	assert.Equal(t, 0, cs.Samples())
}
