package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var testSPARC = SPARCConfig{CutoffHz: 10, AmplitudeThreshold: 0.05, PadLevel: 4}

// bellProfile is a minimum-jerk speed profile over one second at fs Hz.
func bellProfile(fs float64) []float64 {
	n := int(fs) + 1
	out := make([]float64, n)
	for i := range out {
		tau := float64(i) / float64(n-1)
		out[i] = 30 * math.Pow(tau, 2) * math.Pow(1-tau, 2)
	}
	return out
}

func TestSPARC_Degenerate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, SPARC(nil, 30, testSPARC))
	assert.Equal(t, 0.0, SPARC([]float64{1, 2}, 30, testSPARC), "too short")
	assert.Equal(t, 0.0, SPARC([]float64{1, 2, 3, 4}, 0, testSPARC), "no sample rate")
	assert.Equal(t, 0.0, SPARC([]float64{1, 2, 3, 4}, math.Inf(1), testSPARC), "infinite sample rate")
	assert.Equal(t, 0.0, SPARC(make([]float64, 32), 30, testSPARC), "motionless")
	assert.Equal(t, 0.0, SPARC([]float64{1, 2, 3, 4}, 30, SPARCConfig{}), "no cutoff")
}

func TestSPARC_SmoothProfile(t *testing.T) {
	t.Parallel()

	got := SPARC(bellProfile(60), 60, testSPARC)
	assert.Less(t, got, 0.0)
	assert.Greater(t, got, -3.0, "a single bell-shaped movement should be close to the smooth end")
}

func TestSPARC_TremorIsLessSmooth(t *testing.T) {
	t.Parallel()

	smooth := bellProfile(60)
	tremor := make([]float64, len(smooth))
	for i, v := range smooth {
		tt := float64(i) / 60
		tremor[i] = v * (1 + 0.4*math.Sin(2*math.Pi*6*tt))
	}

	sSmooth := SPARC(smooth, 60, testSPARC)
	sTremor := SPARC(tremor, 60, testSPARC)
	assert.Less(t, sTremor, sSmooth, "tremor should lengthen the spectral arc")
}

func TestSPARC_NegativePadLevel(t *testing.T) {
	t.Parallel()

	cfg := testSPARC
	cfg.PadLevel = -2
	got := SPARC(bellProfile(30), 30, cfg)
	assert.False(t, math.IsNaN(got))
	assert.LessOrEqual(t, got, 0.0)
}
