package kinematics

import (
	"math"
	"math/bits"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
)

// SPARCConfig parameterizes the spectral arc length smoothness metric.
type SPARCConfig struct {
	CutoffHz           float64 // upper bound of the analysed band
	AmplitudeThreshold float64 // normalized magnitude below which the spectrum tail is dropped
	PadLevel           int     // extra powers of two of zero padding
}

// minSPARCSamples is the shortest speed profile with a usable spectrum.
const minSPARCSamples = 3

// SPARC returns the spectral arc length of a speed profile sampled at
// sampleRate Hz. Values are negative; closer to zero means smoother motion.
// Profiles that are too short, unsampled or motionless yield 0.
func SPARC(speed []float64, sampleRate float64, cfg SPARCConfig) float64 {
	if len(speed) < minSPARCSamples || !(sampleRate > 0) || !isFinite(sampleRate) {
		return 0
	}
	if cfg.CutoffHz <= 0 {
		return 0
	}

	pad := cfg.PadLevel
	if pad < 0 {
		pad = 0
	}
	n := 1 << (bits.Len(uint(len(speed)-1)) + pad)

	seq := make([]float64, n)
	copy(seq, speed)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	mag := make([]float64, len(coeffs))
	for i, c := range coeffs {
		mag[i] = cmplx.Abs(c)
	}
	peak := floats.Max(mag)
	if !(peak > 0) || !isFinite(peak) {
		return 0
	}
	floats.Scale(1/peak, mag)

	// Band limit, then trim to the span whose magnitude clears the threshold.
	cut := 0
	for cut < len(mag) && fft.Freq(cut)*sampleRate <= cfg.CutoffHz {
		cut++
	}
	first, last := -1, -1
	for i := 0; i < cut; i++ {
		if mag[i] >= cfg.AmplitudeThreshold {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 || last-first < 1 {
		return 0
	}

	span := (fft.Freq(last) - fft.Freq(first)) * sampleRate
	if span <= 0 {
		return 0
	}
	var arc float64
	for i := first + 1; i <= last; i++ {
		df := (fft.Freq(i) - fft.Freq(i-1)) * sampleRate / span
		dm := mag[i] - mag[i-1]
		arc -= math.Hypot(df, dm)
	}
	return arc
}
