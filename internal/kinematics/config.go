package kinematics

import (
	"time"

	"github.com/bharatha77/Stroke-Recovery-System/internal/config"
)

// Config holds the engine parameters.
type Config struct {
	SmoothingAlpha   float64       // EMA weight of the newest landmark sample; 1 disables smoothing
	MinConfidence    float64       // keypoints reporting less are treated as undetected; 0 disables
	MinFrameInterval time.Duration // floor applied to inter-frame dt for speed and derivatives
	SPARC            SPARCConfig
}

// DefaultConfig returns the built-in defaults without touching the
// filesystem.
func DefaultConfig() Config {
	return ConfigFromTuning(config.EmptyKinematicsConfig())
}

// ConfigFromTuning builds a Config from a loaded KinematicsConfig.
func ConfigFromTuning(cfg *config.KinematicsConfig) Config {
	return Config{
		SmoothingAlpha:   cfg.GetSmoothingAlpha(),
		MinConfidence:    cfg.GetMinConfidence(),
		MinFrameInterval: cfg.GetMinFrameInterval(),
		SPARC: SPARCConfig{
			CutoffHz:           cfg.GetSPARCCutoffHz(),
			AmplitudeThreshold: cfg.GetSPARCAmplitudeThreshold(),
			PadLevel:           cfg.GetSPARCPadLevel(),
		},
	}
}
