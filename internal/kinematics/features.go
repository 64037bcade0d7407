package kinematics

import (
	"encoding/json"
)

// Summary statistic suffixes, in schema order.
var statNames = []string{"mean", "std", "max", "min", "range"}

// limbMetric binds a feature-name stem to the per-limb channel it reads.
type limbMetric struct {
	stem    string
	channel func(limbChannels) Channel
}

// Metrics emitted with all five statistics per limb.
var limbMetrics = []limbMetric{
	{"elbow_angle", func(l limbChannels) Channel { return l.elbowAngle }},
	{"shoulder_angle", func(l limbChannels) Channel { return l.shoulderAngle }},
	{"shoulder_speed", func(l limbChannels) Channel { return l.handSpeed }},
	{"angle_vel", func(l limbChannels) Channel { return l.angleVel }},
	{"smoothness", func(l limbChannels) Channel { return l.smoothness }},
}

// bilateralFeatures lists the stems compared left against right, in schema
// order. Each yields <stem>_LR_diff and <stem>_LR_ratio.
var bilateralFeatures = []string{
	"elbow_angle_mean",
	"shoulder_angle_mean",
	"shoulder_speed_mean",
	"smoothness_mean",
	"angle_vel_mean",
	"shoulder_speed_norm_mean",
	"elbow_angle_std",
	"shoulder_angle_std",
	"shoulder_speed_std",
	"sparc_smoothness",
}

var featureSchema = buildFeatureSchema()

func buildFeatureSchema() []string {
	var names []string
	for _, side := range Sides {
		for _, m := range limbMetrics {
			for _, st := range statNames {
				names = append(names, side.Prefix()+"_"+m.stem+"_"+st)
			}
		}
		names = append(names,
			side.Prefix()+"_shoulder_speed_norm_mean",
			side.Prefix()+"_shoulder_speed_norm_std",
		)
	}
	names = append(names, "L_sparc_smoothness", "R_sparc_smoothness", "L_elbow_rom", "R_elbow_rom")
	for _, stem := range bilateralFeatures {
		names = append(names, stem+"_LR_diff", stem+"_LR_ratio")
	}
	names = append(names, "L_hand_speed_mean", "R_hand_speed_mean", "eye_blink_ratio_mean", "lip_distance_mean")
	return names
}

// FeatureNames returns the fixed feature schema in canonical order.
func FeatureNames() []string {
	out := make([]string, len(featureSchema))
	copy(out, featureSchema)
	return out
}

// FeatureVector is an immutable name → value mapping covering the full
// feature schema. Every value is finite.
type FeatureVector struct {
	values map[string]float64
}

// newFeatureVector fills any schema name missing from values with 0 and
// replaces non-finite values with 0.
func newFeatureVector(values map[string]float64) FeatureVector {
	out := make(map[string]float64, len(featureSchema))
	for _, name := range featureSchema {
		v := values[name]
		if !isFinite(v) {
			v = 0
		}
		out[name] = v
	}
	return FeatureVector{values: out}
}

// Get returns the named feature and whether it is part of the schema.
func (fv FeatureVector) Get(name string) (float64, bool) {
	v, ok := fv.values[name]
	return v, ok
}

// Value returns the named feature, or 0 for an unknown name.
func (fv FeatureVector) Value(name string) float64 {
	return fv.values[name]
}

// Len returns the number of features.
func (fv FeatureVector) Len() int {
	return len(fv.values)
}

// Names returns the feature names in canonical order.
func (fv FeatureVector) Names() []string {
	if len(fv.values) == 0 {
		return nil
	}
	return FeatureNames()
}

// Map returns a copy of the features as a plain map.
func (fv FeatureVector) Map() map[string]float64 {
	out := make(map[string]float64, len(fv.values))
	for k, v := range fv.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the vector as a flat JSON object.
func (fv FeatureVector) MarshalJSON() ([]byte, error) {
	if fv.values == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(fv.values)
}

// FeatureAssembler turns a session's channel histories into a
// FeatureVector.
type FeatureAssembler struct {
	sparc SPARCConfig
}

// NewFeatureAssembler creates an assembler using cfg's SPARC parameters.
func NewFeatureAssembler(cfg Config) FeatureAssembler {
	return FeatureAssembler{sparc: cfg.SPARC}
}

// Assemble reads every history in channels and emits the full schema.
// channels is only read.
func (a FeatureAssembler) Assemble(channels *ChannelSet) FeatureVector {
	values := make(map[string]float64, len(featureSchema))

	type limbSummary struct {
		stats     map[string]Stats
		speedNorm Stats
		sparc     float64
	}
	var summary [2]limbSummary

	for _, side := range Sides {
		ch := limbs[side]
		prefix := side.Prefix() + "_"
		s := limbSummary{stats: make(map[string]Stats, len(limbMetrics))}

		for _, m := range limbMetrics {
			st := channels.Stats(m.channel(ch))
			s.stats[m.stem] = st
			values[prefix+m.stem+"_mean"] = st.Mean
			values[prefix+m.stem+"_std"] = st.Std
			values[prefix+m.stem+"_max"] = st.Max
			values[prefix+m.stem+"_min"] = st.Min
			values[prefix+m.stem+"_range"] = st.Range
		}

		s.speedNorm = channels.Stats(ch.handSpeedNorm)
		values[prefix+"shoulder_speed_norm_mean"] = s.speedNorm.Mean
		values[prefix+"shoulder_speed_norm_std"] = s.speedNorm.Std

		speed := channels.History(ch.handSpeed)
		s.sparc = SPARC(speed.Values(), speed.SampleRate(), a.sparc)
		values[prefix+"sparc_smoothness"] = s.sparc
		values[prefix+"elbow_rom"] = s.stats["elbow_angle"].Range
		values[prefix+"hand_speed_mean"] = s.stats["shoulder_speed"].Mean

		summary[side] = s
	}

	l, r := summary[Left], summary[Right]
	pairs := map[string][2]float64{
		"elbow_angle_mean":         {l.stats["elbow_angle"].Mean, r.stats["elbow_angle"].Mean},
		"shoulder_angle_mean":      {l.stats["shoulder_angle"].Mean, r.stats["shoulder_angle"].Mean},
		"shoulder_speed_mean":      {l.stats["shoulder_speed"].Mean, r.stats["shoulder_speed"].Mean},
		"smoothness_mean":          {l.stats["smoothness"].Mean, r.stats["smoothness"].Mean},
		"angle_vel_mean":           {l.stats["angle_vel"].Mean, r.stats["angle_vel"].Mean},
		"shoulder_speed_norm_mean": {l.speedNorm.Mean, r.speedNorm.Mean},
		"elbow_angle_std":          {l.stats["elbow_angle"].Std, r.stats["elbow_angle"].Std},
		"shoulder_angle_std":       {l.stats["shoulder_angle"].Std, r.stats["shoulder_angle"].Std},
		"shoulder_speed_std":       {l.stats["shoulder_speed"].Std, r.stats["shoulder_speed"].Std},
		"sparc_smoothness":         {l.sparc, r.sparc},
	}
	for _, stem := range bilateralFeatures {
		pair := pairs[stem]
		values[stem+"_LR_diff"] = Diff(pair[0], pair[1])
		values[stem+"_LR_ratio"] = Ratio(pair[0], pair[1])
	}

	values["eye_blink_ratio_mean"] = channels.Stats(EyeRatio).Mean
	values["lip_distance_mean"] = channels.Stats(LipDistance).Mean

	return newFeatureVector(values)
}

// Preview is the live per-frame summary shown while recording. It reads the
// O(1) running accumulators and is informational only.
type Preview struct {
	Frames int `json:"frames"`

	LElbowAngleMean    float64 `json:"L_elbow_angle_mean"`
	LElbowAngleStd     float64 `json:"L_elbow_angle_std"`
	LShoulderAngleMean float64 `json:"L_shoulder_angle_mean"`
	LShoulderAngleStd  float64 `json:"L_shoulder_angle_std"`
	RElbowAngleMean    float64 `json:"R_elbow_angle_mean"`
	RElbowAngleStd     float64 `json:"R_elbow_angle_std"`
	RShoulderAngleMean float64 `json:"R_shoulder_angle_mean"`
	RShoulderAngleStd  float64 `json:"R_shoulder_angle_std"`

	LHandSpeedMean    float64 `json:"L_hand_speed_mean"`
	RHandSpeedMean    float64 `json:"R_hand_speed_mean"`
	EyeBlinkRatioMean float64 `json:"eye_blink_ratio_mean"`
	LipDistanceMean   float64 `json:"lip_distance_mean"`
}

func newPreview(channels *ChannelSet, frames int) Preview {
	running := func(ch Channel) Stats { return channels.History(ch).Running() }
	le, ls := running(LeftElbowAngle), running(LeftShoulderAngle)
	re, rs := running(RightElbowAngle), running(RightShoulderAngle)
	return Preview{
		Frames:             frames,
		LElbowAngleMean:    le.Mean,
		LElbowAngleStd:     le.Std,
		LShoulderAngleMean: ls.Mean,
		LShoulderAngleStd:  ls.Std,
		RElbowAngleMean:    re.Mean,
		RElbowAngleStd:     re.Std,
		RShoulderAngleMean: rs.Mean,
		RShoulderAngleStd:  rs.Std,
		LHandSpeedMean:     running(LeftHandSpeed).Mean,
		RHandSpeedMean:     running(RightHandSpeed).Mean,
		EyeBlinkRatioMean:  running(EyeRatio).Mean,
		LipDistanceMean:    running(LipDistance).Mean,
	}
}
