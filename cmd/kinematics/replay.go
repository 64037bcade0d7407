package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/bharatha77/Stroke-Recovery-System/internal/kinematics"
	"github.com/bharatha77/Stroke-Recovery-System/internal/monitoring"
)

// maxLineBytes bounds one JSON-lines record. A full face mesh is roughly
// 40KB of JSON; leave generous headroom.
const maxLineBytes = 4 * 1024 * 1024

// frameRecord is one line of a recorded landmark stream. A null landmark
// marks a point the detector did not find.
type frameRecord struct {
	T         *float64               `json:"t,omitempty"` // seconds since stream start; absent means stamp on arrival
	Pose      []*kinematics.Keypoint `json:"pose,omitempty"`
	LeftHand  []*kinematics.Keypoint `json:"left_hand,omitempty"`
	RightHand []*kinematics.Keypoint `json:"right_hand,omitempty"`
	Face      []*kinematics.Keypoint `json:"face,omitempty"`
}

func (r frameRecord) frame(origin time.Time) kinematics.Frame {
	f := kinematics.Frame{
		Pose:      landmarks(r.Pose),
		LeftHand:  landmarks(r.LeftHand),
		RightHand: landmarks(r.RightHand),
		Face:      landmarks(r.Face),
	}
	if r.T != nil && !math.IsNaN(*r.T) && !math.IsInf(*r.T, 0) {
		f.Timestamp = origin.Add(time.Duration(*r.T * float64(time.Second)))
	}
	return f
}

func landmarks(in []*kinematics.Keypoint) kinematics.Landmarks {
	if len(in) == 0 {
		return nil
	}
	out := make(kinematics.Landmarks, len(in))
	for i, kp := range in {
		if kp == nil {
			out[i] = kinematics.Undetected()
			continue
		}
		out[i] = *kp
	}
	return out
}

// replayResult is what the replay command prints.
type replayResult struct {
	Summary  kinematics.SessionSummary `json:"summary"`
	Features kinematics.FeatureVector  `json:"features"`
}

// replay runs one recording session over every frame in r and returns the
// finalized features. Blank lines are skipped; a malformed line aborts the
// replay.
func replay(r io.Reader, session *kinematics.SessionController, origin time.Time) (replayResult, error) {
	session.Start()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var rec frameRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			session.Reset()
			return replayResult{}, fmt.Errorf("line %d: failed to parse frame: %w", line, err)
		}
		session.SubmitFrame(rec.frame(origin))
	}
	if err := scanner.Err(); err != nil {
		session.Reset()
		return replayResult{}, fmt.Errorf("failed to read frames: %w", err)
	}

	session.Stop()
	res := replayResult{
		Summary:  session.Summary(),
		Features: session.Finalize(),
	}
	monitoring.Logf("replay: %d frames, %d samples", res.Summary.FramesProcessed, res.Summary.Samples)
	return res, nil
}
