package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bharatha77/Stroke-Recovery-System/internal/kinematics"
	"github.com/bharatha77/Stroke-Recovery-System/internal/testutil"
)

// encodeFrame renders f as one JSON-lines record at t seconds.
func encodeFrame(t *testing.T, f kinematics.Frame, at float64) string {
	t.Helper()
	toPtrs := func(lms kinematics.Landmarks) []*kinematics.Keypoint {
		if len(lms) == 0 {
			return nil
		}
		out := make([]*kinematics.Keypoint, len(lms))
		for i := range lms {
			if lms[i].Detected() {
				kp := lms[i]
				out[i] = &kp
			}
		}
		return out
	}
	rec := frameRecord{T: &at, Pose: toPtrs(f.Pose), Face: toPtrs(f.Face)}
	data, err := json.Marshal(rec)
	testutil.AssertNoError(t, err)
	return string(data)
}

func elbowFixture(t *testing.T, degs ...float64) string {
	t.Helper()
	var lines []string
	for i, deg := range degs {
		f := testutil.PoseFrame(time.Time{}, &testutil.Arm{ElbowDeg: deg}, nil)
		lines = append(lines, encodeFrame(t, f, 0.1*float64(i)))
	}
	return strings.Join(lines, "\n") + "\n"
}

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	configPath, debug, pretty = "", false, false
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReplayEndToEnd(t *testing.T) {
	session := kinematics.NewSessionController(kinematics.DefaultConfig())
	res, err := replay(strings.NewReader(elbowFixture(t, 60, 70, 80)), session, testutil.Epoch)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	got := map[string]float64{
		"L_elbow_angle_mean":        res.Features.Value("L_elbow_angle_mean"),
		"L_elbow_angle_range":       res.Features.Value("L_elbow_angle_range"),
		"R_elbow_angle_mean":        res.Features.Value("R_elbow_angle_mean"),
		"elbow_angle_mean_LR_diff":  res.Features.Value("elbow_angle_mean_LR_diff"),
		"elbow_angle_mean_LR_ratio": res.Features.Value("elbow_angle_mean_LR_ratio"),
	}
	want := map[string]float64{
		"L_elbow_angle_mean":        70,
		"L_elbow_angle_range":       20,
		"R_elbow_angle_mean":        0,
		"elbow_angle_mean_LR_diff":  70,
		"elbow_angle_mean_LR_ratio": 0,
	}
	approx := cmp.Comparer(func(a, b float64) bool { return a-b < 1e-9 && b-a < 1e-9 })
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("feature mismatch (-want +got):\n%s", diff)
	}

	if res.Summary.FramesProcessed != 3 {
		t.Errorf("FramesProcessed = %d, want 3", res.Summary.FramesProcessed)
	}
	if res.Summary.State != kinematics.StateIdle {
		t.Errorf("State = %q, want idle after replay", res.Summary.State)
	}
}

func TestReplaySkipsBlankLines(t *testing.T) {
	input := "\n" + strings.ReplaceAll(elbowFixture(t, 60, 70), "\n", "\n\n")
	session := kinematics.NewSessionController(kinematics.DefaultConfig())
	res, err := replay(strings.NewReader(input), session, testutil.Epoch)
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if res.Summary.FramesProcessed != 2 {
		t.Errorf("FramesProcessed = %d, want 2", res.Summary.FramesProcessed)
	}
}

func TestReplayMalformedLine(t *testing.T) {
	input := elbowFixture(t, 60) + "{not json}\n"
	session := kinematics.NewSessionController(kinematics.DefaultConfig())
	_, err := replay(strings.NewReader(input), session, testutil.Epoch)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line 2 parse error, got %v", err)
	}
	if session.State() != kinematics.StateIdle {
		t.Errorf("session left in state %q", session.State())
	}
}

func TestFrameRecordNullLandmarks(t *testing.T) {
	var rec frameRecord
	if err := json.Unmarshal([]byte(`{"pose":[null,{"x":0.1,"y":0.2,"z":0}]}`), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	f := rec.frame(testutil.Epoch)
	if !f.Timestamp.IsZero() {
		t.Errorf("Timestamp = %v, want zero when t is absent", f.Timestamp)
	}
	if _, ok := f.Pose.At(0); ok {
		t.Error("null landmark should be undetected")
	}
	if kp, ok := f.Pose.At(1); !ok || kp.X != 0.1 {
		t.Errorf("landmark 1 = %+v (detected %v)", kp, ok)
	}
	if f.HasFace() {
		t.Error("absent face group should stay empty")
	}
}

func TestSchemaCommand(t *testing.T) {
	out, err := runCmd(t, "", "schema")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	names := strings.Split(strings.TrimSpace(out), "\n")
	if diff := cmp.Diff(kinematics.FeatureNames(), names); diff != "" {
		t.Errorf("schema output mismatch (-want +got):\n%s", diff)
	}
}

func TestChannelsCommand(t *testing.T) {
	out, err := runCmd(t, "", "channels")
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != len(kinematics.AllChannels) {
		t.Fatalf("got %d channel lines, want %d", len(lines), len(kinematics.AllChannels))
	}
	if !strings.HasPrefix(lines[0], string(kinematics.LeftElbowAngle)) || !strings.HasSuffix(lines[0], "deg") {
		t.Errorf("unexpected first line %q", lines[0])
	}
}

func TestReplayCommand(t *testing.T) {
	dir := t.TempDir()
	framesPath := filepath.Join(dir, "frames.jsonl")
	if err := os.WriteFile(framesPath, []byte(elbowFixture(t, 60, 70, 80)), 0644); err != nil {
		t.Fatalf("write frames: %v", err)
	}
	cfgPath := filepath.Join(dir, "kinematics.toml")
	if err := os.WriteFile(cfgPath, []byte("sparc_pad_level = 2\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCmd(t, "", "replay", "--config", cfgPath, framesPath)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	var decoded struct {
		Summary  kinematics.SessionSummary `json:"summary"`
		Features map[string]float64        `json:"features"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(decoded.Features) != len(kinematics.FeatureNames()) {
		t.Errorf("got %d features, want %d", len(decoded.Features), len(kinematics.FeatureNames()))
	}
	if got := decoded.Features["L_elbow_angle_mean"]; got < 70-1e-9 || got > 70+1e-9 {
		t.Errorf("L_elbow_angle_mean = %f, want 70", got)
	}
	if decoded.Summary.FramesProcessed != 3 {
		t.Errorf("FramesProcessed = %d, want 3", decoded.Summary.FramesProcessed)
	}
}

func TestReplayCommandStdin(t *testing.T) {
	out, err := runCmd(t, elbowFixture(t, 60, 70), "replay", "--pretty")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !strings.Contains(out, "\n  \"summary\"") {
		t.Errorf("expected indented output, got %q", out)
	}
}

func TestReplayCommandBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "kinematics.yaml")
	if err := os.WriteFile(cfgPath, []byte("x: 1\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := runCmd(t, "", "replay", "--config", cfgPath); err == nil {
		t.Fatal("expected config error")
	}
}

func TestVersionFlag(t *testing.T) {
	out, err := runCmd(t, "", "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, "dev (commit unknown") {
		t.Errorf("unexpected version output %q", out)
	}
}
