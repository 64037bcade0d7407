package kinematics

import (
	"sync"
	"time"

	"github.com/bharatha77/Stroke-Recovery-System/internal/monitoring"
	"github.com/bharatha77/Stroke-Recovery-System/internal/timeutil"
	"github.com/google/uuid"
)

// SessionState is the capture state of a SessionController.
type SessionState string

const (
	StateIdle      SessionState = "idle"      // frames are dropped
	StateRecording SessionState = "recording" // frames are processed
)

// SessionSummary describes the current or most recent session.
type SessionSummary struct {
	SessionID       string       `json:"session_id"`
	State           SessionState `json:"state"`
	StartedAt       time.Time    `json:"started_at"`
	StoppedAt       time.Time    `json:"stopped_at"`
	FramesReceived  int          `json:"frames_received"`
	FramesProcessed int          `json:"frames_processed"`
	FramesDropped   int          `json:"frames_dropped"`
	Samples         int          `json:"samples"`
}

// Duration is the recording span, measured up to now for a session that is
// still recording.
func (s SessionSummary) Duration(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	end := s.StoppedAt
	if s.State == StateRecording || end.IsZero() {
		end = now
	}
	if end.Before(s.StartedAt) {
		return 0
	}
	return end.Sub(s.StartedAt)
}

// SessionController owns the channel histories of one recording session and
// gates the frame path with an Idle/Recording state machine. It is reusable:
// every Start begins a fresh session.
//
// All methods are safe for concurrent use. A single mutex serializes frame
// delivery against Start/Stop/Reset/Finalize, so once Stop returns no frame
// can touch the histories until the next Start.
type SessionController struct {
	mu sync.Mutex

	cfg       Config
	clock     timeutil.Clock
	assembler FeatureAssembler

	state     SessionState
	sessionID string
	channels  *ChannelSet
	processor *FrameProcessor

	startedAt time.Time
	stoppedAt time.Time
	received  int
	dropped   int
}

// SessionOption configures a SessionController.
type SessionOption func(*SessionController)

// WithClock overrides the clock used to stamp frames and sessions.
func WithClock(c timeutil.Clock) SessionOption {
	return func(s *SessionController) {
		if c != nil {
			s.clock = c
		}
	}
}

// NewSessionController creates an idle controller.
func NewSessionController(cfg Config, opts ...SessionOption) *SessionController {
	s := &SessionController{
		cfg:       cfg,
		clock:     timeutil.RealClock{},
		assembler: NewFeatureAssembler(cfg),
		state:     StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.channels = NewChannelSet()
	s.processor = NewFrameProcessor(s.channels, cfg)
	return s
}

// Start begins a new recording session with empty histories and returns its
// id. Calling Start while already recording keeps the current session.
func (s *SessionController) Start() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		monitoring.Logf("kinematics: session %s already recording, start ignored", s.sessionID)
		return s.sessionID
	}

	s.sessionID = uuid.NewString()
	s.channels = NewChannelSet()
	s.processor = NewFrameProcessor(s.channels, s.cfg)
	s.startedAt = s.clock.Now()
	s.stoppedAt = time.Time{}
	s.received, s.dropped = 0, 0
	s.state = StateRecording

	monitoring.Logf("kinematics: session %s started", s.sessionID)
	return s.sessionID
}

// Stop ends recording. The frame path is closed before Stop returns.
// It reports whether a recording was actually stopped.
func (s *SessionController) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		monitoring.Logf("kinematics: stop ignored, no session recording")
		return false
	}
	s.state = StateIdle
	s.stoppedAt = s.clock.Now()

	monitoring.Logf("kinematics: session %s stopped after %d frames (%d samples)",
		s.sessionID, s.processor.Frames(), s.channels.Samples())
	return true
}

// Reset discards every history and returns to Idle, from either state.
func (s *SessionController) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.sessionID
	s.channels.Reset()
	s.processor.Reset()
	s.state = StateIdle
	s.sessionID = ""
	s.startedAt, s.stoppedAt = time.Time{}, time.Time{}
	s.received, s.dropped = 0, 0

	if prev != "" {
		monitoring.Logf("kinematics: session %s reset", prev)
	}
}

// State returns the current state.
func (s *SessionController) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SubmitFrame delivers one frame. While Recording it is processed and the
// live preview is returned with ok = true; while Idle it is dropped.
func (s *SessionController) SubmitFrame(frame Frame) (preview Preview, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.received++
	if s.state != StateRecording {
		s.dropped++
		return Preview{}, false
	}

	now := frame.Timestamp
	if now.IsZero() {
		now = s.clock.Now()
	}
	return s.processor.Process(&frame, now), true
}

// Finalize assembles the feature vector of the current or most recent
// session. It is valid in any state and always returns the full schema;
// with nothing recorded every value is 0.
func (s *SessionController) Finalize() FeatureVector {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		monitoring.Logf("kinematics: finalize while session %s is still recording", s.sessionID)
	}
	return s.assembler.Assemble(s.channels)
}

// Summary returns counters and timing for the current or most recent
// session.
func (s *SessionController) Summary() SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return SessionSummary{
		SessionID:       s.sessionID,
		State:           s.state,
		StartedAt:       s.startedAt,
		StoppedAt:       s.stoppedAt,
		FramesReceived:  s.received,
		FramesProcessed: s.processor.Frames(),
		FramesDropped:   s.dropped,
		Samples:         s.channels.Samples(),
	}
}

// ChannelValues returns a copy of one channel's samples for inspection.
func (s *SessionController) ChannelValues(ch Channel) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.channels.History(ch).Values()
}
