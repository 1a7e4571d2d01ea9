package engine

import (
	"fmt"
)

// DefaultVisibilityFloor is the confidence below which a reported joint is
// treated as undefined.
const DefaultVisibilityFloor = 0.5

// SessionOptions carries tuning overrides applied on top of the profile.
// Nil pointer fields keep the profile's value.
type SessionOptions struct {
	VisibilityFloor      float64
	MinRepFrames         *int
	MinFramesBeforeStart *int
}

// DefaultSessionOptions returns options with no overrides.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{VisibilityFloor: DefaultVisibilityFloor}
}

// TracePoint is one frame of the primary-angle signal, kept for reporting.
type TracePoint struct {
	Frame int        `json:"frame"`
	Value AngleValue `json:"value"`
}

// Session is the synchronous fold over one frame stream: resolver ->
// segmenter -> evaluator -> aggregator, one frame at a time, no backward
// edges. One instance per stream; instances share nothing, so independent
// sessions may run on separate goroutines without locking.
type Session struct {
	profile *ExerciseProfile
	opts    SessionOptions
	defs    []AngleDef

	segmenter *Segmenter
	reps      []RepAnalysis
	trace     []TracePoint
	lastIndex int
	started   bool
	finished  bool
}

// NewSession validates the profile and tuning before any frame is processed;
// configuration errors are fatal at setup, never discovered mid-stream.
func NewSession(p *ExerciseProfile, opts SessionOptions) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}
	if opts.VisibilityFloor < 0 || opts.VisibilityFloor > 1 {
		return nil, fmt.Errorf("visibility floor %.2f outside [0,1]", opts.VisibilityFloor)
	}

	seg := p.Segmentation
	if opts.MinRepFrames != nil {
		if *opts.MinRepFrames < 0 {
			return nil, fmt.Errorf("min rep frames override %d is negative", *opts.MinRepFrames)
		}
		seg.MinRepFrames = *opts.MinRepFrames
	}
	if opts.MinFramesBeforeStart != nil {
		if *opts.MinFramesBeforeStart < 0 {
			return nil, fmt.Errorf("min frames before start override %d is negative", *opts.MinFramesBeforeStart)
		}
		seg.MinFramesBeforeStart = *opts.MinFramesBeforeStart
	}

	return &Session{
		profile:   p,
		opts:      opts,
		defs:      p.AngleDefs(),
		segmenter: NewSegmenter(seg),
	}, nil
}

// Profile returns the session's (shared, read-only) profile.
func (s *Session) Profile() *ExerciseProfile {
	return s.profile
}

// ProcessFrame consumes one frame and returns the RepAnalysis when this
// frame completed a repetition, else nil. Frames must arrive in
// non-decreasing index order.
func (s *Session) ProcessFrame(frame FrameSample) (*RepAnalysis, error) {
	if s.finished {
		return nil, fmt.Errorf("session already finished")
	}
	if s.started && frame.Index < s.lastIndex {
		return nil, fmt.Errorf("frame %d arrived after frame %d", frame.Index, s.lastIndex)
	}
	s.started = true
	s.lastIndex = frame.Index

	readings := ResolveAngles(frame, s.defs, s.opts.VisibilityFloor)
	for _, r := range readings {
		if r.Name == s.profile.Segmentation.PrimaryAngle {
			s.trace = append(s.trace, TracePoint{Frame: frame.Index, Value: r.Value})
			break
		}
	}

	seg := s.segmenter.Step(frame, readings)
	if seg == nil {
		return nil, nil
	}

	ra := EvaluateRep(seg, s.profile, len(s.reps)+1, s.opts.VisibilityFloor)
	s.reps = append(s.reps, ra)
	return &ra, nil
}

// Reps returns the analyses completed so far, in order.
func (s *Session) Reps() []RepAnalysis {
	return s.reps
}

// PrimaryTrace returns the primary angle's per-frame signal seen so far.
func (s *Session) PrimaryTrace() []TracePoint {
	return s.trace
}

// Report builds the aggregate report from the reps completed so far. Safe to
// call mid-stream; the report is always recomputed from scratch.
func (s *Session) Report() SessionReport {
	return BuildReport(s.profile, s.reps)
}

// Finish seals the session: any open, incomplete rep is discarded and the
// final report returned. A truncated stream degrades gracefully; a session
// with zero completed reps still reports, it never errors.
func (s *Session) Finish() SessionReport {
	s.segmenter.Discard()
	s.finished = true
	return s.Report()
}
