package engine

// RepSegment is one detected repetition. Only completed segments escape the
// segmenter; an open rep is internal state.
type RepSegment struct {
	StartFrame int
	EndFrame   int

	// Readings holds every tracked angle's per-frame values, frame-aligned
	// across angles. Undefined readings are kept, not dropped.
	Readings map[string][]AngleValue

	// Frames carries the raw joint observations for predicate rules.
	Frames []FrameSample
}

type segmenterPhase int

const (
	phaseIdle segmenterPhase = iota
	phaseInRep
)

// Segmenter is the hysteresis state machine turning a noisy primary-angle
// signal into completed RepSegments. It owns the only long-lived mutable
// state in the engine and must see frames in non-decreasing index order.
type Segmenter struct {
	seg        Segmentation
	phase      segmenterPhase
	framesSeen int

	open    *RepSegment
	extreme AngleValue // most contracted primary value in the open segment
}

// NewSegmenter assumes seg came from a validated profile.
func NewSegmenter(seg Segmentation) *Segmenter {
	return &Segmenter{seg: seg}
}

// InRep reports whether a repetition is currently being accumulated.
func (s *Segmenter) InRep() bool {
	return s.phase == phaseInRep
}

// Step consumes one frame's readings and returns a sealed RepSegment when
// this frame completed a repetition, else nil.
//
// An undefined primary reading never drives a transition: the machine holds
// its phase and waits for the next defined reading. While in a rep, every
// frame is appended regardless, preserving frame alignment with duration.
func (s *Segmenter) Step(frame FrameSample, readings []AngleReading) *RepSegment {
	s.framesSeen++

	primary := Undefined()
	for _, r := range readings {
		if r.Name == s.seg.PrimaryAngle {
			primary = r.Value
			break
		}
	}

	if s.phase == phaseInRep {
		s.append(frame, readings)
		if primary.Valid && s.contracted(primary) {
			s.extreme = primary
		}
	}

	if !primary.Valid {
		return nil
	}

	switch s.phase {
	case phaseIdle:
		// The start-of-session guard rejects spurious triggers while the
		// subject is still setting up in front of the camera.
		if s.crossedEnter(primary.Degrees) && s.framesSeen > s.seg.MinFramesBeforeStart {
			s.openSegment(frame, readings, primary)
		}
	case phaseInRep:
		if s.crossedExit(primary.Degrees) &&
			frame.Index-s.open.StartFrame > s.seg.MinRepFrames &&
			s.depthReached() {
			return s.seal(frame.Index)
		}
	}
	return nil
}

// Discard drops any open, incomplete segment. Called at end of stream: an
// incomplete rep is never reported.
func (s *Segmenter) Discard() {
	s.phase = phaseIdle
	s.open = nil
	s.extreme = Undefined()
}

func (s *Segmenter) openSegment(frame FrameSample, readings []AngleReading, primary AngleValue) {
	s.phase = phaseInRep
	s.open = &RepSegment{
		StartFrame: frame.Index,
		Readings:   make(map[string][]AngleValue, len(readings)),
	}
	s.extreme = primary
	s.append(frame, readings)
}

func (s *Segmenter) append(frame FrameSample, readings []AngleReading) {
	for _, r := range readings {
		s.open.Readings[r.Name] = append(s.open.Readings[r.Name], r.Value)
	}
	s.open.Frames = append(s.open.Frames, frame)
}

func (s *Segmenter) seal(endFrame int) *RepSegment {
	seg := s.open
	seg.EndFrame = endFrame
	s.phase = phaseIdle
	s.open = nil
	s.extreme = Undefined()
	return seg
}

func (s *Segmenter) crossedEnter(deg float64) bool {
	if s.seg.Polarity == PolarityAscending {
		return deg > s.seg.EnterThreshold
	}
	return deg < s.seg.EnterThreshold
}

func (s *Segmenter) crossedExit(deg float64) bool {
	if s.seg.Polarity == PolarityAscending {
		return deg < s.seg.ExitThreshold
	}
	return deg > s.seg.ExitThreshold
}

// contracted reports whether v is further into the movement than the current
// extreme.
func (s *Segmenter) contracted(v AngleValue) bool {
	if !s.extreme.Valid {
		return true
	}
	if s.seg.Polarity == PolarityAscending {
		return v.Degrees > s.extreme.Degrees
	}
	return v.Degrees < s.extreme.Degrees
}

// depthReached rejects reps that entered the band but never reached
// sufficient range of motion.
func (s *Segmenter) depthReached() bool {
	if !s.extreme.Valid {
		return false
	}
	if s.seg.Polarity == PolarityAscending {
		return s.extreme.Degrees >= s.seg.DepthThreshold
	}
	return s.extreme.Degrees <= s.seg.DepthThreshold
}
