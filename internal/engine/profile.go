package engine

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownExercise is returned by ProfileFor for identifiers without a
// registered profile. Unknown identifiers are a configuration error, never a
// runtime fallback to some default exercise.
var ErrUnknownExercise = errors.New("unknown exercise")

// Aggregate selects the characteristic statistic summarising one tracked
// angle over a completed rep. Different angles within one exercise
// legitimately need different statistics ("back angle at lift start" vs
// "minimum knee angle reached").
type Aggregate string

const (
	AggregateFirst Aggregate = "first"
	AggregateMin   Aggregate = "min"
	AggregateMax   Aggregate = "max"
	AggregateMean  Aggregate = "mean"
)

// Severity grades a triggered form error. Informational metadata only: no
// severity alters segmentation or aborts other rules.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityDanger   Severity = "danger"
	SeverityCritical Severity = "critical"
)

// Direction is the comparison side of a threshold rule.
type Direction string

const (
	Above Direction = "above"
	Below Direction = "below"
)

// Predicate names a boolean geometric condition computed from raw joint
// positions. The set is closed so profiles stay declarative and testable.
type Predicate string

const (
	// PredicateWristBehindHead fires when either wrist is above shoulder
	// height on the opposite side of the shoulder midline from the nose
	// (behind-the-neck pulldown hazard).
	PredicateWristBehindHead Predicate = "wrist_behind_head"
	// PredicateChinNeverOverBar fires when the nose never rises above the
	// wrist line during the rep (pull-up that never cleared the bar).
	PredicateChinNeverOverBar Predicate = "chin_never_over_bar"
	// PredicateHipSag fires when the hip midpoint drops below the
	// shoulder-ankle line by more than the rule threshold.
	PredicateHipSag Predicate = "hip_sag"
)

// TrackedAngle is one profile-declared angle with its biomechanical target.
type TrackedAngle struct {
	Def       AngleDef
	Ideal     float64
	RangeLow  float64
	RangeHigh float64
	Critical  bool
	Aggregate Aggregate
}

// Rule is one form-error rule. Threshold rules compare a named characteristic
// value against Threshold in the given Direction; predicate rules dispatch on
// the named geometric condition instead (Angle empty, Predicate set).
type Rule struct {
	Name      string
	Angle     string
	Threshold float64
	Direction Direction
	Predicate Predicate
	Message   string
	Severity  Severity
}

// Polarity is the segmenter trigger direction. A squat's primary angle
// shrinks at the bottom of the movement; a pull-up's shrinks at the top, so
// its rep is driven by the angle growing back through the thresholds.
type Polarity int

const (
	// PolarityDescending enters a rep when the primary angle drops below the
	// enter threshold and exits when it rises above the exit threshold.
	PolarityDescending Polarity = iota
	// PolarityAscending mirrors the comparisons.
	PolarityAscending
)

// Segmentation holds the hysteresis parameters driving rep detection.
type Segmentation struct {
	PrimaryAngle         string
	Polarity             Polarity
	EnterThreshold       float64
	ExitThreshold        float64
	DepthThreshold       float64
	MinRepFrames         int
	MinFramesBeforeStart int
}

// DepthRating labels one band of the primary characteristic value. Bands are
// evaluated top-down; the first band whose Above bound is exceeded wins.
type DepthRating struct {
	Above float64
	Label string
}

// FeedbackRule is one step of the session feedback cascade. The first rule
// whose condition matches the session aggregates classifies the session, in
// declaration order. A rule with an empty Angle always matches.
type FeedbackRule struct {
	Classification string
	Corrections    []string

	// Condition: mean of the named characteristic across reps within
	// [Min, Max]. Nil bounds are unbounded. An undefined aggregate never
	// matches.
	Angle string
	Min   *float64
	Max   *float64
}

// InsufficientDataClassification is reserved for sessions with zero completed
// reps. It is reported, never an error.
const InsufficientDataClassification = "insufficient_data"

// ExerciseProfile is the static biomechanical spec for one exercise. Loaded
// once, shared read-only across sessions.
type ExerciseProfile struct {
	Exercise     string
	Description  string
	Angles       []TrackedAngle
	Rules        []Rule
	Segmentation Segmentation
	DepthRatings []DepthRating
	Feedback     []FeedbackRule

	// NoRepCorrections is coaching text attached to the insufficient-data
	// classification.
	NoRepCorrections []string
}

// Validate rejects profiles that would misbehave mid-stream. Called at
// session setup, before any frame is processed.
func (p *ExerciseProfile) Validate() error {
	if p.Exercise == "" {
		return errors.New("profile missing exercise identifier")
	}
	if len(p.Angles) == 0 {
		return fmt.Errorf("profile %s declares no tracked angles", p.Exercise)
	}

	seg := p.Segmentation
	if p.angle(seg.PrimaryAngle) == nil {
		return fmt.Errorf("profile %s: primary angle %q is not a tracked angle", p.Exercise, seg.PrimaryAngle)
	}
	// The hysteresis band must be non-degenerate for the configured
	// polarity, otherwise a single rep's natural oscillation near one
	// cutoff segments into spurious reps.
	switch seg.Polarity {
	case PolarityDescending:
		if !(seg.EnterThreshold < seg.ExitThreshold) {
			return fmt.Errorf("profile %s: enter threshold %.1f must be below exit threshold %.1f",
				p.Exercise, seg.EnterThreshold, seg.ExitThreshold)
		}
	case PolarityAscending:
		if !(seg.EnterThreshold > seg.ExitThreshold) {
			return fmt.Errorf("profile %s: enter threshold %.1f must be above exit threshold %.1f for ascending polarity",
				p.Exercise, seg.EnterThreshold, seg.ExitThreshold)
		}
	default:
		return fmt.Errorf("profile %s: unknown polarity %d", p.Exercise, seg.Polarity)
	}
	if seg.MinRepFrames < 0 || seg.MinFramesBeforeStart < 0 {
		return fmt.Errorf("profile %s: negative frame guards", p.Exercise)
	}

	for _, r := range p.Rules {
		if r.Predicate != "" {
			continue
		}
		if p.angle(r.Angle) == nil {
			return fmt.Errorf("profile %s: rule %s references unknown angle %q", p.Exercise, r.Name, r.Angle)
		}
		if r.Direction != Above && r.Direction != Below {
			return fmt.Errorf("profile %s: rule %s has invalid direction %q", p.Exercise, r.Name, r.Direction)
		}
	}
	for _, f := range p.Feedback {
		if f.Angle != "" && p.angle(f.Angle) == nil {
			return fmt.Errorf("profile %s: feedback %s references unknown angle %q", p.Exercise, f.Classification, f.Angle)
		}
	}
	return nil
}

// angle returns the tracked angle with the given name, or nil.
func (p *ExerciseProfile) angle(name string) *TrackedAngle {
	for i := range p.Angles {
		if p.Angles[i].Def.Name == name {
			return &p.Angles[i]
		}
	}
	return nil
}

// AngleDefs returns the resolver inputs for this profile.
func (p *ExerciseProfile) AngleDefs() []AngleDef {
	defs := make([]AngleDef, len(p.Angles))
	for i, a := range p.Angles {
		defs[i] = a.Def
	}
	return defs
}

// ProfileFor looks up a registered profile by exercise identifier.
func ProfileFor(exercise string) (*ExerciseProfile, error) {
	p, ok := builtinProfiles[exercise]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExercise, exercise)
	}
	return p, nil
}

// Exercises lists the registered exercise identifiers, sorted.
func Exercises() []string {
	names := make([]string, 0, len(builtinProfiles))
	for name := range builtinProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func f64(v float64) *float64 { return &v }
