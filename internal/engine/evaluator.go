package engine

import "gonum.org/v1/gonum/stat"

// TriggeredError is one form-error record for a completed rep.
type TriggeredError struct {
	Name     string   `json:"name"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// RepAnalysis is the evaluated outcome of one RepSegment. Produced exactly
// once per completed rep and never mutated afterwards.
type RepAnalysis struct {
	Rep        int `json:"rep"`
	StartFrame int `json:"start_frame"`
	EndFrame   int `json:"end_frame"`

	// Characteristics maps each tracked angle name to its profile-chosen
	// statistic over the rep. Angles with zero defined samples stay
	// undefined.
	Characteristics map[string]AngleValue `json:"characteristics"`

	// DepthRating is the profile's label for the primary characteristic,
	// empty when the profile declares no rating bands.
	DepthRating string `json:"depth_rating,omitempty"`

	Errors []TriggeredError `json:"errors"`
}

// EvaluateRep computes a sealed segment's characteristic values and runs the
// profile's form rules. Rules whose inputs are undefined are skipped, not
// reported as satisfied or violated.
func EvaluateRep(seg *RepSegment, p *ExerciseProfile, repIndex int, visibilityFloor float64) RepAnalysis {
	ra := RepAnalysis{
		Rep:             repIndex,
		StartFrame:      seg.StartFrame,
		EndFrame:        seg.EndFrame,
		Characteristics: make(map[string]AngleValue, len(p.Angles)),
	}

	for _, ta := range p.Angles {
		ra.Characteristics[ta.Def.Name] = characteristic(seg.Readings[ta.Def.Name], ta.Aggregate)
	}

	if primary, ok := ra.Characteristics[p.Segmentation.PrimaryAngle]; ok && primary.Valid {
		ra.DepthRating = rateDepth(p.DepthRatings, primary.Degrees)
	}

	for _, rule := range p.Rules {
		if triggered := evalRule(rule, ra.Characteristics, seg, visibilityFloor); triggered {
			ra.Errors = append(ra.Errors, TriggeredError{
				Name:     rule.Name,
				Message:  rule.Message,
				Severity: rule.Severity,
			})
		}
	}
	return ra
}

// characteristic aggregates the defined samples of one angle. Undefined
// samples are excluded; zero defined samples yields undefined.
func characteristic(samples []AngleValue, agg Aggregate) AngleValue {
	defined := make([]float64, 0, len(samples))
	for _, v := range samples {
		if v.Valid {
			defined = append(defined, v.Degrees)
		}
	}
	if len(defined) == 0 {
		return Undefined()
	}

	switch agg {
	case AggregateFirst:
		return Deg(defined[0])
	case AggregateMax:
		max := defined[0]
		for _, v := range defined[1:] {
			if v > max {
				max = v
			}
		}
		return Deg(max)
	case AggregateMean:
		return Deg(stat.Mean(defined, nil))
	default: // AggregateMin
		min := defined[0]
		for _, v := range defined[1:] {
			if v < min {
				min = v
			}
		}
		return Deg(min)
	}
}

func rateDepth(bands []DepthRating, deg float64) string {
	for _, b := range bands {
		if deg > b.Above {
			return b.Label
		}
	}
	return ""
}

func evalRule(rule Rule, chars map[string]AngleValue, seg *RepSegment, floor float64) bool {
	if rule.Predicate != "" {
		fired, ok := evalPredicate(rule, seg, floor)
		return ok && fired
	}

	v, ok := chars[rule.Angle]
	if !ok || !v.Valid {
		return false
	}
	if rule.Direction == Above {
		return v.Degrees > rule.Threshold
	}
	return v.Degrees < rule.Threshold
}
