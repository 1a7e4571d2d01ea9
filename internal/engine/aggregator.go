package engine

import "gonum.org/v1/gonum/stat"

// AngleStats summarises one tracked angle's characteristic values across all
// reps in a session.
type AngleStats struct {
	Name string     `json:"name"`
	Mean AngleValue `json:"mean"`
	Min  AngleValue `json:"min"`
	Max  AngleValue `json:"max"`

	// Consistency is 100 - (max - min). Deliberately unclamped below zero: a
	// negative score is a meaningful "highly inconsistent" signal, not noise
	// to clip.
	Consistency AngleValue `json:"consistency"`

	// StdDev across reps, undefined with fewer than two defined values.
	StdDev AngleValue `json:"std_dev"`
}

// SessionReport aggregates all completed reps of one session. It is derived:
// recomputable at any point from the ordered RepAnalysis list, never
// incrementally mutated.
type SessionReport struct {
	Exercise       string                 `json:"exercise"`
	RepCount       int                    `json:"rep_count"`
	Angles         []AngleStats           `json:"angles"`
	ErrorCounts    map[string]int         `json:"error_counts"`
	Classification string                 `json:"classification"`
	Corrections    []string               `json:"corrections"`
	Reps           []RepAnalysis          `json:"reps"`
}

// BuildReport folds the session's RepAnalysis records into a SessionReport.
// A zero-rep session still yields a well-formed report carrying the reserved
// insufficient-data classification.
func BuildReport(p *ExerciseProfile, reps []RepAnalysis) SessionReport {
	report := SessionReport{
		Exercise:    p.Exercise,
		RepCount:    len(reps),
		ErrorCounts: make(map[string]int),
		Reps:        reps,
	}

	for _, ta := range p.Angles {
		report.Angles = append(report.Angles, angleStats(ta.Def.Name, reps))
	}

	// Set semantics per rep: a rule firing once or many times in one rep
	// counts that rep exactly once.
	for _, rep := range reps {
		seen := make(map[string]bool, len(rep.Errors))
		for _, e := range rep.Errors {
			if !seen[e.Name] {
				seen[e.Name] = true
				report.ErrorCounts[e.Name]++
			}
		}
	}

	report.Classification, report.Corrections = classify(p, report)
	return report
}

func angleStats(name string, reps []RepAnalysis) AngleStats {
	defined := make([]float64, 0, len(reps))
	for _, rep := range reps {
		if v, ok := rep.Characteristics[name]; ok && v.Valid {
			defined = append(defined, v.Degrees)
		}
	}
	s := AngleStats{Name: name}
	if len(defined) == 0 {
		return s
	}

	min, max := defined[0], defined[0]
	for _, v := range defined[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	s.Mean = Deg(stat.Mean(defined, nil))
	s.Min = Deg(min)
	s.Max = Deg(max)
	s.Consistency = Deg(100 - (max - min))
	if len(defined) >= 2 {
		s.StdDev = Deg(stat.StdDev(defined, nil))
	}
	return s
}

// classify walks the profile's feedback cascade in declaration order and
// returns the first matching classification. First match wins; this must be
// preserved exactly for reproducible output.
func classify(p *ExerciseProfile, report SessionReport) (string, []string) {
	if report.RepCount == 0 {
		return InsufficientDataClassification, p.NoRepCorrections
	}

	for _, rule := range p.Feedback {
		if rule.Angle == "" {
			return rule.Classification, rule.Corrections
		}
		mean := Undefined()
		for _, s := range report.Angles {
			if s.Name == rule.Angle {
				mean = s.Mean
				break
			}
		}
		if !mean.Valid {
			continue
		}
		if rule.Min != nil && mean.Degrees < *rule.Min {
			continue
		}
		if rule.Max != nil && mean.Degrees > *rule.Max {
			continue
		}
		return rule.Classification, rule.Corrections
	}
	return InsufficientDataClassification, p.NoRepCorrections
}
