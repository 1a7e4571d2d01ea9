package engine

// Builtin exercise profiles. Thresholds follow NSCA/ACSM guidance; angle
// chains are shoulder-elbow-wrist and hip-knee-ankle style triples with the
// vertex in the middle.
//
// The same segmentation machinery serves every profile; only the data below
// differs per exercise.
var builtinProfiles = map[string]*ExerciseProfile{
	"squat":        squatProfile,
	"pushup":       pushupProfile,
	"pullup":       pullupProfile,
	"deadlift":     deadliftProfile,
	"bench_press":  benchPressProfile,
	"lat_pulldown": latPulldownProfile,
}

var (
	kneeChainLeft   = [3]JointID{JointLeftHip, JointLeftKnee, JointLeftAnkle}
	kneeChainRight  = [3]JointID{JointRightHip, JointRightKnee, JointRightAnkle}
	hipChainLeft    = [3]JointID{JointLeftShoulder, JointLeftHip, JointLeftKnee}
	hipChainRight   = [3]JointID{JointRightShoulder, JointRightHip, JointRightKnee}
	elbowChainLeft  = [3]JointID{JointLeftShoulder, JointLeftElbow, JointLeftWrist}
	elbowChainRight = [3]JointID{JointRightShoulder, JointRightElbow, JointRightWrist}
	// Upper arm against torso, for pressing flare and pulldown path.
	shoulderChainLeft  = [3]JointID{JointLeftElbow, JointLeftShoulder, JointLeftHip}
	shoulderChainRight = [3]JointID{JointRightElbow, JointRightShoulder, JointRightHip}
)

var squatProfile = &ExerciseProfile{
	Exercise:    "squat",
	Description: "Barbell back squat, side view",
	Angles: []TrackedAngle{
		{
			Def:       AngleDef{Name: "knee", Left: kneeChainLeft, Right: kneeChainRight},
			Ideal:     90, RangeLow: 70, RangeHigh: 100, Critical: true,
			Aggregate: AggregateMin,
		},
		{
			Def:       AngleDef{Name: "hip", Left: hipChainLeft, Right: hipChainRight},
			Ideal:     60, RangeLow: 45, RangeHigh: 75,
			Aggregate: AggregateMin,
		},
		{
			Def:       AngleDef{Name: "torso_lean", Kind: AngleTorsoVertical},
			Ideal:     45, RangeLow: 40, RangeHigh: 50, Critical: true,
			Aggregate: AggregateMax,
		},
	},
	Rules: []Rule{
		{
			Name: "insufficient_depth", Angle: "knee", Threshold: 100, Direction: Above,
			Message:  "Not reaching parallel, sit back deeper",
			Severity: SeverityWarning,
		},
		{
			Name: "forward_lean", Angle: "torso_lean", Threshold: 55, Direction: Above,
			Message:  "Excessive forward lean, bar path compromised",
			Severity: SeverityWarning,
		},
		{
			Name: "collapsed_torso", Angle: "torso_lean", Threshold: 70, Direction: Above,
			Message:  "Torso collapsing over knees, lower back at risk",
			Severity: SeverityDanger,
		},
	},
	Segmentation: Segmentation{
		PrimaryAngle:         "knee",
		Polarity:             PolarityDescending,
		EnterThreshold:       150,
		ExitThreshold:        160,
		DepthThreshold:       120,
		MinRepFrames:         8,
		MinFramesBeforeStart: 15,
	},
	DepthRatings: []DepthRating{
		{Above: 120, Label: "Very Shallow"},
		{Above: 100, Label: "Shallow"},
		{Above: 85, Label: "Good (Parallel)"},
		{Above: 70, Label: "Excellent"},
		{Above: -1, Label: "Very Deep"},
	},
	Feedback: []FeedbackRule{
		{
			Classification: "good_depth",
			Angle:          "knee", Min: f64(85), Max: f64(100),
			Corrections: []string{
				"Great work hitting parallel.",
				"Work on depth consistency.",
				"Increase weight gradually.",
			},
		},
		{
			Classification: "insufficient_depth",
			Angle:          "knee", Min: f64(100),
			Corrections: []string{
				"You are not reaching parallel (90 degree knee angle). Sit back deeper.",
				"Practice with a box or bench.",
				"Improve ankle mobility.",
			},
		},
		{
			Classification: "excellent_depth",
			Corrections: []string{
				"You're going deeper than required.",
				"Maintain control at the bottom.",
			},
		},
	},
	NoRepCorrections: []string{
		"Could not detect full squats. Ensure your whole body is in frame.",
		"Try filming from a side profile for best results.",
	},
}

var pushupProfile = &ExerciseProfile{
	Exercise:    "pushup",
	Description: "Push-up, side view",
	Angles: []TrackedAngle{
		{
			Def:       AngleDef{Name: "elbow", Left: elbowChainLeft, Right: elbowChainRight},
			Ideal:     90, RangeLow: 80, RangeHigh: 100, Critical: true,
			Aggregate: AggregateMin,
		},
		{
			Def:       AngleDef{Name: "shoulder", Left: shoulderChainLeft, Right: shoulderChainRight},
			Ideal:     45, RangeLow: 40, RangeHigh: 50,
			Aggregate: AggregateMean,
		},
	},
	Rules: []Rule{
		{
			Name: "insufficient_depth", Angle: "elbow", Threshold: 100, Direction: Above,
			Message:  "Not reaching 90 degree elbow angle, lower your chest further",
			Severity: SeverityWarning,
		},
		{
			Name: "elbow_flare", Angle: "shoulder", Threshold: 75, Direction: Above,
			Message:  "Elbows flaring out, keep upper arms closer to the torso",
			Severity: SeverityWarning,
		},
		{
			Name: "hip_sag", Predicate: PredicateHipSag, Threshold: 30,
			Message:  "Hips sagging below the shoulder-ankle line, engage core",
			Severity: SeverityDanger,
		},
	},
	Segmentation: Segmentation{
		PrimaryAngle:         "elbow",
		Polarity:             PolarityDescending,
		EnterThreshold:       140,
		ExitThreshold:        160,
		DepthThreshold:       120,
		MinRepFrames:         6,
		MinFramesBeforeStart: 15,
	},
	DepthRatings: []DepthRating{
		{Above: 120, Label: "Very Shallow"},
		{Above: 100, Label: "Shallow"},
		{Above: 80, Label: "Good Depth"},
		{Above: -1, Label: "Excellent Depth"},
	},
	Feedback: []FeedbackRule{
		{
			Classification: "good_depth",
			Angle:          "elbow", Min: f64(80), Max: f64(100),
			Corrections: []string{
				"Hitting proper elbow angle.",
				"Keep body in a straight line.",
			},
		},
		{
			Classification: "insufficient_depth",
			Angle:          "elbow", Min: f64(100),
			Corrections: []string{
				"Not reaching 90 degree elbow angle. Lower your chest further.",
				"Practice hands-elevated pushups.",
			},
		},
		{
			Classification: "excellent_range",
			Corrections: []string{
				"Going deeper than required.",
				"Engage core to prevent hips from dropping.",
			},
		},
	},
	NoRepCorrections: []string{
		"Ensure full extension and side profile view.",
	},
}

var pullupProfile = &ExerciseProfile{
	Exercise:    "pullup",
	Description: "Pull-up, side or front view",
	Angles: []TrackedAngle{
		{
			Def:       AngleDef{Name: "elbow_extension", Left: elbowChainLeft, Right: elbowChainRight},
			Ideal:     170, RangeLow: 160, RangeHigh: 180, Critical: true,
			Aggregate: AggregateMax,
		},
	},
	Rules: []Rule{
		{
			Name: "poor_extension", Angle: "elbow_extension", Threshold: 140, Direction: Below,
			Message:  "Arms never fully straighten, dead hang between reps",
			Severity: SeverityWarning,
		},
		{
			Name: "chin_below_bar", Predicate: PredicateChinNeverOverBar,
			Message:  "Chin never cleared the bar on this rep",
			Severity: SeverityWarning,
		},
	},
	Segmentation: Segmentation{
		PrimaryAngle:         "elbow_extension",
		Polarity:             PolarityDescending,
		EnterThreshold:       150,
		ExitThreshold:        160,
		DepthThreshold:       90,
		MinRepFrames:         6,
		MinFramesBeforeStart: 10,
	},
	DepthRatings: []DepthRating{
		{Above: 160, Label: "Excellent Form"},
		{Above: 140, Label: "Good Range"},
		{Above: -1, Label: "Poor Extension"},
	},
	Feedback: []FeedbackRule{
		{
			Classification: "poor_extension",
			Angle:          "elbow_extension", Max: f64(140),
			Corrections: []string{
				"Fully straighten your arms at the bottom.",
				"Dead hang between reps for max hypertrophy.",
			},
		},
		{
			Classification: "good_range",
			Angle:          "elbow_extension", Min: f64(140), Max: f64(160),
			Corrections: []string{
				"Try to relax into a dead hang for full benefit.",
			},
		},
		{
			Classification: "excellent_form",
			Corrections: []string{
				"Great full range of motion!",
			},
		},
	},
	NoRepCorrections: []string{
		"Ensure your chin clears the bar.",
		"Film from the side or front.",
	},
}

var deadliftProfile = &ExerciseProfile{
	Exercise:    "deadlift",
	Description: "Conventional deadlift, side view",
	Angles: []TrackedAngle{
		{
			Def:       AngleDef{Name: "knee", Left: kneeChainLeft, Right: kneeChainRight},
			Ideal:     115, RangeLow: 110, RangeHigh: 120, Critical: true,
			Aggregate: AggregateMin,
		},
		{
			Def:       AngleDef{Name: "back_angle", Kind: AngleTorsoVertical},
			Ideal:     45, RangeLow: 35, RangeHigh: 55, Critical: true,
			Aggregate: AggregateFirst,
		},
		{
			Def:       AngleDef{Name: "hip", Left: hipChainLeft, Right: hipChainRight},
			Ideal:     170, RangeLow: 160, RangeHigh: 180,
			Aggregate: AggregateMax,
		},
	},
	Rules: []Rule{
		{
			Name: "back_too_horizontal", Angle: "back_angle", Threshold: 55, Direction: Above,
			Message:  "Back too horizontal at start, raise your chest",
			Severity: SeverityDanger,
		},
		{
			Name: "back_too_vertical", Angle: "back_angle", Threshold: 35, Direction: Below,
			Message:  "Back too vertical at start, you're squatting the weight",
			Severity: SeverityWarning,
		},
		{
			Name: "incomplete_lockout", Angle: "hip", Threshold: 160, Direction: Below,
			Message:  "Incomplete lockout, stand up fully and squeeze glutes",
			Severity: SeverityWarning,
		},
	},
	Segmentation: Segmentation{
		PrimaryAngle:         "knee",
		Polarity:             PolarityDescending,
		EnterThreshold:       140,
		ExitThreshold:        170,
		DepthThreshold:       130,
		MinRepFrames:         8,
		MinFramesBeforeStart: 15,
	},
	Feedback: []FeedbackRule{
		{
			Classification: "good_hinge",
			Angle:          "back_angle", Min: f64(35), Max: f64(55),
			Corrections: []string{
				"Keep your back flat and chest up.",
				"Back angle should remain constant off the floor.",
			},
		},
		{
			Classification: "check_setup",
			Corrections: []string{
				"Hips above knees, shoulders slightly ahead of the bar.",
				"Focus on leg drive, not back pull.",
			},
		},
	},
	NoRepCorrections: []string{
		"Ensure you stand up fully to lock out the hips.",
		"Use a side view with the entire body visible.",
	},
}

var benchPressProfile = &ExerciseProfile{
	Exercise:    "bench_press",
	Description: "Barbell bench press, side view",
	Angles: []TrackedAngle{
		{
			Def:       AngleDef{Name: "elbow", Left: elbowChainLeft, Right: elbowChainRight},
			Ideal:     90, RangeLow: 75, RangeHigh: 100, Critical: true,
			Aggregate: AggregateMin,
		},
		{
			Def:       AngleDef{Name: "shoulder", Left: shoulderChainLeft, Right: shoulderChainRight},
			Ideal:     45, RangeLow: 30, RangeHigh: 60,
			Aggregate: AggregateMean,
		},
	},
	Rules: []Rule{
		{
			Name: "partial_press", Angle: "elbow", Threshold: 100, Direction: Above,
			Message:  "Bar not reaching chest level, use full range of motion",
			Severity: SeverityWarning,
		},
		{
			Name: "elbow_flare", Angle: "shoulder", Threshold: 75, Direction: Above,
			Message:  "Elbows flaring past 75 degrees, shoulder impingement risk",
			Severity: SeverityDanger,
		},
	},
	Segmentation: Segmentation{
		PrimaryAngle:         "elbow",
		Polarity:             PolarityDescending,
		EnterThreshold:       140,
		ExitThreshold:        150,
		DepthThreshold:       110,
		MinRepFrames:         6,
		MinFramesBeforeStart: 15,
	},
	DepthRatings: []DepthRating{
		{Above: 110, Label: "Very Shallow"},
		{Above: 100, Label: "Shallow"},
		{Above: 75, Label: "Good Range"},
		{Above: -1, Label: "Full Range"},
	},
	Feedback: []FeedbackRule{
		{
			Classification: "good_range",
			Angle:          "elbow", Min: f64(75), Max: f64(100),
			Corrections: []string{
				"Keep elbows tucked at 45 degrees.",
			},
		},
		{
			Classification: "partial_range",
			Angle:          "elbow", Min: f64(100),
			Corrections: []string{
				"Touch the chest and fully extend on every rep.",
			},
		},
		{
			Classification: "full_range",
			Corrections: []string{
				"Excellent bar travel, maintain control.",
			},
		},
	},
	NoRepCorrections: []string{
		"Ensure full range of motion (touch chest, fully extend).",
	},
}

var latPulldownProfile = &ExerciseProfile{
	Exercise:    "lat_pulldown",
	Description: "Lat pulldown, front view",
	Angles: []TrackedAngle{
		{
			Def:       AngleDef{Name: "elbow", Left: elbowChainLeft, Right: elbowChainRight},
			Ideal:     95, RangeLow: 90, RangeHigh: 100,
			Aggregate: AggregateMin,
		},
		{
			Def:       AngleDef{Name: "torso_lean", Kind: AngleTorsoVertical},
			Ideal:     10, RangeLow: 0, RangeHigh: 15,
			Aggregate: AggregateMax,
		},
	},
	Rules: []Rule{
		{
			Name: "behind_neck", Predicate: PredicateWristBehindHead,
			Message:  "Pulling behind the neck, dangerous for the cervical spine",
			Severity: SeverityCritical,
		},
		{
			Name: "excessive_lean", Angle: "torso_lean", Threshold: 20, Direction: Above,
			Message:  "Leaning back too much, using momentum",
			Severity: SeverityWarning,
		},
		{
			Name: "partial_rom", Angle: "elbow", Threshold: 110, Direction: Above,
			Message:  "Not full range, bar should reach the chest",
			Severity: SeverityWarning,
		},
	},
	Segmentation: Segmentation{
		PrimaryAngle:         "elbow",
		Polarity:             PolarityDescending,
		EnterThreshold:       150,
		ExitThreshold:        160,
		DepthThreshold:       120,
		MinRepFrames:         6,
		MinFramesBeforeStart: 15,
	},
	Feedback: []FeedbackRule{
		{
			Classification: "good_range",
			Angle:          "elbow", Min: f64(85), Max: f64(110),
			Corrections: []string{
				"Bar reaching the upper chest, good control.",
			},
		},
		{
			Classification: "partial_range",
			Angle:          "elbow", Min: f64(110),
			Corrections: []string{
				"Pull the bar all the way to the upper chest.",
			},
		},
		{
			Classification: "full_range",
			Corrections: []string{
				"Full contraction achieved, avoid shrugging at the bottom.",
			},
		},
	},
	NoRepCorrections: []string{
		"Film from the front with arms fully visible.",
	},
}
