package engine

// Predicate rules look at raw joint positions across a sealed segment rather
// than a single characteristic value. Each returns (fired, ok); ok is false
// when the required joints were never defined, in which case the rule is
// skipped entirely.
func evalPredicate(rule Rule, seg *RepSegment, floor float64) (fired, ok bool) {
	switch rule.Predicate {
	case PredicateWristBehindHead:
		return wristBehindHead(seg, floor)
	case PredicateChinNeverOverBar:
		return chinNeverOverBar(seg, floor)
	case PredicateHipSag:
		return hipSag(seg, rule.Threshold, floor)
	default:
		return false, false
	}
}

// wristBehindHead fires when either wrist, while above shoulder height, sits
// on the opposite side of the shoulder midline from the nose. Image Y grows
// downward throughout.
func wristBehindHead(seg *RepSegment, floor float64) (bool, bool) {
	sawInputs := false
	for _, frame := range seg.Frames {
		nose, okNose := frame.Joint(JointNose, floor)
		shoulderMid, okMid := jointMidpoint(frame, JointLeftShoulder, JointRightShoulder, floor)
		if !okNose || !okMid {
			continue
		}
		facing := nose.X - shoulderMid.X
		for _, id := range []JointID{JointLeftWrist, JointRightWrist} {
			wrist, okW := frame.Joint(id, floor)
			if !okW {
				continue
			}
			sawInputs = true
			aboveShoulders := wrist.Y < shoulderMid.Y
			behind := (wrist.X-shoulderMid.X)*facing < 0
			if aboveShoulders && behind {
				return true, true
			}
		}
	}
	return false, sawInputs
}

// chinNeverOverBar fires when no frame in the rep has the nose above the
// gripping wrist. The more visible wrist stands in for the bar.
func chinNeverOverBar(seg *RepSegment, floor float64) (bool, bool) {
	sawInputs := false
	for _, frame := range seg.Frames {
		nose, okNose := frame.Joint(JointNose, floor)
		if !okNose {
			continue
		}
		wristID := JointLeftWrist
		if frame.visibility(JointRightWrist) > frame.visibility(JointLeftWrist) {
			wristID = JointRightWrist
		}
		wrist, okW := frame.Joint(wristID, floor)
		if !okW {
			continue
		}
		sawInputs = true
		if nose.Y < wrist.Y {
			return false, true
		}
	}
	return true, sawInputs
}

// hipSag fires when the hip midpoint drops below the shoulder-ankle line by
// more than margin (same units as the joint coordinates) in any frame.
func hipSag(seg *RepSegment, margin float64, floor float64) (bool, bool) {
	sawInputs := false
	for _, frame := range seg.Frames {
		shoulderMid, okS := jointMidpoint(frame, JointLeftShoulder, JointRightShoulder, floor)
		hipMid, okH := jointMidpoint(frame, JointLeftHip, JointRightHip, floor)
		ankleMid, okA := jointMidpoint(frame, JointLeftAnkle, JointRightAnkle, floor)
		if !okS || !okH || !okA {
			continue
		}
		dist, okD := pointLineDistance(hipMid, shoulderMid, ankleMid)
		if !okD {
			continue
		}
		sawInputs = true
		// Only sag below the line counts; a piked hip above it is a
		// different fault.
		lineY := shoulderMid.Y + (ankleMid.Y-shoulderMid.Y)*lineParam(hipMid, shoulderMid, ankleMid)
		if hipMid.Y > lineY && dist > margin {
			return true, true
		}
	}
	return false, sawInputs
}

// lineParam returns the projection parameter of p onto the a-b segment.
func lineParam(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l := dx*dx + dy*dy
	if l < minRayLength {
		return 0
	}
	return ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l
}
