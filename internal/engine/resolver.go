package engine

// AngleKind selects how an angle definition is derived from a frame.
type AngleKind int

const (
	// AngleJoints derives the angle from a three-joint chain, choosing the
	// more visible body side for bilateral definitions.
	AngleJoints AngleKind = iota
	// AngleTorsoVertical derives the lean of the shoulder midpoint against a
	// vertical reference through the hip midpoint. Image Y grows downward,
	// so the reference point sits at hipMid.Y - verticalReferenceOffset.
	AngleTorsoVertical
)

// verticalReferenceOffset is the synthetic point offset used for midline
// lean angles. The magnitude is irrelevant to the angle, it only fixes the
// ray direction.
const verticalReferenceOffset = 100.0

// AngleDef names the joints an angle needs. Left holds the a-vertex-c chain;
// Right is the mirrored chain for bilateral angles and empty for unilateral
// or midline ones.
type AngleDef struct {
	Name  string
	Kind  AngleKind
	Left  [3]JointID
	Right [3]JointID
}

// Bilateral reports whether the definition carries both side chains.
func (d AngleDef) Bilateral() bool {
	return d.Kind == AngleJoints && d.Right[0] != "" && d.Right[1] != "" && d.Right[2] != ""
}

// ResolveAngles derives one AngleReading per definition from a single frame.
// Side preference for bilateral angles is recomputed independently every
// frame: visibility legitimately flips as the subject rotates, so preference
// is never sticky.
func ResolveAngles(frame FrameSample, defs []AngleDef, visibilityFloor float64) []AngleReading {
	readings := make([]AngleReading, 0, len(defs))
	for _, def := range defs {
		readings = append(readings, AngleReading{
			Name:  def.Name,
			Value: resolveAngle(frame, def, visibilityFloor),
		})
	}
	return readings
}

func resolveAngle(frame FrameSample, def AngleDef, floor float64) AngleValue {
	switch def.Kind {
	case AngleTorsoVertical:
		return torsoVerticalAngle(frame, floor)
	default:
		return chainAngle(frame, def, floor)
	}
}

func chainAngle(frame FrameSample, def AngleDef, floor float64) AngleValue {
	left := tripleAngle(frame, def.Left, floor)
	if !def.Bilateral() {
		return left
	}
	right := tripleAngle(frame, def.Right, floor)

	// Higher mean confidence across the participating joints wins; ties and
	// an unresolvable opposite side fall back to left.
	leftVis := meanVisibility(frame, def.Left)
	rightVis := meanVisibility(frame, def.Right)
	if rightVis > leftVis && right.Valid {
		return right
	}
	if left.Valid {
		return left
	}
	return right
}

func tripleAngle(frame FrameSample, chain [3]JointID, floor float64) AngleValue {
	a, okA := frame.Joint(chain[0], floor)
	b, okB := frame.Joint(chain[1], floor)
	c, okC := frame.Joint(chain[2], floor)
	if !okA || !okB || !okC {
		return Undefined()
	}
	return Angle(a, b, c)
}

func meanVisibility(frame FrameSample, chain [3]JointID) float64 {
	return (frame.visibility(chain[0]) + frame.visibility(chain[1]) + frame.visibility(chain[2])) / 3
}

// torsoVerticalAngle measures forward lean: the angle at the hip midpoint
// between straight up and the shoulder midpoint. 0 is upright.
func torsoVerticalAngle(frame FrameSample, floor float64) AngleValue {
	hipMid, ok := jointMidpoint(frame, JointLeftHip, JointRightHip, floor)
	if !ok {
		return Undefined()
	}
	shoulderMid, ok := jointMidpoint(frame, JointLeftShoulder, JointRightShoulder, floor)
	if !ok {
		return Undefined()
	}
	up := Point{X: hipMid.X, Y: hipMid.Y - verticalReferenceOffset}
	return Angle(up, hipMid, shoulderMid)
}

func jointMidpoint(frame FrameSample, left, right JointID, floor float64) (Point, bool) {
	var lp, rp *Point
	if p, ok := frame.Joint(left, floor); ok {
		lp = &p
	}
	if p, ok := frame.Joint(right, floor); ok {
		rp = &p
	}
	return midpoint(lp, rp)
}
