package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedPrimary drives a segmenter with a bare primary-angle signal. A nil
// entry is an undefined reading.
func feedPrimary(t *testing.T, s *Segmenter, name string, values []*float64) []*RepSegment {
	t.Helper()
	var sealed []*RepSegment
	for i, v := range values {
		reading := AngleReading{Name: name}
		if v != nil {
			reading.Value = Deg(*v)
		}
		frame := FrameSample{Index: i}
		if seg := s.Step(frame, []AngleReading{reading}); seg != nil {
			sealed = append(sealed, seg)
		}
	}
	return sealed
}

func degs(values ...float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		out[i] = &values[i]
	}
	return out
}

var testSeg = Segmentation{
	PrimaryAngle:         "knee",
	Polarity:             PolarityDescending,
	EnterThreshold:       150,
	ExitThreshold:        160,
	DepthThreshold:       90,
	MinRepFrames:         5,
	MinFramesBeforeStart: 0,
}

func TestSegmenterSingleRep(t *testing.T) {
	s := NewSegmenter(testSeg)
	sealed := feedPrimary(t, s, "knee", degs(178, 170, 150, 120, 90, 85, 95, 130, 160, 175, 178))

	require.Len(t, sealed, 1)
	seg := sealed[0]
	assert.Equal(t, 3, seg.StartFrame)
	assert.Equal(t, 9, seg.EndFrame)

	min := characteristic(seg.Readings["knee"], AggregateMin)
	require.True(t, min.Valid)
	assert.InDelta(t, 85, min.Degrees, 1e-9)
}

func TestSegmenterHysteresisBandHolds(t *testing.T) {
	// Oscillation entirely inside (enter, exit) never produces a rep.
	s := NewSegmenter(testSeg)
	sealed := feedPrimary(t, s, "knee", degs(155, 158, 152, 157, 151, 159, 153, 156, 154, 158))
	assert.Empty(t, sealed)
	assert.False(t, s.InRep())
}

func TestSegmenterShallowDipNeverCompletes(t *testing.T) {
	s := NewSegmenter(testSeg)
	sealed := feedPrimary(t, s, "knee", degs(178, 155, 158, 152, 178))
	assert.Empty(t, sealed)
}

func TestSegmenterDepthGuard(t *testing.T) {
	// Crosses enter and exit but bottoms out at 110, above the 90 depth
	// requirement: the open segment stays open (no rep reported).
	s := NewSegmenter(testSeg)
	sealed := feedPrimary(t, s, "knee", degs(178, 145, 120, 110, 120, 145, 165, 170, 175, 178))
	assert.Empty(t, sealed)
}

func TestSegmenterMinDurationGuard(t *testing.T) {
	seg := testSeg
	seg.MinRepFrames = 20
	s := NewSegmenter(seg)
	sealed := feedPrimary(t, s, "knee", degs(178, 145, 85, 165, 178, 178, 178))
	assert.Empty(t, sealed, "a 2-frame flicker must not count as a rep")
}

func TestSegmenterStartGuard(t *testing.T) {
	seg := testSeg
	seg.MinFramesBeforeStart = 5
	s := NewSegmenter(seg)
	// The dip happens while the session is still inside the setup window.
	sealed := feedPrimary(t, s, "knee", degs(145, 85, 120, 165, 178))
	assert.Empty(t, sealed)

	// After the window, the same excursion counts.
	s = NewSegmenter(seg)
	sealed = feedPrimary(t, s, "knee", degs(178, 178, 178, 178, 178, 178, 145, 120, 85, 95, 130, 150, 165, 178))
	assert.Len(t, sealed, 1)
}

func TestSegmenterUndefinedHoldsState(t *testing.T) {
	s := NewSegmenter(testSeg)
	values := []*float64{degs(178)[0], degs(145)[0], degs(85)[0], nil, nil, degs(95)[0], degs(130)[0], degs(165)[0], degs(178)[0]}
	sealed := feedPrimary(t, s, "knee", values)

	require.Len(t, sealed, 1)
	// Undefined frames are appended, preserving frame alignment.
	assert.Len(t, sealed[0].Readings["knee"], sealed[0].EndFrame-sealed[0].StartFrame+1)
	var undefCount int
	for _, v := range sealed[0].Readings["knee"] {
		if !v.Valid {
			undefCount++
		}
	}
	assert.Equal(t, 2, undefCount)
}

func TestSegmenterMultipleReps(t *testing.T) {
	s := NewSegmenter(testSeg)
	one := degs(178, 145, 110, 85, 100, 130, 150, 165, 178)
	signal := append(append([]*float64{}, one...), one...)
	sealed := feedPrimary(t, s, "knee", signal)
	assert.Len(t, sealed, 2)
}

func TestSegmenterDiscard(t *testing.T) {
	s := NewSegmenter(testSeg)
	feedPrimary(t, s, "knee", degs(178, 145, 85))
	require.True(t, s.InRep())
	s.Discard()
	assert.False(t, s.InRep())
}

func TestSegmenterAscendingPolarity(t *testing.T) {
	// Deadlift-style hip drive: rep enters when the angle rises through the
	// enter threshold, must peak at or above depth, exits dropping below.
	s := NewSegmenter(Segmentation{
		PrimaryAngle:   "hip",
		Polarity:       PolarityAscending,
		EnterThreshold: 100,
		ExitThreshold:  90,
		DepthThreshold: 160,
		MinRepFrames:   3,
	})
	sealed := feedPrimary(t, s, "hip", degs(60, 70, 110, 140, 170, 150, 110, 85, 70))
	require.Len(t, sealed, 1)
	max := characteristic(sealed[0].Readings["hip"], AggregateMax)
	assert.InDelta(t, 170, max.Degrees, 1e-9)
}

func TestSegmenterIgnoresOtherReadings(t *testing.T) {
	s := NewSegmenter(testSeg)
	var sealed int
	for i, v := range []float64{178, 145, 85, 95, 130, 150, 165, 178} {
		readings := []AngleReading{
			{Name: "torso_lean", Value: Deg(40)},
			{Name: "knee", Value: Deg(v)},
		}
		if seg := s.Step(FrameSample{Index: i}, readings); seg != nil {
			sealed++
			// All tracked angles buffered, frame-aligned.
			assert.Equal(t, len(seg.Readings["knee"]), len(seg.Readings["torso_lean"]))
		}
	}
	assert.Equal(t, 1, sealed)
}
