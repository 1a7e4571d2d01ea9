package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// squatFrame builds a full side-view squat pose whose knee angle is deg.
// Torso stays vertical so only the knee signal drives segmentation.
func squatFrame(index int, deg float64) FrameSample {
	rad := deg * math.Pi / 180
	ankle := Point{X: 100 * math.Sin(rad), Y: 200 - 100*math.Cos(rad)}
	joints := map[JointID]Point{
		JointLeftShoulder:  {0, 0},
		JointRightShoulder: {0, 0},
		JointLeftHip:       {0, 100},
		JointRightHip:      {0, 100},
		JointLeftKnee:      {0, 200},
		JointRightKnee:     {0, 200},
		JointLeftAnkle:     ankle,
		JointRightAnkle:    ankle,
	}
	frame := frameWith(0.9, joints)
	frame.Index = index
	frame.TimeSec = float64(index) / 30
	return frame
}

func newSquatSession(t *testing.T) *Session {
	t.Helper()
	p, err := ProfileFor("squat")
	require.NoError(t, err)
	opts := DefaultSessionOptions()
	minRep, minStart := 5, 0
	opts.MinRepFrames = &minRep
	opts.MinFramesBeforeStart = &minStart
	s, err := NewSession(p, opts)
	require.NoError(t, err)
	return s
}

func TestSessionEndToEndSingleRep(t *testing.T) {
	s := newSquatSession(t)

	signal := []float64{178, 170, 150, 120, 90, 85, 95, 130, 160, 175, 178}
	var completed []*RepAnalysis
	for i, deg := range signal {
		ra, err := s.ProcessFrame(squatFrame(i, deg))
		require.NoError(t, err)
		if ra != nil {
			completed = append(completed, ra)
		}
	}

	require.Len(t, completed, 1)
	rep := completed[0]
	assert.Equal(t, 1, rep.Rep)
	assert.Equal(t, 3, rep.StartFrame)
	assert.Equal(t, 9, rep.EndFrame)

	knee := rep.Characteristics["knee"]
	require.True(t, knee.Valid)
	assert.InDelta(t, 85, knee.Degrees, 0.5)
	assert.Empty(t, rep.Errors)

	report := s.Finish()
	assert.Equal(t, 1, report.RepCount)
	assert.Equal(t, "good_depth", report.Classification)
	assert.Len(t, s.PrimaryTrace(), len(signal))
}

func TestSessionRejectsOutOfOrderFrames(t *testing.T) {
	s := newSquatSession(t)
	_, err := s.ProcessFrame(squatFrame(5, 178))
	require.NoError(t, err)
	_, err = s.ProcessFrame(squatFrame(3, 178))
	assert.Error(t, err)
}

func TestSessionFinishDiscardsOpenRep(t *testing.T) {
	s := newSquatSession(t)
	// Descend past the enter threshold, never come back up.
	for i, deg := range []float64{178, 160, 140, 110, 90} {
		_, err := s.ProcessFrame(squatFrame(i, deg))
		require.NoError(t, err)
	}

	report := s.Finish()
	assert.Equal(t, 0, report.RepCount)
	assert.Equal(t, InsufficientDataClassification, report.Classification)
	assert.NotEmpty(t, report.Corrections)

	_, err := s.ProcessFrame(squatFrame(6, 178))
	assert.Error(t, err)
}

func TestSessionZeroFrames(t *testing.T) {
	s := newSquatSession(t)
	report := s.Finish()
	assert.Equal(t, 0, report.RepCount)
	assert.Equal(t, InsufficientDataClassification, report.Classification)
}

func TestNewSessionRejectsBadOptions(t *testing.T) {
	p, err := ProfileFor("squat")
	require.NoError(t, err)

	opts := DefaultSessionOptions()
	opts.VisibilityFloor = 1.5
	_, err = NewSession(p, opts)
	assert.Error(t, err)

	opts = DefaultSessionOptions()
	bad := -3
	opts.MinRepFrames = &bad
	_, err = NewSession(p, opts)
	assert.Error(t, err)
}

func TestSessionReportMidStream(t *testing.T) {
	s := newSquatSession(t)
	for i, deg := range []float64{178, 170, 150} {
		_, err := s.ProcessFrame(squatFrame(i, deg))
		require.NoError(t, err)
	}
	report := s.Report()
	assert.Equal(t, 0, report.RepCount)
	// Mid-stream reporting does not seal the session.
	_, err := s.ProcessFrame(squatFrame(3, 120))
	assert.NoError(t, err)
}
