package engine

// JointID names one tracked anatomical point. The set matches what the pose
// collaborator reports for every frame.
type JointID string

const (
	JointNose          JointID = "nose"
	JointLeftShoulder  JointID = "left_shoulder"
	JointRightShoulder JointID = "right_shoulder"
	JointLeftElbow     JointID = "left_elbow"
	JointRightElbow    JointID = "right_elbow"
	JointLeftWrist     JointID = "left_wrist"
	JointRightWrist    JointID = "right_wrist"
	JointLeftHip       JointID = "left_hip"
	JointRightHip      JointID = "right_hip"
	JointLeftKnee      JointID = "left_knee"
	JointRightKnee     JointID = "right_knee"
	JointLeftAnkle     JointID = "left_ankle"
	JointRightAnkle    JointID = "right_ankle"
)

// JointSample is one observed joint in one frame. Visibility is the pose
// model's confidence in [0, 1].
type JointSample struct {
	Pos        Point   `json:"pos"`
	Visibility float64 `json:"visibility"`
}

// FrameSample is one frame's full observation. Joints absent from the map
// were not detected at all; joints below the session's visibility floor are
// treated as undefined by the resolver. Immutable once produced.
type FrameSample struct {
	Index   int                     `json:"index"`
	TimeSec float64                 `json:"time_sec"`
	Joints  map[JointID]JointSample `json:"joints"`
}

// Joint returns the position of the named joint when it is present and at
// least as visible as floor.
func (f FrameSample) Joint(id JointID, floor float64) (Point, bool) {
	s, ok := f.Joints[id]
	if !ok || s.Visibility < floor {
		return Point{}, false
	}
	return s.Pos, true
}

// visibility returns the reported confidence for a joint, zero when absent.
func (f FrameSample) visibility(id JointID) float64 {
	return f.Joints[id].Visibility
}

// AngleReading is a named derived angle for one frame.
type AngleReading struct {
	Name  string     `json:"name"`
	Value AngleValue `json:"value"`
}
