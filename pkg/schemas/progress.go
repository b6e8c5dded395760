package schemas

// Stage identifies where a production run currently is.
type Stage string

const (
	StageValidating      Stage = "validating"
	StagePlanning        Stage = "planning"
	StageGeneratingVideo Stage = "generating_video"
	StageGeneratingAudio Stage = "generating_audio"
	StageAssembling      Stage = "assembling"
	StageFinalizing      Stage = "finalizing"
	StageCompleted       Stage = "completed"
	StageFailed          Stage = "failed"
)

// ProductionProgress is the progress state of a single run. Percent is
// monotonically non-decreasing within a run. Observers always receive a
// value copy, never a live reference.
type ProductionProgress struct {
	Stage          Stage    `json:"stage"`
	Percent        float64  `json:"percent"`
	CurrentStep    string   `json:"current_step"`
	CompletedSteps []string `json:"completed_steps,omitempty"`
	Errors         []string `json:"errors,omitempty"`
}

// Clone returns a deep copy safe to hand to an observer.
func (p ProductionProgress) Clone() ProductionProgress {
	out := p
	out.CompletedSteps = append([]string(nil), p.CompletedSteps...)
	out.Errors = append([]string(nil), p.Errors...)
	return out
}

// RunState is the lifecycle state of a stored run.
type RunState string

const (
	RunStatePending    RunState = "pending"
	RunStateProcessing RunState = "processing"
	RunStateCompleted  RunState = "completed"
	RunStateFailed     RunState = "failed"
)
