package pipeline

// State is the lifecycle position of an Orchestrator.
type State int

const (
	// StateIdle has nothing staged; Start is disabled.
	StateIdle State = iota
	// StateStagedValid holds a batch that passed validation.
	StateStagedValid
	// StateStagedInvalid follows a failed validation. The batch has already
	// been cleared and the verdict carries the reason.
	StateStagedInvalid
	StateUploading
	// StateCompleted follows a successful upload. Nothing is staged.
	StateCompleted
	// StateFailed keeps the batch so Start can be retried.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStagedValid:
		return "staged_valid"
	case StateStagedInvalid:
		return "staged_invalid"
	case StateUploading:
		return "uploading"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
