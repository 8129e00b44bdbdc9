package dashscope

// Task status values reported by the service. The set is remote-defined;
// anything other than StatusSucceeded means the artifacts are not ready.
const (
	StatusPending   = "PENDING"
	StatusRunning   = "RUNNING"
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
	StatusCanceled  = "CANCELED"
	StatusUnknown   = "UNKNOWN"
)

// GenerationRequest carries the caller-facing parameters for one submission.
// Zero values for Size, Seed, and Steps mean "apply the default".
type GenerationRequest struct {
	Prompt string
	Size   string
	Seed   *int
	Steps  *int
}

// synthesisRequest is the wire shape of the submit call.
type synthesisRequest struct {
	Model      string          `json:"model"`
	Input      synthesisInput  `json:"input"`
	Parameters synthesisParams `json:"parameters"`
}

type synthesisInput struct {
	Prompt string `json:"prompt"`
}

type synthesisParams struct {
	Size  string `json:"size"`
	N     int    `json:"n"`
	Seed  int    `json:"seed"`
	Steps int    `json:"steps"`
}

// TaskEnvelope is the parsed portion of a task response. Only the fields the
// retrieval flow branches on are decoded; callers receive the raw body too.
type TaskEnvelope struct {
	RequestID string     `json:"request_id"`
	Output    TaskOutput `json:"output"`
}

// TaskOutput holds the task state and, on success, the artifact list.
type TaskOutput struct {
	TaskID     string       `json:"task_id"`
	TaskStatus string       `json:"task_status"`
	Results    []TaskResult `json:"results,omitempty"`
	Code       string       `json:"code,omitempty"`
	Message    string       `json:"message,omitempty"`
}

// TaskResult is a single generated artifact.
type TaskResult struct {
	URL string `json:"url"`
}
