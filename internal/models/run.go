package models

// RunStatus is the terminal status of a logged service run.
type RunStatus string

const (
	RunStatusSuccess RunStatus = "success"
	RunStatusFailed  RunStatus = "failed"
)

// ErrorTrace is the structured form of a traceback block captured from a
// run transcript. FullTrace holds the verbatim line sequence in order;
// Type is the final trace line, Message the substring after its first
// colon, Location the line beginning with `File "`.
type ErrorTrace struct {
	Type      *string  `json:"type"`
	Message   *string  `json:"message"`
	Location  *string  `json:"location"`
	FullTrace []string `json:"full_trace"`
}

// RunRecord is one delimited service-log run: the service name from the
// start marker, its ordered step descriptions, and the failure evidence if
// a traceback occurred before the end marker.
//
// Invariant: Status == RunStatusFailed iff ErrorTrace is non-nil.
type RunRecord struct {
	FileID       string      `json:"file_id"`
	Service      string      `json:"service"`
	TaskURL      *string     `json:"task_url"`
	Steps        []string    `json:"steps"`
	Status       RunStatus   `json:"status"`
	ErrorMessage *string     `json:"error_message"`
	ErrorTrace   *ErrorTrace `json:"error_trace"`
}

// Failed reports whether the run terminated with a captured traceback.
func (r *RunRecord) Failed() bool {
	return r.Status == RunStatusFailed
}
