package model

// TaskStatus represents the status of a backend upload task
type TaskStatus string

const (
	// TaskStatusIdle means no task has been submitted yet
	TaskStatusIdle TaskStatus = "idle"

	// TaskStatusPending means the task is queued on the backend but not started
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusProcessing means the backend is converting/uploading videos
	TaskStatusProcessing TaskStatus = "processing"

	// TaskStatusCompleted means the task finished; individual items may still
	// have failed (see UploadTask.Failed)
	TaskStatusCompleted TaskStatus = "completed"

	// TaskStatusFailed means the task failed as a whole
	TaskStatusFailed TaskStatus = "failed"

	// TaskStatusOuttime means the backend gave up on the task after its
	// internal deadline; treated as a failure by the client
	TaskStatusOuttime TaskStatus = "outtime"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsTerminal returns true if no further status changes can happen
func (ts TaskStatus) IsTerminal() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusFailed || ts == TaskStatusOuttime
}

// IsFailure returns true for the failure-flavored terminal states
func (ts TaskStatus) IsFailure() bool {
	return ts == TaskStatusFailed || ts == TaskStatusOuttime
}

// ParseTaskStatus normalizes a wire status string. The backend reports
// "running" for an in-flight task; everything unknown maps to processing as
// well so that a newer backend does not wedge the poller.
func ParseTaskStatus(raw string) TaskStatus {
	switch raw {
	case "pending":
		return TaskStatusPending
	case "running", "processing":
		return TaskStatusProcessing
	case "completed":
		return TaskStatusCompleted
	case "failed":
		return TaskStatusFailed
	case "outtime":
		return TaskStatusOuttime
	default:
		return TaskStatusProcessing
	}
}
