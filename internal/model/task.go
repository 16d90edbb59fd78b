package model

import "time"

// UploadTask mirrors the backend's task record as returned by the
// check-task endpoint. The client never mutates it; each poll replaces the
// previous snapshot wholesale.
type UploadTask struct {
	ID        string       `json:"id"`
	Status    string       `json:"status"`
	Progress  int          `json:"progress"` // 0 to 100
	Total     int          `json:"total"`
	Success   []string     `json:"success"`
	Failed    []FailedItem `json:"failed"`
	Error     string       `json:"error"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// FailedItem describes a single video the backend could not process
type FailedItem struct {
	Title string `json:"title,omitempty"`
	Error string `json:"error,omitempty"`
}

// TaskStatusValue returns the normalized status enum for the task
func (t *UploadTask) TaskStatusValue() TaskStatus {
	return ParseTaskStatus(t.Status)
}

// HasFailures returns true if the task finished with at least one failed item
func (t *UploadTask) HasFailures() bool {
	return len(t.Failed) > 0
}

// ClampedProgress returns the progress bounded to [0,100]
func (t *UploadTask) ClampedProgress() int {
	if t.Progress < 0 {
		return 0
	}
	if t.Progress > 100 {
		return 100
	}
	return t.Progress
}
