package model

import "time"

type SubmissionStatus string

const (
	SubmissionCompleted SubmissionStatus = "completed"
)

// Submission is a completion record: at most one per (student, task), created
// only by the student themself and never updated through the normal flow.
type Submission struct {
	ID          string           `json:"id"`
	StudentID   string           `json:"student_id"`
	TaskID      string           `json:"task_id"`
	Code        string           `json:"code"`
	Output      string           `json:"output"`
	Status      SubmissionStatus `json:"status"`
	SubmittedAt time.Time        `json:"submitted_at"`
}
