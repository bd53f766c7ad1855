package model

import "time"

type Admin struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Teacher IDs are derived from campus code and a per-campus sequence
// (e.g. "YAM-T003") and are never reused.
type Teacher struct {
	TeacherID         string    `json:"teacher_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Campus            string    `json:"campus"`
	CanManageStudents bool      `json:"can_manage_students"`
	CanManageTasks    bool      `json:"can_manage_tasks"`
	HashedPassword    string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Student IDs follow the same campus-sequence scheme (e.g. "YAM-012").
type Student struct {
	StudentID      string    `json:"student_id"`
	Name           string    `json:"name"`
	Campus         string    `json:"campus"`
	Grade          string    `json:"grade"`
	Section        string    `json:"section"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
