package model

import "time"

type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description"`
	Language     string    `json:"language"`
	CampusTarget []string  `json:"campus_target"`
	GradeTarget  []string  `json:"grade_target"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (t *Task) TargetsCampus(campus string) bool {
	for _, c := range t.CampusTarget {
		if c == campus {
			return true
		}
	}
	return false
}

func (t *Task) TargetsGrade(grade string) bool {
	for _, g := range t.GradeTarget {
		if g == grade {
			return true
		}
	}
	return false
}
