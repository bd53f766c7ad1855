package model

import "time"

type NotificationType string

const (
	NotificationTask       NotificationType = "task"
	NotificationStudent    NotificationType = "student"
	NotificationTeacher    NotificationType = "teacher"
	NotificationSubmission NotificationType = "submission"
)

// Audience is the closed set of notification targets. Broadcast aliases
// (all_teachers, admin_and_students, ...) are members of the same enum so
// matching never falls back to ad-hoc string comparison.
type Audience string

const (
	AudienceAdmin            Audience = "admin"
	AudienceTeacher          Audience = "teacher"
	AudienceStudent          Audience = "student"
	AudienceAllTeachers      Audience = "all_teachers"
	AudienceAllStudents      Audience = "all_students"
	AudienceAdminAndTeachers Audience = "admin_and_teachers"
	AudienceAdminAndStudents Audience = "admin_and_students"
)

// broadcastFor reports whether the audience is a campus/grade-independent
// broadcast that the given role consumes.
func (a Audience) broadcastFor(role Role) bool {
	switch role {
	case RoleTeacher:
		return a == AudienceAllTeachers || a == AudienceAdminAndTeachers
	case RoleStudent:
		return a == AudienceAllStudents || a == AudienceAdminAndStudents
	case RoleAdmin:
		// Admin visibility is handled in VisibleTo; admins see everything.
		return false
	}
	return false
}

// Notification carries a single shared is_read flag even for broadcast
// audiences. Marking a broadcast notification read therefore affects every
// recipient's view at once; this mirrors the product's current behaviour and
// is a flagged ambiguity, not something to silently change here.
type Notification struct {
	ID           string           `json:"id"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Message      string           `json:"message"`
	RelatedID    string           `json:"related_id,omitempty"`
	Audience     Audience         `json:"audience"`
	TargetCampus *string          `json:"target_campus,omitempty"`
	TargetGrade  *string          `json:"target_grade,omitempty"`
	IsRead       bool             `json:"is_read"`
	CreatedAt    time.Time        `json:"created_at"`
}

// VisibleTo is the single visibility predicate shared by list, unread-count
// and mark-read paths. The Postgres repository mirrors it in SQL.
func (n *Notification) VisibleTo(scope Scope) bool {
	switch scope.Role {
	case RoleAdmin:
		return true
	case RoleTeacher:
		if n.Audience.broadcastFor(RoleTeacher) {
			return true
		}
		return n.Audience == AudienceTeacher &&
			scope.Campus != nil && n.TargetCampus != nil && *n.TargetCampus == *scope.Campus
	case RoleStudent:
		if n.Audience.broadcastFor(RoleStudent) {
			return true
		}
		return n.Audience == AudienceStudent &&
			scope.Campus != nil && n.TargetCampus != nil && *n.TargetCampus == *scope.Campus &&
			scope.Grade != nil && n.TargetGrade != nil && *n.TargetGrade == *scope.Grade
	}
	return false
}

// EventKind enumerates the domain events that fan out into notifications.
type EventKind string

const (
	EventTaskCreated       EventKind = "task_created"
	EventTaskUpdated       EventKind = "task_updated"
	EventTaskDeleted       EventKind = "task_deleted"
	EventStudentAdded      EventKind = "student_added"
	EventStudentUpdated    EventKind = "student_updated"
	EventStudentDeleted    EventKind = "student_deleted"
	EventTeacherAdded      EventKind = "teacher_added"
	EventTeacherUpdated    EventKind = "teacher_updated"
	EventTeacherDeleted    EventKind = "teacher_deleted"
	EventSubmissionCreated EventKind = "submission_created"
)

// Event is the payload handed to the fan-out engine by mutating operations.
// Exactly the fields relevant to the kind are set.
type Event struct {
	Kind       EventKind
	Task       *Task
	Student    *Student
	Teacher    *Teacher
	Submission *Submission
}
