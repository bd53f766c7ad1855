package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func targeted(audience Audience, campus, grade string) *Notification {
	n := &Notification{ID: "n1", Type: NotificationTask, Audience: audience}
	if campus != "" {
		n.TargetCampus = &campus
	}
	if grade != "" {
		n.TargetGrade = &grade
	}
	return n
}

func TestVisibleToAdmin(t *testing.T) {
	scope := AdminScope("admin-1")

	assert.True(t, targeted(AudienceAdmin, "", "").VisibleTo(scope))
	assert.True(t, targeted(AudienceTeacher, "Yamuna", "").VisibleTo(scope))
	assert.True(t, targeted(AudienceStudent, "I20", "5th Class").VisibleTo(scope))
}

func TestVisibleToTeacher(t *testing.T) {
	scope := TeacherScope(newTeacher("Yamuna", true, true))

	assert.True(t, targeted(AudienceTeacher, "Yamuna", "").VisibleTo(scope))
	assert.False(t, targeted(AudienceTeacher, "I20", "").VisibleTo(scope))
	assert.False(t, targeted(AudienceAdmin, "", "").VisibleTo(scope))
	assert.False(t, targeted(AudienceStudent, "Yamuna", "5th Class").VisibleTo(scope),
		"student rows stay out of the teacher feed even for the same campus")

	assert.True(t, targeted(AudienceAllTeachers, "", "").VisibleTo(scope))
	assert.True(t, targeted(AudienceAdminAndTeachers, "", "").VisibleTo(scope))
	assert.False(t, targeted(AudienceAllStudents, "", "").VisibleTo(scope))
}

func TestVisibleToStudent(t *testing.T) {
	scope := StudentScope(newStudent("YAM-001", "Yamuna", "5th Class"))

	assert.True(t, targeted(AudienceStudent, "Yamuna", "5th Class").VisibleTo(scope))
	assert.False(t, targeted(AudienceStudent, "Yamuna", "6th Class").VisibleTo(scope))
	assert.False(t, targeted(AudienceStudent, "I20", "5th Class").VisibleTo(scope))
	assert.False(t, targeted(AudienceTeacher, "Yamuna", "").VisibleTo(scope))
	assert.False(t, targeted(AudienceAdmin, "", "").VisibleTo(scope))

	assert.True(t, targeted(AudienceAllStudents, "", "").VisibleTo(scope))
	assert.True(t, targeted(AudienceAdminAndStudents, "", "").VisibleTo(scope))
	assert.False(t, targeted(AudienceAllTeachers, "", "").VisibleTo(scope))
}

func TestVisibleToHandlesMissingTargets(t *testing.T) {
	teacher := TeacherScope(newTeacher("Yamuna", true, true))
	student := StudentScope(newStudent("YAM-001", "Yamuna", "5th Class"))

	// Rows missing their target fields never leak.
	assert.False(t, targeted(AudienceTeacher, "", "").VisibleTo(teacher))
	assert.False(t, targeted(AudienceStudent, "Yamuna", "").VisibleTo(student))
	assert.False(t, targeted(AudienceStudent, "", "").VisibleTo(student))
}
