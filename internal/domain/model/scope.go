package model

// Scope is the visibility/write filter computed once per request from the
// authenticated identity. Every roster-mutating operation takes it explicitly;
// nothing in the core reads ambient session state.
//
// Campus and Grade are nil when unrestricted (admin; teacher has no grade pin).
type Scope struct {
	Role              Role
	UserID            string
	Campus            *string
	Grade             *string
	CanManageStudents bool
	CanManageTasks    bool
}

func AdminScope(userID string) Scope {
	return Scope{
		Role:              RoleAdmin,
		UserID:            userID,
		CanManageStudents: true,
		CanManageTasks:    true,
	}
}

func TeacherScope(t *Teacher) Scope {
	campus := t.Campus
	return Scope{
		Role:              RoleTeacher,
		UserID:            t.TeacherID,
		Campus:            &campus,
		CanManageStudents: t.CanManageStudents,
		CanManageTasks:    t.CanManageTasks,
	}
}

func StudentScope(s *Student) Scope {
	campus, grade := s.Campus, s.Grade
	return Scope{
		Role:   RoleStudent,
		UserID: s.StudentID,
		Campus: &campus,
		Grade:  &grade,
	}
}

// AllowsCampus reports whether records in the given campus are visible.
func (s Scope) AllowsCampus(campus string) bool {
	return s.Campus == nil || *s.Campus == campus
}

// AllowsStudent reports read visibility of a student record.
func (s Scope) AllowsStudent(st *Student) bool {
	if s.Role == RoleStudent {
		return s.UserID == st.StudentID
	}
	return s.AllowsCampus(st.Campus)
}

// AllowsTask reports read visibility of a task.
func (s Scope) AllowsTask(t *Task) bool {
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleTeacher:
		return s.Campus != nil && t.TargetsCampus(*s.Campus)
	case RoleStudent:
		return s.Campus != nil && s.Grade != nil &&
			t.TargetsCampus(*s.Campus) && t.TargetsGrade(*s.Grade)
	}
	return false
}

// CanMutateStudent is the write check for student records. Scope exclusion is
// an authorization failure for the caller to surface, never a silent filter.
func (s Scope) CanMutateStudent(st *Student) bool {
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleTeacher:
		return s.CanManageStudents && s.AllowsCampus(st.Campus)
	}
	return false
}

// CanCreateStudentIn is the write check for adding a student to a campus.
func (s Scope) CanCreateStudentIn(campus string) bool {
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleTeacher:
		return s.CanManageStudents && s.AllowsCampus(campus)
	}
	return false
}

// CanMutateTask is the write check for tasks. Teachers need the manage-tasks
// flag and the task must target their own campus.
func (s Scope) CanMutateTask(t *Task) bool {
	switch s.Role {
	case RoleAdmin:
		return true
	case RoleTeacher:
		return s.CanManageTasks && s.Campus != nil && t.TargetsCampus(*s.Campus)
	}
	return false
}

// CanSubmit reports whether this scope may create a submission against the
// task: students only, for themselves, and only when the task targets their
// campus and grade.
func (s Scope) CanSubmit(t *Task) bool {
	return s.Role == RoleStudent && s.AllowsTask(t)
}
