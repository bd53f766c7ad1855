package service

import (
	"context"
	"errors"
	"sync"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
)

// In-memory repository fakes. They mirror the Postgres implementations'
// contracts (sentinel errors, duplicate detection) closely enough for the
// service layer to be exercised without a database.

type memStudentRepo struct {
	mu       sync.Mutex
	students map[string]model.Student
}

func newMemStudentRepo() *memStudentRepo {
	return &memStudentRepo{students: map[string]model.Student{}}
}

func (r *memStudentRepo) Create(_ context.Context, s *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.students[s.StudentID]; exists {
		return common.ErrConflict
	}
	r.students[s.StudentID] = *s
	return nil
}

func (r *memStudentRepo) FindByID(_ context.Context, id string) (*model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.students[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := s
	return &copied, nil
}

func (r *memStudentRepo) Update(_ context.Context, s *model.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[s.StudentID]; !ok {
		return common.ErrNotFound
	}
	r.students[s.StudentID] = *s
	return nil
}

func (r *memStudentRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.students[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.students, id)
	return nil
}

func (r *memStudentRepo) List(_ context.Context) ([]model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Student, 0, len(r.students))
	for _, s := range r.students {
		out = append(out, s)
	}
	return out, nil
}

func (r *memStudentRepo) ListByCampus(_ context.Context, campus string) ([]model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Student
	for _, s := range r.students {
		if s.Campus == campus {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memStudentRepo) ListByCampusGrade(_ context.Context, campus, grade string) ([]model.Student, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Student
	for _, s := range r.students {
		if s.Campus == campus && s.Grade == grade {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memStudentRepo) CountByCampus(_ context.Context, campus string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, s := range r.students {
		if s.Campus == campus {
			count++
		}
	}
	return count, nil
}

type memTeacherRepo struct {
	mu       sync.Mutex
	teachers map[string]model.Teacher
}

func newMemTeacherRepo() *memTeacherRepo {
	return &memTeacherRepo{teachers: map[string]model.Teacher{}}
}

func (r *memTeacherRepo) Create(_ context.Context, t *model.Teacher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.teachers[t.TeacherID]; exists {
		return common.ErrConflict
	}
	r.teachers[t.TeacherID] = *t
	return nil
}

func (r *memTeacherRepo) FindByID(_ context.Context, id string) (*model.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teachers[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := t
	return &copied, nil
}

func (r *memTeacherRepo) Update(_ context.Context, t *model.Teacher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teachers[t.TeacherID]; !ok {
		return common.ErrNotFound
	}
	r.teachers[t.TeacherID] = *t
	return nil
}

func (r *memTeacherRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teachers[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.teachers, id)
	return nil
}

func (r *memTeacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Teacher, 0, len(r.teachers))
	for _, t := range r.teachers {
		out = append(out, t)
	}
	return out, nil
}

func (r *memTeacherRepo) CountByCampus(_ context.Context, campus string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, t := range r.teachers {
		if t.Campus == campus {
			count++
		}
	}
	return count, nil
}

type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]model.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: map[string]model.Task{}}
}

func (r *memTaskRepo) Create(_ context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = *t
	return nil
}

func (r *memTaskRepo) FindByID(_ context.Context, id string) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	copied := t
	return &copied, nil
}

func (r *memTaskRepo) Update(_ context.Context, t *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return common.ErrNotFound
	}
	r.tasks[t.ID] = *t
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *memTaskRepo) List(_ context.Context) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	return out, nil
}

func (r *memTaskRepo) ListForStudent(_ context.Context, campus, grade string) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Task
	for _, t := range r.tasks {
		if t.TargetsCampus(campus) && t.TargetsGrade(grade) {
			out = append(out, t)
		}
	}
	return out, nil
}

type memSubmissionRepo struct {
	mu          sync.Mutex
	submissions []model.Submission
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{}
}

func (r *memSubmissionRepo) Create(_ context.Context, s *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.submissions {
		if existing.StudentID == s.StudentID && existing.TaskID == s.TaskID {
			return common.ErrDuplicateSubmission
		}
	}
	r.submissions = append(r.submissions, *s)
	return nil
}

func (r *memSubmissionRepo) FindByStudentTask(_ context.Context, studentID, taskID string) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.submissions {
		if s.StudentID == studentID && s.TaskID == taskID {
			copied := s
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memSubmissionRepo) ListByStudent(_ context.Context, studentID string) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Submission
	for _, s := range r.submissions {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSubmissionRepo) ListByTask(_ context.Context, taskID string) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Submission
	for _, s := range r.submissions {
		if s.TaskID == taskID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memSubmissionRepo) ListAll(_ context.Context) ([]model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Submission{}, r.submissions...), nil
}

// memNotificationRepo shares the visibility predicate with the SQL
// implementation through model.Notification.VisibleTo.
type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []model.Notification
	failCreate    bool
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (r *memNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("store unavailable")
	}
	// prepend: newest first, like the ORDER BY created_at DESC query
	r.notifications = append([]model.Notification{*n}, r.notifications...)
	return nil
}

func (r *memNotificationRepo) ListForScope(_ context.Context, scope model.Scope, limit int) ([]model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Notification
	for _, n := range r.notifications {
		if n.VisibleTo(scope) {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memNotificationRepo) UnreadCountForScope(_ context.Context, scope model.Scope) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, n := range r.notifications {
		if !n.IsRead && n.VisibleTo(scope) {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, scope model.Scope, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].VisibleTo(scope) {
			r.notifications[i].IsRead = true
			return nil
		}
	}
	return common.ErrNotFound
}

func (r *memNotificationRepo) MarkAllRead(_ context.Context, scope model.Scope) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for i := range r.notifications {
		if !r.notifications[i].IsRead && r.notifications[i].VisibleTo(scope) {
			r.notifications[i].IsRead = true
			count++
		}
	}
	return count, nil
}

type memAdminRepo struct {
	mu     sync.Mutex
	admins map[string]model.Admin
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{admins: map[string]model.Admin{}}
}

func (r *memAdminRepo) Create(_ context.Context, a *model.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.admins {
		if existing.Username == a.Username {
			return common.ErrConflict
		}
	}
	r.admins[a.ID] = *a
	return nil
}

func (r *memAdminRepo) FindByUsername(_ context.Context, username string) (*model.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if a.Username == username {
			copied := a
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *memAdminRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.admins), nil
}
