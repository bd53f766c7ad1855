package service

import (
	"context"
	"fmt"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common/security"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/repository"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/platform/config"
)

type StudentService struct {
	studentRepo repository.StudentRepository
	notifier    *NotificationService
}

func NewStudentService(studentRepo repository.StudentRepository, notifier *NotificationService) *StudentService {
	return &StudentService{studentRepo: studentRepo, notifier: notifier}
}

type CreateStudentRequest struct {
	Name    string `json:"name"`
	Campus  string `json:"campus"`
	Grade   string `json:"grade"`
	Section string `json:"section"`
	// Password is optional; empty means the shared default.
	Password string `json:"password,omitempty"`
}

type UpdateStudentRequest struct {
	Name     string `json:"name"`
	Grade    string `json:"grade"`
	Section  string `json:"section"`
	Password string `json:"password,omitempty"`
}

func (s *StudentService) Create(ctx context.Context, scope model.Scope, req CreateStudentRequest) (*model.Student, error) {
	if req.Name == "" {
		return nil, common.Errorf("%w: name is required", common.ErrValidation)
	}
	if !model.ValidCampus(req.Campus) {
		return nil, common.Errorf("%w: unknown campus %q", common.ErrValidation, req.Campus)
	}
	if !model.ValidGrade(req.Grade) {
		return nil, common.Errorf("%w: unknown grade %q", common.ErrValidation, req.Grade)
	}
	if req.Section != "" && !model.ValidSection(req.Section) {
		return nil, common.Errorf("%w: unknown section %q", common.ErrValidation, req.Section)
	}
	if !scope.CanCreateStudentIn(req.Campus) {
		return nil, common.ErrForbidden
	}

	// Campus sequence. Count+1 matches the ID scheme the school already uses;
	// IDs are not reissued after deletes, so a collision with a surviving row
	// surfaces as a conflict rather than silently renumbering.
	count, err := s.studentRepo.CountByCampus(ctx, req.Campus)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	password := req.Password
	if password == "" {
		password = config.AppConfig.DefaultUserPassword
	}
	hashed, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	student := &model.Student{
		StudentID:      model.FormatStudentID(req.Campus, count+1),
		Name:           req.Name,
		Campus:         req.Campus,
		Grade:          req.Grade,
		Section:        req.Section,
		HashedPassword: hashed,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, model.Event{Kind: model.EventStudentAdded, Student: student})
	student.HashedPassword = ""
	return student, nil
}

func (s *StudentService) Get(ctx context.Context, scope model.Scope, studentID string) (*model.Student, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsStudent(student) {
		return nil, common.ErrForbidden
	}
	student.HashedPassword = ""
	return student, nil
}

func (s *StudentService) Update(ctx context.Context, scope model.Scope, studentID string, req UpdateStudentRequest) (*model.Student, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !scope.CanMutateStudent(student) {
		return nil, common.ErrForbidden
	}

	if req.Name != "" {
		student.Name = req.Name
	}
	if req.Grade != "" {
		if !model.ValidGrade(req.Grade) {
			return nil, common.Errorf("%w: unknown grade %q", common.ErrValidation, req.Grade)
		}
		student.Grade = req.Grade
	}
	if req.Section != "" {
		if !model.ValidSection(req.Section) {
			return nil, common.Errorf("%w: unknown section %q", common.ErrValidation, req.Section)
		}
		student.Section = req.Section
	}
	if req.Password != "" {
		hashed, err := security.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		student.HashedPassword = hashed
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, model.Event{Kind: model.EventStudentUpdated, Student: student})
	student.HashedPassword = ""
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, scope model.Scope, studentID string) error {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return err
	}
	if !scope.CanMutateStudent(student) {
		return common.ErrForbidden
	}
	if err := s.studentRepo.Delete(ctx, studentID); err != nil {
		return err
	}
	s.notifier.Publish(ctx, model.Event{Kind: model.EventStudentDeleted, Student: student})
	return nil
}

// List returns the roster slice the scope is allowed to see: admins the whole
// school, teachers their campus, students just themselves.
func (s *StudentService) List(ctx context.Context, scope model.Scope) ([]model.Student, error) {
	var (
		students []model.Student
		err      error
	)
	switch scope.Role {
	case model.RoleAdmin:
		students, err = s.studentRepo.List(ctx)
	case model.RoleTeacher:
		students, err = s.studentRepo.ListByCampus(ctx, *scope.Campus)
	case model.RoleStudent:
		var self *model.Student
		self, err = s.studentRepo.FindByID(ctx, scope.UserID)
		if err == nil {
			students = []model.Student{*self}
		}
	default:
		return nil, common.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	for i := range students {
		students[i].HashedPassword = ""
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}
