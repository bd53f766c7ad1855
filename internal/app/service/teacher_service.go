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

// TeacherService is admin-only on the write side; teachers can read their own
// record through Get.
type TeacherService struct {
	teacherRepo repository.TeacherRepository
	notifier    *NotificationService
}

func NewTeacherService(teacherRepo repository.TeacherRepository, notifier *NotificationService) *TeacherService {
	return &TeacherService{teacherRepo: teacherRepo, notifier: notifier}
}

type CreateTeacherRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Campus            string `json:"campus"`
	CanManageStudents bool   `json:"can_manage_students"`
	CanManageTasks    bool   `json:"can_manage_tasks"`
	Password          string `json:"password,omitempty"`
}

type UpdateTeacherRequest struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	CanManageStudents *bool  `json:"can_manage_students,omitempty"`
	CanManageTasks    *bool  `json:"can_manage_tasks,omitempty"`
	Password          string `json:"password,omitempty"`
}

func (s *TeacherService) Create(ctx context.Context, scope model.Scope, req CreateTeacherRequest) (*model.Teacher, error) {
	if scope.Role != model.RoleAdmin {
		return nil, common.ErrForbidden
	}
	if req.Name == "" {
		return nil, common.Errorf("%w: name is required", common.ErrValidation)
	}
	if !model.ValidCampus(req.Campus) {
		return nil, common.Errorf("%w: unknown campus %q", common.ErrValidation, req.Campus)
	}

	count, err := s.teacherRepo.CountByCampus(ctx, req.Campus)
	if err != nil {
		return nil, fmt.Errorf("failed to count teachers: %w", err)
	}

	password := req.Password
	if password == "" {
		password = config.AppConfig.DefaultUserPassword
	}
	hashed, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	teacher := &model.Teacher{
		TeacherID:         model.FormatTeacherID(req.Campus, count+1),
		Name:              req.Name,
		Email:             req.Email,
		Campus:            req.Campus,
		CanManageStudents: req.CanManageStudents,
		CanManageTasks:    req.CanManageTasks,
		HashedPassword:    hashed,
	}
	if err := s.teacherRepo.Create(ctx, teacher); err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, model.Event{Kind: model.EventTeacherAdded, Teacher: teacher})
	teacher.HashedPassword = ""
	return teacher, nil
}

func (s *TeacherService) Get(ctx context.Context, scope model.Scope, teacherID string) (*model.Teacher, error) {
	if scope.Role == model.RoleStudent {
		return nil, common.ErrForbidden
	}
	if scope.Role == model.RoleTeacher && scope.UserID != teacherID {
		return nil, common.ErrForbidden
	}
	teacher, err := s.teacherRepo.FindByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	teacher.HashedPassword = ""
	return teacher, nil
}

func (s *TeacherService) Update(ctx context.Context, scope model.Scope, teacherID string, req UpdateTeacherRequest) (*model.Teacher, error) {
	if scope.Role != model.RoleAdmin {
		return nil, common.ErrForbidden
	}
	teacher, err := s.teacherRepo.FindByID(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		teacher.Name = req.Name
	}
	if req.Email != "" {
		teacher.Email = req.Email
	}
	if req.CanManageStudents != nil {
		teacher.CanManageStudents = *req.CanManageStudents
	}
	if req.CanManageTasks != nil {
		teacher.CanManageTasks = *req.CanManageTasks
	}
	if req.Password != "" {
		hashed, err := security.HashPassword(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		teacher.HashedPassword = hashed
	}

	if err := s.teacherRepo.Update(ctx, teacher); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, model.Event{Kind: model.EventTeacherUpdated, Teacher: teacher})
	teacher.HashedPassword = ""
	return teacher, nil
}

func (s *TeacherService) Delete(ctx context.Context, scope model.Scope, teacherID string) error {
	if scope.Role != model.RoleAdmin {
		return common.ErrForbidden
	}
	teacher, err := s.teacherRepo.FindByID(ctx, teacherID)
	if err != nil {
		return err
	}
	if err := s.teacherRepo.Delete(ctx, teacherID); err != nil {
		return err
	}
	s.notifier.Publish(ctx, model.Event{Kind: model.EventTeacherDeleted, Teacher: teacher})
	return nil
}

func (s *TeacherService) List(ctx context.Context, scope model.Scope) ([]model.Teacher, error) {
	if scope.Role != model.RoleAdmin {
		return nil, common.ErrForbidden
	}
	teachers, err := s.teacherRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range teachers {
		teachers[i].HashedPassword = ""
	}
	if teachers == nil {
		teachers = []model.Teacher{}
	}
	return teachers, nil
}
