package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/repository"
)

type TaskService struct {
	taskRepo repository.TaskRepository
	notifier *NotificationService
}

func NewTaskService(taskRepo repository.TaskRepository, notifier *NotificationService) *TaskService {
	return &TaskService{taskRepo: taskRepo, notifier: notifier}
}

type CreateTaskRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Language     string   `json:"language"`
	CampusTarget []string `json:"campus_target"`
	GradeTarget  []string `json:"grade_target"`
}

type UpdateTaskRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Language     string   `json:"language"`
	CampusTarget []string `json:"campus_target"`
	GradeTarget  []string `json:"grade_target"`
}

func validateTargets(campuses, grades []string) error {
	if len(campuses) == 0 {
		return common.Errorf("%w: at least one target campus is required", common.ErrValidation)
	}
	if len(grades) == 0 {
		return common.Errorf("%w: at least one target grade is required", common.ErrValidation)
	}
	for _, c := range campuses {
		if !model.ValidCampus(c) {
			return common.Errorf("%w: unknown campus %q", common.ErrValidation, c)
		}
	}
	for _, g := range grades {
		if !model.ValidGrade(g) {
			return common.Errorf("%w: unknown grade %q", common.ErrValidation, g)
		}
	}
	return nil
}

func (s *TaskService) Create(ctx context.Context, scope model.Scope, req CreateTaskRequest) (*model.Task, error) {
	if req.Title == "" {
		return nil, common.Errorf("%w: title is required", common.ErrValidation)
	}
	if req.Language == "" {
		return nil, common.Errorf("%w: language is required", common.ErrValidation)
	}

	// A teacher's task is always pinned to their own campus regardless of
	// what the request asked for.
	if scope.Role == model.RoleTeacher {
		if !scope.CanManageTasks {
			return nil, common.ErrForbidden
		}
		req.CampusTarget = []string{*scope.Campus}
	} else if scope.Role != model.RoleAdmin {
		return nil, common.ErrForbidden
	}

	if err := validateTargets(req.CampusTarget, req.GradeTarget); err != nil {
		return nil, err
	}

	task := &model.Task{
		ID:           uuid.NewString(),
		Title:        req.Title,
		Slug:         slug.Make(req.Title),
		Description:  req.Description,
		Language:     req.Language,
		CampusTarget: req.CampusTarget,
		GradeTarget:  req.GradeTarget,
		CreatedBy:    scope.UserID,
	}
	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.notifier.Publish(ctx, model.Event{Kind: model.EventTaskCreated, Task: task})
	return task, nil
}

func (s *TaskService) Get(ctx context.Context, scope model.Scope, id string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsTask(task) {
		// Hide out-of-scope tasks entirely rather than acknowledging them.
		return nil, common.ErrNotFound
	}
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, scope model.Scope, id string, req UpdateTaskRequest) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.CanMutateTask(task) {
		return nil, common.ErrForbidden
	}

	if req.Title != "" {
		task.Title = req.Title
		task.Slug = slug.Make(req.Title)
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if req.Language != "" {
		task.Language = req.Language
	}
	if req.CampusTarget != nil {
		if scope.Role == model.RoleTeacher {
			req.CampusTarget = []string{*scope.Campus}
		}
		task.CampusTarget = req.CampusTarget
	}
	if req.GradeTarget != nil {
		task.GradeTarget = req.GradeTarget
	}
	if err := validateTargets(task.CampusTarget, task.GradeTarget); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}
	s.notifier.Publish(ctx, model.Event{Kind: model.EventTaskUpdated, Task: task})
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, scope model.Scope, id string) error {
	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !scope.CanMutateTask(task) {
		return common.ErrForbidden
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifier.Publish(ctx, model.Event{Kind: model.EventTaskDeleted, Task: task})
	return nil
}

// List returns the tasks visible to the scope. Students get the targeted
// filter pushed down to the store; teachers filter in memory on campus.
func (s *TaskService) List(ctx context.Context, scope model.Scope) ([]model.Task, error) {
	if scope.Role == model.RoleStudent {
		tasks, err := s.taskRepo.ListForStudent(ctx, *scope.Campus, *scope.Grade)
		if err != nil {
			return nil, err
		}
		if tasks == nil {
			tasks = []model.Task{}
		}
		return tasks, nil
	}

	tasks, err := s.taskRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if scope.Role == model.RoleTeacher {
		visible := make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.TargetsCampus(*scope.Campus) {
				visible = append(visible, t)
			}
		}
		return visible, nil
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	return tasks, nil
}
