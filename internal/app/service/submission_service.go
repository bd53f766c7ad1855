package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/repository"
)

type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	taskRepo       repository.TaskRepository
	studentRepo    repository.StudentRepository
	notifier       *NotificationService
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	taskRepo repository.TaskRepository,
	studentRepo repository.StudentRepository,
	notifier *NotificationService,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		taskRepo:       taskRepo,
		studentRepo:    studentRepo,
		notifier:       notifier,
	}
}

type SubmitRequest struct {
	TaskID string `json:"task_id"`
	Code   string `json:"code"`
	Output string `json:"output,omitempty"`
}

// Submit records a student's completed work for a task. A task can be
// submitted once per student; a repeat attempt returns the duplicate error
// rather than overwriting the accepted submission.
func (s *SubmissionService) Submit(ctx context.Context, scope model.Scope, req SubmitRequest) (*model.Submission, error) {
	if req.TaskID == "" || req.Code == "" {
		return nil, common.Errorf("%w: task_id and code are required", common.ErrValidation)
	}

	task, err := s.taskRepo.FindByID(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	if !scope.CanSubmit(task) {
		return nil, common.ErrForbidden
	}

	submission := &model.Submission{
		ID:          uuid.NewString(),
		StudentID:   scope.UserID,
		TaskID:      task.ID,
		Code:        req.Code,
		Output:      req.Output,
		Status:      model.SubmissionCompleted,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.FindByID(ctx, scope.UserID)
	if err != nil {
		log.Printf("WARN: skipping submission notifications, failed to load student %s: %v", scope.UserID, err)
		return submission, nil
	}
	s.notifier.Publish(ctx, model.Event{
		Kind:       model.EventSubmissionCreated,
		Submission: submission,
		Student:    student,
		Task:       task,
	})
	return submission, nil
}

// ListForTask returns every submission against a task the scope can see.
func (s *SubmissionService) ListForTask(ctx context.Context, scope model.Scope, taskID string) ([]model.Submission, error) {
	if scope.Role == model.RoleStudent {
		return nil, common.ErrForbidden
	}
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsTask(task) {
		return nil, common.ErrNotFound
	}

	submissions, err := s.submissionRepo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if scope.Role == model.RoleTeacher {
		submissions, err = s.filterByCampus(ctx, scope, submissions)
		if err != nil {
			return nil, err
		}
	}
	if submissions == nil {
		submissions = []model.Submission{}
	}
	return submissions, nil
}

// ListForStudent returns a student's own submissions, or any scoped student's
// submissions for staff.
func (s *SubmissionService) ListForStudent(ctx context.Context, scope model.Scope, studentID string) ([]model.Submission, error) {
	student, err := s.studentRepo.FindByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsStudent(student) {
		return nil, common.ErrForbidden
	}

	submissions, err := s.submissionRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if submissions == nil {
		submissions = []model.Submission{}
	}
	return submissions, nil
}

// filterByCampus drops submissions from students outside the teacher's
// campus. Lookups go per student; task fan-in is small enough that a join
// is not worth the extra repository surface.
func (s *SubmissionService) filterByCampus(ctx context.Context, scope model.Scope, submissions []model.Submission) ([]model.Submission, error) {
	visible := make([]model.Submission, 0, len(submissions))
	for _, sub := range submissions {
		student, err := s.studentRepo.FindByID(ctx, sub.StudentID)
		if err != nil {
			continue
		}
		if scope.AllowsCampus(student.Campus) {
			visible = append(visible, sub)
		}
	}
	return visible, nil
}
