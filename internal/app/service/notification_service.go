package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/repository"
)

// listLimit caps every notification feed; older entries age out of view.
const listLimit = 50

type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Publish fans a domain event out into per-audience notification rows.
// Delivery is best effort: failures are logged and never propagate, so a
// notification outage cannot roll back the mutation that produced the event.
func (s *NotificationService) Publish(ctx context.Context, event model.Event) {
	for _, n := range s.expand(event) {
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			log.Printf("WARN: failed to deliver notification %s (%s): %v", n.ID, n.Type, err)
		}
	}
}

// expand applies the fan-out rules. Task events address the admin feed, one
// teacher row per targeted campus and one student row per targeted
// campus/grade pair. Roster and submission events address the admin feed plus
// the affected campus's teachers; teacher events stay admin-only.
func (s *NotificationService) expand(event model.Event) []*model.Notification {
	switch event.Kind {
	case model.EventTaskCreated, model.EventTaskUpdated, model.EventTaskDeleted:
		return s.expandTask(event)
	case model.EventStudentAdded, model.EventStudentUpdated, model.EventStudentDeleted:
		return s.expandStudent(event)
	case model.EventTeacherAdded, model.EventTeacherUpdated, model.EventTeacherDeleted:
		return s.expandTeacher(event)
	case model.EventSubmissionCreated:
		return s.expandSubmission(event)
	}
	log.Printf("WARN: unknown notification event kind %q", event.Kind)
	return nil
}

func (s *NotificationService) expandTask(event model.Event) []*model.Notification {
	task := event.Task
	if task == nil {
		return nil
	}
	verb := map[model.EventKind]string{
		model.EventTaskCreated: "assigned",
		model.EventTaskUpdated: "updated",
		model.EventTaskDeleted: "removed",
	}[event.Kind]

	title := fmt.Sprintf("Task %s: %s", verb, task.Title)
	out := []*model.Notification{
		newNotification(model.NotificationTask, title,
			fmt.Sprintf("Task %q was %s.", task.Title, verb),
			task.ID, model.AudienceAdmin, nil, nil),
	}
	for _, campus := range task.CampusTarget {
		c := campus
		out = append(out, newNotification(model.NotificationTask, title,
			fmt.Sprintf("Task %q was %s for your campus.", task.Title, verb),
			task.ID, model.AudienceTeacher, &c, nil))
		for _, grade := range task.GradeTarget {
			g := grade
			out = append(out, newNotification(model.NotificationTask, title,
				fmt.Sprintf("Task %q was %s for your class.", task.Title, verb),
				task.ID, model.AudienceStudent, &c, &g))
		}
	}
	return out
}

func (s *NotificationService) expandStudent(event model.Event) []*model.Notification {
	student := event.Student
	if student == nil {
		return nil
	}
	verb := map[model.EventKind]string{
		model.EventStudentAdded:   "added",
		model.EventStudentUpdated: "updated",
		model.EventStudentDeleted: "removed",
	}[event.Kind]

	title := fmt.Sprintf("Student %s: %s", verb, student.Name)
	message := fmt.Sprintf("Student %s (%s) was %s at %s.", student.Name, student.StudentID, verb, student.Campus)
	campus := student.Campus
	return []*model.Notification{
		newNotification(model.NotificationStudent, title, message, student.StudentID, model.AudienceAdmin, nil, nil),
		newNotification(model.NotificationStudent, title, message, student.StudentID, model.AudienceTeacher, &campus, nil),
	}
}

func (s *NotificationService) expandTeacher(event model.Event) []*model.Notification {
	teacher := event.Teacher
	if teacher == nil {
		return nil
	}
	verb := map[model.EventKind]string{
		model.EventTeacherAdded:   "added",
		model.EventTeacherUpdated: "updated",
		model.EventTeacherDeleted: "removed",
	}[event.Kind]

	return []*model.Notification{
		newNotification(model.NotificationTeacher,
			fmt.Sprintf("Teacher %s: %s", verb, teacher.Name),
			fmt.Sprintf("Teacher %s (%s) was %s at %s.", teacher.Name, teacher.TeacherID, verb, teacher.Campus),
			teacher.TeacherID, model.AudienceAdmin, nil, nil),
	}
}

func (s *NotificationService) expandSubmission(event model.Event) []*model.Notification {
	sub, student := event.Submission, event.Student
	if sub == nil || student == nil {
		return nil
	}
	taskTitle := sub.TaskID
	if event.Task != nil {
		taskTitle = event.Task.Title
	}
	title := fmt.Sprintf("New submission from %s", student.Name)
	message := fmt.Sprintf("%s (%s) submitted %q.", student.Name, student.StudentID, taskTitle)
	campus := student.Campus
	return []*model.Notification{
		newNotification(model.NotificationSubmission, title, message, sub.ID, model.AudienceAdmin, nil, nil),
		newNotification(model.NotificationSubmission, title, message, sub.ID, model.AudienceTeacher, &campus, nil),
	}
}

func newNotification(typ model.NotificationType, title, message, relatedID string, audience model.Audience, campus, grade *string) *model.Notification {
	return &model.Notification{
		ID:           uuid.NewString(),
		Type:         typ,
		Title:        title,
		Message:      message,
		RelatedID:    relatedID,
		Audience:     audience,
		TargetCampus: campus,
		TargetGrade:  grade,
	}
}

func (s *NotificationService) ListForScope(ctx context.Context, scope model.Scope) ([]model.Notification, error) {
	notifications, err := s.notificationRepo.ListForScope(ctx, scope, listLimit)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	return notifications, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, scope model.Scope) (int, error) {
	return s.notificationRepo.UnreadCountForScope(ctx, scope)
}

// MarkRead is idempotent; re-marking an already read notification succeeds.
func (s *NotificationService) MarkRead(ctx context.Context, scope model.Scope, id string) error {
	return s.notificationRepo.MarkRead(ctx, scope, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, scope model.Scope) (int, error) {
	return s.notificationRepo.MarkAllRead(ctx, scope)
}
