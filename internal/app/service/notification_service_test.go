package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
)

func taskTargeting(campuses, grades []string) *model.Task {
	return &model.Task{
		ID:           "task-1",
		Title:        "Print patterns",
		Language:     "python",
		CampusTarget: campuses,
		GradeTarget:  grades,
	}
}

func TestTaskFanOutCounts(t *testing.T) {
	repo := newMemNotificationRepo()
	svc := NewNotificationService(repo)

	task := taskTargeting([]string{"Yamuna", "I20"}, []string{"5th Class", "6th Class"})
	svc.Publish(context.Background(), model.Event{Kind: model.EventTaskCreated, Task: task})

	// 1 admin row, one teacher row per campus, one student row per
	// campus/grade pair.
	assert.Len(t, repo.notifications, 1+2+2*2)

	byAudience := map[model.Audience]int{}
	for _, n := range repo.notifications {
		byAudience[n.Audience]++
	}
	assert.Equal(t, 1, byAudience[model.AudienceAdmin])
	assert.Equal(t, 2, byAudience[model.AudienceTeacher])
	assert.Equal(t, 4, byAudience[model.AudienceStudent])
}

func TestFanOutVisibilityEndToEnd(t *testing.T) {
	repo := newMemNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	task := taskTargeting([]string{"Yamuna"}, []string{"5th Class"})
	svc.Publish(ctx, model.Event{Kind: model.EventTaskCreated, Task: task})

	adminFeed, err := svc.ListForScope(ctx, model.AdminScope("admin-1"))
	require.NoError(t, err)
	assert.Len(t, adminFeed, 3, "admin sees every generated row")

	yamTeacher := model.TeacherScope(&model.Teacher{TeacherID: "YAM-T001", Campus: "Yamuna"})
	feed, err := svc.ListForScope(ctx, yamTeacher)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, model.AudienceTeacher, feed[0].Audience)

	i20Teacher := model.TeacherScope(&model.Teacher{TeacherID: "I20-T001", Campus: "I20"})
	feed, err = svc.ListForScope(ctx, i20Teacher)
	require.NoError(t, err)
	assert.Empty(t, feed)

	targetStudent := model.StudentScope(&model.Student{StudentID: "YAM-001", Campus: "Yamuna", Grade: "5th Class"})
	feed, err = svc.ListForScope(ctx, targetStudent)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, model.AudienceStudent, feed[0].Audience)

	otherGrade := model.StudentScope(&model.Student{StudentID: "YAM-002", Campus: "Yamuna", Grade: "6th Class"})
	feed, err = svc.ListForScope(ctx, otherGrade)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestStudentEventFanOut(t *testing.T) {
	repo := newMemNotificationRepo()
	svc := NewNotificationService(repo)

	student := &model.Student{StudentID: "YAM-007", Name: "Asha", Campus: "Yamuna", Grade: "5th Class"}
	svc.Publish(context.Background(), model.Event{Kind: model.EventStudentAdded, Student: student})

	require.Len(t, repo.notifications, 2)
	audiences := []model.Audience{repo.notifications[0].Audience, repo.notifications[1].Audience}
	assert.Contains(t, audiences, model.AudienceAdmin)
	assert.Contains(t, audiences, model.AudienceTeacher)
	for _, n := range repo.notifications {
		if n.Audience == model.AudienceTeacher {
			require.NotNil(t, n.TargetCampus)
			assert.Equal(t, "Yamuna", *n.TargetCampus)
		}
	}
}

func TestTeacherEventIsAdminOnly(t *testing.T) {
	repo := newMemNotificationRepo()
	svc := NewNotificationService(repo)

	teacher := &model.Teacher{TeacherID: "I20-T002", Name: "Ravi", Campus: "I20"}
	svc.Publish(context.Background(), model.Event{Kind: model.EventTeacherAdded, Teacher: teacher})

	require.Len(t, repo.notifications, 1)
	assert.Equal(t, model.AudienceAdmin, repo.notifications[0].Audience)
}

func TestPublishSwallowsStoreFailures(t *testing.T) {
	repo := newMemNotificationRepo()
	repo.failCreate = true
	svc := NewNotificationService(repo)

	// Must not panic or surface an error to the caller.
	svc.Publish(context.Background(), model.Event{
		Kind: model.EventTaskCreated,
		Task: taskTargeting([]string{"Yamuna"}, []string{"5th Class"}),
	})
	assert.Empty(t, repo.notifications)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	repo := newMemNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	svc.Publish(ctx, model.Event{Kind: model.EventTaskCreated, Task: taskTargeting([]string{"Yamuna"}, []string{"5th Class"})})

	admin := model.AdminScope("admin-1")
	feed, err := svc.ListForScope(ctx, admin)
	require.NoError(t, err)
	require.NotEmpty(t, feed)

	id := feed[0].ID
	require.NoError(t, svc.MarkRead(ctx, admin, id))
	require.NoError(t, svc.MarkRead(ctx, admin, id), "second mark must also succeed")

	count, err := svc.UnreadCount(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, len(feed)-1, count)
}

func TestMarkReadOutsideScopeReportsNotFound(t *testing.T) {
	repo := newMemNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	svc.Publish(ctx, model.Event{Kind: model.EventTaskCreated, Task: taskTargeting([]string{"Yamuna"}, []string{"5th Class"})})

	var adminOnlyID string
	for _, n := range repo.notifications {
		if n.Audience == model.AudienceAdmin {
			adminOnlyID = n.ID
		}
	}
	require.NotEmpty(t, adminOnlyID)

	student := model.StudentScope(&model.Student{StudentID: "YAM-001", Campus: "Yamuna", Grade: "5th Class"})
	err := svc.MarkRead(ctx, student, adminOnlyID)
	assert.Error(t, err)
}

func TestFeedIsCapped(t *testing.T) {
	repo := newMemNotificationRepo()
	svc := NewNotificationService(repo)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		teacher := &model.Teacher{TeacherID: fmt.Sprintf("YAM-T%03d", i), Name: "T", Campus: "Yamuna"}
		svc.Publish(ctx, model.Event{Kind: model.EventTeacherAdded, Teacher: teacher})
	}

	feed, err := svc.ListForScope(ctx, model.AdminScope("admin-1"))
	require.NoError(t, err)
	assert.Len(t, feed, listLimit)
}
