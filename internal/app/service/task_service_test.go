package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
)

func newTaskService() (*TaskService, *memTaskRepo) {
	tasks := newMemTaskRepo()
	return NewTaskService(tasks, NewNotificationService(newMemNotificationRepo())), tasks
}

func TestCreateTaskSlugAndCreator(t *testing.T) {
	svc, _ := newTaskService()

	task, err := svc.Create(context.Background(), model.AdminScope("admin-1"), CreateTaskRequest{
		Title:        "Print the Fibonacci Series",
		Language:     "python",
		CampusTarget: []string{"Yamuna"},
		GradeTarget:  []string{"5th Class"},
	})
	require.NoError(t, err)
	assert.Equal(t, "print-the-fibonacci-series", task.Slug)
	assert.Equal(t, "admin-1", task.CreatedBy)
	assert.NotEmpty(t, task.ID)
}

func TestTeacherTaskPinnedToOwnCampus(t *testing.T) {
	svc, _ := newTaskService()

	scope := model.TeacherScope(&model.Teacher{TeacherID: "YAM-T001", Campus: "Yamuna", CanManageTasks: true})
	task, err := svc.Create(context.Background(), scope, CreateTaskRequest{
		Title:        "Loops",
		Language:     "python",
		CampusTarget: []string{"I20", "Subhash Nagar"}, // ignored
		GradeTarget:  []string{"5th Class"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Yamuna"}, task.CampusTarget)
}

func TestTeacherWithoutFlagCannotCreateTask(t *testing.T) {
	svc, _ := newTaskService()

	scope := model.TeacherScope(&model.Teacher{TeacherID: "YAM-T001", Campus: "Yamuna"})
	_, err := svc.Create(context.Background(), scope, CreateTaskRequest{
		Title:        "Loops",
		Language:     "python",
		CampusTarget: []string{"Yamuna"},
		GradeTarget:  []string{"5th Class"},
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestStudentCannotCreateTask(t *testing.T) {
	svc, _ := newTaskService()

	scope := model.StudentScope(&model.Student{StudentID: "YAM-001", Campus: "Yamuna", Grade: "5th Class"})
	_, err := svc.Create(context.Background(), scope, CreateTaskRequest{
		Title:        "Loops",
		Language:     "python",
		CampusTarget: []string{"Yamuna"},
		GradeTarget:  []string{"5th Class"},
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestCreateTaskTargetValidation(t *testing.T) {
	svc, _ := newTaskService()
	admin := model.AdminScope("admin-1")
	ctx := context.Background()

	_, err := svc.Create(ctx, admin, CreateTaskRequest{Title: "T", Language: "python", GradeTarget: []string{"5th Class"}})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, admin, CreateTaskRequest{Title: "T", Language: "python", CampusTarget: []string{"Yamuna"}})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.Create(ctx, admin, CreateTaskRequest{Title: "T", Language: "python",
		CampusTarget: []string{"Nowhere"}, GradeTarget: []string{"5th Class"}})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGetHidesOutOfScopeTasks(t *testing.T) {
	svc, _ := newTaskService()
	ctx := context.Background()

	task, err := svc.Create(ctx, model.AdminScope("admin-1"), CreateTaskRequest{
		Title: "Loops", Language: "python",
		CampusTarget: []string{"Yamuna"}, GradeTarget: []string{"5th Class"},
	})
	require.NoError(t, err)

	outsider := model.StudentScope(&model.Student{StudentID: "I20-001", Campus: "I20", Grade: "5th Class"})
	_, err = svc.Get(ctx, outsider, task.ID)
	assert.ErrorIs(t, err, common.ErrNotFound, "out-of-scope reads as absent, not forbidden")
}

func TestListTasksPerScope(t *testing.T) {
	svc, _ := newTaskService()
	ctx := context.Background()
	admin := model.AdminScope("admin-1")

	_, err := svc.Create(ctx, admin, CreateTaskRequest{
		Title: "For Yamuna 5th", Language: "python",
		CampusTarget: []string{"Yamuna"}, GradeTarget: []string{"5th Class"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, CreateTaskRequest{
		Title: "For I20 6th", Language: "python",
		CampusTarget: []string{"I20"}, GradeTarget: []string{"6th Class"},
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	teacher := model.TeacherScope(&model.Teacher{TeacherID: "YAM-T001", Campus: "Yamuna"})
	visible, err := svc.List(ctx, teacher)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "For Yamuna 5th", visible[0].Title)

	student := model.StudentScope(&model.Student{StudentID: "YAM-001", Campus: "Yamuna", Grade: "5th Class"})
	mine, err := svc.List(ctx, student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "For Yamuna 5th", mine[0].Title)

	otherGrade := model.StudentScope(&model.Student{StudentID: "YAM-002", Campus: "Yamuna", Grade: "7th Class"})
	none, err := svc.List(ctx, otherGrade)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateTaskRespectsScope(t *testing.T) {
	svc, _ := newTaskService()
	ctx := context.Background()
	admin := model.AdminScope("admin-1")

	task, err := svc.Create(ctx, admin, CreateTaskRequest{
		Title: "Loops", Language: "python",
		CampusTarget: []string{"Yamuna"}, GradeTarget: []string{"5th Class"},
	})
	require.NoError(t, err)

	outsider := model.TeacherScope(&model.Teacher{TeacherID: "I20-T001", Campus: "I20", CanManageTasks: true})
	_, err = svc.Update(ctx, outsider, task.ID, UpdateTaskRequest{Title: "Hijacked"})
	assert.ErrorIs(t, err, common.ErrForbidden)

	updated, err := svc.Update(ctx, admin, task.ID, UpdateTaskRequest{Title: "Loops v2"})
	require.NoError(t, err)
	assert.Equal(t, "loops-v2", updated.Slug)
}
