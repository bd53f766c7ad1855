package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common/security"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/platform/config"
)

func newAuthFixture(t *testing.T) (*AuthService, *memAdminRepo, *memTeacherRepo, *memStudentRepo) {
	t.Helper()
	admins := newMemAdminRepo()
	teachers := newMemTeacherRepo()
	students := newMemStudentRepo()
	return NewAuthService(admins, teachers, students), admins, teachers, students
}

func TestEnsureDefaultAdminBootstraps(t *testing.T) {
	svc, admins, _, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureDefaultAdmin(ctx))

	admin, err := admins.FindByUsername(ctx, config.AppConfig.DefaultAdminUsername)
	require.NoError(t, err)
	assert.True(t, security.CheckPasswordHash(config.AppConfig.DefaultAdminPassword, admin.HashedPassword))

	// Second run does nothing.
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))
	count, err := admins.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestLoginAdmin(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))

	resp, err := svc.Login(ctx, LoginRequest{Role: "admin", Username: "admin", Password: config.AppConfig.DefaultAdminPassword})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, resp.Role)
	assert.NotEmpty(t, resp.Token)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()
	require.NoError(t, svc.EnsureDefaultAdmin(ctx))

	_, err := svc.Login(ctx, LoginRequest{Role: "admin", Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	_, err = svc.Login(ctx, LoginRequest{Role: "admin", Username: "ghost", Password: "nope"})
	assert.ErrorIs(t, err, common.ErrUnauthorized, "unknown user reads the same as wrong password")

	_, err = svc.Login(ctx, LoginRequest{Role: "wizard", Username: "admin", Password: "x"})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = svc.Login(ctx, LoginRequest{Role: "admin", Username: "", Password: ""})
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestLoginStudent(t *testing.T) {
	svc, _, _, students := newAuthFixture(t)
	ctx := context.Background()

	hashed, err := security.HashPassword("123456")
	require.NoError(t, err)
	require.NoError(t, students.Create(ctx, &model.Student{
		StudentID: "YAM-001", Name: "Asha", Campus: "Yamuna", Grade: "5th Class", HashedPassword: hashed,
	}))

	resp, err := svc.Login(ctx, LoginRequest{Role: "student", Username: "YAM-001", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStudent, resp.Role)
}

func TestResolveScopeRefetchesRecords(t *testing.T) {
	svc, _, teachers, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, teachers.Create(ctx, &model.Teacher{
		TeacherID: "YAM-T001", Name: "T", Campus: "Yamuna", CanManageStudents: true,
	}))

	scope, err := svc.ResolveScope(ctx, "YAM-T001", model.RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, model.RoleTeacher, scope.Role)
	assert.True(t, scope.CanManageStudents)

	// Flag flip is picked up on the next request.
	updated, err := teachers.FindByID(ctx, "YAM-T001")
	require.NoError(t, err)
	updated.CanManageStudents = false
	require.NoError(t, teachers.Update(ctx, updated))

	scope, err = svc.ResolveScope(ctx, "YAM-T001", model.RoleTeacher)
	require.NoError(t, err)
	assert.False(t, scope.CanManageStudents)

	// Deleted account stops resolving.
	require.NoError(t, teachers.Delete(ctx, "YAM-T001"))
	_, err = svc.ResolveScope(ctx, "YAM-T001", model.RoleTeacher)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
