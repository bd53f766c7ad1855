package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common/security"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/repository"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/platform/config"
)

type AuthService struct {
	adminRepo   repository.AdminRepository
	teacherRepo repository.TeacherRepository
	studentRepo repository.StudentRepository
}

func NewAuthService(adminRepo repository.AdminRepository, teacherRepo repository.TeacherRepository, studentRepo repository.StudentRepository) *AuthService {
	return &AuthService{adminRepo: adminRepo, teacherRepo: teacherRepo, studentRepo: studentRepo}
}

type LoginRequest struct {
	Role     string `json:"role"`
	Username string `json:"username"` // admin username, teacher ID or student ID
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	Role  model.Role  `json:"role"`
	User  interface{} `json:"user"`
}

// Login authenticates against the store matching the requested role. Wrong
// password and unknown identity both surface ErrUnauthorized so callers
// cannot probe which IDs exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}
	if req.Username == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	switch role {
	case model.RoleAdmin:
		admin, err := s.adminRepo.FindByUsername(ctx, req.Username)
		if err != nil {
			return nil, loginFailure(err)
		}
		if !security.CheckPasswordHash(req.Password, admin.HashedPassword) {
			return nil, common.ErrUnauthorized
		}
		token, err := security.GenerateToken(admin.ID, string(role))
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		return &LoginResponse{Token: token, Role: role, User: admin}, nil

	case model.RoleTeacher:
		teacher, err := s.teacherRepo.FindByID(ctx, req.Username)
		if err != nil {
			return nil, loginFailure(err)
		}
		if !security.CheckPasswordHash(req.Password, teacher.HashedPassword) {
			return nil, common.ErrUnauthorized
		}
		token, err := security.GenerateToken(teacher.TeacherID, string(role))
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		teacher.HashedPassword = ""
		return &LoginResponse{Token: token, Role: role, User: teacher}, nil

	case model.RoleStudent:
		student, err := s.studentRepo.FindByID(ctx, req.Username)
		if err != nil {
			return nil, loginFailure(err)
		}
		if !security.CheckPasswordHash(req.Password, student.HashedPassword) {
			return nil, common.ErrUnauthorized
		}
		token, err := security.GenerateToken(student.StudentID, string(role))
		if err != nil {
			return nil, fmt.Errorf("failed to generate token: %w", err)
		}
		student.HashedPassword = ""
		return &LoginResponse{Token: token, Role: role, User: student}, nil
	}
	return nil, common.ErrBadRequest
}

func loginFailure(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.ErrUnauthorized
	}
	return err
}

// ResolveScope rebuilds the access scope from a verified token's identity.
// The backing record is re-fetched on every request so revoked users and
// stale permission flags drop out immediately.
func (s *AuthService) ResolveScope(ctx context.Context, userID string, role model.Role) (model.Scope, error) {
	switch role {
	case model.RoleAdmin:
		return model.AdminScope(userID), nil
	case model.RoleTeacher:
		teacher, err := s.teacherRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return model.Scope{}, common.ErrUnauthorized
			}
			return model.Scope{}, err
		}
		return model.TeacherScope(teacher), nil
	case model.RoleStudent:
		student, err := s.studentRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return model.Scope{}, common.ErrUnauthorized
			}
			return model.Scope{}, err
		}
		return model.StudentScope(student), nil
	}
	return model.Scope{}, common.ErrUnauthorized
}

// EnsureDefaultAdmin creates the bootstrap admin account when the admins
// table is empty.
func (s *AuthService) EnsureDefaultAdmin(ctx context.Context) error {
	count, err := s.adminRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := security.HashPassword(config.AppConfig.DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}
	admin := &model.Admin{
		ID:             uuid.NewString(),
		Username:       config.AppConfig.DefaultAdminUsername,
		HashedPassword: hashed,
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil
		}
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	log.Printf("INFO: created default admin account %q", admin.Username)
	return nil
}
