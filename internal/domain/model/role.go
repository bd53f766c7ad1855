package model

import (
	"fmt"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
)

// Role is the closed set of principal kinds. All role dispatch goes through
// this type so that adding a role is a compile-visible change.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q: %w", s, common.ErrBadRequest)
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}
