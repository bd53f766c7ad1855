package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/jwtauth/v5"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/service"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common/security"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
)

type contextKey string

const ScopeCtxKey contextKey = "accessScope"

// Authenticator validates the verified JWT's claims, re-fetches the caller's
// record and stores the resulting access scope in the request context. Every
// protected handler reads the scope from there; no handler touches claims
// directly.
func Authenticator(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				if strings.Contains(err.Error(), "token not found") || token == nil {
					common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				} else {
					common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
				}
				return
			}
			if token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			userID, err := security.GetUserIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}
			roleStr, err := security.GetUserRoleFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}
			role, err := model.ParseRole(roleStr)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token role")
				return
			}

			scope, err := authService.ResolveScope(r.Context(), userID, role)
			if err != nil {
				common.RespondWithError(w, common.HTTPStatusFromError(err), "Account no longer valid")
				return
			}

			ctx := context.WithValue(r.Context(), ScopeCtxKey, scope)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetScopeFromContext returns the resolved access scope for the request.
func GetScopeFromContext(ctx context.Context) (model.Scope, bool) {
	scope, ok := ctx.Value(ScopeCtxKey).(model.Scope)
	return scope, ok
}

func AdminOnly(next http.Handler) http.Handler {
	return requireRoles(next, model.RoleAdmin)
}

// StaffOnly admits admins and teachers.
func StaffOnly(next http.Handler) http.Handler {
	return requireRoles(next, model.RoleAdmin, model.RoleTeacher)
}

func requireRoles(next http.Handler, roles ...model.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		scope, ok := GetScopeFromContext(r.Context())
		if !ok {
			common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		for _, role := range roles {
			if scope.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		common.RespondWithError(w, http.StatusForbidden, "Insufficient permissions")
	})
}
