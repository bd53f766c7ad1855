package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/api/middleware"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/service"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
)

type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

func (h *ProgressHandler) RegisterRoutes(r chi.Router) {
	r.With(middleware.StaffOnly).Get("/overview", h.overview)
	r.With(middleware.StaffOnly).Get("/task/{taskID}", h.forTask)
	r.Get("/student/{studentID}", h.forStudent)
}

func (h *ProgressHandler) overview(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	stats, err := h.progressService.Overview(r.Context(), scope)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *ProgressHandler) forTask(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	progress, err := h.progressService.ForTask(r.Context(), scope, chi.URLParam(r, "taskID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, progress)
}

func (h *ProgressHandler) forStudent(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	progress, err := h.progressService.ForStudent(r.Context(), scope, chi.URLParam(r, "studentID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, progress)
}
