package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/service"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
)

// ReferenceHandler serves the fixed campus/grade/section catalogues that
// frontends use to populate pickers.
type ReferenceHandler struct {
	referenceService *service.ReferenceService
}

func NewReferenceHandler(referenceService *service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

func (h *ReferenceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/campuses", h.campuses)
	r.Get("/grades", h.grades)
	r.Get("/sections", h.sections)
}

func (h *ReferenceHandler) campuses(w http.ResponseWriter, r *http.Request) {
	campuses, err := h.referenceService.Campuses(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, campuses)
}

func (h *ReferenceHandler) grades(w http.ResponseWriter, r *http.Request) {
	grades, err := h.referenceService.Grades(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, grades)
}

func (h *ReferenceHandler) sections(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, model.Sections)
}
