package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/api/middleware"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/roster"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/service"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/platform/config"
)

type StudentHandler struct {
	studentService *service.StudentService
}

func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

func (h *StudentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{studentID}", h.get)
	r.With(middleware.StaffOnly).Post("/", h.create)
	r.With(middleware.StaffOnly).Put("/{studentID}", h.update)
	r.With(middleware.StaffOnly).Delete("/{studentID}", h.delete)
	r.With(middleware.StaffOnly).Get("/export", h.export)
	r.With(middleware.StaffOnly).Post("/import", h.importRoster)
}

func (h *StudentHandler) list(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	students, err := h.studentService.List(r.Context(), scope)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, students)
}

func (h *StudentHandler) get(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	student, err := h.studentService.Get(r.Context(), scope, chi.URLParam(r, "studentID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) create(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	var req service.CreateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	student, err := h.studentService.Create(r.Context(), scope, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, student)
}

func (h *StudentHandler) update(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	var req service.UpdateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	student, err := h.studentService.Update(r.Context(), scope, chi.URLParam(r, "studentID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if err := h.studentService.Delete(r.Context(), scope, chi.URLParam(r, "studentID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.AckResponse{Message: "Student deleted"})
}

func (h *StudentHandler) export(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	students, err := h.studentService.List(r.Context(), scope)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	f, err := roster.ExportStudents(students, config.AppConfig.DefaultUserPassword)
	if err != nil {
		common.RespondWithError(w, http.StatusInternalServerError, "Failed to build workbook")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("students-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(w); err != nil {
		// Headers are already gone; nothing useful left to send.
		return
	}
}

// importRoster accepts a workbook upload and creates each row through the
// normal create path so scope checks and notifications still apply. The
// response lists per-row failures so one bad line does not sink the batch.
func (h *StudentHandler) importRoster(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "A workbook upload named 'file' is required")
		return
	}
	defer file.Close()

	rows, err := roster.ImportStudents(file)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type importResult struct {
		Created []model.Student `json:"created"`
		Errors  []string        `json:"errors"`
	}
	result := importResult{Created: []model.Student{}, Errors: []string{}}
	for i, row := range rows {
		student, err := h.studentService.Create(r.Context(), scope, service.CreateStudentRequest{
			Name:    row.Name,
			Campus:  row.Campus,
			Grade:   row.Grade,
			Section: row.Section,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): %v", i+2, row.Name, err))
			continue
		}
		result.Created = append(result.Created, *student)
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}
