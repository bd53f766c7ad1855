package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/sandbox"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
)

// RunnerHandler exposes the code sandbox. Running code is available to any
// authenticated user; it never records anything, submission is a separate step.
type RunnerHandler struct {
	runner sandbox.Runner
}

func NewRunnerHandler(runner sandbox.Runner) *RunnerHandler {
	return &RunnerHandler{runner: runner}
}

func (h *RunnerHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.run)
}

type runRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin,omitempty"`
}

func (h *RunnerHandler) run(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.runner.Run(r.Context(), req.Language, req.Code, req.Stdin)
	if err != nil {
		// A timeout still carries partial output worth returning.
		if errors.Is(err, common.ErrTimedOut) && result != nil {
			common.RespondWithJSON(w, http.StatusOK, result)
			return
		}
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}
