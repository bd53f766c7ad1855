package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/api/middleware"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/ai"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
)

type AIHandler struct {
	client *ai.Client
}

func NewAIHandler(client *ai.Client) *AIHandler {
	return &AIHandler{client: client}
}

func (h *AIHandler) RegisterRoutes(r chi.Router) {
	r.Post("/validate", h.validate)
	r.With(middleware.StaffOnly).Post("/generate", h.generate)
	r.Post("/chat", h.chat)
}

type validateRequest struct {
	TaskTitle       string `json:"task_title"`
	TaskDescription string `json:"task_description"`
	Code            string `json:"code"`
}

type generateRequest struct {
	Language string `json:"language"`
	Prompt   string `json:"prompt"`
}

type chatRequest struct {
	Messages []ai.Message `json:"messages"`
}

type aiResponse struct {
	Content string `json:"content"`
}

func (h *AIHandler) validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.Code == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Code is required")
		return
	}
	content, err := h.client.ValidateSubmission(r.Context(), req.TaskTitle, req.TaskDescription, req.Code)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, aiResponse{Content: content})
}

func (h *AIHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	if req.Prompt == "" {
		common.RespondWithError(w, http.StatusBadRequest, "Prompt is required")
		return
	}
	content, err := h.client.GenerateCode(r.Context(), req.Language, req.Prompt)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, aiResponse{Content: content})
}

func (h *AIHandler) chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	content, err := h.client.Chat(r.Context(), req.Messages)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, aiResponse{Content: content})
}
