package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/api/middleware"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/app/service"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/unread-count", h.unreadCount)
	r.Post("/{notificationID}/read", h.markRead)
	r.Post("/read-all", h.markAllRead)
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	notifications, err := h.notificationService.ListForScope(r.Context(), scope)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) unreadCount(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	count, err := h.notificationService.UnreadCount(r.Context(), scope)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int{"unread": count})
}

func (h *NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if err := h.notificationService.MarkRead(r.Context(), scope, chi.URLParam(r, "notificationID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.AckResponse{Message: "Notification marked read"})
}

func (h *NotificationHandler) markAllRead(w http.ResponseWriter, r *http.Request) {
	scope, ok := middleware.GetScopeFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	count, err := h.notificationService.MarkAllRead(r.Context(), scope)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int{"marked": count})
}
