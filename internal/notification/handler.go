package notification

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/liauzhanyi/splitwiser/pkg/middleware"
	"github.com/liauzhanyi/splitwiser/pkg/response"
)

// Handler handles HTTP requests for notification operations
type Handler struct {
	service *Service
}

// NewHandler creates a new notification handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for notification endpoints. All operations act on
// the acting user's own notifications.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/unread-count", h.UnreadCount)
	r.Post("/{id}/read", h.MarkRead)
	r.Post("/read-all", h.MarkAllRead)

	return r
}

// List handles GET /notifications
// @Summary      List notifications
// @Description  Get the acting user's notifications, newest first
// @Tags         notifications
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]Notification}
// @Router       /notifications [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	notifications, total, err := h.service.List(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list notifications")
		return
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
	response.JSONWithMeta(w, http.StatusOK, notifications, meta)
}

// UnreadCount handles GET /notifications/unread-count
// @Summary      Count unread notifications
// @Description  Get the acting user's unread notification count
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Router       /notifications/unread-count [get]
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1
	}

	count, err := h.service.UnreadCount(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to count notifications")
		return
	}

	response.JSON(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkRead handles POST /notifications/{id}/read
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Param        id path int true "Notification ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /notifications/{id}/read [post]
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid notification ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1
	}

	if err := h.service.MarkRead(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to mark notification read")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Notification marked as read"})
}

// MarkAllRead handles POST /notifications/read-all
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Router       /notifications/read-all [post]
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1
	}

	if err := h.service.MarkAllRead(r.Context(), userID); err != nil {
		response.InternalError(w, "Failed to mark notifications read")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "All notifications marked as read"})
}
