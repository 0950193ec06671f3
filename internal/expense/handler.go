package expense

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/liauzhanyi/splitwiser/internal/ledger"
	"github.com/liauzhanyi/splitwiser/pkg/middleware"
	"github.com/liauzhanyi/splitwiser/pkg/response"
)

// Handler handles HTTP requests for expense operations
type Handler struct {
	service *Service
}

// NewHandler creates a new expense handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for expense endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}/split", h.ApplySplit)
	r.Delete("/{id}", h.Delete)

	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/group/{groupId}/analytics", h.GroupAnalytics)
	r.Get("/user/{userId}", h.ListByUser)

	return r
}

// writeServiceError maps engine and reference errors to HTTP statuses.
// Splits that parse but do not reconcile get a 422 with the discrepancy.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrExpenseNotFound),
		errors.Is(err, ErrPayerNotFound),
		errors.Is(err, ErrGroupNotFound),
		errors.Is(err, ErrParticipantNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ledger.ErrSplitMismatch):
		response.UnprocessableEntity(w, err.Error())
	case errors.Is(err, ErrDescriptionRequired),
		errors.Is(err, ErrParticipantNotMember),
		errors.Is(err, ErrMissingExactAmount),
		errors.Is(err, ErrMissingPercentage),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrNegativeSplit),
		errors.Is(err, ledger.ErrNoParticipants),
		errors.Is(err, ledger.ErrDuplicateParticipant),
		errors.Is(err, ledger.ErrPercentageOutOfRange):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}

// Create handles POST /expenses
// @Summary      Create a new expense
// @Description  Record an expense, optionally splitting it under the EQUAL, EXACT or PERCENTAGE rule in the same call
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        request body CreateExpenseRequest true "Expense creation request"
// @Success      201 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /expenses [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		actorID = 1
	}

	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.CreateExpense(r.Context(), actorID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to create expense")
		return
	}

	response.JSON(w, http.StatusCreated, toExpenseResponse(result))
}

// ApplySplit handles PUT /expenses/{id}/split
// @Summary      Apply or replace an expense's split
// @Description  Replace the expense's split list wholesale under the requested rule; the previous splits survive any failure
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Param        id path int true "Expense ID"
// @Param        request body SplitRequest true "Split request"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /expenses/{id}/split [put]
func (h *Handler) ApplySplit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	var req SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.ApplySplit(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to apply split")
		return
	}

	response.JSON(w, http.StatusOK, toExpenseResponse(result))
}

// GetByID handles GET /expenses/{id}
// @Summary      Get expense by ID
// @Description  Get an expense with all its splits
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse{data=ExpenseResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	result, err := h.service.GetExpenseByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "Failed to get expense")
		return
	}

	response.JSON(w, http.StatusOK, toExpenseResponse(result))
}

// ListByGroup handles GET /expenses/group/{groupId}
// @Summary      List expenses by group
// @Description  Get a paginated list of expenses for a group
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, perPage := pagination(r)
	expenses, total, err := h.service.ListExpensesByGroupID(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	writeExpenseList(w, expenses, total, page, perPage)
}

// ListByUser handles GET /expenses/user/{userId}
// @Summary      List expenses by user
// @Description  Get a paginated list of expenses the user paid or participates in
// @Tags         expenses
// @Produce      json
// @Param        userId path int true "User ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ExpenseResponse}
// @Router       /expenses/user/{userId} [get]
func (h *Handler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	page, perPage := pagination(r)
	expenses, total, err := h.service.ListExpensesByUserID(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list expenses")
		return
	}

	writeExpenseList(w, expenses, total, page, perPage)
}

// GroupAnalytics handles GET /expenses/group/{groupId}/analytics
// @Summary      Group spending analytics
// @Description  Totals per category and per paying member for a group
// @Tags         expenses
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=AnalyticsResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/group/{groupId}/analytics [get]
func (h *Handler) GroupAnalytics(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	analytics, err := h.service.GroupAnalytics(r.Context(), groupID)
	if err != nil {
		writeServiceError(w, err, "Failed to compute analytics")
		return
	}

	response.JSON(w, http.StatusOK, analytics)
}

// Delete handles DELETE /expenses/{id}
// @Summary      Delete an expense
// @Description  Delete an expense and its splits; only the payer may delete
// @Tags         expenses
// @Produce      json
// @Param        id path int true "Expense ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /expenses/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid expense ID")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		userID = 1
	}

	if err := h.service.DeleteExpense(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrNotPayer) {
			response.Forbidden(w, err.Error())
			return
		}
		writeServiceError(w, err, "Failed to delete expense")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Expense deleted successfully"})
}

func toExpenseResponse(result *ExpenseWithSplits) *ExpenseResponse {
	resp := result.Expense.ToResponse()
	resp.Splits = make([]*SplitResponse, len(result.Splits))
	for i, s := range result.Splits {
		resp.Splits[i] = s.ToResponse()
	}
	return resp
}

func writeExpenseList(w http.ResponseWriter, expenses []*Expense, total, page, perPage int) {
	expenseResponses := make([]*ExpenseResponse, len(expenses))
	for i, e := range expenses {
		expenseResponses[i] = e.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
	response.JSONWithMeta(w, http.StatusOK, expenseResponses, meta)
}

func pagination(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	return page, perPage
}
