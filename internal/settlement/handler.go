package settlement

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

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Record)
	r.Get("/group/{groupId}", h.ListByGroup)

	r.Get("/balances/user/{userId}", h.UserBalance)
	r.Get("/balances/group/{groupId}", h.GroupBalances)
	r.Get("/simplify/group/{groupId}", h.Simplify)

	return r
}

// Record handles POST /settlements
// @Summary      Record a settlement
// @Description  Record a repayment from payer to receiver; it offsets their pairwise balance
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body RecordSettlementRequest true "Settlement request"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		actorID = 1
	}

	var req RecordSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	settlement, err := h.service.Record(r.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrPayerNotFound),
			errors.Is(err, ErrReceiverNotFound),
			errors.Is(err, ErrGroupNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrSelfSettlement), errors.Is(err, ledger.ErrInvalidAmount):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to record settlement")
		}
		return
	}

	response.JSON(w, http.StatusCreated, settlement.ToResponse())
}

// ListByGroup handles GET /settlements/group/{groupId}
// @Summary      List settlements by group
// @Description  Get a paginated settlement history for a group, newest first
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Router       /settlements/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	settlements, total, err := h.service.ListByGroupID(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list settlements")
		return
	}

	settlementResponses := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		settlementResponses[i] = s.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
	response.JSONWithMeta(w, http.StatusOK, settlementResponses, meta)
}

// UserBalance handles GET /settlements/balances/user/{userId}
// @Summary      Get a user's balances
// @Description  Pairwise balances for a user across all expenses, optionally restricted to one group; positive means the counterparty owes the user
// @Tags         settlements
// @Produce      json
// @Param        userId path int true "User ID"
// @Param        group_id query int false "Restrict to one group"
// @Success      200 {object} response.APIResponse{data=UserBalanceResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/balances/user/{userId} [get]
func (h *Handler) UserBalance(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var groupID *int64
	if raw := r.URL.Query().Get("group_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid group ID")
			return
		}
		groupID = &id
	}

	balance, err := h.service.UserBalance(r.Context(), userID, groupID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, balance)
}

// GroupBalances handles GET /settlements/balances/group/{groupId}
// @Summary      Get a group's balance matrix
// @Description  Pairwise balances for every group member, net of recorded settlements
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=GroupBalancesResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/balances/group/{groupId} [get]
func (h *Handler) GroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, err := h.service.GroupBalances(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute balances")
		return
	}

	response.JSON(w, http.StatusOK, balances)
}

// Simplify handles GET /settlements/simplify/group/{groupId}
// @Summary      Suggest a minimal payment plan
// @Description  Run the debt simplifier over the group's outstanding balances; nothing is persisted
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=SimplifyResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/simplify/group/{groupId} [get]
func (h *Handler) Simplify(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	plan, err := h.service.SettleUp(r.Context(), groupID)
	if err != nil {
		if errors.Is(err, ErrGroupNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to simplify debts")
		return
	}

	response.JSON(w, http.StatusOK, plan)
}
