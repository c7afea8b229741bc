package handler

import (
	"chitfund-engine/internal/api/handler/dto"
	"chitfund-engine/internal/api/middleware"
	"chitfund-engine/internal/domain/chit"
	"chitfund-engine/internal/pkg/apperrors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type ChitHandler struct {
	service chit.Service
	logger  *slog.Logger
}

func NewChitHandler(s chit.Service, l *slog.Logger) *ChitHandler {
	if s == nil {
		panic("chit service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &ChitHandler{
		service: s,
		logger:  l.With("component", "ChitHandler"),
	}
}

func getMemberPathFromURL(r *http.Request) (string, string, error) {
	groupID := strings.TrimSpace(chi.URLParam(r, "groupID"))
	memberID := strings.TrimSpace(chi.URLParam(r, "memberID"))
	if groupID == "" || memberID == "" {
		return "", "", fmt.Errorf("%w: groupID and memberID are required in URL path", apperrors.ErrInvalidArgument)
	}
	return groupID, memberID, nil
}

// GetStatement handles GET /groups/{groupID}/members/{memberID}/statement
// @Summary Get a member's installment statement
// @Description Builds the month buckets, overdue penalties and pending requests for a member as of today.
// @Tags Members
// @Produce json
// @Param groupID path string true "Group ID"
// @Param memberID path string true "Member ID"
// @Success 200 {object} dto.StatementResponse "Statement"
// @Failure 400 {object} dto.ErrorResponse "Invalid path parameters"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 502 {object} dto.ErrorResponse "Ledger store unavailable"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{groupID}/members/{memberID}/statement [get]
// @Security BearerAuth
func (h *ChitHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, err := getMemberPathFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}
	logCtx := h.logger.With("groupID", groupID, "memberID", memberID)

	st, err := h.service.GetStatement(r.Context(), groupID, memberID)
	if err != nil {
		logCtx.ErrorContext(r.Context(), "Failed to build statement", slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewStatementResponse(groupID, memberID, st))
}

// GetOverdueStatus handles GET /groups/{groupID}/members/{memberID}/overdue
// @Summary Check whether a member is overdue
// @Tags Members
// @Produce json
// @Param groupID path string true "Group ID"
// @Param memberID path string true "Member ID"
// @Success 200 {object} dto.OverdueStatusResponse "Overdue flag"
// @Failure 400 {object} dto.ErrorResponse "Invalid path parameters"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{groupID}/members/{memberID}/overdue [get]
// @Security BearerAuth
func (h *ChitHandler) GetOverdueStatus(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, err := getMemberPathFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	overdue, err := h.service.IsOverdue(r.Context(), groupID, memberID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to check overdue status", "groupID", groupID, "memberID", memberID, slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.OverdueStatusResponse{GroupID: groupID, MemberID: memberID, IsOverdue: overdue})
}

// QuotePayment handles POST /groups/{groupID}/members/{memberID}/quote
// @Summary Preview how an amount would be allocated
// @Description Allocates the amount oldest overdue month first, penalty included, then to the current month. Nothing is persisted.
// @Tags Payments
// @Accept json
// @Produce json
// @Param groupID path string true "Group ID"
// @Param memberID path string true "Member ID"
// @Param request body dto.QuoteRequest true "Amount to allocate"
// @Success 200 {object} dto.AllocationPlanResponse "Allocation plan"
// @Failure 400 {object} dto.ErrorResponse "Invalid amount"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 422 {object} dto.ErrorResponse "Amount exceeds max payable now"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{groupID}/members/{memberID}/quote [post]
// @Security BearerAuth
func (h *ChitHandler) QuotePayment(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, err := getMemberPathFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.QuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode quote request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	plan, err := h.service.QuotePayment(r.Context(), groupID, memberID, *req.Amount)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Quote rejected", "groupID", groupID, "memberID", memberID, slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewAllocationPlanResponse(plan))
}

// SubmitPaymentRequest handles POST /groups/{groupID}/members/{memberID}/payment-requests
// @Summary Submit a payment request
// @Description Validates the amount against max payable now and records a pending request with its allocation summary.
// @Tags Payments
// @Accept json
// @Produce json
// @Param groupID path string true "Group ID"
// @Param memberID path string true "Member ID"
// @Param request body dto.SubmitPaymentRequest true "Payment details"
// @Success 201 {object} dto.PaymentRequestResponse "Pending payment request"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Failure 409 {object} dto.ErrorResponse "Duplicate request"
// @Failure 422 {object} dto.ErrorResponse "Amount exceeds max payable now"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /groups/{groupID}/members/{memberID}/payment-requests [post]
// @Security BearerAuth
func (h *ChitHandler) SubmitPaymentRequest(w http.ResponseWriter, r *http.Request) {
	groupID, memberID, err := getMemberPathFromURL(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.SubmitPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode payment request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	input := req.ToInput(groupID, memberID)
	if subject, ok := middleware.SubjectFromContext(r.Context()); ok {
		input.RequestedBy = subject
	}

	created, err := h.service.SubmitPaymentRequest(r.Context(), input)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Payment request failed", "groupID", groupID, "memberID", memberID, slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Payment request accepted", "requestID", created.ID, "requestedBy", input.RequestedBy)
	respondJSON(w, http.StatusCreated, dto.NewPaymentRequestResponse(created))
}
