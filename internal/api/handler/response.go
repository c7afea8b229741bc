package handler

import (
	"chitfund-engine/internal/api/handler/dto"
	"chitfund-engine/internal/domain/installment"
	"chitfund-engine/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

const maxRequestBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return fmt.Errorf("no request body")
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("Failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":{"message":"Internal server error"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, err error) {
	detail := dto.ErrorDetail{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred."}
	status := http.StatusInternalServerError

	var validationError *apperrors.ValidationError
	var ceilingErr *installment.ExceedsCeilingError
	var appErr *apperrors.AppError

	switch {
	case errors.As(err, &ceilingErr):
		status = http.StatusUnprocessableEntity
		detail = dto.ErrorDetail{
			Code:          "EXCEEDS_MAX_PAYABLE",
			Message:       ceilingErr.Error(),
			Field:         "amount",
			MaxPayableNow: ceilingErr.MaxPayableNow.StringFixed(2),
		}
	case errors.Is(err, apperrors.ErrExceedsCeiling):
		status, detail = http.StatusUnprocessableEntity, dto.ErrorDetail{Code: "EXCEEDS_MAX_PAYABLE", Message: err.Error(), Field: "amount"}
	case errors.Is(err, apperrors.ErrInvalidPaymentAmount):
		status, detail = http.StatusBadRequest, dto.ErrorDetail{Code: "INVALID_AMOUNT", Message: err.Error(), Field: "amount"}
	case errors.As(err, &validationError):
		status, detail = http.StatusBadRequest, dto.ErrorDetail{Code: "VALIDATION_FAILED", Message: validationError.Message, Field: validationError.Field}
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status, detail = http.StatusBadRequest, dto.ErrorDetail{Code: "INVALID_ARGUMENT", Message: err.Error()}
	case errors.Is(err, apperrors.ErrNotFound):
		status, detail = http.StatusNotFound, dto.ErrorDetail{Code: "NOT_FOUND", Message: "Resource not found."}
	case errors.Is(err, apperrors.ErrAlreadyExists):
		status, detail = http.StatusConflict, dto.ErrorDetail{Code: "ALREADY_EXISTS", Message: "Resource already exists."}
	case errors.Is(err, apperrors.ErrUpstream):
		status, detail = http.StatusBadGateway, dto.ErrorDetail{Code: "UPSTREAM_ERROR", Message: "Ledger store is unavailable."}
		slog.Default().Error("Upstream store error", "error", err)
	case errors.As(err, &appErr):
		detail = dto.ErrorDetail{Code: appErr.Code, Message: appErr.Message}
		slog.Default().Error("Application error", "error", err)
	default:
		slog.Default().Error("Unhandled internal error", "error", err)
	}

	respondJSON(w, status, dto.ErrorResponse{Error: detail})
}
