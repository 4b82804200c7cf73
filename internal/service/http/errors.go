package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vladislavdragonenkov/acs/internal/domain"
)

const (
	errorTypeInvalidRequest = "invalid_request"
	errorTypeProcessing     = "processing_error"
)

// ErrorResponse — единый конверт ошибок API.
type ErrorResponse struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// mapDomainError переводит доменную ошибку в HTTP-статус и конверт.
// Закрытый набор кодов: клиенты могут матчиться по коду, не разбирая message.
func mapDomainError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, domain.ErrCheckoutNotFound):
		return http.StatusNotFound, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "not_found",
			Message: "Checkout session not found",
		}
	case errors.Is(err, domain.ErrAlreadyCompleted):
		// Отмена завершённой сессии — единственный случай 405.
		return http.StatusMethodNotAllowed, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "checkout_completed",
			Message: "Checkout session is already completed",
		}
	case errors.Is(err, domain.ErrCheckoutCompleted):
		return http.StatusBadRequest, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "checkout_completed",
			Message: "Checkout session is already completed",
		}
	case errors.Is(err, domain.ErrCheckoutCanceled), errors.Is(err, domain.ErrAlreadyCanceled):
		return http.StatusBadRequest, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "checkout_canceled",
			Message: "Checkout session is already canceled",
		}
	case errors.Is(err, domain.ErrInvalidFulfillmentOption):
		return http.StatusBadRequest, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "invalid_fulfillment_option",
			Message: "Fulfillment option not found",
		}
	case errors.Is(err, domain.ErrMissingPaymentData):
		return http.StatusBadRequest, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "missing_payment_data",
			Message: "Payment data is required",
		}
	case errors.Is(err, domain.ErrInvalidTotal):
		return http.StatusBadRequest, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "invalid_total",
			Message: "Invalid total amount",
		}
	case errors.Is(err, domain.ErrPaymentFailed):
		return http.StatusBadRequest, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "payment_intent_execution_failed",
			Message: err.Error(),
		}
	case errors.Is(err, domain.ErrEmptyItems),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrItemQuantityInvalid):
		return http.StatusBadRequest, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "invalid_request",
			Message: err.Error(),
		}
	case errors.Is(err, domain.ErrIdempotencyHashMismatch):
		return http.StatusConflict, ErrorResponse{
			Type:    errorTypeInvalidRequest,
			Code:    "idempotency_conflict",
			Message: "Idempotency key reused with a different request body",
		}
	default:
		return http.StatusInternalServerError, ErrorResponse{
			Type:    errorTypeProcessing,
			Code:    "processing_error",
			Message: "Internal error",
		}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, resp := mapDomainError(err)
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
