package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/egannguyen/go-orders-inventory/internal/entity"
	"github.com/egannguyen/go-orders-inventory/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeDomainError maps typed domain failures to their stable status codes
// and JSON envelopes. Field names are part of the external contract.
func writeDomainError(w http.ResponseWriter, err error) {
	var stock *entity.InsufficientStockError
	if errors.As(err, &stock) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      "Insufficient stock",
			"requested":  stock.Requested,
			"available":  stock.Available,
			"product_id": stock.ProductID,
		})
		return
	}

	var transition *entity.InvalidTransitionError
	if errors.As(err, &transition) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":            "Invalid status transition",
			"current_status":   transition.From,
			"requested_status": transition.To,
			"message":          transition.Error(),
		})
		return
	}

	var duplicate *service.DuplicateEventError
	if errors.As(err, &duplicate) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":    "Event already processed",
			"event_id": duplicate.EventID,
			"message":  "this event has been processed before",
		})
		return
	}

	var malformed *service.MalformedPayloadError
	if errors.As(err, &malformed) {
		writeError(w, http.StatusBadRequest, malformed.Error())
		return
	}

	switch {
	case errors.Is(err, entity.ErrProductNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, entity.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, entity.ErrDuplicateSKU):
		writeError(w, http.StatusConflict, entity.ErrDuplicateSKU.Error())
	case errors.Is(err, entity.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, entity.ErrInvalidQuantity.Error())
	case errors.Is(err, service.ErrInvalidSignature):
		writeError(w, http.StatusUnauthorized, service.ErrInvalidSignature.Error())
	default:
		slog.Error("Unhandled request error", "err", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
