package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/egannguyen/go-orders-inventory/internal/entity"
	"github.com/egannguyen/go-orders-inventory/internal/webhook"
)

// EventPaymentSucceeded is the one provider event type acted on. Everything
// else is accepted and ignored so provider schema evolution does not break
// the intake.
const EventPaymentSucceeded = "payment.succeeded"

// ErrInvalidSignature means the webhook body was not produced by a holder of
// the shared secret.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// DuplicateEventError means the event id was admitted before.
type DuplicateEventError struct {
	EventID string
}

func (e *DuplicateEventError) Error() string {
	return fmt.Sprintf("event %s already processed", e.EventID)
}

// MalformedPayloadError means the body failed to parse or lacked a required
// field.
type MalformedPayloadError struct {
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	return "malformed payload: " + e.Reason
}

// PaymentResult is the terminal outcome of a processed webhook.
type PaymentResult struct {
	Status      string             `json:"status"` // "success" or "ignored"
	Message     string             `json:"message"`
	OrderID     int64              `json:"order_id,omitempty"`
	OrderStatus entity.OrderStatus `json:"order_status,omitempty"`
}

// paymentEvent is the provider's payload shape.
type paymentEvent struct {
	Event    string  `json:"event"`
	OrderID  int64   `json:"order_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// PaymentService processes a payment webhook end-to-end: signature, replay
// admission, then the PAID transition through the order service.
type PaymentService struct {
	secret []byte
	guard  webhook.ReplayGuard
	orders *OrderService
}

func NewPaymentService(secret []byte, guard webhook.ReplayGuard, orders *OrderService) *PaymentService {
	return &PaymentService{secret: secret, guard: guard, orders: orders}
}

// Process handles one inbound webhook. Order of checks is fixed: signature
// over the raw bytes first (a failure leaves no replay record), then JSON
// parse, then replay admission, then the event tag.
//
// eventID may be empty, in which case replay protection is skipped for this
// request. That tolerance is inherited from the upstream provider contract;
// the guard is injectable so hardened deployments can front-reject instead.
func (s *PaymentService) Process(ctx context.Context, body []byte, signature, eventID string) (*PaymentResult, error) {
	if !webhook.VerifySignature(body, signature, s.secret) {
		return nil, ErrInvalidSignature
	}

	var ev paymentEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, &MalformedPayloadError{Reason: "invalid JSON: " + err.Error()}
	}

	if eventID != "" {
		admitted, err := s.guard.AdmitOnce(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("replay check failed: %w", err)
		}
		if !admitted {
			return nil, &DuplicateEventError{EventID: eventID}
		}
	}

	if ev.Event != EventPaymentSucceeded {
		slog.Info("Webhook event ignored", "event", ev.Event, "event_id", eventID)
		return &PaymentResult{
			Status:  "ignored",
			Message: fmt.Sprintf("event type %q is not handled", ev.Event),
		}, nil
	}

	if ev.OrderID == 0 {
		return nil, &MalformedPayloadError{Reason: "missing order_id"}
	}

	o, err := s.orders.MarkPaid(ctx, ev.OrderID)
	if err != nil {
		return nil, err
	}

	slog.Info("Payment webhook processed",
		"order_id", o.ID, "order_status", o.Status, "amount", ev.Amount, "currency", ev.Currency)
	return &PaymentResult{
		Status:      "success",
		Message:     "payment processed",
		OrderID:     o.ID,
		OrderStatus: o.Status,
	}, nil
}
