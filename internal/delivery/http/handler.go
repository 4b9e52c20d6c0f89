package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/egannguyen/go-orders-inventory/internal/entity"
	"github.com/egannguyen/go-orders-inventory/internal/service"
)

// Handler exposes the HTTP surface of the service.
type Handler struct {
	orderSvc   *service.OrderService
	paymentSvc *service.PaymentService
}

func NewHandler(orderSvc *service.OrderService, paymentSvc *service.PaymentService) *Handler {
	return &Handler{
		orderSvc:   orderSvc,
		paymentSvc: paymentSvc,
	}
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /products", h.handleCreateProduct)
	mux.HandleFunc("GET /products", h.handleListProducts)
	mux.HandleFunc("GET /products/{id}", h.handleGetProduct)

	mux.HandleFunc("POST /orders", h.handleCreateOrder)
	mux.HandleFunc("GET /orders", h.handleListOrders)
	mux.HandleFunc("GET /orders/{id}", h.handleGetOrder)
	mux.HandleFunc("PUT /orders/{id}", h.handleUpdateOrder)
	mux.HandleFunc("DELETE /orders/{id}", h.handleCancelOrder)

	mux.HandleFunc("POST /webhooks/payment", h.handlePaymentWebhook)

	mux.HandleFunc("GET /health", h.handleHealth)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type createProductRequest struct {
	SKU   string  `json:"sku"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := &entity.Product{SKU: req.SKU, Name: req.Name, Price: req.Price, Stock: req.Stock}
	if err := h.orderSvc.CreateProduct(r.Context(), p); err != nil {
		if errors.Is(err, entity.ErrDuplicateSKU) {
			writeError(w, http.StatusConflict,
				fmt.Sprintf("product with SKU %q already exists", req.SKU))
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.orderSvc.ListProducts(r.Context(), queryLimit(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if products == nil {
		products = []entity.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "product not found")
		return
	}
	p, err := h.orderSvc.GetProduct(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type createOrderRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	o, err := h.orderSvc.CreateOrder(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderSvc.ListOrders(r.Context(), queryLimit(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if orders == nil {
		orders = []entity.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	o, err := h.orderSvc.GetOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type updateOrderRequest struct {
	Status string `json:"status"`
}

func (h *Handler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status, ok := entity.ParseOrderStatus(req.Status)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown status %q", req.Status))
		return
	}

	o, err := h.orderSvc.UpdateStatus(r.Context(), id, status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	_, err = h.orderSvc.Cancel(r.Context(), id)
	var transition *entity.InvalidTransitionError
	if errors.As(err, &transition) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":          "Cannot cancel order",
			"current_status": transition.From,
			"message":        fmt.Sprintf("orders with status %s cannot be canceled", transition.From),
		})
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	// The raw bytes are read before anything else: the signature covers the
	// wire body exactly, and no parsing happens for unauthenticated callers.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	signature := r.Header.Get("X-Webhook-Signature")
	eventID := r.Header.Get("X-Event-Id")

	result, err := h.paymentSvc.Process(r.Context(), body, signature, eventID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func queryLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return 100
	}
	return n
}
