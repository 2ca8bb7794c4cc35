package transport

import (
	"net/http"
	"strconv"
	"time"

	"turbo-warehouse/internal/domain"
	"turbo-warehouse/internal/middleware"
	"turbo-warehouse/internal/repository"
	"turbo-warehouse/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CustomerPayload is the customer snapshot in order requests
type CustomerPayload struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateOrderItem references a product by id in a create request
type CreateOrderItem struct {
	ID       int64 `json:"id" validate:"required"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

// UpdateOrderItem references a product by product_id in an update request
type UpdateOrderItem struct {
	ProductID int64 `json:"product_id" validate:"required"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest represents the order creation payload
type CreateOrderRequest struct {
	Customer CustomerPayload   `json:"customer" validate:"required"`
	Items    []CreateOrderItem `json:"items" validate:"dive"`
	Pickup   string            `json:"pickup"`
	Comment  string            `json:"comment"`
}

// UpdateOrderRequest represents the order update payload. The item set
// replaces the stored one wholesale.
type UpdateOrderRequest struct {
	Customer CustomerPayload    `json:"customer" validate:"required"`
	Items    []UpdateOrderItem  `json:"items" validate:"dive"`
	Pickup   string             `json:"pickup"`
	Comment  string             `json:"comment"`
	Status   domain.OrderStatus `json:"status" validate:"required"`
}

// OrderSummaryResponse is the flat list-view shape consumed by the frontend
type OrderSummaryResponse struct {
	ID              int64              `json:"id"`
	Number          string             `json:"number"`
	Customer        string             `json:"customer"`
	CustomerEmail   string             `json:"customer_email"`
	CustomerPhone   string             `json:"customer_phone"`
	CustomerAddress string             `json:"customer_address"`
	Pickup          string             `json:"pickup"`
	Comment         string             `json:"comment"`
	Status          domain.OrderStatus `json:"status"`
	Date            time.Time          `json:"date"`
	Total           float64            `json:"total"`
	Items           []domain.OrderLine `json:"items"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes. Every route, including the
// single-order read, sits behind the auth gate.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create handles order creation
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order creation validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderLine{ProductID: item.ID, Quantity: item.Quantity})
	}

	id, err := h.orderService.CreateOrder(r.Context(), customerFromPayload(req.Customer), items, req.Pickup, req.Comment)
	if err != nil {
		h.logger.Error("Order creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	h.logger.Info("Order created", zap.Int64("order_id", id))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// List handles the order list view
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Order listing failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	response := make([]OrderSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, OrderSummaryResponse{
			ID:              s.ID,
			Number:          s.Number,
			Customer:        s.Customer.Name,
			CustomerEmail:   s.Customer.Email,
			CustomerPhone:   s.Customer.Phone,
			CustomerAddress: s.Customer.Address,
			Pickup:          s.PickupPoint,
			Comment:         s.Comment,
			Status:          s.Status,
			Date:            s.CreatedAt,
			Total:           s.Total,
			Items:           s.Items,
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// Get handles the single-order detail view
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	detail, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Order lookup failed", zap.Error(err), zap.Int64("order_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

// Update handles the replace-all-lines order update
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Order update validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	err := h.orderService.UpdateOrder(r.Context(), id, customerFromPayload(req.Customer), items, req.Pickup, req.Comment, req.Status)
	if err != nil {
		switch err {
		case repository.ErrOrderNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		case service.ErrInvalidOrderStatus:
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid order status")
		default:
			h.logger.Error("Order update failed", zap.Error(err), zap.Int64("order_id", id))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order")
		}
		return
	}

	h.logger.Info("Order updated", zap.Int64("order_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order updated"})
}

// Delete handles order deletion
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	if err := h.orderService.DeleteOrder(r.Context(), id); err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		h.logger.Error("Order deletion failed", zap.Error(err), zap.Int64("order_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	h.logger.Info("Order deleted", zap.Int64("order_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

func (h *OrderHandler) orderID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return 0, false
	}
	return id, true
}

func customerFromPayload(p CustomerPayload) domain.Customer {
	return domain.Customer{
		Name:    p.Name,
		Email:   p.Email,
		Phone:   p.Phone,
		Address: p.Address,
	}
}
