package transport

import (
	"net/http"
	"strconv"

	"turbo-warehouse/internal/domain"
	"turbo-warehouse/internal/middleware"
	"turbo-warehouse/internal/repository"
	"turbo-warehouse/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductRequest represents the create/update payload for a catalog product
type ProductRequest struct {
	Name        string               `json:"name" validate:"required"`
	SKU         string               `json:"sku" validate:"required"`
	Category    string               `json:"category"`
	Barcode     string               `json:"barcode"`
	Quantity    int                  `json:"quantity" validate:"gte=0"`
	Price       float64              `json:"price" validate:"gte=0"`
	Location    string               `json:"location"`
	Status      domain.ProductStatus `json:"status"`
	Description string               `json:"description"`
	Supplier    string               `json:"supplier"`
}

// InventoryHandler handles HTTP requests for catalog operations
type InventoryHandler struct {
	inventoryService service.InventoryService
	logger           *zap.Logger
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/inventory", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns the catalog, optionally filtered by ?search=
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.inventoryService.ListProducts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("Inventory listing failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list inventory")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get returns a single product
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	product, err := h.inventoryService.GetProduct(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Product lookup failed", zap.Error(err), zap.Int64("product_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create adds a product to the catalog
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product creation validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := productFromRequest(req)
	if err := h.inventoryService.AddProduct(r.Context(), product); err != nil {
		if err == repository.ErrProductAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, "product with this SKU already exists")
			return
		}
		h.logger.Error("Product creation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.Int64("product_id", product.ID), zap.String("sku", product.SKU))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]int64{"id": product.ID})
}

// Update modifies an existing product
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product update validation failed", zap.Error(err))
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := productFromRequest(req)
	product.ID = id
	if err := h.inventoryService.UpdateProduct(r.Context(), product); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Product update failed", zap.Error(err), zap.Int64("product_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product updated"})
}

// Delete removes a product from the catalog
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.productID(w, r)
	if !ok {
		return
	}

	if err := h.inventoryService.RemoveProduct(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Product deletion failed", zap.Error(err), zap.Int64("product_id", id))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *InventoryHandler) productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return 0, false
	}
	return id, true
}

func productFromRequest(req ProductRequest) *domain.Product {
	return &domain.Product{
		Name:        req.Name,
		SKU:         req.SKU,
		Category:    req.Category,
		Barcode:     req.Barcode,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Location:    req.Location,
		Status:      req.Status,
		Description: req.Description,
		Supplier:    req.Supplier,
	}
}
