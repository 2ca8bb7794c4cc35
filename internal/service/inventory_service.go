package service

import (
	"context"
	"fmt"

	"turbo-warehouse/internal/domain"
	"turbo-warehouse/internal/repository"
)

// InventoryService defines the interface for catalog business logic
type InventoryService interface {
	AddProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	RemoveProduct(ctx context.Context, id int64) error
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, search string) ([]*domain.Product, error)
}

type inventoryService struct {
	productRepo repository.ProductRepository
}

// NewInventoryService creates a new instance of InventoryService
func NewInventoryService(productRepo repository.ProductRepository) InventoryService {
	return &inventoryService{productRepo: productRepo}
}

// AddProduct inserts a new product into the catalog
func (s *inventoryService) AddProduct(ctx context.Context, product *domain.Product) error {
	if product.Status == "" {
		product.Status = domain.ProductInStock
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if err == repository.ErrProductAlreadyExists {
			return err
		}
		return fmt.Errorf("failed to add product: %w", err)
	}
	return nil
}

// UpdateProduct updates an existing catalog product
func (s *inventoryService) UpdateProduct(ctx context.Context, product *domain.Product) error {
	if err := s.productRepo.Update(ctx, product); err != nil {
		if err == repository.ErrProductNotFound {
			return err
		}
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// RemoveProduct deletes a product from the catalog
func (s *inventoryService) RemoveProduct(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrProductNotFound {
			return err
		}
		return fmt.Errorf("failed to remove product: %w", err)
	}
	return nil
}

// GetProduct retrieves a single product by ID
func (s *inventoryService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListProducts retrieves the catalog, optionally filtered by a search term
func (s *inventoryService) ListProducts(ctx context.Context, search string) ([]*domain.Product, error) {
	products, err := s.productRepo.Search(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
