package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"turbo-warehouse/internal/domain"
	"turbo-warehouse/internal/repository"
)

var (
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// OrderService defines the interface for order lifecycle business logic
type OrderService interface {
	CreateOrder(ctx context.Context, customer domain.Customer, items []domain.OrderLine, pickup, comment string) (int64, error)
	UpdateOrder(ctx context.Context, id int64, customer domain.Customer, items []domain.OrderLine, pickup, comment string, status domain.OrderStatus) error
	DeleteOrder(ctx context.Context, id int64) error
	GetOrder(ctx context.Context, id int64) (*domain.OrderDetail, error)
	ListOrders(ctx context.Context) ([]*domain.OrderSummary, error)
	ComputeOrderTotal(ctx context.Context, id int64, discount float64) (subtotal, total float64, err error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// CreateOrder persists a new order with its lines as one atomic unit and
// returns the generated id, immediately usable for lookups
func (s *orderService) CreateOrder(ctx context.Context, customer domain.Customer, items []domain.OrderLine, pickup, comment string) (int64, error) {
	order := &domain.Order{
		Customer:    customer,
		PickupPoint: pickup,
		Comment:     comment,
		Status:      domain.OrderPending,
		CreatedAt:   time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order, items); err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}

	return order.ID, nil
}

// UpdateOrder replaces the order fields and the entire line set. Replace, not
// merge: no line from the previous set survives.
func (s *orderService) UpdateOrder(ctx context.Context, id int64, customer domain.Customer, items []domain.OrderLine, pickup, comment string, status domain.OrderStatus) error {
	if !domain.ValidOrderStatus(status) {
		return ErrInvalidOrderStatus
	}

	order := &domain.Order{
		ID:          id,
		Customer:    customer,
		PickupPoint: pickup,
		Comment:     comment,
		Status:      status,
	}

	if err := s.orderRepo.Update(ctx, order, items); err != nil {
		if err == repository.ErrOrderNotFound {
			return err
		}
		return fmt.Errorf("failed to update order: %w", err)
	}

	return nil
}

// DeleteOrder removes the order and all of its lines
func (s *orderService) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		if err == repository.ErrOrderNotFound {
			return err
		}
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

// GetOrder resolves the order with its catalog-joined lines and recomputes
// subtotal and total from current product prices
func (s *orderService) GetOrder(ctx context.Context, id int64) (*domain.OrderDetail, error) {
	order, lines, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	subtotal := lineSubtotal(lines)

	return &domain.OrderDetail{
		ID:          order.ID,
		Number:      order.Number,
		Date:        order.CreatedAt,
		Status:      order.Status,
		Items:       lines,
		Subtotal:    subtotal,
		Discount:    0,
		Total:       applyDiscount(subtotal, 0),
		Customer:    order.Customer,
		PickupPoint: order.PickupPoint,
		Comment:     order.Comment,
		History:     []domain.OrderEvent{},
	}, nil
}

// ListOrders returns every order with its recomputed total and raw items
func (s *orderService) ListOrders(ctx context.Context) ([]*domain.OrderSummary, error) {
	summaries, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return summaries, nil
}

// ComputeOrderTotal recomputes subtotal from current product prices and
// applies a caller-supplied discount percentage. No total is ever stored:
// re-querying after a price change yields a different value.
func (s *orderService) ComputeOrderTotal(ctx context.Context, id int64, discount float64) (float64, float64, error) {
	_, lines, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return 0, 0, err
		}
		return 0, 0, fmt.Errorf("failed to compute order total: %w", err)
	}

	subtotal := lineSubtotal(lines)
	return subtotal, applyDiscount(subtotal, discount), nil
}

func lineSubtotal(lines []domain.OrderDetailLine) float64 {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.Price * float64(line.Quantity)
	}
	return subtotal
}

func applyDiscount(subtotal, discount float64) float64 {
	return subtotal * (1 - discount/100)
}
