package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"turbo-warehouse/internal/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order + line-item data access.
// An order exclusively owns its lines: every multi-statement write runs in a
// single transaction, and Update/Delete take a row lock on the order so that
// at most one line replacement per order id is in flight at a time.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order, lines []domain.OrderLine) error
	Update(ctx context.Context, order *domain.Order, lines []domain.OrderLine) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Order, []domain.OrderDetailLine, error)
	List(ctx context.Context) ([]*domain.OrderSummary, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order row and all of its lines as one transaction.
// On success order.ID and order.Number are populated and immediately usable
// for lookups. Any line-insert failure rolls the whole order back.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order, lines []domain.OrderLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (customer_name, customer_email, customer_phone, customer_address,
		                    pickup_point, comment, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		order.Customer.Name,
		order.Customer.Email,
		order.Customer.Phone,
		order.Customer.Address,
		order.PickupPoint,
		order.Comment,
		order.Status,
		order.CreatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Display numbers follow the ORD-<id> convention
	order.Number = fmt.Sprintf("ORD-%d", order.ID)
	if _, err := tx.ExecContext(ctx, `UPDATE orders SET order_number = $2 WHERE id = $1`, order.ID, order.Number); err != nil {
		return fmt.Errorf("failed to set order number: %w", err)
	}

	if err := insertLines(ctx, tx, order.ID, lines); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// Update replaces the order fields and the entire line set in one
// transaction. The SELECT ... FOR UPDATE doubles as the existence check and
// serializes concurrent replacements on the same order id.
func (r *orderRepository) Update(ctx context.Context, order *domain.Order, lines []domain.OrderLine) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lockedID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1 FOR UPDATE`, order.ID).Scan(&lockedID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to lock order: %w", err)
	}

	query := `
		UPDATE orders
		SET customer_name = $2, customer_email = $3, customer_phone = $4,
		    customer_address = $5, pickup_point = $6, comment = $7, status = $8
		WHERE id = $1
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		order.ID,
		order.Customer.Name,
		order.Customer.Email,
		order.Customer.Phone,
		order.Customer.Address,
		order.PickupPoint,
		order.Comment,
		order.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("failed to clear order lines: %w", err)
	}

	if err := insertLines(ctx, tx, order.ID, lines); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order update: %w", err)
	}

	return nil
}

// Delete removes the order's lines and then the order itself
func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete order lines: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrOrderNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order delete: %w", err)
	}

	return nil
}

// FindByID retrieves the order row and its lines resolved against the
// current catalog. Lines whose product no longer exists are excluded by the
// inner join rather than failing the whole lookup.
func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, []domain.OrderDetailLine, error) {
	query := `
		SELECT id, order_number, customer_name, customer_email, customer_phone,
		       customer_address, pickup_point, comment, status, created_at
		FROM orders
		WHERE id = $1
	`

	order := &domain.Order{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.Number,
		&order.Customer.Name,
		&order.Customer.Email,
		&order.Customer.Phone,
		&order.Customer.Address,
		&order.PickupPoint,
		&order.Comment,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	linesQuery := `
		SELECT oi.product_id, p.name, p.sku, p.price, oi.quantity
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = $1
	`

	rows, err := r.db.QueryContext(ctx, linesQuery, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load order lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.OrderDetailLine{}
	for rows.Next() {
		var line domain.OrderDetailLine
		err := rows.Scan(&line.ProductID, &line.Name, &line.SKU, &line.Price, &line.Quantity)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating order lines: %w", err)
	}

	return order, lines, nil
}

// List retrieves every order with its total recomputed from current product
// prices and its raw {product_id, quantity} items, newest first
func (r *orderRepository) List(ctx context.Context) ([]*domain.OrderSummary, error) {
	query := `
		SELECT o.id, o.order_number, o.customer_name, o.customer_email, o.customer_phone,
		       o.customer_address, o.pickup_point, o.comment, o.status, o.created_at,
		       COALESCE(SUM(p.price * oi.quantity), 0) AS total,
		       COALESCE(
		           JSON_AGG(JSON_BUILD_OBJECT('product_id', oi.product_id, 'quantity', oi.quantity))
		           FILTER (WHERE oi.product_id IS NOT NULL),
		           '[]'
		       ) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		LEFT JOIN products p ON oi.product_id = p.id
		GROUP BY o.id
		ORDER BY o.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	summaries := []*domain.OrderSummary{}
	for rows.Next() {
		summary := &domain.OrderSummary{}
		var itemsJSON []byte
		err := rows.Scan(
			&summary.ID,
			&summary.Number,
			&summary.Customer.Name,
			&summary.Customer.Email,
			&summary.Customer.Phone,
			&summary.Customer.Address,
			&summary.PickupPoint,
			&summary.Comment,
			&summary.Status,
			&summary.CreatedAt,
			&summary.Total,
			&itemsJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order summary: %w", err)
		}

		if err := json.Unmarshal(itemsJSON, &summary.Items); err != nil {
			return nil, fmt.Errorf("failed to decode order items: %w", err)
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return summaries, nil
}

func insertLines(ctx context.Context, tx *sql.Tx, orderID int64, lines []domain.OrderLine) error {
	for _, line := range lines {
		_, err := tx.ExecContext(
			ctx,
			`INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3)`,
			orderID,
			line.ProductID,
			line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}
	return nil
}
