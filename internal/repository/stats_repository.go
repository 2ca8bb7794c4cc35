package repository

import (
	"context"
	"database/sql"
	"fmt"

	"turbo-warehouse/internal/domain"
)

// StatsRepository computes dashboard roll-ups over the catalog and order
// stores
type StatsRepository interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

type statsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new instance of StatsRepository
func NewStatsRepository(db *sql.DB) StatsRepository {
	return &statsRepository{db: db}
}

// DashboardStats runs every aggregation inside a single repeatable-read
// transaction, so all counts describe one snapshot. Without this, concurrent
// writes could make pending + completed counts disagree with the totals.
func (r *statsRepository) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to begin stats transaction: %w", err)
	}
	defer tx.Rollback()

	stats := &domain.DashboardStats{
		InventoryByCategory: []domain.CategoryCount{},
		OrdersByStatus:      []domain.StatusCount{},
		SalesData:           []domain.SalesPoint{},
	}

	err = tx.QueryRowContext(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM products`).Scan(&stats.TotalInventory)
	if err != nil {
		return nil, fmt.Errorf("failed to count inventory: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE quantity < $1`,
		domain.LowStockThreshold,
	).Scan(&stats.LowStockItems)
	if err != nil {
		return nil, fmt.Errorf("failed to count low stock items: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE status = $1`,
		domain.OrderPending,
	).Scan(&stats.PendingOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE status = $1`,
		domain.OrderCompleted,
	).Scan(&stats.CompletedOrders)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed orders: %w", err)
	}

	if err := r.categoryCounts(ctx, tx, stats); err != nil {
		return nil, err
	}
	if err := r.statusCounts(ctx, tx, stats); err != nil {
		return nil, err
	}
	if err := r.salesData(ctx, tx, stats); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stats transaction: %w", err)
	}

	return stats, nil
}

func (r *statsRepository) categoryCounts(ctx context.Context, tx *sql.Tx, stats *domain.DashboardStats) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM products
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to count products by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cc domain.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return fmt.Errorf("failed to scan category count: %w", err)
		}
		stats.InventoryByCategory = append(stats.InventoryByCategory, cc)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating category counts: %w", err)
	}
	return nil
}

func (r *statsRepository) statusCounts(ctx context.Context, tx *sql.Tx, stats *domain.DashboardStats) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT status, COUNT(*)
		FROM orders
		GROUP BY status
		ORDER BY COUNT(*) DESC, status ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to count orders by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc domain.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return fmt.Errorf("failed to scan status count: %w", err)
		}
		stats.OrdersByStatus = append(stats.OrdersByStatus, sc)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating status counts: %w", err)
	}
	return nil
}

// salesData aggregates the last seven days of orders. Revenue is recomputed
// from current product prices, same as order totals everywhere else.
func (r *statsRepository) salesData(ctx context.Context, tx *sql.Tx, stats *domain.DashboardStats) error {
	rows, err := tx.QueryContext(ctx, `
		SELECT TO_CHAR(o.created_at::date, 'YYYY-MM-DD') AS day,
		       COUNT(DISTINCT o.id),
		       COALESCE(SUM(p.price * oi.quantity), 0)
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE o.created_at >= NOW() - INTERVAL '7 days'
		GROUP BY o.created_at::date
		ORDER BY o.created_at::date ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to aggregate sales data: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sp domain.SalesPoint
		if err := rows.Scan(&sp.Date, &sp.Orders, &sp.Revenue); err != nil {
			return fmt.Errorf("failed to scan sales point: %w", err)
		}
		stats.SalesData = append(stats.SalesData, sp)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating sales data: %w", err)
	}
	return nil
}
