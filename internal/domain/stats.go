package domain

// CategoryCount is a per-category product count
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// StatusCount is a per-status order count
type StatusCount struct {
	Status OrderStatus `json:"status"`
	Count  int         `json:"count"`
}

// SalesPoint is one day of order volume and recomputed revenue
type SalesPoint struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// DashboardStats is the dashboard roll-up. All counts come from a single
// repeatable-read transaction, so they describe one consistent snapshot.
type DashboardStats struct {
	TotalInventory      int             `json:"totalInventory"`
	LowStockItems       int             `json:"lowStockItems"`
	PendingOrders       int             `json:"pendingOrders"`
	CompletedOrders     int             `json:"completedOrders"`
	InventoryByCategory []CategoryCount `json:"inventoryByCategory"`
	OrdersByStatus      []StatusCount   `json:"ordersByStatus"`
	SalesData           []SalesPoint    `json:"salesData"`
}
