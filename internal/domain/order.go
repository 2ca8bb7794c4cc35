package domain

import "time"

// OrderStatus is a caller-settable order label. There is no enforced
// transition graph: any status may follow any other.
type OrderStatus string

const (
	OrderPending          OrderStatus = "pending"
	OrderProcessing       OrderStatus = "processing"
	OrderAssembled        OrderStatus = "assembled"
	OrderShipped          OrderStatus = "shipped"
	OrderDeliveredToPoint OrderStatus = "delivered-to-point"
	OrderCompleted        OrderStatus = "completed"
	OrderCancelled        OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known order statuses
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderAssembled, OrderShipped,
		OrderDeliveredToPoint, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Customer is the customer snapshot copied onto an order at creation time.
// It is not a foreign key to a user account.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Order is an order row without its line items
type Order struct {
	ID          int64       `json:"id" db:"id"`
	Number      string      `json:"number" db:"order_number"`
	Customer    Customer    `json:"customer"`
	PickupPoint string      `json:"pickup" db:"pickup_point"`
	Comment     string      `json:"comment" db:"comment"`
	Status      OrderStatus `json:"status" db:"status"`
	CreatedAt   time.Time   `json:"date" db:"created_at"`
}

// OrderLine is a (productId, quantity) pair owned by exactly one order.
// The product reference is weak: the product may have been deleted since.
type OrderLine struct {
	ProductID int64 `json:"product_id" db:"product_id"`
	Quantity  int   `json:"quantity" db:"quantity"`
}

// OrderDetailLine is an order line resolved against the current catalog
type OrderDetailLine struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// OrderSummary is the list-view projection of an order: the order row plus
// its computed total (from current product prices) and raw line items
type OrderSummary struct {
	Order
	Total float64     `json:"total"`
	Items []OrderLine `json:"items"`
}

// OrderDetail is the single-order projection with catalog-resolved lines.
// Subtotal and Total are recomputed from current product prices at query
// time, so historical totals drift when prices change.
type OrderDetail struct {
	ID             int64             `json:"id"`
	Number         string            `json:"number"`
	Date           time.Time         `json:"date"`
	Status         OrderStatus       `json:"status"`
	Items          []OrderDetailLine `json:"items"`
	Subtotal       float64           `json:"subtotal"`
	Discount       float64           `json:"discount"`
	Total          float64           `json:"total"`
	Customer       Customer          `json:"customer"`
	PickupPoint    string            `json:"pickup"`
	TrackingNumber string            `json:"trackingNumber"`
	Comment        string            `json:"comment"`
	History        []OrderEvent      `json:"history"`
}

// OrderEvent is a status-history entry on an order detail view
type OrderEvent struct {
	Date    time.Time   `json:"date"`
	Status  OrderStatus `json:"status"`
	Comment string      `json:"comment"`
}
