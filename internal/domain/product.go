package domain

// ProductStatus is a stock availability label for a catalog product
type ProductStatus string

const (
	ProductInStock    ProductStatus = "in-stock"
	ProductOutOfStock ProductStatus = "out-of-stock"
	ProductExpected   ProductStatus = "expected"
)

// LowStockThreshold is the stock level below which a product counts as
// low stock in dashboard aggregation
const LowStockThreshold = 5

// Product represents a product in the warehouse catalog
type Product struct {
	ID          int64         `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	SKU         string        `json:"sku" db:"sku"`
	Category    string        `json:"category" db:"category"`
	Barcode     string        `json:"barcode" db:"barcode"`
	Quantity    int           `json:"quantity" db:"quantity"`
	Price       float64       `json:"price" db:"price"`
	Location    string        `json:"location" db:"location"`
	Status      ProductStatus `json:"status" db:"status"`
	Description string        `json:"description" db:"description"`
	Supplier    string        `json:"supplier" db:"supplier"`
}
