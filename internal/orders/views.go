package orders

import "time"

// OrderView is the order header joined with the customer name, as returned
// by every mutating operation.
type OrderView struct {
	ID           int64     `json:"id"`
	CustomerID   int64     `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	OrderDate    time.Time `json:"order_date"`
	Status       string    `json:"status"`
	TotalAmount  float64   `json:"total_amount"`
	Profit       float64   `json:"profit"`
	Note         string    `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OrderItemView is one line joined with its product. OriginalPrice carries
// the product's current reference price for cost display; Subtotal is
// PriceEach times QuantityOrdered.
type OrderItemView struct {
	ID              int64   `json:"id"`
	OrderID         int64   `json:"order_id"`
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name"`
	QuantityOrdered int     `json:"quantity_ordered"`
	PriceEach       float64 `json:"price_each"`
	OriginalPrice   float64 `json:"original_price"`
	Subtotal        float64 `json:"subtotal"`
}

// OrderDetailView is the full read model: header plus line items.
type OrderDetailView struct {
	OrderView
	Items []OrderItemView `json:"items"`
}
