package domain

import "time"

// Order status values. Transitions between them are unrestricted; only the
// item set is frozen once an order leaves OrderStatusPending.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is one of the known status values.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// StoreOrder is an order header. TotalAmount and Profit are derived from the
// item set and persisted; the orders engine keeps them reconciled.
type StoreOrder struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID  int64     `gorm:"index" json:"customer_id" form:"customer_id"`
	OrderDate   time.Time `gorm:"index" json:"order_date" form:"order_date"`
	Status      string    `gorm:"size:20;index;default:'pending'" json:"status" form:"status"`
	TotalAmount float64   `json:"total_amount"`
	Profit      float64   `json:"profit"`
	Note        string    `gorm:"type:text" json:"note" form:"note"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName Specify table name
func (StoreOrder) TableName() string {
	return "store_order"
}

// StoreOrderItem is one product line within an order. Lines are created and
// destroyed only as a whole set together with their order.
type StoreOrderItem struct {
	ID              int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64   `gorm:"index" json:"order_id"`
	ProductID       int64   `gorm:"index" json:"product_id"`
	QuantityOrdered int     `json:"quantity_ordered"`
	PriceEach       float64 `json:"price_each"`
}

// TableName Specify table name
func (StoreOrderItem) TableName() string {
	return "store_order_item"
}
