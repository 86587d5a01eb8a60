package domain

import "time"

// StoreProduct represents a sellable product with its stock counter.
// Price is the reference price used as cost-at-sale when computing order
// profit; SellPrice is the last price the product actually sold at and is
// overwritten by order mutations (see the orders engine recordLastSalePrice).
type StoreProduct struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"size:100;index" json:"name" form:"name"`
	Price           float64   `json:"price" form:"price"`
	SellPrice       float64   `json:"sell_price" form:"sell_price"`
	QuantityInStock int       `gorm:"default:0" json:"quantity_in_stock" form:"quantity_in_stock"`
	Volume          string    `gorm:"size:45" json:"volume" form:"volume"`
	Description     string    `gorm:"type:text" json:"description" form:"description"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName Specify table name
func (StoreProduct) TableName() string {
	return "store_product"
}
