package domain

import "time"

// StoreCustomer represents a shop customer record
type StoreCustomer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Fname     string    `gorm:"size:45;index" json:"fname" form:"fname"`
	Lname     string    `gorm:"size:45" json:"lname" form:"lname"`
	Phone     string    `gorm:"size:20" json:"phone" form:"phone"`
	Email     string    `gorm:"size:100" json:"email" form:"email"`
	Address   string    `gorm:"type:text" json:"address" form:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (StoreCustomer) TableName() string {
	return "store_customer"
}
