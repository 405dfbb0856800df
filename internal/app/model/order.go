package model

import (
	"time"
)

// Order is created once and never mutated or deleted afterwards.
type Order struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	UserID      uint        `gorm:"not null;index" json:"-"`
	FranchiseID uint        `gorm:"not null;index" json:"franchiseId"`
	StoreID     uint        `gorm:"not null;index" json:"storeId"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt   time.Time   `json:"date"` // order placement time
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots description and price at order time.
type OrderItem struct {
	ID          uint    `gorm:"primarykey" json:"-"`
	OrderID     uint    `gorm:"not null;index" json:"-"`
	MenuID      uint    `gorm:"not null;index" json:"menuId"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
