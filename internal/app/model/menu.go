package model

import (
	"time"
)

// MenuItem is global, not scoped to any franchise.
type MenuItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `json:"image"`                // image reference
	Price       float64   `gorm:"not null" json:"price"` // non-negative
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
