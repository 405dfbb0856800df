package model

import (
	"time"
)

type Franchise struct {
	ID        uint      `gorm:"primarykey" json:"id"`              // franchise ID
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`  // franchise name (unique)
	Admins    []User    `gorm:"many2many:franchise_admins;" json:"admins"`
	Stores    []Store   `gorm:"foreignKey:FranchiseID;constraint:OnDelete:CASCADE" json:"stores"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Franchise) TableName() string {
	return "franchises"
}

// Store belongs to exactly one franchise for its entire lifecycle.
type Store struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	FranchiseID uint      `gorm:"not null;index" json:"franchiseId"`
	Name        string    `gorm:"not null" json:"name"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

func (Store) TableName() string {
	return "stores"
}
