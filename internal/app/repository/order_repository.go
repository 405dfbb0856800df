package repository

import (
	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(order *model.Order) error
	FindByUserID(userID uint, page, limit int) ([]model.Order, bool, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id":      order.UserID,
		"franchise_id": order.FranchiseID,
		"store_id":     order.StoreID,
		"item_count":   len(order.Items),
	})

	if err := r.db.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id":  order.UserID,
			"store_id": order.StoreID,
		})
		return err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})
	return nil
}

// FindByUserID returns the user's orders, newest first.
func (r *orderRepository) FindByUserID(userID uint, page, limit int) ([]model.Order, bool, error) {
	logger.Debug("Listing orders for user from database", map[string]interface{}{
		"user_id": userID,
		"page":    page,
		"limit":   limit,
	})

	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 10
	}

	orders := make([]model.Order, 0, limit+1)
	err := r.db.
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(page * limit).
		Limit(limit + 1).
		Find(&orders).Error
	if err != nil {
		logger.Error("Failed to list orders for user from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, false, err
	}

	more := len(orders) > limit
	if more {
		orders = orders[:limit]
	}

	return orders, more, nil
}
