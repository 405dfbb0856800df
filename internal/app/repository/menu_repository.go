package repository

import (
	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"gorm.io/gorm"
)

type MenuRepository interface {
	List() ([]model.MenuItem, error)
	Create(item *model.MenuItem) error
	FindByIDs(ids []uint) ([]model.MenuItem, error)
}

type menuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) List() ([]model.MenuItem, error) {
	items := make([]model.MenuItem, 0)
	if err := r.db.Order("id ASC").Find(&items).Error; err != nil {
		logger.Error("Failed to list menu items from database", err, nil)
		return nil, err
	}

	return items, nil
}

func (r *menuRepository) Create(item *model.MenuItem) error {
	logger.Debug("Creating menu item in database", map[string]interface{}{
		"title": item.Title,
		"price": item.Price,
	})

	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create menu item in database", err, map[string]interface{}{
			"title": item.Title,
		})
		return err
	}

	return nil
}

func (r *menuRepository) FindByIDs(ids []uint) ([]model.MenuItem, error) {
	var items []model.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		logger.Error("Failed to find menu items by IDs in database", err, map[string]interface{}{
			"id_count": len(ids),
		})
		return nil, err
	}

	return items, nil
}
