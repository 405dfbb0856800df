package repository

import (
	"strings"

	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"gorm.io/gorm"
)

type FranchiseRepository interface {
	Create(franchise *model.Franchise) error
	FindByID(id uint) (*model.Franchise, error)
	FindByAdminID(userID uint) ([]model.Franchise, error)
	List(page, limit int, name string) ([]model.Franchise, bool, error)
	Delete(id uint) error
	CreateStore(store *model.Store) error
	FindStore(franchiseID, storeID uint) (*model.Store, error)
	DeleteStore(franchiseID, storeID uint) error
}

type franchiseRepository struct {
	db *gorm.DB
}

func NewFranchiseRepository(db *gorm.DB) FranchiseRepository {
	return &franchiseRepository{db: db}
}

func (r *franchiseRepository) Create(franchise *model.Franchise) error {
	logger.Debug("Creating franchise in database", map[string]interface{}{
		"name":        franchise.Name,
		"admin_count": len(franchise.Admins),
	})

	if err := r.db.Create(franchise).Error; err != nil {
		logger.Error("Failed to create franchise in database", err, map[string]interface{}{
			"name": franchise.Name,
		})
		return err
	}

	logger.Debug("Franchise created in database", map[string]interface{}{
		"franchise_id": franchise.ID,
		"name":         franchise.Name,
	})
	return nil
}

func (r *franchiseRepository) FindByID(id uint) (*model.Franchise, error) {
	logger.Debug("Finding franchise by ID in database", map[string]interface{}{
		"franchise_id": id,
	})

	var franchise model.Franchise
	err := r.db.
		Preload("Admins").
		Preload("Admins.Roles").
		Preload("Stores").
		First(&franchise, id).Error
	if err != nil {
		logger.Error("Failed to find franchise by ID in database", err, map[string]interface{}{
			"franchise_id": id,
		})
		return nil, err
	}

	return &franchise, nil
}

func (r *franchiseRepository) FindByAdminID(userID uint) ([]model.Franchise, error) {
	logger.Debug("Finding franchises by admin in database", map[string]interface{}{
		"user_id": userID,
	})

	franchises := make([]model.Franchise, 0)
	err := r.db.
		Joins("JOIN franchise_admins ON franchise_admins.franchise_id = franchises.id").
		Where("franchise_admins.user_id = ?", userID).
		Preload("Admins").
		Preload("Stores").
		Order("franchises.id ASC").
		Find(&franchises).Error
	if err != nil {
		logger.Error("Failed to find franchises by admin in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	return franchises, nil
}

func (r *franchiseRepository) List(page, limit int, name string) ([]model.Franchise, bool, error) {
	logger.Debug("Listing franchises from database", map[string]interface{}{
		"page":  page,
		"limit": limit,
		"name":  name,
	})

	if page < 0 {
		page = 0
	}
	if limit <= 0 {
		limit = 10
	}

	query := r.db.Model(&model.Franchise{}).
		Preload("Admins").
		Preload("Stores")
	if name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	franchises := make([]model.Franchise, 0, limit+1)
	err := query.
		Order("id ASC").
		Offset(page * limit).
		Limit(limit + 1).
		Find(&franchises).Error
	if err != nil {
		logger.Error("Failed to list franchises from database", err, map[string]interface{}{
			"page":  page,
			"limit": limit,
		})
		return nil, false, err
	}

	more := len(franchises) > limit
	if more {
		franchises = franchises[:limit]
	}

	return franchises, more, nil
}

func (r *franchiseRepository) Delete(id uint) error {
	logger.Debug("Deleting franchise from database", map[string]interface{}{
		"franchise_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		var franchise model.Franchise
		if err := tx.First(&franchise, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&franchise).Association("Admins").Clear(); err != nil {
			return err
		}
		if err := tx.Where("franchise_id = ?", id).Delete(&model.Store{}).Error; err != nil {
			return err
		}
		// Franchisee assignments scoped to this franchise die with it.
		if err := tx.Where("role = ? AND franchise_id = ?", model.RoleFranchisee, id).
			Delete(&model.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Delete(&franchise).Error
	})
}

func (r *franchiseRepository) CreateStore(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"franchise_id": store.FranchiseID,
		"name":         store.Name,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"franchise_id": store.FranchiseID,
			"name":         store.Name,
		})
		return err
	}

	return nil
}

func (r *franchiseRepository) FindStore(franchiseID, storeID uint) (*model.Store, error) {
	var store model.Store
	err := r.db.
		Where("id = ? AND franchise_id = ?", storeID, franchiseID).
		First(&store).Error
	if err != nil {
		logger.Error("Failed to find store in database", err, map[string]interface{}{
			"franchise_id": franchiseID,
			"store_id":     storeID,
		})
		return nil, err
	}

	return &store, nil
}

func (r *franchiseRepository) DeleteStore(franchiseID, storeID uint) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"franchise_id": franchiseID,
		"store_id":     storeID,
	})

	result := r.db.
		Where("id = ? AND franchise_id = ?", storeID, franchiseID).
		Delete(&model.Store{})
	if result.Error != nil {
		logger.Error("Failed to delete store from database", result.Error, map[string]interface{}{
			"franchise_id": franchiseID,
			"store_id":     storeID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
