package db

import (
	"github.com/pizzastack/pizzastack-backend/config"
	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"github.com/pizzastack/pizzastack-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.UserRole{},
		&model.Franchise{},
		&model.Store{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed creates the bootstrap administrator when no admin exists yet.
func Seed(adminCfg *config.AdminConfig) error {
	logger.Info("Seeding initial data...")

	var count int64
	if err := DB.Model(&model.UserRole{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Admin already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	hash, err := util.HashPassword(adminCfg.Password)
	if err != nil {
		return err
	}

	admin := &model.User{
		Name:         "admin",
		Email:        adminCfg.Email,
		PasswordHash: hash,
		Roles:        []model.UserRole{{Role: model.RoleAdmin}},
	}
	if err := DB.Create(admin).Error; err != nil {
		logger.Error("Failed to seed admin user", err, map[string]interface{}{
			"email": adminCfg.Email,
		})
		return err
	}

	logger.Info("Initial data seeded successfully", map[string]interface{}{
		"admin_id": admin.ID,
	})
	return nil
}
