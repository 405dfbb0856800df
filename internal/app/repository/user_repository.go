package repository

import (
	"strings"

	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	Update(user *model.User) error
	ReplaceRoles(userID uint, roles []model.UserRole) error
	List(page, limit int, name string) ([]model.User, bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"email": user.Email,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": user.Email,
		})
		return err
	}

	logger.Debug("User created in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	logger.Debug("Finding user by ID in database", map[string]interface{}{
		"user_id": id,
	})

	var user model.User
	err := r.db.Preload("Roles").First(&user, id).Error
	if err != nil {
		logger.Error("Failed to find user by ID in database", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	logger.Debug("Finding user by email in database", map[string]interface{}{
		"email": email,
	})

	var user model.User
	err := r.db.Preload("Roles").Where("email = ?", email).First(&user).Error
	if err != nil {
		logger.Error("Failed to find user by email in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) Update(user *model.User) error {
	logger.Debug("Updating user in database", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})

	// Omit Roles so association writes do not duplicate assignment rows;
	// role changes go through ReplaceRoles.
	if err := r.db.Omit("Roles").Save(user).Error; err != nil {
		logger.Error("Failed to update user in database", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		})
		return err
	}

	return nil
}

func (r *userRepository) ReplaceRoles(userID uint, roles []model.UserRole) error {
	logger.Debug("Replacing user roles in database", map[string]interface{}{
		"user_id":    userID,
		"role_count": len(roles),
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserRole{}).Error; err != nil {
			return err
		}
		for i := range roles {
			roles[i].ID = 0
			roles[i].UserID = userID
		}
		if len(roles) == 0 {
			return nil
		}
		return tx.Create(&roles).Error
	})
}

// List returns one page of users plus a flag signalling whether more pages
// follow. The name filter is a case-insensitive substring match.
func (r *userRepository) List(page, limit int, name string) ([]model.User, bool, error) {
	logger.Debug("Listing users from database", map[string]interface{}{
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

	query := r.db.Model(&model.User{}).Preload("Roles")
	if name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	// Fetch one extra row to detect whether another page exists.
	users := make([]model.User, 0, limit+1)
	err := query.
		Order("id ASC").
		Offset(page * limit).
		Limit(limit + 1).
		Find(&users).Error
	if err != nil {
		logger.Error("Failed to list users from database", err, map[string]interface{}{
			"page":  page,
			"limit": limit,
		})
		return nil, false, err
	}

	more := len(users) > limit
	if more {
		users = users[:limit]
	}

	return users, more, nil
}
