package service

import (
	"context"
	"errors"

	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/internal/app/repository"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"github.com/pizzastack/pizzastack-backend/pkg/util"
	"gorm.io/gorm"
)

// UserUpdate carries the fields of an update request. Empty strings leave
// the field unchanged; a nil Roles slice leaves the role set unchanged.
type UserUpdate struct {
	Name     string
	Email    string
	Password string
	Roles    []model.UserRole
}

type UserService interface {
	GetByID(id uint) (*model.User, error)
	Update(ctx context.Context, id uint, update UserUpdate) (*model.User, string, error)
	List(page, limit int, name string) ([]model.User, bool, error)
}

type userService struct {
	userRepo repository.UserRepository
	auth     AuthService
}

func NewUserService(userRepo repository.UserRepository, auth AuthService) UserService {
	return &userService{
		userRepo: userRepo,
		auth:     auth,
	}
}

func (s *userService) GetByID(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update applies the requested changes and re-issues the target user's
// session token so the new role snapshot takes effect immediately. The
// displaced token stops working even if the target is not the caller.
func (s *userService) Update(ctx context.Context, id uint, update UserUpdate) (*model.User, string, error) {
	logger.Info("Updating user", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Update failed: user not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	if update.Email != "" && update.Email != user.Email {
		existing, err := s.userRepo.FindByEmail(update.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", err
		}
		if existing != nil {
			logger.Warn("Update failed: email already exists", map[string]interface{}{
				"user_id": id,
				"email":   update.Email,
			})
			return nil, "", ErrEmailAlreadyExists
		}
		user.Email = update.Email
	}
	if update.Password != "" {
		hashed, err := util.HashPassword(update.Password)
		if err != nil {
			logger.Error("Failed to hash password", err, map[string]interface{}{
				"user_id": id,
			})
			return nil, "", err
		}
		user.PasswordHash = hashed
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, "", err
	}

	if update.Roles != nil {
		if err := s.userRepo.ReplaceRoles(user.ID, update.Roles); err != nil {
			return nil, "", err
		}
	}

	// Reload so the returned user and the token snapshot carry the final
	// role set.
	user, err = s.userRepo.FindByID(user.ID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.auth.IssueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	logger.Info("User updated successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, token, nil
}

func (s *userService) List(page, limit int, name string) ([]model.User, bool, error) {
	return s.userRepo.List(page, limit, name)
}
