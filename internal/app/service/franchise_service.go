package service

import (
	"errors"
	"fmt"

	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/internal/app/repository"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrFranchiseNotFound     = errors.New("franchise not found")
	ErrStoreNotFound         = errors.New("store not found")
	ErrFranchiseAdminUnknown = errors.New("unknown franchise admin")
)

type FranchiseService interface {
	Create(name string, adminEmails []string) (*model.Franchise, error)
	GetByID(id uint) (*model.Franchise, error)
	List(page, limit int, name string) ([]model.Franchise, bool, error)
	ListByAdmin(userID uint) ([]model.Franchise, error)
	Delete(id uint) error
	CreateStore(franchiseID uint, name string) (*model.Store, error)
	DeleteStore(franchiseID, storeID uint) error
}

type franchiseService struct {
	franchiseRepo repository.FranchiseRepository
	userRepo      repository.UserRepository
}

func NewFranchiseService(
	franchiseRepo repository.FranchiseRepository,
	userRepo repository.UserRepository,
) FranchiseService {
	return &franchiseService{
		franchiseRepo: franchiseRepo,
		userRepo:      userRepo,
	}
}

// Create registers a franchise. Admins are referenced by email; every
// email must resolve to an existing user or the whole creation fails.
// Each resolved admin is granted a franchisee role scoped to the new
// franchise.
func (s *franchiseService) Create(name string, adminEmails []string) (*model.Franchise, error) {
	logger.Info("Creating franchise", map[string]interface{}{
		"name":        name,
		"admin_count": len(adminEmails),
	})

	admins := make([]model.User, 0, len(adminEmails))
	for _, email := range adminEmails {
		user, err := s.userRepo.FindByEmail(email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Warn("Franchise creation failed: admin email unknown", map[string]interface{}{
					"name":  name,
					"email": email,
				})
				return nil, fmt.Errorf("%w: %s", ErrFranchiseAdminUnknown, email)
			}
			return nil, err
		}
		admins = append(admins, *user)
	}

	franchise := &model.Franchise{
		Name:   name,
		Admins: admins,
	}
	if err := s.franchiseRepo.Create(franchise); err != nil {
		return nil, err
	}

	for i := range admins {
		user := &admins[i]
		roles := append(user.Roles, model.UserRole{
			Role:        model.RoleFranchisee,
			FranchiseID: &franchise.ID,
		})
		if err := s.userRepo.ReplaceRoles(user.ID, roles); err != nil {
			logger.Error("Failed to grant franchisee role", err, map[string]interface{}{
				"franchise_id": franchise.ID,
				"user_id":      user.ID,
			})
			return nil, err
		}
	}

	// Reload so the returned admins carry their new roles.
	created, err := s.franchiseRepo.FindByID(franchise.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Franchise created successfully", map[string]interface{}{
		"franchise_id": created.ID,
		"name":         created.Name,
	})
	return created, nil
}

func (s *franchiseService) GetByID(id uint) (*model.Franchise, error) {
	franchise, err := s.franchiseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFranchiseNotFound
		}
		return nil, err
	}
	return franchise, nil
}

func (s *franchiseService) List(page, limit int, name string) ([]model.Franchise, bool, error) {
	return s.franchiseRepo.List(page, limit, name)
}

func (s *franchiseService) ListByAdmin(userID uint) ([]model.Franchise, error) {
	return s.franchiseRepo.FindByAdminID(userID)
}

// Delete removes the franchise along with its stores and the franchisee
// roles scoped to it. Open sessions holding the stale role snapshot lose
// their authority because the role rows are gone.
func (s *franchiseService) Delete(id uint) error {
	logger.Info("Deleting franchise", map[string]interface{}{
		"franchise_id": id,
	})

	if err := s.franchiseRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFranchiseNotFound
		}
		return err
	}

	logger.Info("Franchise deleted successfully", map[string]interface{}{
		"franchise_id": id,
	})
	return nil
}

func (s *franchiseService) CreateStore(franchiseID uint, name string) (*model.Store, error) {
	logger.Info("Creating store", map[string]interface{}{
		"franchise_id": franchiseID,
		"name":         name,
	})

	if _, err := s.franchiseRepo.FindByID(franchiseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFranchiseNotFound
		}
		return nil, err
	}

	store := &model.Store{
		FranchiseID: franchiseID,
		Name:        name,
	}
	if err := s.franchiseRepo.CreateStore(store); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *franchiseService) DeleteStore(franchiseID, storeID uint) error {
	logger.Info("Deleting store", map[string]interface{}{
		"franchise_id": franchiseID,
		"store_id":     storeID,
	})

	if err := s.franchiseRepo.DeleteStore(franchiseID, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStoreNotFound
		}
		return err
	}

	return nil
}
