package service

import (
	"context"
	"errors"
	"time"

	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/internal/app/repository"
	"github.com/pizzastack/pizzastack-backend/internal/session"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"github.com/pizzastack/pizzastack-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, userID uint) error
	IssueToken(ctx context.Context, user *model.User) (string, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessions    *session.Store
	jwtSecret   string
	tokenExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	sessions *session.Store,
	jwtSecret string,
	tokenExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessions:    sessions,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string) (*model.User, string, error) {
	logger.Info("Attempting user registration", map[string]interface{}{
		"email": email,
		"name":  name,
	})

	// Check if user already exists
	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	// Every new user starts as a diner.
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        []model.UserRole{{Role: model.RoleDiner}},
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	token, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	logger.Info("Attempting user login", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrInvalidCredentials
		}
		logger.Error("Failed to find user for login", err, map[string]interface{}{
			"email": email,
		})
		return nil, "", err
	}

	if !util.VerifyPassword(password, user.PasswordHash) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email": email,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return user, token, nil
}

func (s *authService) Logout(ctx context.Context, userID uint) error {
	logger.Info("Logging out user", map[string]interface{}{
		"user_id": userID,
	})

	return s.sessions.Delete(ctx, userID)
}

// IssueToken mints a session token carrying the user's current role
// snapshot and records it as the single active session, displacing any
// previously issued token.
func (s *authService) IssueToken(ctx context.Context, user *model.User) (string, error) {
	roles := make([]util.RoleClaim, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, util.RoleClaim{
			Role:        string(r.Role),
			FranchiseID: r.FranchiseID,
		})
	}

	token, err := util.GenerateToken(user.ID, user.Email, roles, s.jwtSecret, s.tokenExpiry)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", err
	}

	if err := s.sessions.Set(ctx, user.ID, token); err != nil {
		return "", err
	}

	return token, nil
}
