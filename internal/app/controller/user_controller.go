package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/internal/app/service"
	"github.com/pizzastack/pizzastack-backend/internal/authz"
	apperrors "github.com/pizzastack/pizzastack-backend/internal/errors"
	"github.com/pizzastack/pizzastack-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// RoleInput is one requested role assignment in an update request.
type RoleInput struct {
	Role        string `json:"role" binding:"required,oneof=diner admin franchisee"`
	FranchiseID *uint  `json:"franchiseId"`
}

type UpdateUserRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email" binding:"omitempty,email"`
	Password string      `json:"password"`
	Roles    []RoleInput `json:"roles"`
}

// Me returns the authenticated user
// GET /api/user/me
func (ctrl *UserController) Me(c *gin.Context) {
	user, ok := middleware.GetUser(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	c.JSON(http.StatusOK, user)
}

// Update modifies a user's profile and, for admins, their roles. A fresh
// session token for the target user is returned; the previous one stops
// working.
// PUT /api/user/:userId
func (ctrl *UserController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid user ID")
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	if err := authz.Authorize(actor, authz.ActionUserUpdate, authz.Resource{UserID: uint(targetID)}); err != nil {
		log.Warn("User update denied", map[string]interface{}{
			"actor_id":  actor.ID,
			"target_id": targetID,
		})
		apperrors.Forbidden(c, "")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid user update request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid update request")
		return
	}

	update := service.UserUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Roles != nil {
		// Only admins may touch role assignments.
		if !actor.IsAdmin() {
			log.Warn("Role change denied for non-admin", map[string]interface{}{
				"actor_id":  actor.ID,
				"target_id": targetID,
			})
			apperrors.Forbidden(c, "")
			return
		}
		roles := make([]model.UserRole, 0, len(req.Roles))
		for _, r := range req.Roles {
			if r.Role == string(model.RoleFranchisee) && r.FranchiseID == nil {
				apperrors.BadRequest(c, apperrors.ValidationRequired, "franchisee role requires a franchiseId")
				return
			}
			roles = append(roles, model.UserRole{
				Role:        model.Role(r.Role),
				FranchiseID: r.FranchiseID,
			})
		}
		update.Roles = roles
	}

	user, token, err := ctrl.userService.Update(c.Request.Context(), uint(targetID), update)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			apperrors.NotFound(c, apperrors.ResourceNotFound, "user not found")
		case errors.Is(err, service.ErrEmailAlreadyExists):
			apperrors.Conflict(c, apperrors.AuthEmailAlreadyExists, "email is already in use")
		default:
			log.Error("User update failed", err, map[string]interface{}{
				"target_id": targetID,
			})
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update user")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"token": token,
	})
}

// List returns a page of users with an optional name filter
// GET /api/user?page=0&limit=10&name=
func (ctrl *UserController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	if err := authz.Authorize(actor, authz.ActionUserList, authz.Resource{}); err != nil {
		apperrors.Forbidden(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	name := c.Query("name")

	users, more, err := ctrl.userService.List(page, limit, name)
	if err != nil {
		log.Error("Failed to list users", err, map[string]interface{}{
			"page":  page,
			"limit": limit,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list users")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"more":  more,
	})
}
