package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pizzastack/pizzastack-backend/internal/app/service"
	"github.com/pizzastack/pizzastack-backend/internal/authz"
	apperrors "github.com/pizzastack/pizzastack-backend/internal/errors"
	"github.com/pizzastack/pizzastack-backend/internal/middleware"
)

type FranchiseController struct {
	franchiseService service.FranchiseService
}

func NewFranchiseController(franchiseService service.FranchiseService) *FranchiseController {
	return &FranchiseController{
		franchiseService: franchiseService,
	}
}

// FranchiseAdminInput references an admin by email.
type FranchiseAdminInput struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateFranchiseRequest struct {
	Name   string                `json:"name" binding:"required"`
	Admins []FranchiseAdminInput `json:"admins"`
}

type CreateStoreRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create registers a new franchise (admin only)
// POST /api/franchise
func (ctrl *FranchiseController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	if err := authz.Authorize(actor, authz.ActionFranchiseCreate, authz.Resource{}); err != nil {
		log.Warn("Franchise creation denied", map[string]interface{}{
			"actor_id": actor.ID,
		})
		apperrors.Forbidden(c, "")
		return
	}

	var req CreateFranchiseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid franchise creation request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "franchise name is required")
		return
	}

	emails := make([]string, 0, len(req.Admins))
	for _, admin := range req.Admins {
		emails = append(emails, admin.Email)
	}

	franchise, err := ctrl.franchiseService.Create(req.Name, emails)
	if err != nil {
		if errors.Is(err, service.ErrFranchiseAdminUnknown) {
			apperrors.NotFound(c, apperrors.FranchiseAdminUnknown, err.Error())
			return
		}
		log.Error("Franchise creation failed", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create franchise")
		return
	}

	c.JSON(http.StatusOK, franchise)
}

// List returns a page of franchises; open to anonymous callers
// GET /api/franchise?page=0&limit=10&name=
func (ctrl *FranchiseController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	name := c.Query("name")

	franchises, more, err := ctrl.franchiseService.List(page, limit, name)
	if err != nil {
		log.Error("Failed to list franchises", err, map[string]interface{}{
			"page":  page,
			"limit": limit,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list franchises")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"franchises": franchises,
		"more":       more,
	})
}

// ListByUser returns the franchises a user administers (self or admin)
// GET /api/franchise/:userId
func (ctrl *FranchiseController) ListByUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid user ID")
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	if err := authz.Authorize(actor, authz.ActionFranchiseRead, authz.Resource{UserID: uint(userID)}); err != nil {
		log.Warn("Franchise listing denied", map[string]interface{}{
			"actor_id":  actor.ID,
			"target_id": userID,
		})
		apperrors.Forbidden(c, "")
		return
	}

	franchises, err := ctrl.franchiseService.ListByAdmin(uint(userID))
	if err != nil {
		log.Error("Failed to list franchises for user", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list franchises")
		return
	}

	c.JSON(http.StatusOK, franchises)
}

// Delete removes a franchise (admin only)
// DELETE /api/franchise/:franchiseId
func (ctrl *FranchiseController) Delete(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	franchiseID, err := strconv.ParseUint(c.Param("franchiseId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid franchise ID")
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	if err := authz.Authorize(actor, authz.ActionFranchiseDelete, authz.Resource{FranchiseID: uint(franchiseID)}); err != nil {
		log.Warn("Franchise deletion denied", map[string]interface{}{
			"actor_id":     actor.ID,
			"franchise_id": franchiseID,
		})
		apperrors.Forbidden(c, "")
		return
	}

	if err := ctrl.franchiseService.Delete(uint(franchiseID)); err != nil {
		if errors.Is(err, service.ErrFranchiseNotFound) {
			apperrors.NotFound(c, apperrors.FranchiseNotFound, "franchise not found")
			return
		}
		log.Error("Franchise deletion failed", err, map[string]interface{}{
			"franchise_id": franchiseID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete franchise")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "franchise deleted",
	})
}

// CreateStore opens a store under a franchise (admin or that franchise's
// franchisee). Authorization runs before the franchise lookup, so a
// caller without authority over the franchise learns nothing about its
// existence.
// POST /api/franchise/:franchiseId/store
func (ctrl *FranchiseController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	franchiseID, err := strconv.ParseUint(c.Param("franchiseId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid franchise ID")
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	if err := authz.Authorize(actor, authz.ActionStoreCreate, authz.Resource{FranchiseID: uint(franchiseID)}); err != nil {
		log.Warn("Store creation denied", map[string]interface{}{
			"actor_id":     actor.ID,
			"franchise_id": franchiseID,
		})
		apperrors.Forbidden(c, "")
		return
	}

	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "store name is required")
		return
	}

	store, err := ctrl.franchiseService.CreateStore(uint(franchiseID), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrFranchiseNotFound) {
			apperrors.NotFound(c, apperrors.FranchiseNotFound, "franchise not found")
			return
		}
		log.Error("Store creation failed", err, map[string]interface{}{
			"franchise_id": franchiseID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create store")
		return
	}

	c.JSON(http.StatusOK, store)
}

// DeleteStore closes a store (admin or that franchise's franchisee)
// DELETE /api/franchise/:franchiseId/store/:storeId
func (ctrl *FranchiseController) DeleteStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	franchiseID, err := strconv.ParseUint(c.Param("franchiseId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid franchise ID")
		return
	}
	storeID, err := strconv.ParseUint(c.Param("storeId"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid store ID")
		return
	}

	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	if err := authz.Authorize(actor, authz.ActionStoreDelete, authz.Resource{FranchiseID: uint(franchiseID)}); err != nil {
		log.Warn("Store deletion denied", map[string]interface{}{
			"actor_id":     actor.ID,
			"franchise_id": franchiseID,
			"store_id":     storeID,
		})
		apperrors.Forbidden(c, "")
		return
	}

	if err := ctrl.franchiseService.DeleteStore(uint(franchiseID), uint(storeID)); err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "store not found")
			return
		}
		log.Error("Store deletion failed", err, map[string]interface{}{
			"franchise_id": franchiseID,
			"store_id":     storeID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete store")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "store deleted",
	})
}
