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
	"github.com/pizzastack/pizzastack-backend/pkg/factory"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type AddMenuItemRequest struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

// OrderLineInput references a menu item to order. Description and price
// in the request are ignored; the menu is authoritative.
type OrderLineInput struct {
	MenuID uint `json:"menuId" binding:"required"`
}

type CreateOrderRequest struct {
	FranchiseID uint             `json:"franchiseId" binding:"required"`
	StoreID     uint             `json:"storeId" binding:"required"`
	Items       []OrderLineInput `json:"items" binding:"required"`
}

type VerifyOrderRequest struct {
	JWT string `json:"jwt" binding:"required"`
}

// Menu returns the full menu; open to anonymous callers
// GET /api/order/menu
func (ctrl *OrderController) Menu(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	items, err := ctrl.orderService.Menu()
	if err != nil {
		log.Error("Failed to load menu", err, nil)
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "load menu")
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddMenuItem appends a menu entry and returns the updated menu (admin only)
// PUT /api/order/menu
func (ctrl *OrderController) AddMenuItem(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	if err := authz.Authorize(actor, authz.ActionMenuUpdate, authz.Resource{}); err != nil {
		log.Warn("Menu update denied", map[string]interface{}{
			"actor_id": actor.ID,
		})
		apperrors.Forbidden(c, "")
		return
	}

	var req AddMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "menu item title is required")
		return
	}

	items, err := ctrl.orderService.AddMenuItem(req.Title, req.Description, req.Image, req.Price)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMenuPrice) {
			apperrors.BadRequest(c, apperrors.MenuInvalidPrice, "menu item price must not be negative")
			return
		}
		log.Error("Failed to add menu item", err, map[string]interface{}{
			"title": req.Title,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "add menu item")
		return
	}

	c.JSON(http.StatusOK, items)
}

// Create places an order and submits it for fulfillment. A fulfillment
// failure still leaves the order on the books; the response then carries
// the factory's diagnostic report URL.
// POST /api/order
func (ctrl *OrderController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	user, ok := middleware.GetUser(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	actor, _ := middleware.GetActor(c)
	if err := authz.Authorize(actor, authz.ActionOrderCreate, authz.Resource{}); err != nil {
		apperrors.Forbidden(c, "")
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid order request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "franchiseId, storeId, and items are required")
		return
	}

	lines := make([]service.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.OrderLine{MenuID: item.MenuID})
	}

	order, fulfillment, err := ctrl.orderService.CreateOrder(c.Request.Context(), user, req.FranchiseID, req.StoreID, lines)
	if err != nil {
		var factoryErr *factory.ErrorResponse
		switch {
		case errors.Is(err, service.ErrOrderEmptyItems):
			apperrors.BadRequest(c, apperrors.OrderEmptyItems, "order must contain at least one item")
		case errors.Is(err, service.ErrStoreNotFound):
			apperrors.NotFound(c, apperrors.StoreNotFound, "store not found")
		case errors.Is(err, service.ErrUnknownMenuItem):
			apperrors.BadRequest(c, apperrors.OrderUnknownItem, err.Error())
		case errors.As(err, &factoryErr):
			// Order persisted, fulfillment rejected upstream.
			c.JSON(http.StatusInternalServerError, gin.H{
				"message":   "Failed to fulfill order at factory",
				"reportUrl": factoryErr.ReportURL,
			})
		default:
			log.Error("Order creation failed", err, map[string]interface{}{
				"user_id": user.ID,
			})
			if order != nil {
				// Factory unreachable; same failure surface, no report.
				c.JSON(http.StatusInternalServerError, gin.H{
					"message":   "Failed to fulfill order at factory",
					"reportUrl": "",
				})
				return
			}
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create order")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":     order,
		"jwt":       fulfillment.JWT,
		"reportUrl": fulfillment.ReportURL,
	})
}

// List returns the caller's own orders, newest first
// GET /api/order?page=0&limit=10
func (ctrl *OrderController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}
	actor, _ := middleware.GetActor(c)
	if err := authz.Authorize(actor, authz.ActionOrderRead, authz.Resource{UserID: userID}); err != nil {
		apperrors.Forbidden(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, more, err := ctrl.orderService.ListOrders(userID, page, limit)
	if err != nil {
		log.Error("Failed to list orders", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dinerId": userID,
		"orders":  orders,
		"page":    page,
		"more":    more,
	})
}

// Verify asks the factory to vouch for a fulfillment token
// POST /api/order/verify
func (ctrl *OrderController) Verify(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VerifyOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "jwt is required")
		return
	}

	result, err := ctrl.orderService.VerifyOrder(c.Request.Context(), req.JWT)
	if err != nil {
		log.Warn("Order verification failed", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithError(c, http.StatusNotFound, apperrors.OrderNotFound, "order could not be verified")
		return
	}

	c.JSON(http.StatusOK, result)
}
