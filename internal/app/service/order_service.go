package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/internal/app/repository"
	"github.com/pizzastack/pizzastack-backend/pkg/factory"
	"github.com/pizzastack/pizzastack-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrOrderEmptyItems  = errors.New("order has no items")
	ErrUnknownMenuItem  = errors.New("unknown menu item")
	ErrInvalidMenuPrice = errors.New("menu item price must not be negative")
)

// OrderLine is one requested line of a new order. Only the menu reference
// is trusted; description and price are snapshotted from the menu.
type OrderLine struct {
	MenuID uint
}

type OrderService interface {
	Menu() ([]model.MenuItem, error)
	AddMenuItem(title, description, image string, price float64) ([]model.MenuItem, error)
	CreateOrder(ctx context.Context, user *model.User, franchiseID, storeID uint, lines []OrderLine) (*model.Order, *factory.FulfillResponse, error)
	ListOrders(userID uint, page, limit int) ([]model.Order, bool, error)
	VerifyOrder(ctx context.Context, orderJWT string) (*factory.VerifyResponse, error)
}

type orderService struct {
	orderRepo     repository.OrderRepository
	menuRepo      repository.MenuRepository
	franchiseRepo repository.FranchiseRepository
	factory       *factory.Client
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuRepository,
	franchiseRepo repository.FranchiseRepository,
	factoryClient *factory.Client,
) OrderService {
	return &orderService{
		orderRepo:     orderRepo,
		menuRepo:      menuRepo,
		franchiseRepo: franchiseRepo,
		factory:       factoryClient,
	}
}

func (s *orderService) Menu() ([]model.MenuItem, error) {
	return s.menuRepo.List()
}

// AddMenuItem appends a menu entry and returns the full menu, so callers
// always see the list the way diners will.
func (s *orderService) AddMenuItem(title, description, image string, price float64) ([]model.MenuItem, error) {
	logger.Info("Adding menu item", map[string]interface{}{
		"title": title,
		"price": price,
	})

	if price < 0 {
		return nil, ErrInvalidMenuPrice
	}

	item := &model.MenuItem{
		Title:       title,
		Description: description,
		Image:       image,
		Price:       price,
	}
	if err := s.menuRepo.Create(item); err != nil {
		return nil, err
	}

	return s.menuRepo.List()
}

// CreateOrder persists the order and then submits it for fulfillment. The
// order survives a fulfillment failure; in that case the persisted order
// is returned together with the factory error so callers can surface the
// diagnostic report.
func (s *orderService) CreateOrder(ctx context.Context, user *model.User, franchiseID, storeID uint, lines []OrderLine) (*model.Order, *factory.FulfillResponse, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id":      user.ID,
		"franchise_id": franchiseID,
		"store_id":     storeID,
		"line_count":   len(lines),
	})

	if len(lines) == 0 {
		return nil, nil, ErrOrderEmptyItems
	}

	if _, err := s.franchiseRepo.FindStore(franchiseID, storeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrStoreNotFound
		}
		return nil, nil, err
	}

	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MenuID)
	}
	menuItems, err := s.menuRepo.FindByIDs(ids)
	if err != nil {
		return nil, nil, err
	}
	menuByID := make(map[uint]model.MenuItem, len(menuItems))
	for _, item := range menuItems {
		menuByID[item.ID] = item
	}

	orderItems := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		menuItem, ok := menuByID[line.MenuID]
		if !ok {
			logger.Warn("Order rejected: unknown menu item", map[string]interface{}{
				"user_id": user.ID,
				"menu_id": line.MenuID,
			})
			return nil, nil, fmt.Errorf("%w: %d", ErrUnknownMenuItem, line.MenuID)
		}
		orderItems = append(orderItems, model.OrderItem{
			MenuID:      menuItem.ID,
			Description: menuItem.Title,
			Price:       menuItem.Price,
		})
	}

	order := &model.Order{
		UserID:      user.ID,
		FranchiseID: franchiseID,
		StoreID:     storeID,
		Items:       orderItems,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, nil, err
	}

	fulfillment, err := s.submitFulfillment(ctx, user, order)
	if err != nil {
		// The order is already on the books; only fulfillment failed.
		logger.Error("Order fulfillment failed", err, map[string]interface{}{
			"order_id": order.ID,
			"user_id":  user.ID,
		})
		return order, nil, err
	}

	logger.Info("Order created and fulfilled", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  user.ID,
	})
	return order, fulfillment, nil
}

func (s *orderService) submitFulfillment(ctx context.Context, user *model.User, order *model.Order) (*factory.FulfillResponse, error) {
	items := make([]factory.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, factory.OrderItem{
			MenuID:      item.MenuID,
			Description: item.Description,
			Price:       item.Price,
		})
	}

	return s.factory.Fulfill(ctx, factory.FulfillRequest{
		Diner: factory.Diner{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
		Order: factory.OrderPayload{
			ID:          order.ID,
			FranchiseID: order.FranchiseID,
			StoreID:     order.StoreID,
			Items:       items,
		},
	})
}

func (s *orderService) ListOrders(userID uint, page, limit int) ([]model.Order, bool, error) {
	return s.orderRepo.FindByUserID(userID, page, limit)
}

// VerifyOrder asks the factory to vouch for a fulfillment token.
func (s *orderService) VerifyOrder(ctx context.Context, orderJWT string) (*factory.VerifyResponse, error) {
	return s.factory.Verify(ctx, orderJWT)
}
