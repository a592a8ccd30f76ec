package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/models"
	"github.com/Zack-River/Food-Delivery-Backend/utils"
)

// PaymentMethods is the closed set of accepted payment methods.
// Matching is case-insensitive; orders store the lowercase form.
var PaymentMethods = []string{"cash", "card", "online"}

func IsValidPaymentMethod(method string) bool {
	m := strings.ToLower(method)
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// OrderAction is accepted by Authorize for future differentiation; the
// current policy is identical across actions.
type OrderAction string

const (
	ActionView   OrderAction = "view"
	ActionUpdate OrderAction = "update"
	ActionCancel OrderAction = "cancel"
)

// OrderService owns the order-placement and lifecycle workflow.
type OrderService struct {
	DB *gorm.DB
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{DB: db}
}

// ---------- request / result types ----------

type ItemRef struct {
	ID uint `json:"id"`
}

// VariationRef selects a variation by size label or by variation id.
type VariationRef struct {
	ID   uint   `json:"id,omitempty"`
	Size string `json:"size,omitempty"`
}

type OrderItemRequest struct {
	Item      ItemRef      `json:"item"`
	Variation VariationRef `json:"variation"`
	Quantity  int          `json:"quantity"`
}

type PlaceOrderRequest struct {
	OrderItems      []OrderItemRequest `json:"orderItems"`
	DeliveryAddress string             `json:"deliveryAddress"`
	PaymentMethod   string             `json:"PaymentMethod"`
	DeliveryFee     *float64           `json:"deliveryFee,omitempty"`
	TimeToDeliver   *float64           `json:"timeToDeliver,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

// UnavailableItem is a per-line diagnostic. Problems are collected, not
// thrown, so a client can fix the whole cart in one round trip.
type UnavailableItem struct {
	ItemID    uint   `json:"item"`
	Name      string `json:"name,omitempty"`
	Variation string `json:"variation,omitempty"`
	Message   string `json:"message"`
}

// AcceptedLine carries the snapshotted price and size for one valid line.
type AcceptedLine struct {
	MenuItemID    uint
	Quantity      int
	Price         float64
	VariationSize string
	LineTotal     float64
}

// CartValidation is the outcome of the pricing/availability pass.
type CartValidation struct {
	ItemsTotal   float64
	Unavailable  []UnavailableItem
	Lines        []AcceptedLine
	RestaurantID *uint
}

// ---------- structural validation ----------

// ValidateOrderRequest performs the structural checks on a placement
// payload. It returns a ValidationError naming the offending field.
func (s *OrderService) ValidateOrderRequest(req *PlaceOrderRequest) error {
	if len(req.OrderItems) == 0 {
		return utils.NewValidationError("orderItems must be a non-empty array")
	}

	if strings.TrimSpace(req.DeliveryAddress) == "" {
		return utils.NewValidationError("deliveryAddress is required")
	}

	if !IsValidPaymentMethod(req.PaymentMethod) {
		return utils.NewValidationError(
			fmt.Sprintf("invalid PaymentMethod, valid options: %s", strings.Join(PaymentMethods, ", ")))
	}

	if req.DeliveryFee != nil && *req.DeliveryFee < 0 {
		return utils.NewValidationError("deliveryFee must be a non-negative number")
	}

	if req.TimeToDeliver != nil && *req.TimeToDeliver < 0 {
		return utils.NewValidationError("timeToDeliver must be a non-negative number (in minutes)")
	}

	for _, item := range req.OrderItems {
		if item.Item.ID == 0 || item.Quantity <= 0 {
			return utils.NewValidationError("each order item must have a valid item id and quantity greater than 0")
		}
		if item.Variation.ID == 0 && item.Variation.Size == "" {
			return utils.NewValidationError("each order item must specify a variation")
		}
	}

	return nil
}

// ---------- catalog lookup ----------

// FetchMenuItems batch-resolves the requested items in one read. Items
// not found are simply absent from the result.
func (s *OrderService) FetchMenuItems(ids []uint) (map[uint]models.MenuItem, error) {
	var items []models.MenuItem
	if err := s.DB.Preload("Variations").Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}

	catalog := make(map[uint]models.MenuItem, len(items))
	for _, item := range items {
		catalog[item.ID] = item
	}
	return catalog, nil
}

// ResolveRestaurantID walks the item's parent chain to its restaurant.
// A missing link anywhere in the chain reports as not found.
func (s *OrderService) ResolveRestaurantID(item *models.MenuItem) (uint, error) {
	switch item.ParentType {
	case models.ParentTypeMenu:
		var menu models.Menu
		if err := s.DB.First(&menu, item.ParentID).Error; err != nil {
			return 0, s.notFoundOrInternal(err, "menu not found")
		}
		return menu.RestaurantID, nil

	case models.ParentTypeSubmenu:
		var submenu models.Submenu
		if err := s.DB.First(&submenu, item.ParentID).Error; err != nil {
			return 0, s.notFoundOrInternal(err, "submenu not found")
		}
		var menu models.Menu
		if err := s.DB.First(&menu, submenu.MenuID).Error; err != nil {
			return 0, s.notFoundOrInternal(err, "menu not found")
		}
		return menu.RestaurantID, nil
	}

	return 0, utils.NewNotFoundError("menu item has no valid parent")
}

func (s *OrderService) notFoundOrInternal(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.NewNotFoundError(message)
	}
	return err
}

// ---------- pricing / availability ----------

// ValidateMenuItems runs the pricing and availability pass over the
// requested lines, in input order. The first resolved line fixes the
// order's restaurant; later lines from another restaurant are rejected.
func (s *OrderService) ValidateMenuItems(catalog map[uint]models.MenuItem, requested []OrderItemRequest) (*CartValidation, error) {
	result := &CartValidation{}

	for _, line := range requested {
		menuItem, ok := catalog[line.Item.ID]
		if !ok {
			result.Unavailable = append(result.Unavailable, UnavailableItem{
				ItemID:  line.Item.ID,
				Message: "Menu Item not found",
			})
			continue
		}

		restaurantID, err := s.ResolveRestaurantID(&menuItem)
		if err != nil {
			var appErr *utils.AppError
			if errors.As(err, &appErr) {
				// Broken parent chain surfaces as an unavailable line,
				// not a hard failure of the whole request.
				result.Unavailable = append(result.Unavailable, UnavailableItem{
					ItemID:  menuItem.ID,
					Name:    menuItem.Name,
					Message: "Menu Item not found",
				})
				continue
			}
			return nil, err
		}

		if result.RestaurantID == nil {
			id := restaurantID
			result.RestaurantID = &id
		} else if *result.RestaurantID != restaurantID {
			result.Unavailable = append(result.Unavailable, UnavailableItem{
				ItemID:  menuItem.ID,
				Name:    menuItem.Name,
				Message: "Items must be from the same restaurant",
			})
			continue
		}

		variation := matchVariation(menuItem.Variations, line.Variation)
		if variation == nil {
			selector := line.Variation.Size
			if selector == "" {
				selector = fmt.Sprintf("%d", line.Variation.ID)
			}
			result.Unavailable = append(result.Unavailable, UnavailableItem{
				ItemID:  menuItem.ID,
				Name:    menuItem.Name,
				Message: fmt.Sprintf("Variation %q not found", selector),
			})
			continue
		}

		if !variation.IsAvailable {
			result.Unavailable = append(result.Unavailable, UnavailableItem{
				ItemID:    menuItem.ID,
				Name:      menuItem.Name,
				Variation: variation.Size,
				Message:   "Selected variation is not available",
			})
			continue
		}

		lineTotal := utils.Round2(variation.Price * float64(line.Quantity))
		result.ItemsTotal = utils.Round2(result.ItemsTotal + lineTotal)
		result.Lines = append(result.Lines, AcceptedLine{
			MenuItemID:    menuItem.ID,
			Quantity:      line.Quantity,
			Price:         variation.Price,
			VariationSize: variation.Size,
			LineTotal:     lineTotal,
		})
	}

	return result, nil
}

// matchVariation tries exact size-label equality first, then variation id.
func matchVariation(variations []models.Variation, ref VariationRef) *models.Variation {
	for i := range variations {
		if ref.Size != "" && variations[i].Size == ref.Size {
			return &variations[i]
		}
		if ref.ID != 0 && variations[i].ID == ref.ID {
			return &variations[i]
		}
	}
	return nil
}

// ---------- aggregate writer ----------

// PlaceOrder persists the order header and all accepted lines in one
// transaction: either everything is visible or nothing is.
func (s *OrderService) PlaceOrder(customer *models.User, req *PlaceOrderRequest, validation *CartValidation) (*models.Order, error) {
	if validation.RestaurantID == nil || len(validation.Lines) == 0 {
		return nil, utils.NewValidationError("no valid order items")
	}

	deliveryFee := 0.0
	if req.DeliveryFee != nil {
		deliveryFee = *req.DeliveryFee
	}
	timeToDeliver := 0.0
	if req.TimeToDeliver != nil {
		timeToDeliver = *req.TimeToDeliver
	}

	var adminID *uint
	if customer.Role == models.RoleAdmin {
		id := customer.ID
		adminID = &id
	}

	order := models.Order{
		CustomerID:      customer.ID,
		AdminID:         adminID,
		RestaurantID:    *validation.RestaurantID,
		Status:          models.StatusPending,
		TotalPrice:      utils.Round2(validation.ItemsTotal + deliveryFee),
		DeliveryFee:     deliveryFee,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   strings.ToLower(req.PaymentMethod),
		TimeToDeliver:   timeToDeliver,
		Notes:           req.Notes,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(validation.Lines))
		for _, line := range validation.Lines {
			items = append(items, models.OrderItem{
				OrderID:       order.ID,
				MenuItemID:    line.MenuItemID,
				Quantity:      line.Quantity,
				Price:         line.Price,
				VariationSize: line.VariationSize,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		order.OrderItems = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ---------- lifecycle ----------

// UpdateStatus applies one transition of the status graph and persists
// the new status. Unknown and illegal targets are rejected.
func (s *OrderService) UpdateStatus(order *models.Order, target models.OrderStatus) error {
	if !target.Valid() || !order.Status.CanTransitionTo(target) {
		return utils.NewInvalidTransitionError(
			fmt.Sprintf("cannot change status from %q to %q", order.Status, target))
	}

	order.Status = target
	return s.DB.Save(order).Error
}

// CancelOrder forces the order to cancelled from any non-terminal state,
// bypassing the general transition table.
func (s *OrderService) CancelOrder(order *models.Order) error {
	if order.Status.IsTerminal() {
		return utils.NewInvalidTransitionError(
			fmt.Sprintf("cannot cancel an order in %q status", order.Status))
	}

	order.Status = models.StatusCancelled
	return s.DB.Save(order).Error
}

// ---------- authorization ----------

// RestaurantByUserID resolves the restaurant owned by a restaurant-role
// user.
func (s *OrderService) RestaurantByUserID(userID uint) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := s.DB.Where("user_id = ?", userID).First(&restaurant).Error; err != nil {
		return nil, s.notFoundOrInternal(err, "restaurant not found for this user")
	}
	return &restaurant, nil
}

// Authorize is the single policy entry point for order access. Admins may
// do anything; customers only touch their own orders; restaurant users
// only orders bound to the restaurant they own.
func (s *OrderService) Authorize(order *models.Order, user *models.User, action OrderAction) error {
	_ = action // policy is currently identical across view/update/cancel

	switch user.Role {
	case models.RoleAdmin:
		return nil

	case models.RoleCustomer:
		if order.CustomerID == user.ID {
			return nil
		}
		return utils.NewForbiddenError("you are not allowed to access this order")

	case models.RoleRestaurant:
		restaurant, err := s.RestaurantByUserID(user.ID)
		if err != nil {
			return err
		}
		if order.RestaurantID == restaurant.ID {
			return nil
		}
		return utils.NewForbiddenError("this order does not belong to your restaurant")
	}

	return utils.NewForbiddenError("you are not allowed to access this order")
}
