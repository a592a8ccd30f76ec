package services

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/models"
	"github.com/Zack-River/Food-Delivery-Backend/utils"
)

type fixture struct {
	db *gorm.DB

	customer      models.User
	otherCustomer models.User
	ownerA        models.User
	ownerB        models.User
	orphanOwner   models.User
	admin         models.User

	restaurantA models.Restaurant
	restaurantB models.Restaurant

	// itemMenuA: Menu parent, Small 5.00 / Large 10.00, both available.
	// itemSubA: Submenu parent, Medium 7.50 available, Small 3.25 unavailable.
	// itemMenuB: restaurant B, Small 4.00 available.
	// itemOrphan: parent Menu that does not exist.
	itemMenuA  models.MenuItem
	itemSubA   models.MenuItem
	itemMenuB  models.MenuItem
	itemOrphan models.MenuItem
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Restaurant{}, &models.Menu{}, &models.Submenu{},
		&models.MenuItem{}, &models.Variation{}, &models.Order{}, &models.OrderItem{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	f := &fixture{db: db}

	f.customer = models.User{Name: "Cust", Email: "cust@test.com", Password: "x", Role: models.RoleCustomer}
	f.otherCustomer = models.User{Name: "Other", Email: "other@test.com", Password: "x", Role: models.RoleCustomer}
	f.ownerA = models.User{Name: "Owner A", Email: "a@test.com", Password: "x", Role: models.RoleRestaurant}
	f.ownerB = models.User{Name: "Owner B", Email: "b@test.com", Password: "x", Role: models.RoleRestaurant}
	f.orphanOwner = models.User{Name: "No Restaurant", Email: "none@test.com", Password: "x", Role: models.RoleRestaurant}
	f.admin = models.User{Name: "Admin", Email: "admin@test.com", Password: "x", Role: models.RoleAdmin}
	for _, u := range []*models.User{&f.customer, &f.otherCustomer, &f.ownerA, &f.ownerB, &f.orphanOwner, &f.admin} {
		db.Create(u)
	}

	f.restaurantA = models.Restaurant{UserID: f.ownerA.ID, Name: "Pasta Place", Address: "1 Main St"}
	f.restaurantB = models.Restaurant{UserID: f.ownerB.ID, Name: "Burger Barn", Address: "2 Side St"}
	db.Create(&f.restaurantA)
	db.Create(&f.restaurantB)

	menuA := models.Menu{RestaurantID: f.restaurantA.ID, Title: "Mains"}
	menuB := models.Menu{RestaurantID: f.restaurantB.ID, Title: "Burgers"}
	db.Create(&menuA)
	db.Create(&menuB)
	submenuA := models.Submenu{MenuID: menuA.ID, Title: "Pasta"}
	db.Create(&submenuA)

	f.itemMenuA = models.MenuItem{
		ParentType: models.ParentTypeMenu, ParentID: menuA.ID,
		Name: "Margherita", Description: "classic",
		Variations: []models.Variation{
			{Size: "Small", Price: 5.00, IsAvailable: true},
			{Size: "Large", Price: 10.00, IsAvailable: true},
		},
	}
	f.itemSubA = models.MenuItem{
		ParentType: models.ParentTypeSubmenu, ParentID: submenuA.ID,
		Name: "Carbonara", Description: "creamy",
		Variations: []models.Variation{
			{Size: "Medium", Price: 7.50, IsAvailable: true},
			{Size: "Small", Price: 3.25, IsAvailable: false},
		},
	}
	f.itemMenuB = models.MenuItem{
		ParentType: models.ParentTypeMenu, ParentID: menuB.ID,
		Name: "Cheeseburger", Description: "with fries",
		Variations: []models.Variation{
			{Size: "Small", Price: 4.00, IsAvailable: true},
		},
	}
	f.itemOrphan = models.MenuItem{
		ParentType: models.ParentTypeMenu, ParentID: 9999,
		Name: "Ghost Dish", Description: "parent gone",
		Variations: []models.Variation{
			{Size: "Small", Price: 1.00, IsAvailable: true},
		},
	}
	for _, item := range []*models.MenuItem{&f.itemMenuA, &f.itemSubA, &f.itemMenuB, &f.itemOrphan} {
		db.Create(item)
	}

	return f
}

func line(itemID uint, size string, qty int) OrderItemRequest {
	return OrderItemRequest{
		Item:      ItemRef{ID: itemID},
		Variation: VariationRef{Size: size},
		Quantity:  qty,
	}
}

func placeRequest(lines ...OrderItemRequest) *PlaceOrderRequest {
	return &PlaceOrderRequest{
		OrderItems:      lines,
		DeliveryAddress: "42 Elm Street",
		PaymentMethod:   "cash",
	}
}

func appErrCode(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

func TestValidateOrderRequest(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	fee := -1.0
	ttd := -5.0
	tests := []struct {
		name    string
		mutate  func(*PlaceOrderRequest)
		wantErr string
	}{
		{"valid", func(r *PlaceOrderRequest) {}, ""},
		{"empty items", func(r *PlaceOrderRequest) { r.OrderItems = nil }, "orderItems"},
		{"blank address", func(r *PlaceOrderRequest) { r.DeliveryAddress = "   " }, "deliveryAddress"},
		{"bad payment method", func(r *PlaceOrderRequest) { r.PaymentMethod = "bitcoin" }, "PaymentMethod"},
		{"negative fee", func(r *PlaceOrderRequest) { r.DeliveryFee = &fee }, "deliveryFee"},
		{"negative time", func(r *PlaceOrderRequest) { r.TimeToDeliver = &ttd }, "timeToDeliver"},
		{"zero quantity", func(r *PlaceOrderRequest) { r.OrderItems[0].Quantity = 0 }, "quantity"},
		{"missing variation", func(r *PlaceOrderRequest) { r.OrderItems[0].Variation = VariationRef{} }, "variation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := placeRequest(line(f.itemMenuA.ID, "Large", 1))
			tt.mutate(req)
			err := svc.ValidateOrderRequest(req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
			assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
		})
	}
}

func TestPaymentMethodIsCaseInsensitive(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	req := placeRequest(line(f.itemMenuA.ID, "Large", 1))
	req.PaymentMethod = "CaSh"
	assert.NoError(t, svc.ValidateOrderRequest(req))
}

func TestFetchMenuItemsOmitsAbsent(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	catalog, err := svc.FetchMenuItems([]uint{f.itemMenuA.ID, 9999})
	assert.NoError(t, err)
	assert.Len(t, catalog, 1)
	assert.Contains(t, catalog, f.itemMenuA.ID)

	// Variations ride along for the pricing pass.
	assert.Len(t, catalog[f.itemMenuA.ID].Variations, 2)
}

func TestResolveRestaurantID(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	id, err := svc.ResolveRestaurantID(&f.itemMenuA)
	assert.NoError(t, err)
	assert.Equal(t, f.restaurantA.ID, id)

	// Submenu chain walks Submenu -> Menu -> Restaurant.
	id, err = svc.ResolveRestaurantID(&f.itemSubA)
	assert.NoError(t, err)
	assert.Equal(t, f.restaurantA.ID, id)

	_, err = svc.ResolveRestaurantID(&f.itemOrphan)
	assert.Equal(t, http.StatusNotFound, appErrCode(t, err))
}

func TestValidateMenuItemsHappyPath(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	lines := []OrderItemRequest{
		line(f.itemMenuA.ID, "Large", 2),
		line(f.itemSubA.ID, "Medium", 1),
	}
	catalog, err := svc.FetchMenuItems([]uint{f.itemMenuA.ID, f.itemSubA.ID})
	assert.NoError(t, err)

	result, err := svc.ValidateMenuItems(catalog, lines)
	assert.NoError(t, err)
	assert.Empty(t, result.Unavailable)
	assert.Len(t, result.Lines, 2)
	assert.Equal(t, 27.50, result.ItemsTotal)
	if assert.NotNil(t, result.RestaurantID) {
		assert.Equal(t, f.restaurantA.ID, *result.RestaurantID)
	}

	assert.Equal(t, 10.00, result.Lines[0].Price)
	assert.Equal(t, "Large", result.Lines[0].VariationSize)
	assert.Equal(t, 20.00, result.Lines[0].LineTotal)
}

func TestValidateMenuItemsMixedRestaurants(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	lines := []OrderItemRequest{
		line(f.itemMenuA.ID, "Small", 1),
		line(f.itemMenuB.ID, "Small", 1),
	}
	catalog, _ := svc.FetchMenuItems([]uint{f.itemMenuA.ID, f.itemMenuB.ID})

	result, err := svc.ValidateMenuItems(catalog, lines)
	assert.NoError(t, err)

	// First restaurant's line is unaffected; the second is rejected.
	assert.Len(t, result.Lines, 1)
	assert.Equal(t, f.itemMenuA.ID, result.Lines[0].MenuItemID)
	assert.Len(t, result.Unavailable, 1)
	assert.Equal(t, f.itemMenuB.ID, result.Unavailable[0].ItemID)
	assert.Contains(t, result.Unavailable[0].Message, "same restaurant")
	assert.Equal(t, 5.00, result.ItemsTotal)
}

func TestValidateMenuItemsDiagnostics(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	tests := []struct {
		name    string
		line    OrderItemRequest
		message string
	}{
		{"item not found", line(9999, "Small", 1), "not found"},
		{"variation not found", line(f.itemMenuA.ID, "Medium", 1), "not found"},
		{"variation unavailable", line(f.itemSubA.ID, "Small", 1), "not available"},
		{"broken parent chain", line(f.itemOrphan.ID, "Small", 1), "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, _ := svc.FetchMenuItems([]uint{f.itemMenuA.ID, f.itemSubA.ID, f.itemOrphan.ID})
			result, err := svc.ValidateMenuItems(catalog, []OrderItemRequest{tt.line})
			assert.NoError(t, err)
			assert.Empty(t, result.Lines)
			if assert.Len(t, result.Unavailable, 1) {
				assert.Contains(t, result.Unavailable[0].Message, tt.message)
			}
		})
	}
}

func TestValidateMenuItemsMatchesByVariationID(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	catalog, _ := svc.FetchMenuItems([]uint{f.itemMenuA.ID})
	largeID := catalog[f.itemMenuA.ID].Variations[1].ID

	result, err := svc.ValidateMenuItems(catalog, []OrderItemRequest{{
		Item:      ItemRef{ID: f.itemMenuA.ID},
		Variation: VariationRef{ID: largeID},
		Quantity:  1,
	}})
	assert.NoError(t, err)
	assert.Empty(t, result.Unavailable)
	assert.Equal(t, 10.00, result.ItemsTotal)
}

func TestPlaceOrderRoundTrip(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	fee := 3.0
	req := placeRequest(
		line(f.itemMenuA.ID, "Large", 2),
		line(f.itemSubA.ID, "Medium", 1),
	)
	req.DeliveryFee = &fee

	catalog, _ := svc.FetchMenuItems([]uint{f.itemMenuA.ID, f.itemSubA.ID})
	validation, err := svc.ValidateMenuItems(catalog, req.OrderItems)
	assert.NoError(t, err)

	order, err := svc.PlaceOrder(&f.customer, req, validation)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, 30.50, order.TotalPrice)
	assert.Equal(t, f.restaurantA.ID, order.RestaurantID)
	assert.Nil(t, order.AdminID)

	// N valid lines -> exactly N persisted rows.
	var items []models.OrderItem
	f.db.Where("order_id = ?", order.ID).Order("id asc").Find(&items)
	assert.Len(t, items, 2)

	// Later catalog edits must not touch the snapshot.
	f.db.Model(&models.Variation{}).
		Where("menu_item_id = ? AND size = ?", f.itemMenuA.ID, "Large").
		Update("price", 99.99)

	f.db.Where("order_id = ?", order.ID).Order("id asc").Find(&items)
	assert.Equal(t, 10.00, items[0].Price)
	assert.Equal(t, "Large", items[0].VariationSize)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestPlaceOrderByAdminRecordsAdminID(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	req := placeRequest(line(f.itemMenuA.ID, "Small", 1))
	catalog, _ := svc.FetchMenuItems([]uint{f.itemMenuA.ID})
	validation, _ := svc.ValidateMenuItems(catalog, req.OrderItems)

	order, err := svc.PlaceOrder(&f.admin, req, validation)
	assert.NoError(t, err)
	if assert.NotNil(t, order.AdminID) {
		assert.Equal(t, f.admin.ID, *order.AdminID)
	}
}

func makeOrder(f *fixture, status models.OrderStatus) *models.Order {
	order := &models.Order{
		CustomerID:      f.customer.ID,
		RestaurantID:    f.restaurantA.ID,
		Status:          status,
		TotalPrice:      10,
		DeliveryAddress: "42 Elm Street",
		PaymentMethod:   "cash",
	}
	f.db.Create(order)
	return order
}

func TestUpdateStatus(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	order := makeOrder(f, models.StatusPending)
	assert.NoError(t, svc.UpdateStatus(order, models.StatusApproved))

	var saved models.Order
	f.db.First(&saved, order.ID)
	assert.Equal(t, models.StatusApproved, saved.Status)

	// Skipping states is rejected.
	err := svc.UpdateStatus(order, models.StatusCompleted)
	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))

	// Unrecognized status values are rejected too.
	err = svc.UpdateStatus(order, models.OrderStatus("shipped"))
	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
}

func TestCancelOrder(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)

	for _, status := range []models.OrderStatus{
		models.StatusPending, models.StatusApproved, models.StatusPreparing, models.StatusReady,
	} {
		order := makeOrder(f, status)
		assert.NoErrorf(t, svc.CancelOrder(order), "cancel from %s", status)
		assert.Equal(t, models.StatusCancelled, order.Status)
	}

	for _, status := range []models.OrderStatus{models.StatusCompleted, models.StatusCancelled} {
		order := makeOrder(f, status)
		err := svc.CancelOrder(order)
		assert.Equalf(t, http.StatusBadRequest, appErrCode(t, err), "cancel from %s", status)
	}
}

func TestAuthorize(t *testing.T) {
	f := setupFixture(t)
	svc := NewOrderService(f.db)
	order := makeOrder(f, models.StatusPending)

	stranger := models.User{Name: "X", Email: "x@test.com", Password: "x", Role: "courier"}
	f.db.Create(&stranger)

	tests := []struct {
		name     string
		user     *models.User
		wantCode int // 0 = authorized
	}{
		{"admin", &f.admin, 0},
		{"owning customer", &f.customer, 0},
		{"other customer", &f.otherCustomer, http.StatusForbidden},
		{"matching restaurant", &f.ownerA, 0},
		{"other restaurant", &f.ownerB, http.StatusForbidden},
		{"restaurant user without restaurant", &f.orphanOwner, http.StatusNotFound},
		{"unknown role", &stranger, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, action := range []OrderAction{ActionView, ActionUpdate, ActionCancel} {
				err := svc.Authorize(order, tt.user, action)
				if tt.wantCode == 0 {
					assert.NoError(t, err)
					continue
				}
				assert.Equal(t, tt.wantCode, appErrCode(t, err))
			}
		})
	}
}
