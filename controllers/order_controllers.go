package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/models"
	"github.com/Zack-River/Food-Delivery-Backend/services"
	"github.com/Zack-River/Food-Delivery-Backend/utils"
)

type OrderController struct {
	DB  *gorm.DB
	svc *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db, svc: services.NewOrderService(db)}
}

// PlaceOrder validates the cart against live pricing and availability and
// creates the order atomically. Any bad line rejects the whole submission.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := oc.svc.ValidateOrderRequest(&req); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	ids := make([]uint, 0, len(req.OrderItems))
	for _, line := range req.OrderItems {
		ids = append(ids, line.Item.ID)
	}

	catalog, err := oc.svc.FetchMenuItems(ids)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	validation, err := oc.svc.ValidateMenuItems(catalog, req.OrderItems)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if len(validation.Unavailable) > 0 {
		c.JSON(http.StatusBadRequest, utils.JSONResponse{
			Success: false,
			Message: "Order could not be placed",
			Meta:    gin.H{"unavailable": len(validation.Unavailable)},
			Errors:  gin.H{"unAvailableItems": validation.Unavailable},
		})
		return
	}

	order, err := oc.svc.PlaceOrder(user, &req, validation)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Order %d placed by user %d (%s, total %s)",
		order.ID, user.ID, user.Role, utils.FormatPrice(order.TotalPrice))

	utils.RespondWithMeta(c, http.StatusCreated, "Order placed successfully",
		gin.H{
			"orderItems": len(order.OrderItems),
			"itemsTotal": validation.ItemsTotal,
		},
		gin.H{
			"orderId":       order.ID,
			"totalPrice":    order.TotalPrice,
			"deliveryFee":   order.DeliveryFee,
			"timeToDeliver": order.TimeToDeliver,
			"status":        order.Status,
			"orderItems":    order.OrderItems,
		})
}

// GetOrders lists orders, filtered by the caller's role and optionally by
// status.
func (oc *OrderController) GetOrders(c *gin.Context) {
	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	query := oc.DB.Model(&models.Order{})

	// Unknown status values are ignored, not rejected.
	if status := models.OrderStatus(c.Query("status")); status != "" && status.Valid() {
		query = query.Where("status = ?", status)
	}

	switch user.Role {
	case models.RoleCustomer:
		query = query.Where("customer_id = ?", user.ID)
	case models.RoleRestaurant:
		restaurant, err := oc.svc.RestaurantByUserID(user.ID)
		if err != nil {
			utils.RespondAppError(c, err)
			return
		}
		query = query.Where("restaurant_id = ?", restaurant.ID)
	}
	// Admin sees everything.

	var orders []models.Order
	pageInfo, err := utils.Paginate(query.Preload("OrderItems"), c, &orders)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondWithMeta(c, http.StatusOK, "Orders retrieved", gin.H{
		"total": pageInfo.Total,
		"page":  pageInfo.Page,
		"limit": pageInfo.Limit,
		"role":  user.Role,
	}, orders)
}

// GetOrderByID returns one order with its line items.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("order not found"))
		return
	}

	if err := oc.svc.Authorize(&order, user, services.ActionView); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var items []models.OrderItem
	if err := oc.DB.Preload("MenuItem").Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondWithMeta(c, http.StatusOK, "Order retrieved", gin.H{
		"orderItems": len(items),
		"totalPrice": order.TotalPrice,
		"status":     order.Status,
	}, gin.H{
		"order":      order,
		"orderItems": items,
	})
}

// UpdateOrderStatus applies one lifecycle transition.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	target := models.OrderStatus(body.Status)
	if !target.Valid() {
		c.JSON(http.StatusBadRequest, utils.JSONResponse{
			Success: false,
			Message: "Invalid status provided",
			Errors:  gin.H{"validStatuses": models.OrderStatuses()},
		})
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("order not found"))
		return
	}

	if err := oc.svc.Authorize(&order, user, services.ActionUpdate); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if err := oc.svc.UpdateStatus(&order, target); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order status updated", gin.H{
		"orderId":   order.ID,
		"status":    order.Status,
		"updatedAt": order.UpdatedAt,
	})
}

// CancelOrder cancels from any non-terminal state.
func (oc *OrderController) CancelOrder(c *gin.Context) {
	user, err := currentUser(c, oc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("order not found"))
		return
	}

	if err := oc.svc.Authorize(&order, user, services.ActionCancel); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if err := oc.svc.CancelOrder(&order); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", gin.H{
		"orderId":     order.ID,
		"status":      order.Status,
		"cancelledAt": order.UpdatedAt,
	})
}
