package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/models"
	"github.com/Zack-River/Food-Delivery-Backend/services"
	"github.com/Zack-River/Food-Delivery-Backend/utils"
)

type PaymentController struct {
	DB       *gorm.DB
	orderSvc *services.OrderService
	svc      *services.PaymentService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:       db,
		orderSvc: services.NewOrderService(db),
		svc:      services.NewPaymentService(db),
	}
}

// CreatePayment opens a payment for an order the caller may view.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	user, err := currentUser(c, pc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var body struct {
		OrderID uint `json:"order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := pc.DB.First(&order, body.OrderID).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("order not found"))
		return
	}

	if err := pc.orderSvc.Authorize(&order, user, services.ActionView); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if order.Status == models.StatusCancelled {
		utils.RespondAppError(c, utils.NewConflictError("cannot pay for a cancelled order"))
		return
	}

	payment, err := pc.svc.CreatePayment(&order, user)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment created", payment)
}

// GetPaymentByOrder returns the latest payment for an order.
func (pc *PaymentController) GetPaymentByOrder(c *gin.Context) {
	user, err := currentUser(c, pc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var order models.Order
	if err := pc.DB.First(&order, c.Param("order_id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("order not found"))
		return
	}

	if err := pc.orderSvc.Authorize(&order, user, services.ActionView); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var payment models.Payment
	if err := pc.DB.Where("order_id = ?", order.ID).Order("created_at desc").First(&payment).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("no payment for this order"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment retrieved", payment)
}

// HandleCallback receives gateway notifications. Unauthenticated; trusted
// via the sha512 signature.
func (pc *PaymentController) HandleCallback(c *gin.Context) {
	var notif struct {
		OrderID           string `json:"order_id"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
		TransactionStatus string `json:"transaction_status"`
	}
	if err := c.ShouldBindJSON(&notif); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !pc.svc.VerifySignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		utils.RespondAppError(c, utils.NewForbiddenError("invalid signature"))
		return
	}

	payment, err := pc.svc.HandleNotification(notif.OrderID, notif.TransactionStatus)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.Printf("Payment %s -> %s (order %d)", payment.ReferenceID, payment.Status, payment.OrderID)
	utils.RespondJSON(c, http.StatusOK, "Notification processed", gin.H{
		"reference_id": payment.ReferenceID,
		"status":       payment.Status,
	})
}

// SettleCashPayment is used by the restaurant or an admin when cash is
// received on delivery.
func (pc *PaymentController) SettleCashPayment(c *gin.Context) {
	user, err := currentUser(c, pc.DB)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	var payment models.Payment
	if err := pc.DB.First(&payment, c.Param("id")).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("payment not found"))
		return
	}

	var order models.Order
	if err := pc.DB.First(&order, payment.OrderID).Error; err != nil {
		utils.RespondAppError(c, utils.NewNotFoundError("order not found"))
		return
	}

	if user.Role == models.RoleCustomer {
		utils.RespondAppError(c, utils.NewForbiddenError("customers cannot settle payments"))
		return
	}
	if err := pc.orderSvc.Authorize(&order, user, services.ActionUpdate); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	if err := pc.svc.MarkCashReceived(&payment); err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment settled", payment)
}
