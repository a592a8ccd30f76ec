package services

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"github.com/Zack-River/Food-Delivery-Backend/models"
	"github.com/Zack-River/Food-Delivery-Backend/utils"
)

// PaymentService records payments for orders. Cash payments settle on
// delivery; card/online payments go through the Midtrans snap gateway.
type PaymentService struct {
	DB        *gorm.DB
	serverKey string
	snap      *snap.Client
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")

	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}

	client := &snap.Client{}
	client.New(serverKey, env)

	return &PaymentService{
		DB:        db,
		serverKey: serverKey,
		snap:      client,
	}
}

// CreatePayment opens a payment for an order. One pending payment per
// order at a time; a second attempt while one is open is a conflict.
func (ps *PaymentService) CreatePayment(order *models.Order, customer *models.User) (*models.Payment, error) {
	var existing models.Payment
	err := ps.DB.Where("order_id = ? AND status = ?", order.ID, models.PaymentStatusPending).
		First(&existing).Error
	if err == nil {
		return nil, utils.NewConflictError("a pending payment already exists for this order")
	}

	payment := models.Payment{
		OrderID:     order.ID,
		Amount:      order.TotalPrice,
		Method:      order.PaymentMethod,
		Status:      models.PaymentStatusPending,
		ReferenceID: uuid.NewString(),
	}

	if order.PaymentMethod != "cash" {
		resp, snapErr := ps.snap.CreateTransaction(&snap.Request{
			TransactionDetails: midtrans.TransactionDetails{
				OrderID:  payment.ReferenceID,
				GrossAmt: gatewayAmount(order.TotalPrice),
			},
			CustomerDetail: &midtrans.CustomerDetails{
				FName: customer.Name,
				Email: customer.Email,
				Phone: customer.Phone,
			},
		})
		if snapErr != nil {
			utils.ErrorLogger.Errorf("midtrans snap error for order %d: %v", order.ID, snapErr)
			return nil, utils.NewInternalError()
		}
		payment.PaymentURL = resp.RedirectURL

		expiry := time.Now().Add(24 * time.Hour)
		payment.ExpiredAt = &expiry
	}

	if err := ps.DB.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// gatewayAmount converts an order total to the whole-currency-unit
// amount the gateway expects. Rounding avoids the float truncation that
// would understate totals like 19.99.
func gatewayAmount(total float64) int64 {
	return int64(math.Round(total))
}

// VerifySignature checks the sha512 signature Midtrans sends on
// notification callbacks.
func (ps *PaymentService) VerifySignature(orderID, statusCode, grossAmount, signature string) bool {
	payload := orderID + statusCode + grossAmount + ps.serverKey
	hash := sha512.Sum512([]byte(payload))
	return hex.EncodeToString(hash[:]) == signature
}

// HandleNotification applies a gateway transaction status to the matching
// payment record.
func (ps *PaymentService) HandleNotification(referenceID, transactionStatus string) (*models.Payment, error) {
	var payment models.Payment
	if err := ps.DB.Where("reference_id = ?", referenceID).First(&payment).Error; err != nil {
		return nil, utils.NewNotFoundError(fmt.Sprintf("payment %s not found", referenceID))
	}

	switch transactionStatus {
	case "capture", "settlement":
		now := time.Now()
		payment.Status = models.PaymentStatusSuccess
		payment.PaymentTime = &now
	case "deny", "cancel", "failure":
		payment.Status = models.PaymentStatusFailed
	case "expire":
		payment.Status = models.PaymentStatusExpired
	default:
		// pending and unknown statuses leave the record untouched
		return &payment, nil
	}

	if err := ps.DB.Save(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// MarkCashReceived settles a cash payment, recorded by the restaurant or
// an admin on delivery.
func (ps *PaymentService) MarkCashReceived(payment *models.Payment) error {
	if payment.Method != "cash" {
		return utils.NewValidationError("only cash payments can be settled manually")
	}
	if payment.Status != models.PaymentStatusPending {
		return utils.NewConflictError(fmt.Sprintf("payment already %s", payment.Status))
	}

	now := time.Now()
	payment.Status = models.PaymentStatusSuccess
	payment.PaymentTime = &now
	return ps.DB.Save(payment).Error
}
