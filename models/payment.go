package models

import "time"

const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
	PaymentStatusExpired = "expired"
)

// Payment represents one payment attempt for an order.
type Payment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     uint       `gorm:"not null;index" json:"order_id"`
	Order       Order      `gorm:"foreignKey:OrderID" json:"-"`
	Amount      float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method      string     `gorm:"type:varchar(30);not null" json:"method"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReferenceID string     `gorm:"type:varchar(64);uniqueIndex" json:"reference_id"`
	// PaymentURL is the gateway redirect for online payments.
	PaymentURL  string     `gorm:"type:varchar(255)" json:"payment_url,omitempty"`
	PaymentTime *time.Time `json:"payment_time,omitempty"`
	ExpiredAt   *time.Time `json:"expired_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
