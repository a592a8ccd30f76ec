package models

import "time"

// OrderStatus is the order lifecycle state. Transitions follow a fixed
// graph; completed and cancelled are terminal.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusApproved  OrderStatus = "approved"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusApproved, StatusCancelled},
	StatusApproved:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionTo is total: unknown statuses and terminal states allow
// no targets.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func OrderStatuses() []OrderStatus {
	return []OrderStatus{
		StatusPending, StatusApproved, StatusPreparing,
		StatusReady, StatusCompleted, StatusCancelled,
	}
}

// Order is created at placement and mutated only via status transitions.
// Cancellation is a status, never a row delete.
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	CustomerID      uint        `gorm:"not null;index" json:"customer_id"`
	Customer        User        `gorm:"foreignKey:CustomerID" json:"-"`
	AdminID         *uint       `gorm:"index" json:"admin_id,omitempty"`
	Admin           *User       `gorm:"foreignKey:AdminID" json:"-"`
	RestaurantID    uint        `gorm:"not null;index" json:"restaurant_id"`
	Restaurant      Restaurant  `gorm:"foreignKey:RestaurantID" json:"-"`
	Status          OrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalPrice      float64     `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	DeliveryFee     float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"deliveryFee"`
	DeliveryAddress string      `gorm:"type:varchar(255);not null" json:"deliveryAddress"`
	PaymentMethod   string      `gorm:"type:varchar(30);not null" json:"PaymentMethod"`
	// Estimated delivery time in minutes.
	TimeToDeliver float64     `gorm:"not null;default:0" json:"timeToDeliver"`
	Notes         string      `gorm:"type:text" json:"notes,omitempty"`
	OrderItems    []OrderItem `gorm:"foreignKey:OrderID" json:"order_items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
