package models

import "time"

// OrderItem snapshots the unit price and variation size as they were at
// order time; later catalog edits never touch existing lines.
type OrderItem struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	OrderID       uint     `gorm:"not null;index" json:"order_id"`
	Order         Order    `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuItemID    uint     `gorm:"not null" json:"item_id"`
	MenuItem      MenuItem `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu_item,omitempty"`
	Quantity      int      `gorm:"not null" json:"quantity"`
	Price         float64  `gorm:"type:decimal(10,2);not null" json:"price"`
	VariationSize string   `gorm:"type:varchar(10);not null" json:"variation_size"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
