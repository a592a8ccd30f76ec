package models

import "time"

// Restaurant is owned by exactly one restaurant-role user.
type Restaurant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Address   string    `gorm:"type:varchar(255);not null" json:"address"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	Cuisine   string    `gorm:"type:varchar(100)" json:"cuisine"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
