package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Parent discriminator for a menu item. Items hang off a Menu directly
// or off a Submenu.
const (
	ParentTypeMenu    = "Menu"
	ParentTypeSubmenu = "Submenu"
)

type MenuItem struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ParentType  string `gorm:"type:varchar(10);not null;index:idx_menu_item_parent" json:"parent_type"`
	ParentID    uint   `gorm:"not null;index:idx_menu_item_parent" json:"parent_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	// JSON-encoded list of category labels.
	Categories string      `gorm:"type:text" json:"-"`
	Variations []Variation `gorm:"foreignKey:MenuItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"variations"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (mi *MenuItem) SetCategories(categories []string) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	mi.Categories = string(data)
	return nil
}

func (mi *MenuItem) GetCategories() []string {
	if mi.Categories == "" {
		return []string{}
	}
	var categories []string
	if err := json.Unmarshal([]byte(mi.Categories), &categories); err != nil {
		return []string{}
	}
	return categories
}

// Variation is owned by its MenuItem; no independent lifecycle.
type Variation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	MenuItemID  uint      `gorm:"not null;index" json:"menu_item_id"`
	Size        string    `gorm:"type:varchar(10);not null" json:"size"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable bool      `gorm:"not null;default:true" json:"isAvailable"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var ValidSizes = []string{"Small", "Medium", "Large"}

func isValidSize(size string) bool {
	for _, s := range ValidSizes {
		if s == size {
			return true
		}
	}
	return false
}

// ValidateVariations enforces the per-item variation invariants: non-empty
// list, sizes drawn from the closed set and unique within the item, prices
// non-negative with at most 2 decimal places.
func ValidateVariations(variations []Variation) error {
	if len(variations) == 0 {
		return fmt.Errorf("variations must be a non-empty list")
	}

	seen := make(map[string]bool, len(variations))
	for i, v := range variations {
		if seen[v.Size] {
			return fmt.Errorf("variation %d: duplicate size %q", i+1, v.Size)
		}
		seen[v.Size] = true

		if !isValidSize(v.Size) {
			return fmt.Errorf("variation %d: size must be one of Small, Medium, Large", i+1)
		}
		if v.Price < 0 {
			return fmt.Errorf("variation %d: price must be a non-negative number", i+1)
		}
		if math.Round(v.Price*100)/100 != v.Price {
			return fmt.Errorf("variation %d: price format invalid (max 2 decimal places)", i+1)
		}
	}
	return nil
}

// ValidateCategories checks the category labels of a menu item.
func ValidateCategories(categories []string) error {
	if len(categories) == 0 {
		return fmt.Errorf("category must be a non-empty list")
	}
	for i, cat := range categories {
		if cat == "" {
			return fmt.Errorf("category %d: label must not be empty", i+1)
		}
	}
	return nil
}
