package models

import (
	"time"

	"gorm.io/gorm"
)

// Ingredient is the daily-count / prep-stock tier. It is a separate storage
// pool from InventoryItem: prep stock is counted each shift and deducted at
// kitchen-send time, not at payment.
type Ingredient struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	Name             string            `gorm:"not null;index" json:"name"`
	Unit             string            `gorm:"default:each" json:"unit"`
	IsDailyCount     bool              `gorm:"default:false;index" json:"is_daily_count"`
	CurrentPrepStock float64           `gorm:"default:0" json:"current_prep_stock"`
	MinPrepStock     float64           `gorm:"default:0" json:"min_prep_stock"`
	InventoryItemID  *uint             `gorm:"index" json:"inventory_item_id,omitempty"` // Optional tie to the raw inventory item it is prepped from
	InventoryItem    *InventoryItem    `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`
	Children         []IngredientChild `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	LocationID       uint              `gorm:"index;default:1" json:"location_id"`
	IsActive         bool              `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	DeletedAt        gorm.DeletedAt    `gorm:"index" json:"-"`
}

// IngredientChild nests daily-count ingredients into multi-level prep BOMs
type IngredientChild struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	ParentID  uint        `gorm:"not null;index" json:"parent_id"`
	ChildID   uint        `gorm:"not null;index" json:"child_id"`
	Child     *Ingredient `gorm:"foreignKey:ChildID" json:"child,omitempty"`
	Quantity  float64     `gorm:"not null" json:"quantity"` // Child units consumed per parent unit
	CreatedAt time.Time   `json:"created_at"`
}

// MenuItemIngredient links a menu item to a daily-count ingredient
type MenuItemIngredient struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	MenuItemID   uint        `gorm:"not null;index" json:"menu_item_id"`
	IngredientID uint        `gorm:"not null;index" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	Quantity     float64     `gorm:"not null" json:"quantity"` // Ingredient units consumed per menu item sold
	Unit         string      `json:"unit"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TableName specifies the table name for Ingredient
func (Ingredient) TableName() string {
	return "ingredients"
}

// TableName specifies the table name for IngredientChild
func (IngredientChild) TableName() string {
	return "ingredient_children"
}

// TableName specifies the table name for MenuItemIngredient
func (MenuItemIngredient) TableName() string {
	return "menu_item_ingredients"
}
