package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultPourSizeOz is the global fallback pour size when neither the recipe
// edge nor the bottle product specifies one.
const DefaultPourSizeOz = 1.5

// BottleProduct represents a liquor bottle behind the bar, tied to the
// inventory item its pours are deducted from.
type BottleProduct struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	Name              string         `gorm:"not null" json:"name"`
	InventoryItemID   uint           `gorm:"not null;index" json:"inventory_item_id"`
	InventoryItem     *InventoryItem `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`
	BottleSizeMl      float64        `json:"bottle_size_ml"`
	DefaultPourSizeOz *float64       `json:"default_pour_size_oz,omitempty"`
	IsActive          bool           `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// LiquorRecipeIngredient links a menu item to a bottle product. Usage is
// computed in fluid ounces from pour count and pour size, never from a
// stored quantity field.
type LiquorRecipeIngredient struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	MenuItemID      uint           `gorm:"not null;index" json:"menu_item_id"`
	BottleProductID uint           `gorm:"not null;index" json:"bottle_product_id"`
	BottleProduct   *BottleProduct `gorm:"foreignKey:BottleProductID" json:"bottle_product,omitempty"`
	PourCount       float64        `gorm:"default:1" json:"pour_count"`
	PourSizeOz      *float64       `json:"pour_size_oz,omitempty"` // Overrides the bottle product default
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// EffectivePourSizeOz resolves edge override > bottle default > global default
func (l *LiquorRecipeIngredient) EffectivePourSizeOz() float64 {
	if l.PourSizeOz != nil && *l.PourSizeOz > 0 {
		return *l.PourSizeOz
	}
	if l.BottleProduct != nil && l.BottleProduct.DefaultPourSizeOz != nil && *l.BottleProduct.DefaultPourSizeOz > 0 {
		return *l.BottleProduct.DefaultPourSizeOz
	}
	return DefaultPourSizeOz
}

// TableName specifies the table name for BottleProduct
func (BottleProduct) TableName() string {
	return "bottle_products"
}

// TableName specifies the table name for LiquorRecipeIngredient
func (LiquorRecipeIngredient) TableName() string {
	return "liquor_recipe_ingredients"
}
