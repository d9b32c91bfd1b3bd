package models

import (
	"time"

	"gorm.io/gorm"
)

// MenuItem represents a sellable menu entry and owns the recipe links
type MenuItem struct {
	ID                     uint                    `gorm:"primaryKey" json:"id"`
	Name                   string                  `gorm:"not null" json:"name"`
	Price                  float64                 `gorm:"not null" json:"price"`
	Category               string                  `json:"category"`
	RecipeIngredients      []RecipeIngredient      `gorm:"foreignKey:MenuItemID" json:"recipe_ingredients,omitempty"`
	LiquorRecipeIngredients []LiquorRecipeIngredient `gorm:"foreignKey:MenuItemID" json:"liquor_recipe_ingredients,omitempty"`
	Ingredients            []MenuItemIngredient    `gorm:"foreignKey:MenuItemID" json:"ingredients,omitempty"` // Daily-count tier links
	IsActive               bool                    `gorm:"default:true" json:"is_active"`
	CreatedAt              time.Time               `json:"created_at"`
	UpdatedAt              time.Time               `json:"updated_at"`
	DeletedAt              gorm.DeletedAt          `gorm:"index" json:"-"`
}

// PrepItem is an intermediate recipe output (sauce, dough, mix) that may nest
type PrepItem struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	Name        string               `gorm:"not null" json:"name"`
	BatchYield  float64              `gorm:"default:1" json:"batch_yield"` // Quantity produced per batch
	OutputUnit  string               `gorm:"default:each" json:"output_unit"`
	CostPerUnit float64              `gorm:"default:0" json:"cost_per_unit"`
	Ingredients []PrepItemIngredient `gorm:"foreignKey:PrepItemID" json:"ingredients,omitempty"`
	IsActive    bool                 `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	DeletedAt   gorm.DeletedAt       `gorm:"index" json:"-"`
}

// IngredientTargetKind discriminates what a recipe edge points at
type IngredientTargetKind int

const (
	TargetNone IngredientTargetKind = iota
	TargetInventory
	TargetPrep
)

// IngredientTarget is the tagged-union view of a recipe edge. Edges persist
// two nullable foreign keys, but engine code only ever sees this view, so the
// "both set" state is unrepresentable past the accessor: the inventory link
// wins if a row carries both.
type IngredientTarget struct {
	Kind          IngredientTargetKind
	InventoryItem *InventoryItem
	PrepItem      *PrepItem
}

// RecipeIngredient links a menu item to either an inventory item (terminal)
// or a prep item (recursive). Exactly one link should be set per row.
type RecipeIngredient struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	MenuItemID      uint           `gorm:"not null;index" json:"menu_item_id"`
	Quantity        float64        `gorm:"not null" json:"quantity"`
	Unit            string         `gorm:"not null" json:"unit"`
	InventoryItemID *uint          `gorm:"index" json:"inventory_item_id,omitempty"`
	PrepItemID      *uint          `gorm:"index" json:"prep_item_id,omitempty"`
	InventoryItem   *InventoryItem `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`
	PrepItem        *PrepItem      `gorm:"foreignKey:PrepItemID" json:"prep_item,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Target resolves the edge into its tagged-union view
func (r *RecipeIngredient) Target() IngredientTarget {
	if r.InventoryItemID != nil && r.InventoryItem != nil {
		return IngredientTarget{Kind: TargetInventory, InventoryItem: r.InventoryItem}
	}
	if r.PrepItemID != nil {
		return IngredientTarget{Kind: TargetPrep, PrepItem: r.PrepItem}
	}
	return IngredientTarget{Kind: TargetNone}
}

// PrepItemIngredient is the recursive edge inside a prep item's own recipe
type PrepItemIngredient struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	PrepItemID      uint           `gorm:"not null;index" json:"prep_item_id"`
	Quantity        float64        `gorm:"not null" json:"quantity"`
	Unit            string         `gorm:"not null" json:"unit"`
	InventoryItemID *uint          `gorm:"index" json:"inventory_item_id,omitempty"`
	ChildPrepItemID *uint          `gorm:"index" json:"child_prep_item_id,omitempty"`
	InventoryItem   *InventoryItem `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`
	ChildPrepItem   *PrepItem      `gorm:"foreignKey:ChildPrepItemID" json:"child_prep_item,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Target resolves the edge into its tagged-union view
func (p *PrepItemIngredient) Target() IngredientTarget {
	if p.InventoryItemID != nil && p.InventoryItem != nil {
		return IngredientTarget{Kind: TargetInventory, InventoryItem: p.InventoryItem}
	}
	if p.ChildPrepItemID != nil {
		return IngredientTarget{Kind: TargetPrep, PrepItem: p.ChildPrepItem}
	}
	return IngredientTarget{Kind: TargetNone}
}

// TableName specifies the table name for MenuItem
func (MenuItem) TableName() string {
	return "menu_items"
}

// TableName specifies the table name for PrepItem
func (PrepItem) TableName() string {
	return "prep_items"
}

// TableName specifies the table name for RecipeIngredient
func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// TableName specifies the table name for PrepItemIngredient
func (PrepItemIngredient) TableName() string {
	return "prep_item_ingredients"
}
