package models

import (
	"time"

	"gorm.io/gorm"
)

// InventoryItem represents a raw stock unit (purchased inventory)
type InventoryItem struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"not null;index" json:"name"`
	Category         string         `gorm:"index" json:"category"`
	Department       string         `gorm:"index" json:"department"` // "kitchen", "bar", etc. Used for report filtering
	StorageUnit      string         `gorm:"default:each" json:"storage_unit"` // Canonical unit for this item
	CostPerUnit      float64        `gorm:"default:0" json:"cost_per_unit"`
	YieldCostPerUnit *float64       `json:"yield_cost_per_unit,omitempty"` // Post-trim cost, preferred over CostPerUnit when set
	CurrentStock     float64        `gorm:"default:0" json:"current_stock"` // Can go negative; mutated only by the deduction engine
	MinStock         float64        `gorm:"default:0" json:"min_stock"`
	LocationID       uint           `gorm:"index;default:1" json:"location_id"`
	IsActive         bool           `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// EffectiveCostPerUnit returns the yield-adjusted cost when one is configured
func (i *InventoryItem) EffectiveCostPerUnit() float64 {
	if i.YieldCostPerUnit != nil && *i.YieldCostPerUnit > 0 {
		return *i.YieldCostPerUnit
	}
	return i.CostPerUnit
}

// Transaction types for InventoryTransaction
const (
	TransactionTypeSale       = "sale"
	TransactionTypeWaste      = "waste"
	TransactionTypePurchase   = "purchase"
	TransactionTypeAdjustment = "adjustment"
)

// InventoryTransaction is the append-only audit trail for every stock change.
// Rows are created together with their paired stock mutation and never updated.
type InventoryTransaction struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	InventoryItemID uint           `gorm:"not null;index" json:"inventory_item_id"`
	InventoryItem   *InventoryItem `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`
	Type            string         `gorm:"not null;index" json:"type"` // sale, waste, purchase, adjustment
	QuantityBefore  float64        `json:"quantity_before"`            // Best-effort snapshot taken just before the atomic decrement
	QuantityChange  float64        `gorm:"not null" json:"quantity_change"` // Negative for consumption
	QuantityAfter   float64        `json:"quantity_after"`
	UnitCost        float64        `json:"unit_cost"`
	TotalCost       float64        `json:"total_cost"`
	Reason          string         `json:"reason"`
	ReferenceType   string         `gorm:"index" json:"reference_type"` // "order", "order_item", "manual"
	ReferenceID     uint           `gorm:"index" json:"reference_id"`
	BatchID         string         `gorm:"index" json:"batch_id"` // Groups all rows written by one deduction call
	EmployeeID      *uint          `json:"employee_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// WasteLogEntry records the cost impact of a voided-but-prepared item.
// Written only by the waste path, alongside its InventoryTransaction.
type WasteLogEntry struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	InventoryItemID uint           `gorm:"not null;index" json:"inventory_item_id"`
	InventoryItem   *InventoryItem `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`
	OrderItemID     uint           `gorm:"index" json:"order_item_id"`
	Quantity        float64        `gorm:"not null" json:"quantity"`
	Unit            string         `json:"unit"`
	CostImpact      float64        `json:"cost_impact"`
	Reason          string         `gorm:"not null" json:"reason"`
	EmployeeID      *uint          `json:"employee_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// TableName specifies the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// TableName specifies the table name for InventoryTransaction
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// TableName specifies the table name for WasteLogEntry
func (WasteLogEntry) TableName() string {
	return "waste_log_entries"
}
