package models

import (
	"database/sql/driver"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) String() string {
	return string(s)
}

func (s *OrderStatus) Scan(value interface{}) error {
	*s = OrderStatus(value.(string))
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// OrderItemStatus is the lifecycle status of a single line; only active
// lines count toward usage
type OrderItemStatus string

const (
	OrderItemStatusActive OrderItemStatus = "active"
	OrderItemStatusVoided OrderItemStatus = "voided"
	OrderItemStatusComped OrderItemStatus = "comped"
)

// Order represents a customer order
type Order struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderNumber string         `gorm:"unique;not null" json:"order_number"`
	Status      OrderStatus    `gorm:"index" json:"status"`
	LocationID  uint           `gorm:"index;default:1" json:"location_id"`
	Items       []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal    float64        `json:"subtotal"`
	Tax         float64        `json:"tax"`
	Total       float64        `json:"total"`
	EmployeeID  uint           `gorm:"index" json:"employee_id"`
	PaidAt      *time.Time     `json:"paid_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// OrderItem represents one finalized line of an order
type OrderItem struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	OrderID         uint                `gorm:"index" json:"order_id"`
	Order           *Order              `gorm:"foreignKey:OrderID" json:"-"`
	MenuItemID      uint                `gorm:"index" json:"menu_item_id"`
	MenuItem        *MenuItem           `gorm:"foreignKey:MenuItemID" json:"menu_item,omitempty"`
	Quantity        int                 `json:"quantity"`
	UnitPrice       float64             `json:"unit_price"`
	Subtotal        float64             `json:"subtotal"`
	Status          OrderItemStatus     `gorm:"index;default:active" json:"status"`
	Modifiers       []OrderItemModifier `gorm:"foreignKey:OrderItemID;constraint:OnDelete:CASCADE" json:"modifiers"`
	VoidReason      string              `json:"void_reason,omitempty"`
	SentToKitchen   bool                `gorm:"default:false" json:"sent_to_kitchen"`
	SentToKitchenAt *time.Time          `json:"sent_to_kitchen_at,omitempty"`
	PreparedAt      *time.Time          `json:"prepared_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// IsActive reports whether this line still counts toward usage
func (i *OrderItem) IsActive() bool {
	return i.Status == OrderItemStatusActive || i.Status == ""
}

// OrderItemModifier is one modifier applied to an order line. PreModifier
// carries the free-text instruction ("NO", "LITE", "EXTRA", ...)
type OrderItemModifier struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderItemID uint      `json:"order_item_id"`
	ModifierID  uint      `json:"modifier_id"`
	Modifier    *Modifier `gorm:"foreignKey:ModifierID" json:"modifier,omitempty"`
	Quantity    float64   `gorm:"default:1" json:"quantity"`
	PreModifier string    `json:"pre_modifier"`
	PriceChange float64   `json:"price_change"`
	CreatedAt   time.Time `json:"created_at"`
}

// Modifier represents a menu modifier and its ingredient linkage. A modifier
// may carry a direct inventory link (InventoryItemID + usage quantity/unit)
// or a fallback daily-count ingredient link; the direct link takes precedence
// and only one path is ever honored per application.
type Modifier struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	Name             string         `gorm:"not null" json:"name"`
	PriceChange      float64        `json:"price_change"`
	InventoryItemID  *uint          `gorm:"index" json:"inventory_item_id,omitempty"`
	InventoryItem    *InventoryItem `gorm:"foreignKey:InventoryItemID" json:"inventory_item,omitempty"`
	UsageQuantity    float64        `json:"usage_quantity"`
	UsageUnit        string         `json:"usage_unit"`
	IngredientID     *uint          `gorm:"index" json:"ingredient_id,omitempty"`
	Ingredient       *Ingredient    `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
	StandardQuantity float64        `json:"standard_quantity"`
	StandardUnit     string         `json:"standard_unit"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Order
func (Order) TableName() string {
	return "orders"
}

// TableName specifies the table name for OrderItem
func (OrderItem) TableName() string {
	return "order_items"
}

// TableName specifies the table name for OrderItemModifier
func (OrderItemModifier) TableName() string {
	return "order_item_modifiers"
}

// TableName specifies the table name for Modifier
func (Modifier) TableName() string {
	return "modifiers"
}
