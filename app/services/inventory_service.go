package services

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"PosInventory/app/costing"
	"PosInventory/app/logger"
	"PosInventory/app/models"
)

// InventoryService handles inventory item management: CRUD, manual
// adjustments, receiving and movement history. Every stock change it makes
// is paired with an append-only InventoryTransaction in the same
// transaction, mirroring the deduction engine's audit discipline.
type InventoryService struct {
	*BaseService
	log zerolog.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService() *InventoryService {
	return NewInventoryServiceWithDB(nil)
}

// NewInventoryServiceWithDB creates an inventory service bound to an
// explicit database handle (useful for testing)
func NewInventoryServiceWithDB(db *gorm.DB) *InventoryService {
	svc := &InventoryService{
		BaseService: NewBaseService(),
		log:         logger.For("inventory"),
	}
	if db != nil {
		svc.SetDB(db)
	}
	return svc
}

// GetAllItems retrieves all inventory items ordered by name
func (s *InventoryService) GetAllItems() ([]models.InventoryItem, error) {
	if err := s.EnsureDB(); err != nil {
		return nil, err
	}
	var items []models.InventoryItem
	err := s.GetDB().Order("name ASC").Find(&items).Error
	return items, err
}

// GetItem retrieves a single inventory item by ID
func (s *InventoryService) GetItem(id uint) (*models.InventoryItem, error) {
	if err := s.EnsureDB(); err != nil {
		return nil, err
	}
	var item models.InventoryItem
	if err := s.GetDB().First(&item, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// CreateItem creates a new inventory item, recording initial stock as an
// adjustment when present
func (s *InventoryService) CreateItem(item *models.InventoryItem) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		if item.CurrentStock > 0 {
			txRow := &models.InventoryTransaction{
				InventoryItemID: item.ID,
				Type:            models.TransactionTypeAdjustment,
				QuantityBefore:  0,
				QuantityChange:  item.CurrentStock,
				QuantityAfter:   item.CurrentStock,
				UnitCost:        item.EffectiveCostPerUnit(),
				TotalCost:       costing.TotalCost(item.CurrentStock, item.EffectiveCostPerUnit()),
				Reason:          "Initial stock",
				ReferenceType:   "manual",
			}
			if err := tx.Create(txRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateItem updates an inventory item's descriptive fields. Stock changes
// go through AdjustStock or ReceiveStock, never through a plain update.
func (s *InventoryService) UpdateItem(item *models.InventoryItem) error {
	if err := s.EnsureDB(); err != nil {
		return err
	}
	return s.GetDB().Omit("current_stock").Save(item).Error
}

// AdjustStock applies a manual stock adjustment and records it
func (s *InventoryService) AdjustStock(itemID uint, quantity float64, reason string, employeeID *uint) error {
	return s.WithTransaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.InventoryItem{}).
			Where("id = ?", itemID).
			UpdateColumn("current_stock", gorm.Expr("current_stock + ?", quantity)).Error; err != nil {
			return err
		}

		txRow := &models.InventoryTransaction{
			InventoryItemID: itemID,
			Type:            models.TransactionTypeAdjustment,
			QuantityBefore:  item.CurrentStock,
			QuantityChange:  quantity,
			QuantityAfter:   item.CurrentStock + quantity,
			UnitCost:        item.EffectiveCostPerUnit(),
			TotalCost:       costing.TotalCost(quantity, item.EffectiveCostPerUnit()),
			Reason:          reason,
			ReferenceType:   "manual",
			EmployeeID:      employeeID,
		}
		return tx.Create(txRow).Error
	})
}

// ReceiveStock records a purchase: stock goes up and the item's cost per
// unit is re-blended as a weighted average of old and received cost.
func (s *InventoryService) ReceiveStock(itemID uint, quantity, unitCost float64, reference string, employeeID *uint) error {
	if quantity <= 0 {
		return fmt.Errorf("received quantity must be positive, got %v", quantity)
	}
	return s.WithTransaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, itemID).Error; err != nil {
			return err
		}

		newCost := costing.WeightedAverageCost(item.CurrentStock, item.CostPerUnit, quantity, unitCost)
		if err := tx.Model(&models.InventoryItem{}).
			Where("id = ?", itemID).
			Updates(map[string]interface{}{
				"current_stock": gorm.Expr("current_stock + ?", quantity),
				"cost_per_unit": newCost,
			}).Error; err != nil {
			return err
		}

		txRow := &models.InventoryTransaction{
			InventoryItemID: itemID,
			Type:            models.TransactionTypePurchase,
			QuantityBefore:  item.CurrentStock,
			QuantityChange:  quantity,
			QuantityAfter:   item.CurrentStock + quantity,
			UnitCost:        unitCost,
			TotalCost:       costing.TotalCost(quantity, unitCost),
			Reason:          reference,
			ReferenceType:   "manual",
			EmployeeID:      employeeID,
		}
		return tx.Create(txRow).Error
	})
}

// GetTransactions retrieves the audit trail for an inventory item, newest
// first
func (s *InventoryService) GetTransactions(itemID uint) ([]models.InventoryTransaction, error) {
	if err := s.EnsureDB(); err != nil {
		return nil, err
	}
	var transactions []models.InventoryTransaction
	err := s.GetDB().
		Where("inventory_item_id = ?", itemID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

// GetLowStockItems gets active items with stock at or below minimum
func (s *InventoryService) GetLowStockItems() ([]models.InventoryItem, error) {
	if err := s.EnsureDB(); err != nil {
		return nil, err
	}
	var items []models.InventoryItem
	err := s.GetDB().
		Where("is_active = ? AND current_stock <= min_stock", true).
		Order("current_stock ASC").
		Find(&items).Error
	return items, err
}
