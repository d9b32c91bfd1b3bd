package services

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"PosInventory/app/logger"
	"PosInventory/app/metrics"
	"PosInventory/app/models"
)

// PrepDeductionResult is the structured outcome of one prep-stock call
type PrepDeductionResult struct {
	Success       bool     `json:"success"`
	ItemsDeducted int      `json:"items_deducted"`
	Errors        []string `json:"errors,omitempty"`
}

// PrepStockService is the lighter, parallel tier of the deduction engine:
// daily-count prep items are deducted at kitchen-send time rather than at
// payment, from their own stock pool (CurrentPrepStock), never from raw
// inventory. Both location flags must be on for deduction to run.
type PrepStockService struct {
	*BaseService
	settingsSvc *SettingsService
	log         zerolog.Logger
}

// NewPrepStockService creates a new prep stock service
func NewPrepStockService() *PrepStockService {
	return NewPrepStockServiceWithDB(nil)
}

// NewPrepStockServiceWithDB creates a prep stock service bound to an
// explicit database handle (useful for testing)
func NewPrepStockServiceWithDB(db *gorm.DB) *PrepStockService {
	svc := &PrepStockService{
		BaseService: NewBaseService(),
		log:         logger.For("prep_stock"),
	}
	if db != nil {
		svc.SetDB(db)
	}
	svc.settingsSvc = NewSettingsServiceWithDB(svc.GetDB())
	return svc
}

// DeductPrepStockForOrder deducts daily-count prep stock for an order's
// items at kitchen-send time. When itemIDs is non-empty only those lines are
// processed (partial sends). Gated on both TrackPrepStock and
// DeductPrepOnSend.
func (s *PrepStockService) DeductPrepStockForOrder(orderID uint, itemIDs []uint) PrepDeductionResult {
	return s.applyPrepStock(orderID, itemIDs, -1, "deduct")
}

// RestorePrepStockForVoid reverses a kitchen-send deduction when an item is
// voided before it was prepared. If the food was already made (wasMade) the
// stock was legitimately consumed and nothing is restored.
func (s *PrepStockService) RestorePrepStockForVoid(orderID uint, itemIDs []uint, wasMade bool) PrepDeductionResult {
	if wasMade {
		return PrepDeductionResult{Success: true}
	}
	return s.applyPrepStock(orderID, itemIDs, 1, "restore")
}

// applyPrepStock computes the daily-count deltas for the selected order
// lines and applies them in one transaction. direction is -1 to deduct,
// +1 to restore.
func (s *PrepStockService) applyPrepStock(orderID uint, itemIDs []uint, direction float64, path string) PrepDeductionResult {
	if err := s.EnsureDB(); err != nil {
		return prepFailure(err)
	}

	var order models.Order
	if err := s.GetDB().First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return prepFailure(models.ErrOrderNotFound)
		}
		return prepFailure(fmt.Errorf("failed to load order: %w", err))
	}

	settings := s.settingsSvc.GetOrDefault(order.LocationID)
	if settings == nil || !settings.TrackPrepStock || !settings.DeductPrepOnSend {
		return PrepDeductionResult{Success: true}
	}

	items, err := s.loadOrderItems(orderID, itemIDs)
	if err != nil {
		return prepFailure(fmt.Errorf("failed to load order items: %w", err))
	}

	deltas := s.computePrepDeltas(items, MultiplierSettingsFrom(settings))
	if len(deltas) == 0 {
		return PrepDeductionResult{Success: true}
	}

	ids := make([]uint, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	err = s.WithTransaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			change := deltas[id] * direction
			if err := tx.Model(&models.Ingredient{}).
				Where("id = ?", id).
				UpdateColumn("current_prep_stock", gorm.Expr("current_prep_stock + ?", change)).Error; err != nil {
				return fmt.Errorf("failed to update prep stock for ingredient %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		metrics.DeductionFailures.WithLabelValues("prep_" + path).Inc()
		return prepFailure(err)
	}

	metrics.Deductions.WithLabelValues("prep_" + path).Inc()
	s.log.Info().
		Uint("order_id", orderID).
		Str("path", path).
		Int("ingredients", len(ids)).
		Msg("prep stock updated")

	return PrepDeductionResult{Success: true, ItemsDeducted: len(ids)}
}

// loadOrderItems fetches order lines with their daily-count linkage paths
func (s *PrepStockService) loadOrderItems(orderID uint, itemIDs []uint) ([]models.OrderItem, error) {
	query := s.GetDB().
		Preload("MenuItem.Ingredients.Ingredient.Children.Child").
		Preload("Modifiers.Modifier.Ingredient.Children.Child").
		Where("order_id = ?", orderID)
	if len(itemIDs) > 0 {
		query = query.Where("id IN ?", itemIDs)
	}
	var items []models.OrderItem
	err := query.Find(&items).Error
	return items, err
}

// computePrepDeltas walks menu-item ingredient links and modifier ingredient
// links, including nested daily-count children, and returns the positive
// quantity consumed per daily-count ingredient.
func (s *PrepStockService) computePrepDeltas(items []models.OrderItem, settings MultiplierSettings) map[uint]float64 {
	deltas := make(map[uint]float64)

	for i := range items {
		item := &items[i]
		if !item.IsActive() {
			continue
		}
		itemQty := float64(item.Quantity)
		if itemQty <= 0 {
			itemQty = 1
		}

		if item.MenuItem != nil {
			for li := range item.MenuItem.Ingredients {
				link := &item.MenuItem.Ingredients[li]
				if link.Ingredient == nil {
					continue
				}
				s.addPrepUsage(deltas, link.Ingredient, link.Quantity*itemQty)
			}
		}

		for mi := range item.Modifiers {
			applied := &item.Modifiers[mi]
			mod := applied.Modifier
			if mod == nil || mod.Ingredient == nil {
				continue
			}
			multiplier := MultiplierFor(applied.PreModifier, settings)
			if multiplier == 0 {
				continue
			}
			appliedQty := applied.Quantity
			if appliedQty <= 0 {
				appliedQty = 1
			}
			s.addPrepUsage(deltas, mod.Ingredient, mod.StandardQuantity*multiplier*appliedQty*itemQty)
		}
	}

	return deltas
}

// addPrepUsage accumulates usage for a daily-count ingredient and its nested
// daily-count children. Non-daily-count parents still cascade to daily-count
// children.
func (s *PrepStockService) addPrepUsage(deltas map[uint]float64, ing *models.Ingredient, quantity float64) {
	if quantity == 0 {
		return
	}
	if ing.IsDailyCount {
		deltas[ing.ID] += quantity
	}
	for ci := range ing.Children {
		child := &ing.Children[ci]
		if child.Child == nil {
			continue
		}
		s.addPrepUsage(deltas, child.Child, quantity*child.Quantity)
	}
}

func prepFailure(err error) PrepDeductionResult {
	return PrepDeductionResult{Success: false, Errors: []string{err.Error()}}
}
