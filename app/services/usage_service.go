package services

import (
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"PosInventory/app/costing"
	"PosInventory/app/logger"
	"PosInventory/app/models"
)

// UsageRecord is the per-inventory-item aggregate produced by one
// aggregation call. Records are ephemeral; they are never persisted as-is.
type UsageRecord struct {
	InventoryItemID uint    `json:"inventory_item_id"`
	Name            string  `json:"name"`
	Category        string  `json:"category"`
	Department      string  `json:"department"`
	Quantity        float64 `json:"quantity"`
	Unit            string  `json:"unit"` // The item's storage unit
	CostPerUnit     float64 `json:"cost_per_unit"`
	TotalCost       float64 `json:"total_cost"`
}

// UsageService is the shared computational heart of the engine: it walks a
// set of order items and reconciles every ingredient-linkage path (base
// recipe, nested prep items, liquor pours, modifiers) into a single
// per-inventory-item usage map without double counting.
type UsageService struct {
	*BaseService
	log zerolog.Logger
}

// NewUsageService creates a new usage service
func NewUsageService() *UsageService {
	return NewUsageServiceWithDB(nil)
}

// NewUsageServiceWithDB creates a usage service bound to an explicit
// database handle (useful for testing and transactions)
func NewUsageServiceWithDB(db *gorm.DB) *UsageService {
	svc := &UsageService{
		BaseService: NewBaseService(),
		log:         logger.For("usage"),
	}
	if db != nil {
		svc.SetDB(db)
	}
	return svc
}

// LoadOrderItems fetches order items with every linkage path the aggregator
// walks: recipe edges, one level of prep items (deeper levels are loaded by
// the exploder), liquor links and modifier links on both paths.
func (s *UsageService) LoadOrderItems(orderID uint) ([]models.OrderItem, error) {
	if err := s.EnsureDB(); err != nil {
		return nil, err
	}
	var items []models.OrderItem
	err := s.GetDB().
		Preload("MenuItem.RecipeIngredients.InventoryItem").
		Preload("MenuItem.RecipeIngredients.PrepItem").
		Preload("MenuItem.LiquorRecipeIngredients.BottleProduct.InventoryItem").
		Preload("Modifiers.Modifier.InventoryItem").
		Preload("Modifiers.Modifier.Ingredient.InventoryItem").
		Where("order_id = ?", orderID).
		Find(&items).Error
	return items, err
}

// LoadOrderItemsForOrders fetches the items of many orders in one query,
// with the same preloads as LoadOrderItems
func (s *UsageService) LoadOrderItemsForOrders(orderIDs []uint) ([]models.OrderItem, error) {
	if err := s.EnsureDB(); err != nil {
		return nil, err
	}
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var items []models.OrderItem
	err := s.GetDB().
		Preload("MenuItem.RecipeIngredients.InventoryItem").
		Preload("MenuItem.RecipeIngredients.PrepItem").
		Preload("MenuItem.LiquorRecipeIngredients.BottleProduct.InventoryItem").
		Preload("Modifiers.Modifier.InventoryItem").
		Preload("Modifiers.Modifier.Ingredient.InventoryItem").
		Where("order_id IN ?", orderIDs).
		Find(&items).Error
	return items, err
}

// LoadOrderItem fetches a single order item with the same preloads
func (s *UsageService) LoadOrderItem(orderItemID uint) (*models.OrderItem, error) {
	if err := s.EnsureDB(); err != nil {
		return nil, err
	}
	var item models.OrderItem
	err := s.GetDB().
		Preload("MenuItem.RecipeIngredients.InventoryItem").
		Preload("MenuItem.RecipeIngredients.PrepItem").
		Preload("MenuItem.LiquorRecipeIngredients.BottleProduct.InventoryItem").
		Preload("Modifiers.Modifier.InventoryItem").
		Preload("Modifiers.Modifier.Ingredient.InventoryItem").
		First(&item, orderItemID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.ErrOrderItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// AggregateUsage computes theoretical inventory usage for a set of order
// items. Voided and comped lines contribute nothing. When department is
// non-empty, records outside that department are dropped at output assembly
// (accumulation itself is never department-aware). The call is read-only.
func (s *UsageService) AggregateUsage(orderItems []models.OrderItem, settings MultiplierSettings, department string) map[uint]*UsageRecord {
	usage := make(map[uint]*UsageRecord)
	exploder := NewRecipeExploder(s.GetDB())

	for i := range orderItems {
		item := &orderItems[i]
		if !item.IsActive() {
			continue
		}
		s.aggregateOrderItem(usage, exploder, item, settings)
	}

	// Department filtering happens after accumulation so a shared item's
	// running total is complete before the filter decides its fate.
	if department != "" {
		for id, rec := range usage {
			if !strings.EqualFold(rec.Department, department) {
				delete(usage, id)
			}
		}
	}

	for _, rec := range usage {
		rec.TotalCost = costing.TotalCost(rec.Quantity, rec.CostPerUnit)
	}

	return usage
}

// aggregateOrderItem adds one active order line's usage to the running map
func (s *UsageService) aggregateOrderItem(usage map[uint]*UsageRecord, exploder *RecipeExploder, item *models.OrderItem, settings MultiplierSettings) {
	if item.MenuItem == nil {
		s.log.Debug().Uint("order_item_id", item.ID).Msg("order item has no menu item link, skipped")
		return
	}

	itemQty := float64(item.Quantity)
	if itemQty <= 0 {
		itemQty = 1
	}

	removed := s.removedInventoryIDs(item)

	// Base recipe ingredients. Removal must survive explosion: leaves of a
	// nested prep item are filtered against the removed set as well.
	for ri := range item.MenuItem.RecipeIngredients {
		edge := &item.MenuItem.RecipeIngredients[ri]
		switch target := edge.Target(); target.Kind {
		case models.TargetInventory:
			if removed[target.InventoryItem.ID] {
				continue
			}
			s.addUsage(usage, target.InventoryItem, edge.Quantity*itemQty, edge.Unit)
		case models.TargetPrep:
			prep := target.PrepItem
			if prep == nil && edge.PrepItemID != nil {
				loaded, err := exploder.loadPrepItem(*edge.PrepItemID)
				if err != nil {
					s.log.Warn().Err(err).Uint("prep_item_id", *edge.PrepItemID).Msg("failed to load prep item, edge skipped")
					continue
				}
				prep = loaded
			} else if prep != nil && len(prep.Ingredients) == 0 {
				// The order preload stops at the prep item row; pull its edges.
				loaded, err := exploder.loadPrepItem(prep.ID)
				if err == nil {
					prep = loaded
				}
			}
			for _, leaf := range exploder.Explode(prep, edge.Quantity*itemQty, edge.Unit, 0) {
				if leaf.InventoryItem == nil || removed[leaf.InventoryItem.ID] {
					continue
				}
				s.addUsage(usage, leaf.InventoryItem, leaf.Quantity, leaf.Unit)
			}
		}
	}

	// Liquor recipe ingredients: a parallel linkage computed from pours, not
	// stored quantities.
	for li := range item.MenuItem.LiquorRecipeIngredients {
		edge := &item.MenuItem.LiquorRecipeIngredients[li]
		if edge.BottleProduct == nil || edge.BottleProduct.InventoryItem == nil {
			continue
		}
		inv := edge.BottleProduct.InventoryItem
		if removed[inv.ID] {
			continue
		}
		ozUsed := edge.PourCount * edge.EffectivePourSizeOz() * itemQty
		s.addUsage(usage, inv, ozUsed, "fl oz")
	}

	// Applied modifiers. The direct inventory link wins over the fallback
	// ingredient link; once the direct path applies, the fallback path for
	// the same modifier must not also apply.
	for mi := range item.Modifiers {
		applied := &item.Modifiers[mi]
		mod := applied.Modifier
		if mod == nil {
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

		if mod.InventoryItemID != nil && mod.InventoryItem != nil {
			qty := mod.UsageQuantity * multiplier * appliedQty * itemQty
			s.addUsage(usage, mod.InventoryItem, qty, mod.UsageUnit)
			continue
		}

		if mod.Ingredient != nil && mod.Ingredient.InventoryItem != nil {
			qty := mod.StandardQuantity * multiplier * appliedQty * itemQty
			s.addUsage(usage, mod.Ingredient.InventoryItem, qty, mod.StandardUnit)
		}
	}
}

// removedInventoryIDs collects the inventory items explicitly removed from a
// line via NO-class modifier instructions, across both linkage paths.
func (s *UsageService) removedInventoryIDs(item *models.OrderItem) map[uint]bool {
	removed := make(map[uint]bool)
	for mi := range item.Modifiers {
		applied := &item.Modifiers[mi]
		if !IsRemoval(applied.PreModifier) {
			continue
		}
		mod := applied.Modifier
		if mod == nil {
			continue
		}
		if mod.InventoryItemID != nil {
			removed[*mod.InventoryItemID] = true
		}
		if mod.Ingredient != nil && mod.Ingredient.InventoryItemID != nil {
			removed[*mod.Ingredient.InventoryItemID] = true
		}
	}
	return removed
}

// addUsage accumulates one contribution, converting it from the source unit
// into the target item's storage unit (best effort on mismatch).
func (s *UsageService) addUsage(usage map[uint]*UsageRecord, inv *models.InventoryItem, quantity float64, unit string) {
	if inv == nil || quantity == 0 {
		return
	}

	converted := quantity
	if unit != "" && !strings.EqualFold(unit, inv.StorageUnit) {
		converted = convertOrFallback(s.log, quantity, unit, inv.StorageUnit)
	}

	rec, ok := usage[inv.ID]
	if !ok {
		rec = &UsageRecord{
			InventoryItemID: inv.ID,
			Name:            inv.Name,
			Category:        inv.Category,
			Department:      inv.Department,
			Unit:            inv.StorageUnit,
			CostPerUnit:     costing.EffectiveUnitCost(inv),
		}
		usage[inv.ID] = rec
	}
	rec.Quantity += converted
}
