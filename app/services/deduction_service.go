package services

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"PosInventory/app/costing"
	"PosInventory/app/logger"
	"PosInventory/app/metrics"
	"PosInventory/app/models"
)

// DeductionResult is the structured outcome of one deduction call. Deduction
// is invoked fire-and-forget after payment, so failures are reported here
// instead of being raised: a failed deduction must never block a completed
// payment.
type DeductionResult struct {
	Success       bool     `json:"success"`
	ItemsDeducted int      `json:"items_deducted"`
	TotalCost     float64  `json:"total_cost"`
	BatchID       string   `json:"batch_id,omitempty"`
	Errors        []string `json:"errors,omitempty"`
}

// preparedVoidReasons is the allow-list of void reasons that mean the food
// was actually prepared. Only these trigger waste deduction; anything else
// (e.g. customer_changed_mind before cooking) is a no-op.
var preparedVoidReasons = map[string]bool{
	"kitchen_error":     true,
	"customer_disliked": true,
	"wrong_order":       true,
	"remade":            true,
	"quality_issue":     true,
}

// StockAlertPublisher receives low-stock notifications after deductions.
// Publishing must not block the deduction path.
type StockAlertPublisher interface {
	PublishLowStock(item models.InventoryItem, newStock float64)
}

// DeductionService mutates inventory stock for sales and waste. It is the
// only writer of InventoryItem.CurrentStock: each call batches all of its
// per-item operations into a single transaction, so either the whole order's
// deduction commits or none of it does.
type DeductionService struct {
	*BaseService
	usageSvc    *UsageService
	settingsSvc *SettingsService
	alerts      StockAlertPublisher
	log         zerolog.Logger
}

// NewDeductionService creates a new deduction service
func NewDeductionService() *DeductionService {
	return NewDeductionServiceWithDB(nil)
}

// NewDeductionServiceWithDB creates a deduction service bound to an explicit
// database handle (useful for testing)
func NewDeductionServiceWithDB(db *gorm.DB) *DeductionService {
	svc := &DeductionService{
		BaseService: NewBaseService(),
		log:         logger.For("deduction"),
	}
	if db != nil {
		svc.SetDB(db)
	}
	svc.usageSvc = NewUsageServiceWithDB(svc.GetDB())
	svc.settingsSvc = NewSettingsServiceWithDB(svc.GetDB())
	return svc
}

// SetAlertPublisher wires the low-stock alert hub. Optional.
func (s *DeductionService) SetAlertPublisher(p StockAlertPublisher) {
	s.alerts = p
}

// DeductInventoryForOrder is the sale path: aggregate theoretical usage for
// a finalized order and apply it to stock atomically, one audit row per
// affected inventory item.
func (s *DeductionService) DeductInventoryForOrder(orderID uint, employeeID *uint) DeductionResult {
	if err := s.EnsureDB(); err != nil {
		return failure(err)
	}

	var order models.Order
	if err := s.GetDB().First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return failure(models.ErrOrderNotFound)
		}
		return failure(fmt.Errorf("failed to load order: %w", err))
	}

	items, err := s.usageSvc.LoadOrderItems(orderID)
	if err != nil {
		return failure(fmt.Errorf("failed to load order items: %w", err))
	}

	settings := MultiplierSettingsFrom(s.settingsSvc.GetOrDefault(order.LocationID))
	usage := s.usageSvc.AggregateUsage(items, settings, "")
	if len(usage) == 0 {
		return DeductionResult{Success: true}
	}

	reason := fmt.Sprintf("Sale - Order %s", order.OrderNumber)
	result := s.applyUsage(usage, models.TransactionTypeSale, reason, "order", orderID, employeeID, nil)
	if result.Success {
		metrics.Deductions.WithLabelValues("sale").Inc()
		s.log.Info().
			Uint("order_id", orderID).
			Int("items_deducted", result.ItemsDeducted).
			Float64("total_cost", result.TotalCost).
			Str("batch_id", result.BatchID).
			Msg("inventory deducted for order")
	} else {
		metrics.DeductionFailures.WithLabelValues("sale").Inc()
	}
	return result
}

// DeductInventoryForVoidedItem is the waste path: when a voided item was
// actually prepared, its theoretical usage is deducted and logged both as an
// inventory transaction and as a waste-log entry with cost impact.
func (s *DeductionService) DeductInventoryForVoidedItem(orderItemID uint, voidReason string, employeeID *uint) DeductionResult {
	if err := s.EnsureDB(); err != nil {
		return failure(err)
	}

	if !preparedVoidReasons[voidReason] {
		// Food never hit the pan; nothing was consumed.
		return DeductionResult{Success: true}
	}

	item, err := s.usageSvc.LoadOrderItem(orderItemID)
	if err != nil {
		return failure(err)
	}

	var locationID uint = 1
	var order models.Order
	if err := s.GetDB().First(&order, item.OrderID).Error; err == nil {
		locationID = order.LocationID
	}

	// The line is already voided; the aggregator skips non-active lines, so
	// hand it a copy restored to active for this one computation.
	countable := *item
	countable.Status = models.OrderItemStatusActive

	settings := MultiplierSettingsFrom(s.settingsSvc.GetOrDefault(locationID))
	usage := s.usageSvc.AggregateUsage([]models.OrderItem{countable}, settings, "")
	if len(usage) == 0 {
		return DeductionResult{Success: true}
	}

	reason := fmt.Sprintf("Waste - voided item %d (%s)", orderItemID, voidReason)
	waste := &wasteContext{orderItemID: orderItemID, voidReason: voidReason, employeeID: employeeID}
	result := s.applyUsage(usage, models.TransactionTypeWaste, reason, "order_item", orderItemID, employeeID, waste)
	if result.Success {
		metrics.Deductions.WithLabelValues("waste").Inc()
		s.log.Info().
			Uint("order_item_id", orderItemID).
			Str("void_reason", voidReason).
			Int("items_deducted", result.ItemsDeducted).
			Float64("total_cost", result.TotalCost).
			Msg("inventory deducted for voided item")
	} else {
		metrics.DeductionFailures.WithLabelValues("waste").Inc()
	}
	return result
}

// RestoreInventoryForOrder reverses a sale deduction when an order is
// refunded: every usage quantity is added back and audit-logged as an
// adjustment.
func (s *DeductionService) RestoreInventoryForOrder(orderID uint, employeeID *uint) DeductionResult {
	if err := s.EnsureDB(); err != nil {
		return failure(err)
	}

	var order models.Order
	if err := s.GetDB().First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return failure(models.ErrOrderNotFound)
		}
		return failure(fmt.Errorf("failed to load order: %w", err))
	}

	items, err := s.usageSvc.LoadOrderItems(orderID)
	if err != nil {
		return failure(fmt.Errorf("failed to load order items: %w", err))
	}

	settings := MultiplierSettingsFrom(s.settingsSvc.GetOrDefault(order.LocationID))
	usage := s.usageSvc.AggregateUsage(items, settings, "")
	if len(usage) == 0 {
		return DeductionResult{Success: true}
	}

	// Negate quantities so applyUsage increments instead
	for _, rec := range usage {
		rec.Quantity = -rec.Quantity
	}

	reason := fmt.Sprintf("Refund - Order %s", order.OrderNumber)
	result := s.applyUsage(usage, models.TransactionTypeAdjustment, reason, "order", orderID, employeeID, nil)
	if result.Success {
		metrics.Deductions.WithLabelValues("restore").Inc()
	} else {
		metrics.DeductionFailures.WithLabelValues("restore").Inc()
	}
	return result
}

// wasteContext carries the extra writes the waste path makes per item
type wasteContext struct {
	orderItemID uint
	voidReason  string
	employeeID  *uint
}

// applyUsage commits one deduction call: for every usage record, an atomic
// relative decrement of CurrentStock plus an append-only audit row (and a
// waste-log row on the waste path), all inside a single transaction. The
// before/after snapshots are best-effort reads for the audit narrative; the
// decrement itself is relative and never read-then-write.
func (s *DeductionService) applyUsage(usage map[uint]*UsageRecord, txType, reason, refType string, refID uint, employeeID *uint, waste *wasteContext) DeductionResult {
	batchID := uuid.NewString()

	// Deterministic order keeps row locking consistent across concurrent calls
	ids := make([]uint, 0, len(usage))
	for id := range usage {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var totalCosts []float64
	var affected []uint

	err := s.WithTransaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			rec := usage[id]

			var item models.InventoryItem
			if err := tx.First(&item, id).Error; err != nil {
				return fmt.Errorf("inventory item %d: %w", id, err)
			}

			if err := tx.Model(&models.InventoryItem{}).
				Where("id = ?", id).
				UpdateColumn("current_stock", gorm.Expr("current_stock - ?", rec.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to deduct stock for item %d: %w", id, err)
			}

			totalCost := costing.TotalCost(rec.Quantity, rec.CostPerUnit)
			txRow := &models.InventoryTransaction{
				InventoryItemID: id,
				Type:            txType,
				QuantityBefore:  item.CurrentStock,
				QuantityChange:  -rec.Quantity,
				QuantityAfter:   item.CurrentStock - rec.Quantity,
				UnitCost:        rec.CostPerUnit,
				TotalCost:       totalCost,
				Reason:          reason,
				ReferenceType:   refType,
				ReferenceID:     refID,
				BatchID:         batchID,
				EmployeeID:      employeeID,
			}
			if err := tx.Create(txRow).Error; err != nil {
				return fmt.Errorf("failed to record transaction for item %d: %w", id, err)
			}

			if waste != nil {
				entry := &models.WasteLogEntry{
					InventoryItemID: id,
					OrderItemID:     waste.orderItemID,
					Quantity:        rec.Quantity,
					Unit:            rec.Unit,
					CostImpact:      totalCost,
					Reason:          waste.voidReason,
					EmployeeID:      waste.employeeID,
				}
				if err := tx.Create(entry).Error; err != nil {
					return fmt.Errorf("failed to record waste log for item %d: %w", id, err)
				}
			}

			totalCosts = append(totalCosts, totalCost)
			affected = append(affected, id)
		}
		return nil
	})
	if err != nil {
		return failure(err)
	}

	metrics.ItemsDeducted.Add(float64(len(affected)))
	s.publishLowStockAlerts(affected)

	return DeductionResult{
		Success:       true,
		ItemsDeducted: len(affected),
		TotalCost:     costing.SumCosts(totalCosts),
		BatchID:       batchID,
	}
}

// publishLowStockAlerts pushes alerts for items at or below their minimum
// after a committed deduction
func (s *DeductionService) publishLowStockAlerts(ids []uint) {
	if s.alerts == nil || len(ids) == 0 {
		return
	}
	var items []models.InventoryItem
	if err := s.GetDB().Where("id IN ?", ids).Find(&items).Error; err != nil {
		s.log.Warn().Err(err).Msg("failed to load items for low-stock alerts")
		return
	}
	for _, item := range items {
		if item.CurrentStock <= item.MinStock {
			s.alerts.PublishLowStock(item, item.CurrentStock)
		}
	}
}

func failure(err error) DeductionResult {
	return DeductionResult{Success: false, Errors: []string{err.Error()}}
}
