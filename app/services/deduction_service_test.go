package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"PosInventory/app/models"
)

func TestDeductInventoryForOrder(t *testing.T) {
	db := setupTestDB(t)

	cheese := seedInventoryItem(t, db, "Cheddar", "dairy", "kitchen", "g", 0.02, 5000)
	beef := seedInventoryItem(t, db, "Ground Beef", "meat", "kitchen", "g", 0.03, 8000)
	menuItem := seedMenuItem(t, db, "Burger")
	seedRecipeEdgeInventory(t, db, menuItem.ID, cheese, 30, "g")
	seedRecipeEdgeInventory(t, db, menuItem.ID, beef, 150, "g")

	order := seedOrder(t, db, "1001", models.OrderStatusPaid)
	seedOrderItem(t, db, order.ID, menuItem.ID, 2, models.OrderItemStatusActive)

	svc := NewDeductionServiceWithDB(db)
	employeeID := uint(7)
	result := svc.DeductInventoryForOrder(order.ID, &employeeID)

	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Equal(t, 2, result.ItemsDeducted)
	assert.NotEmpty(t, result.BatchID)
	// 60g cheese @ 0.02 + 300g beef @ 0.03
	assert.InDelta(t, 60*0.02+300*0.03, result.TotalCost, 1e-9)

	var freshCheese, freshBeef models.InventoryItem
	require.NoError(t, db.First(&freshCheese, cheese.ID).Error)
	require.NoError(t, db.First(&freshBeef, beef.ID).Error)
	assert.InDelta(t, 4940, freshCheese.CurrentStock, 1e-9)
	assert.InDelta(t, 7700, freshBeef.CurrentStock, 1e-9)

	var rows []models.InventoryTransaction
	require.NoError(t, db.Order("inventory_item_id").Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, models.TransactionTypeSale, row.Type)
		assert.Equal(t, result.BatchID, row.BatchID)
		assert.Equal(t, "order", row.ReferenceType)
		assert.Equal(t, order.ID, row.ReferenceID)
		require.NotNil(t, row.EmployeeID)
		assert.Equal(t, employeeID, *row.EmployeeID)
		assert.InDelta(t, row.QuantityBefore+row.QuantityChange, row.QuantityAfter, 1e-9)
	}
	assert.Contains(t, rows[0].Reason, order.OrderNumber)
}

func TestDeductInventoryForOrderNotFound(t *testing.T) {
	db := setupTestDB(t)

	svc := NewDeductionServiceWithDB(db)
	result := svc.DeductInventoryForOrder(9999, nil)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, models.ErrOrderNotFound.Error(), result.Errors[0])
}

func TestDeductInventoryForOrderNoUsageIsNoOp(t *testing.T) {
	db := setupTestDB(t)

	menuItem := seedMenuItem(t, db, "Water")
	order := seedOrder(t, db, "1002", models.OrderStatusPaid)
	seedOrderItem(t, db, order.ID, menuItem.ID, 1, models.OrderItemStatusActive)

	svc := NewDeductionServiceWithDB(db)
	result := svc.DeductInventoryForOrder(order.ID, nil)

	assert.True(t, result.Success)
	assert.Zero(t, result.ItemsDeducted)
	assert.Empty(t, result.BatchID)

	var count int64
	require.NoError(t, db.Model(&models.InventoryTransaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestVoidedItemUnpreparedReasonIsNoOp(t *testing.T) {
	db := setupTestDB(t)

	cheese := seedInventoryItem(t, db, "Cheddar", "dairy", "kitchen", "g", 0.02, 5000)
	menuItem := seedMenuItem(t, db, "Burger")
	seedRecipeEdgeInventory(t, db, menuItem.ID, cheese, 30, "g")

	order := seedOrder(t, db, "1003", models.OrderStatusOpen)
	line := seedOrderItem(t, db, order.ID, menuItem.ID, 1, models.OrderItemStatusVoided)

	svc := NewDeductionServiceWithDB(db)
	result := svc.DeductInventoryForVoidedItem(line.ID, "customer_changed_mind", nil)

	assert.True(t, result.Success)
	assert.Zero(t, result.ItemsDeducted)

	var fresh models.InventoryItem
	require.NoError(t, db.First(&fresh, cheese.ID).Error)
	assert.InDelta(t, 5000, fresh.CurrentStock, 1e-9)

	var wasteCount int64
	require.NoError(t, db.Model(&models.WasteLogEntry{}).Count(&wasteCount).Error)
	assert.Zero(t, wasteCount)
}

func TestVoidedItemPreparedReasonDeductsAndLogsWaste(t *testing.T) {
	db := setupTestDB(t)

	cheese := seedInventoryItem(t, db, "Cheddar", "dairy", "kitchen", "g", 0.02, 5000)
	menuItem := seedMenuItem(t, db, "Burger")
	seedRecipeEdgeInventory(t, db, menuItem.ID, cheese, 30, "g")

	order := seedOrder(t, db, "1004", models.OrderStatusOpen)
	line := seedOrderItem(t, db, order.ID, menuItem.ID, 1, models.OrderItemStatusVoided)

	svc := NewDeductionServiceWithDB(db)
	employeeID := uint(3)
	result := svc.DeductInventoryForVoidedItem(line.ID, "kitchen_error", &employeeID)

	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Equal(t, 1, result.ItemsDeducted)

	var fresh models.InventoryItem
	require.NoError(t, db.First(&fresh, cheese.ID).Error)
	assert.InDelta(t, 4970, fresh.CurrentStock, 1e-9)

	var txRow models.InventoryTransaction
	require.NoError(t, db.First(&txRow).Error)
	assert.Equal(t, models.TransactionTypeWaste, txRow.Type)
	assert.Equal(t, "order_item", txRow.ReferenceType)
	assert.Equal(t, line.ID, txRow.ReferenceID)

	var entry models.WasteLogEntry
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, cheese.ID, entry.InventoryItemID)
	assert.Equal(t, line.ID, entry.OrderItemID)
	assert.Equal(t, "kitchen_error", entry.Reason)
	assert.InDelta(t, 30, entry.Quantity, 1e-9)
	assert.InDelta(t, 0.6, entry.CostImpact, 1e-9)
}

func TestRestoreInventoryForOrder(t *testing.T) {
	db := setupTestDB(t)

	cheese := seedInventoryItem(t, db, "Cheddar", "dairy", "kitchen", "g", 0.02, 5000)
	menuItem := seedMenuItem(t, db, "Burger")
	seedRecipeEdgeInventory(t, db, menuItem.ID, cheese, 30, "g")

	order := seedOrder(t, db, "1005", models.OrderStatusPaid)
	seedOrderItem(t, db, order.ID, menuItem.ID, 1, models.OrderItemStatusActive)

	svc := NewDeductionServiceWithDB(db)
	require.True(t, svc.DeductInventoryForOrder(order.ID, nil).Success)

	result := svc.RestoreInventoryForOrder(order.ID, nil)
	require.True(t, result.Success, "errors: %v", result.Errors)

	var fresh models.InventoryItem
	require.NoError(t, db.First(&fresh, cheese.ID).Error)
	assert.InDelta(t, 5000, fresh.CurrentStock, 1e-9)

	var rows []models.InventoryTransaction
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, models.TransactionTypeSale, rows[0].Type)
	assert.Equal(t, models.TransactionTypeAdjustment, rows[1].Type)
	assert.InDelta(t, -30, rows[0].QuantityChange, 1e-9)
	assert.InDelta(t, 30, rows[1].QuantityChange, 1e-9)
}

// TestDeductionRollsBackAsAUnit forces the second audit insert to fail and
// asserts the first item's decrement was rolled back with it.
func TestDeductionRollsBackAsAUnit(t *testing.T) {
	db := setupTestDB(t)

	cheese := seedInventoryItem(t, db, "Cheddar", "dairy", "kitchen", "g", 0.02, 5000)
	beef := seedInventoryItem(t, db, "Ground Beef", "meat", "kitchen", "g", 0.03, 8000)
	menuItem := seedMenuItem(t, db, "Burger")
	seedRecipeEdgeInventory(t, db, menuItem.ID, cheese, 30, "g")
	seedRecipeEdgeInventory(t, db, menuItem.ID, beef, 150, "g")

	order := seedOrder(t, db, "1006", models.OrderStatusPaid)
	seedOrderItem(t, db, order.ID, menuItem.ID, 1, models.OrderItemStatusActive)

	auditInserts := 0
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("fail_second_audit", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*models.InventoryTransaction); ok {
			auditInserts++
			if auditInserts == 2 {
				tx.AddError(errors.New("simulated insert failure"))
			}
		}
	}))

	svc := NewDeductionServiceWithDB(db)
	result := svc.DeductInventoryForOrder(order.ID, nil)

	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "simulated insert failure")

	require.NoError(t, db.Callback().Create().Remove("fail_second_audit"))

	var freshCheese, freshBeef models.InventoryItem
	require.NoError(t, db.First(&freshCheese, cheese.ID).Error)
	require.NoError(t, db.First(&freshBeef, beef.ID).Error)
	assert.InDelta(t, 5000, freshCheese.CurrentStock, 1e-9, "first decrement must roll back")
	assert.InDelta(t, 8000, freshBeef.CurrentStock, 1e-9)

	var count int64
	require.NoError(t, db.Model(&models.InventoryTransaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

type capturingPublisher struct {
	alerts []models.InventoryItem
}

func (p *capturingPublisher) PublishLowStock(item models.InventoryItem, newStock float64) {
	p.alerts = append(p.alerts, item)
}

func TestLowStockAlertAfterDeduction(t *testing.T) {
	db := setupTestDB(t)

	cheese := seedInventoryItem(t, db, "Cheddar", "dairy", "kitchen", "g", 0.02, 120)
	cheese.MinStock = 100
	require.NoError(t, db.Save(cheese).Error)

	menuItem := seedMenuItem(t, db, "Burger")
	seedRecipeEdgeInventory(t, db, menuItem.ID, cheese, 30, "g")

	order := seedOrder(t, db, "1007", models.OrderStatusPaid)
	seedOrderItem(t, db, order.ID, menuItem.ID, 1, models.OrderItemStatusActive)

	pub := &capturingPublisher{}
	svc := NewDeductionServiceWithDB(db)
	svc.SetAlertPublisher(pub)

	result := svc.DeductInventoryForOrder(order.ID, nil)
	require.True(t, result.Success, "errors: %v", result.Errors)

	require.Len(t, pub.alerts, 1)
	assert.Equal(t, cheese.ID, pub.alerts[0].ID)
	assert.InDelta(t, 90, pub.alerts[0].CurrentStock, 1e-9)
}
