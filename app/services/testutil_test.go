package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"PosInventory/app/database"
	"PosInventory/app/models"
)

// setupTestDB opens a fresh in-memory sqlite database for one test and runs
// the full schema migration. The DSN is derived from the test name so
// parallel tests in this package never share state.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedInventoryItem(t *testing.T, db *gorm.DB, name, category, department, storageUnit string, costPerUnit, stock float64) *models.InventoryItem {
	t.Helper()
	item := &models.InventoryItem{
		Name:         name,
		Category:     category,
		Department:   department,
		StorageUnit:  storageUnit,
		CostPerUnit:  costPerUnit,
		CurrentStock: stock,
		IsActive:     true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedMenuItem(t *testing.T, db *gorm.DB, name string) *models.MenuItem {
	t.Helper()
	menuItem := &models.MenuItem{Name: name, Price: 10.0, IsActive: true}
	require.NoError(t, db.Create(menuItem).Error)
	return menuItem
}

func seedRecipeEdgeInventory(t *testing.T, db *gorm.DB, menuItemID uint, inv *models.InventoryItem, qty float64, unit string) {
	t.Helper()
	edge := &models.RecipeIngredient{
		MenuItemID:      menuItemID,
		Quantity:        qty,
		Unit:            unit,
		InventoryItemID: &inv.ID,
	}
	require.NoError(t, db.Create(edge).Error)
}

func seedRecipeEdgePrep(t *testing.T, db *gorm.DB, menuItemID uint, prep *models.PrepItem, qty float64, unit string) {
	t.Helper()
	edge := &models.RecipeIngredient{
		MenuItemID: menuItemID,
		Quantity:   qty,
		Unit:       unit,
		PrepItemID: &prep.ID,
	}
	require.NoError(t, db.Create(edge).Error)
}

func seedPrepItem(t *testing.T, db *gorm.DB, name string, batchYield float64, outputUnit string) *models.PrepItem {
	t.Helper()
	prep := &models.PrepItem{Name: name, BatchYield: batchYield, OutputUnit: outputUnit, IsActive: true}
	require.NoError(t, db.Create(prep).Error)
	return prep
}

func seedPrepEdgeInventory(t *testing.T, db *gorm.DB, prepID uint, inv *models.InventoryItem, qty float64, unit string) {
	t.Helper()
	edge := &models.PrepItemIngredient{
		PrepItemID:      prepID,
		Quantity:        qty,
		Unit:            unit,
		InventoryItemID: &inv.ID,
	}
	require.NoError(t, db.Create(edge).Error)
}

func seedPrepEdgeChild(t *testing.T, db *gorm.DB, prepID uint, child *models.PrepItem, qty float64, unit string) {
	t.Helper()
	edge := &models.PrepItemIngredient{
		PrepItemID:      prepID,
		Quantity:        qty,
		Unit:            unit,
		ChildPrepItemID: &child.ID,
	}
	require.NoError(t, db.Create(edge).Error)
}

func seedOrder(t *testing.T, db *gorm.DB, number string, status models.OrderStatus) *models.Order {
	t.Helper()
	order := &models.Order{OrderNumber: number, Status: status, LocationID: 1, EmployeeID: 1}
	require.NoError(t, db.Create(order).Error)
	return order
}

func seedOrderItem(t *testing.T, db *gorm.DB, orderID, menuItemID uint, qty int, status models.OrderItemStatus) *models.OrderItem {
	t.Helper()
	item := &models.OrderItem{
		OrderID:    orderID,
		MenuItemID: menuItemID,
		Quantity:   qty,
		Status:     status,
		UnitPrice:  10.0,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedAppliedModifier(t *testing.T, db *gorm.DB, orderItemID uint, mod *models.Modifier, preModifier string) {
	t.Helper()
	applied := &models.OrderItemModifier{
		OrderItemID: orderItemID,
		ModifierID:  mod.ID,
		Quantity:    1,
		PreModifier: preModifier,
	}
	require.NoError(t, db.Create(applied).Error)
}
