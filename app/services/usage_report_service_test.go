package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"PosInventory/app/cache"
	"PosInventory/app/models"
)

func seedOrderAt(t *testing.T, db *gorm.DB, number string, status models.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()
	order := seedOrder(t, db, number, status)
	require.NoError(t, db.Model(order).UpdateColumn("created_at", createdAt).Error)
	order.CreatedAt = createdAt
	return order
}

func TestCalculateTheoreticalUsage(t *testing.T) {
	db := setupTestDB(t)

	cheese := seedInventoryItem(t, db, "Cheddar", "dairy", "kitchen", "g", 0.02, 5000)
	lime := seedInventoryItem(t, db, "Lime", "produce", "bar", "each", 0.3, 200)

	burger := seedMenuItem(t, db, "Burger")
	seedRecipeEdgeInventory(t, db, burger.ID, cheese, 30, "g")
	margarita := seedMenuItem(t, db, "Margarita")
	seedRecipeEdgeInventory(t, db, margarita.ID, lime, 1, "each")

	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	paid := seedOrderAt(t, db, "3001", models.OrderStatusPaid, day.Add(12*time.Hour))
	seedOrderItem(t, db, paid.ID, burger.ID, 2, models.OrderItemStatusActive)
	completed := seedOrderAt(t, db, "3002", models.OrderStatusCompleted, day.Add(13*time.Hour))
	seedOrderItem(t, db, completed.ID, margarita.ID, 1, models.OrderItemStatusActive)

	// Excluded: wrong status, outside the range, wrong location
	open := seedOrderAt(t, db, "3003", models.OrderStatusOpen, day.Add(14*time.Hour))
	seedOrderItem(t, db, open.ID, burger.ID, 5, models.OrderItemStatusActive)
	early := seedOrderAt(t, db, "3004", models.OrderStatusPaid, day.Add(-48*time.Hour))
	seedOrderItem(t, db, early.ID, burger.ID, 5, models.OrderItemStatusActive)
	otherLoc := seedOrderAt(t, db, "3005", models.OrderStatusPaid, day.Add(12*time.Hour))
	require.NoError(t, db.Model(otherLoc).UpdateColumn("location_id", 2).Error)
	seedOrderItem(t, db, otherLoc.ID, burger.ID, 5, models.OrderItemStatusActive)

	svc := NewUsageReportServiceWithDB(db)
	report, err := svc.CalculateTheoreticalUsage(1, day, day.Add(24*time.Hour), "")
	require.NoError(t, err)

	assert.Equal(t, 2, report.OrderCount)
	require.Len(t, report.Rows, 2)

	// Sorted by category then name: dairy/Cheddar before produce/Lime
	assert.Equal(t, "Cheddar", report.Rows[0].Name)
	assert.InDelta(t, 60, report.Rows[0].Quantity, 1e-9)
	assert.Equal(t, "Lime", report.Rows[1].Name)
	assert.InDelta(t, 1, report.Rows[1].Quantity, 1e-9)

	assert.InDelta(t, 60*0.02+1*0.3, report.GrandTotalCost, 1e-9)

	// Read-only: stock untouched
	var fresh models.InventoryItem
	require.NoError(t, db.First(&fresh, cheese.ID).Error)
	assert.InDelta(t, 5000, fresh.CurrentStock, 1e-9)
}

func TestCalculateTheoreticalUsageDepartmentFilter(t *testing.T) {
	db := setupTestDB(t)

	cheese := seedInventoryItem(t, db, "Cheddar", "dairy", "Kitchen", "g", 0.02, 5000)
	lime := seedInventoryItem(t, db, "Lime", "produce", "Bar", "each", 0.3, 200)

	burger := seedMenuItem(t, db, "Burger")
	seedRecipeEdgeInventory(t, db, burger.ID, cheese, 30, "g")
	margarita := seedMenuItem(t, db, "Margarita")
	seedRecipeEdgeInventory(t, db, margarita.ID, lime, 1, "each")

	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	order := seedOrderAt(t, db, "3006", models.OrderStatusPaid, day.Add(12*time.Hour))
	seedOrderItem(t, db, order.ID, burger.ID, 1, models.OrderItemStatusActive)
	seedOrderItem(t, db, order.ID, margarita.ID, 1, models.OrderItemStatusActive)

	svc := NewUsageReportServiceWithDB(db)
	report, err := svc.CalculateTheoreticalUsage(1, day, day.Add(24*time.Hour), "bar")
	require.NoError(t, err)

	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Lime", report.Rows[0].Name)
	assert.InDelta(t, 0.3, report.GrandTotalCost, 1e-9)
}

func TestCalculateTheoreticalUsageEmptyRange(t *testing.T) {
	db := setupTestDB(t)

	svc := NewUsageReportServiceWithDB(db)
	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	report, err := svc.CalculateTheoreticalUsage(1, day, day.Add(24*time.Hour), "")
	require.NoError(t, err)

	assert.Zero(t, report.OrderCount)
	assert.Empty(t, report.Rows)
	assert.Zero(t, report.GrandTotalCost)
}

func TestCalculateTheoreticalUsageCacheHit(t *testing.T) {
	db := setupTestDB(t)

	cheese := seedInventoryItem(t, db, "Cheddar", "dairy", "kitchen", "g", 0.02, 5000)
	burger := seedMenuItem(t, db, "Burger")
	seedRecipeEdgeInventory(t, db, burger.ID, cheese, 30, "g")

	day := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	order := seedOrderAt(t, db, "3007", models.OrderStatusPaid, day.Add(12*time.Hour))
	seedOrderItem(t, db, order.ID, burger.ID, 1, models.OrderItemStatusActive)

	svc := NewUsageReportServiceWithDB(db)
	svc.SetReportCache(cache.NewReportCache(8))

	first, err := svc.CalculateTheoreticalUsage(1, day, day.Add(24*time.Hour), "")
	require.NoError(t, err)

	// New data after the first computation must not appear in the cached
	// result for the same key.
	order2 := seedOrderAt(t, db, "3008", models.OrderStatusPaid, day.Add(13*time.Hour))
	seedOrderItem(t, db, order2.ID, burger.ID, 1, models.OrderItemStatusActive)

	second, err := svc.CalculateTheoreticalUsage(1, day, day.Add(24*time.Hour), "")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, second.OrderCount)

	// A different department is a different key and recomputes
	third, err := svc.CalculateTheoreticalUsage(1, day, day.Add(24*time.Hour), "kitchen")
	require.NoError(t, err)
	assert.Equal(t, 2, third.OrderCount)
}
