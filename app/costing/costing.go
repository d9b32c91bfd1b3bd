// Package costing holds the decimal-based cost arithmetic shared by the
// usage aggregator, the deduction engine and stock receiving.
package costing

import (
	"github.com/shopspring/decimal"

	"PosInventory/app/models"
)

// EffectiveUnitCost returns the cost per storage unit for an inventory item,
// preferring the yield-adjusted cost when one is configured.
func EffectiveUnitCost(item *models.InventoryItem) float64 {
	if item == nil {
		return 0
	}
	return item.EffectiveCostPerUnit()
}

// TotalCost multiplies a quantity by a unit cost without accumulating float
// error, returning the result as float64 for storage.
func TotalCost(quantity, unitCost float64) float64 {
	total := decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitCost))
	f, _ := total.Float64()
	return f
}

// SumCosts adds a list of cost values exactly
func SumCosts(costs []float64) float64 {
	sum := decimal.Zero
	for _, c := range costs {
		sum = sum.Add(decimal.NewFromFloat(c))
	}
	f, _ := sum.Float64()
	return f
}

// WeightedAverageCost blends existing stock at its current cost with a
// received quantity at its purchase cost:
//
//	newCost = ((stock * currentCost) + (received * receivedCost)) / (stock + received)
//
// A non-positive combined quantity yields zero.
func WeightedAverageCost(currentStock, currentCost, receivedQty, receivedCost float64) float64 {
	stock := decimal.NewFromFloat(currentStock)
	received := decimal.NewFromFloat(receivedQty)
	sum := stock.Add(received)
	if sum.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	num := stock.Mul(decimal.NewFromFloat(currentCost)).
		Add(received.Mul(decimal.NewFromFloat(receivedCost)))
	f, _ := num.Div(sum).Float64()
	return f
}
