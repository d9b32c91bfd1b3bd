// Package metrics exposes prometheus counters for the usage and deduction
// engine. The degraded-accuracy paths (conversion fallback, recursion limit)
// are counted here so silent drift is visible on a dashboard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConversionFallbacks counts unit conversions that fell back to the raw
	// quantity because the units were unknown or incompatible.
	ConversionFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_conversion_fallbacks_total",
		Help: "Unit conversions that fell back to the unconverted quantity",
	})

	// RecursionLimitHits counts prep-item explosions aborted by the depth guard
	RecursionLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_recursion_limit_hits_total",
		Help: "Recipe explosions aborted by the nesting depth limit",
	})

	// Deductions counts completed deduction calls by path (sale, waste, prep, restore)
	Deductions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_deductions_total",
		Help: "Completed inventory deduction calls",
	}, []string{"path"})

	// DeductionFailures counts deduction calls that returned errors, by path
	DeductionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_deduction_failures_total",
		Help: "Inventory deduction calls that returned errors",
	}, []string{"path"})

	// ItemsDeducted counts individual inventory items affected by deductions
	ItemsDeducted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inventory_items_deducted_total",
		Help: "Individual inventory items affected by deduction calls",
	})
)

// Handler returns the prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
