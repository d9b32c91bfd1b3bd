package services

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"PosInventory/app/logger"
	"PosInventory/app/metrics"
	"PosInventory/app/models"
	"PosInventory/app/units"
)

// maxExplosionDepth bounds prep-item nesting. A chain deeper than this is
// either a data-entry cycle or nonsense; the branch yields zero usage
// instead of failing the whole calculation.
const maxExplosionDepth = 10

// ExplodedUsage is one raw inventory leaf produced by exploding a prep item
type ExplodedUsage struct {
	InventoryItem *models.InventoryItem
	Quantity      float64
	Unit          string
}

// RecipeExploder recursively expands prep items into raw inventory
// quantities. It only reads; callers own removal filtering and persistence.
type RecipeExploder struct {
	db   *gorm.DB
	log  zerolog.Logger
	memo map[uint]*models.PrepItem // per-exploder load cache
}

// NewRecipeExploder creates an exploder bound to a database handle. One
// exploder should serve one aggregation call; the load memo is not evicted.
func NewRecipeExploder(db *gorm.DB) *RecipeExploder {
	return &RecipeExploder{
		db:   db,
		log:  logger.For("recipe_exploder"),
		memo: make(map[uint]*models.PrepItem),
	}
}

// loadPrepItem fetches a prep item with its ingredient edges, memoized so a
// prep item referenced by several recipes is loaded once per call.
func (e *RecipeExploder) loadPrepItem(id uint) (*models.PrepItem, error) {
	if prep, ok := e.memo[id]; ok {
		return prep, nil
	}
	var prep models.PrepItem
	err := e.db.Preload("Ingredients.InventoryItem").
		Preload("Ingredients.ChildPrepItem").
		First(&prep, id).Error
	if err != nil {
		return nil, err
	}
	e.memo[id] = &prep
	return &prep, nil
}

// Explode expands quantityNeeded of a prep item (expressed in requestUnit)
// into raw inventory leaves. The request is converted into the prep item's
// own output unit (best effort), scaled against its batch yield, and each
// ingredient edge either emits an inventory leaf or recurses.
func (e *RecipeExploder) Explode(prep *models.PrepItem, quantityNeeded float64, requestUnit string, depth int) []ExplodedUsage {
	if prep == nil {
		return nil
	}
	if depth > maxExplosionDepth {
		metrics.RecursionLimitHits.Inc()
		e.log.Warn().
			Uint("prep_item_id", prep.ID).
			Str("prep_item", prep.Name).
			Int("depth", depth).
			Msg("prep item nesting exceeds depth limit, branch yields no usage")
		return nil
	}

	converted := e.convertOrFallback(quantityNeeded, requestUnit, prep.OutputUnit)

	batchYield := prep.BatchYield
	if batchYield <= 0 {
		batchYield = 1
	}
	scaleFactor := converted / batchYield

	var results []ExplodedUsage
	for i := range prep.Ingredients {
		edge := &prep.Ingredients[i]
		scaledQty := edge.Quantity * scaleFactor

		switch target := edge.Target(); target.Kind {
		case models.TargetInventory:
			results = append(results, ExplodedUsage{
				InventoryItem: target.InventoryItem,
				Quantity:      scaledQty,
				Unit:          edge.Unit,
			})
		case models.TargetPrep:
			child := target.PrepItem
			if child != nil && len(child.Ingredients) == 0 {
				// Preloads stop at the child row; its own edges come from here.
				if loaded, err := e.loadPrepItem(child.ID); err == nil {
					child = loaded
				}
			} else if child == nil && edge.ChildPrepItemID != nil {
				loaded, err := e.loadPrepItem(*edge.ChildPrepItemID)
				if err != nil {
					e.log.Warn().Err(err).
						Uint("prep_item_id", *edge.ChildPrepItemID).
						Msg("failed to load nested prep item, branch skipped")
					continue
				}
				child = loaded
			}
			results = append(results, e.Explode(child, scaledQty, edge.Unit, depth+1)...)
		}
	}

	return results
}

// convertOrFallback converts between units, falling back to the raw quantity
// when the conversion is impossible. The fallback is a known accuracy risk:
// it is logged and counted rather than silent, but it never fails the
// calculation.
func (e *RecipeExploder) convertOrFallback(quantity float64, from, to string) float64 {
	return convertOrFallback(e.log, quantity, from, to)
}

func convertOrFallback(log zerolog.Logger, quantity float64, from, to string) float64 {
	if converted, ok := units.Convert(quantity, from, to); ok {
		return converted
	}
	metrics.ConversionFallbacks.Inc()
	log.Warn().
		Str("from_unit", from).
		Str("to_unit", to).
		Float64("quantity", quantity).
		Msg("incompatible unit conversion, using raw quantity (accuracy degraded)")
	return quantity
}
