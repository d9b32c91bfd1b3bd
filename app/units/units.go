// Package units implements category-typed unit conversion for inventory
// quantities. Units are partitioned into weight, volume and count; each
// category has a base unit (grams, milliliters, each) and a static
// multiplier-to-base table. Conversion across categories is never possible.
package units

import "strings"

// Category is the measurement category of a unit
type Category string

const (
	CategoryWeight  Category = "weight"
	CategoryVolume  Category = "volume"
	CategoryCount   Category = "count"
	CategoryUnknown Category = ""
)

// toBase maps a normalized unit name to its category and multiplier to the
// category base unit (grams, milliliters, each).
type unitDef struct {
	category Category
	toBase   float64
}

var unitTable = map[string]unitDef{
	// Weight, base grams
	"g":         {CategoryWeight, 1},
	"gram":      {CategoryWeight, 1},
	"grams":     {CategoryWeight, 1},
	"mg":        {CategoryWeight, 0.001},
	"kg":        {CategoryWeight, 1000},
	"kilogram":  {CategoryWeight, 1000},
	"kilograms": {CategoryWeight, 1000},
	"oz":        {CategoryWeight, 28.3495},
	"ounce":     {CategoryWeight, 28.3495},
	"ounces":    {CategoryWeight, 28.3495},
	"lb":        {CategoryWeight, 453.592},
	"lbs":       {CategoryWeight, 453.592},
	"pound":     {CategoryWeight, 453.592},
	"pounds":    {CategoryWeight, 453.592},

	// Volume, base milliliters
	"ml":           {CategoryVolume, 1},
	"milliliter":   {CategoryVolume, 1},
	"milliliters":  {CategoryVolume, 1},
	"l":            {CategoryVolume, 1000},
	"liter":        {CategoryVolume, 1000},
	"liters":       {CategoryVolume, 1000},
	"tsp":          {CategoryVolume, 4.92892},
	"teaspoon":     {CategoryVolume, 4.92892},
	"teaspoons":    {CategoryVolume, 4.92892},
	"tbsp":         {CategoryVolume, 14.7868},
	"tablespoon":   {CategoryVolume, 14.7868},
	"tablespoons":  {CategoryVolume, 14.7868},
	"fl oz":        {CategoryVolume, 29.5735},
	"floz":         {CategoryVolume, 29.5735},
	"fluid ounce":  {CategoryVolume, 29.5735},
	"fluid ounces": {CategoryVolume, 29.5735},
	"cup":          {CategoryVolume, 236.588},
	"cups":         {CategoryVolume, 236.588},
	"pint":         {CategoryVolume, 473.176},
	"pints":        {CategoryVolume, 473.176},
	"quart":        {CategoryVolume, 946.353},
	"quarts":       {CategoryVolume, 946.353},
	"gallon":       {CategoryVolume, 3785.41},
	"gallons":      {CategoryVolume, 3785.41},

	// Count, base each
	"each":   {CategoryCount, 1},
	"ea":     {CategoryCount, 1},
	"unit":   {CategoryCount, 1},
	"units":  {CategoryCount, 1},
	"piece":  {CategoryCount, 1},
	"pieces": {CategoryCount, 1},
	"pair":   {CategoryCount, 2},
	"dozen":  {CategoryCount, 12},
}

// Normalize lowercases and trims a unit name
func Normalize(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}

// UnitCategory returns the category of a unit, or CategoryUnknown when the
// unit is not recognized
func UnitCategory(unit string) Category {
	if def, ok := unitTable[Normalize(unit)]; ok {
		return def.category
	}
	return CategoryUnknown
}

// AreUnitsCompatible reports whether two units share a category
func AreUnitsCompatible(from, to string) bool {
	fromCat := UnitCategory(from)
	return fromCat != CategoryUnknown && fromCat == UnitCategory(to)
}

// Convert converts a quantity between two units of the same category. The
// boolean is false when either unit is unknown or the categories differ.
// The same-unit case returns the quantity unchanged to avoid float drift.
func Convert(quantity float64, from, to string) (float64, bool) {
	fromNorm := Normalize(from)
	toNorm := Normalize(to)
	if fromNorm == toNorm {
		return quantity, true
	}

	fromDef, ok := unitTable[fromNorm]
	if !ok {
		return 0, false
	}
	toDef, ok := unitTable[toNorm]
	if !ok {
		return 0, false
	}
	if fromDef.category != toDef.category {
		return 0, false
	}

	return quantity * fromDef.toBase / toDef.toBase, true
}
