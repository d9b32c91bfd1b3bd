package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"PosInventory/app/models"
)

func TestMultiplierForDefaults(t *testing.T) {
	settings := MultiplierSettings{}

	assert.Equal(t, 0.0, MultiplierFor("NO", settings))
	assert.Equal(t, 0.0, MultiplierFor("none", settings))
	assert.Equal(t, 0.0, MultiplierFor(" HOLD ", settings))
	assert.Equal(t, 0.5, MultiplierFor("LITE", settings))
	assert.Equal(t, 0.5, MultiplierFor("half", settings))
	assert.Equal(t, 2.0, MultiplierFor("EXTRA", settings))
	assert.Equal(t, 2.0, MultiplierFor("double", settings))
	assert.Equal(t, 3.0, MultiplierFor("TRIPLE", settings))
	assert.Equal(t, 3.0, MultiplierFor("3x", settings))

	// Unknown or empty means the standard amount
	assert.Equal(t, 1.0, MultiplierFor("", settings))
	assert.Equal(t, 1.0, MultiplierFor("ON THE SIDE", settings))
}

func TestMultiplierForOverrides(t *testing.T) {
	settings := MultiplierSettings{Lite: 0.25, Extra: 1.75, Triple: 2.5}

	assert.Equal(t, 0.25, MultiplierFor("LITE", settings))
	assert.Equal(t, 1.75, MultiplierFor("HEAVY", settings))
	assert.Equal(t, 2.5, MultiplierFor("TRIPLE", settings))
}

func TestMultiplierForZeroOverrideFallsBack(t *testing.T) {
	// Resolution is "truthy or default": an explicit zero override is
	// indistinguishable from unconfigured and yields the default.
	settings := MultiplierSettings{Lite: 0, Extra: 0, Triple: 0}

	assert.Equal(t, 0.5, MultiplierFor("LITE", settings))
	assert.Equal(t, 2.0, MultiplierFor("EXTRA", settings))
	assert.Equal(t, 3.0, MultiplierFor("TRIPLE", settings))
}

func TestIsRemoval(t *testing.T) {
	for _, instr := range []string{"NO", "no", "NONE", "REMOVE", "WITHOUT", "hold"} {
		assert.True(t, IsRemoval(instr), "%q should be a removal", instr)
	}
	for _, instr := range []string{"", "LITE", "EXTRA", "SIDE"} {
		assert.False(t, IsRemoval(instr), "%q should not be a removal", instr)
	}
}

func TestMultiplierSettingsFrom(t *testing.T) {
	assert.Equal(t, MultiplierSettings{}, MultiplierSettingsFrom(nil))

	row := &models.LocationSettings{LiteMultiplier: 0.4, ExtraMultiplier: 2.2, TripleMultiplier: 3.3}
	got := MultiplierSettingsFrom(row)
	assert.Equal(t, 0.4, got.Lite)
	assert.Equal(t, 2.2, got.Extra)
	assert.Equal(t, 3.3, got.Triple)
}
