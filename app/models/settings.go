package models

import (
	"time"
)

// Default modifier multipliers, used when a location carries no override.
// Resolution is "truthy or default": an override of 0 falls back to the
// default, so a configured zero is indistinguishable from unconfigured.
const (
	DefaultLiteMultiplier   = 0.5
	DefaultExtraMultiplier  = 2.0
	DefaultTripleMultiplier = 3.0
)

// LocationSettings holds per-location engine settings: modifier multiplier
// overrides and the prep-stock feature flags.
type LocationSettings struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	LocationID       uint      `gorm:"uniqueIndex;not null" json:"location_id"`
	LiteMultiplier   float64   `gorm:"default:0" json:"lite_multiplier"`
	ExtraMultiplier  float64   `gorm:"default:0" json:"extra_multiplier"`
	TripleMultiplier float64   `gorm:"default:0" json:"triple_multiplier"`
	TrackPrepStock   bool      `gorm:"default:false" json:"track_prep_stock"`
	DeductPrepOnSend bool      `gorm:"default:false" json:"deduct_prep_on_send"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TableName specifies the table name for LocationSettings
func (LocationSettings) TableName() string {
	return "location_settings"
}
