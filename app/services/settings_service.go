package services

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"PosInventory/app/logger"
	"PosInventory/app/models"
)

// SettingsService reads and writes per-location engine settings
type SettingsService struct {
	*BaseService
	log zerolog.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService() *SettingsService {
	return NewSettingsServiceWithDB(nil)
}

// NewSettingsServiceWithDB creates a settings service bound to an explicit
// database handle (useful for testing)
func NewSettingsServiceWithDB(db *gorm.DB) *SettingsService {
	svc := &SettingsService{
		BaseService: NewBaseService(),
		log:         logger.For("settings"),
	}
	if db != nil {
		svc.SetDB(db)
	}
	return svc
}

// GetOrDefault returns the settings row for a location, or nil when none is
// configured. Callers treat nil as "all defaults".
func (s *SettingsService) GetOrDefault(locationID uint) *models.LocationSettings {
	if err := s.EnsureDB(); err != nil {
		return nil
	}
	var settings models.LocationSettings
	err := s.GetDB().Where("location_id = ?", locationID).First(&settings).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.Warn().Err(err).Uint("location_id", locationID).Msg("failed to load location settings, using defaults")
		}
		return nil
	}
	return &settings
}

// Save upserts the settings row for a location
func (s *SettingsService) Save(settings *models.LocationSettings) error {
	if err := s.EnsureDB(); err != nil {
		return err
	}
	var existing models.LocationSettings
	err := s.GetDB().Where("location_id = ?", settings.LocationID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return s.GetDB().Create(settings).Error
	}
	if err != nil {
		return err
	}
	settings.ID = existing.ID
	return s.GetDB().Save(settings).Error
}
