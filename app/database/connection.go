package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"PosInventory/app/config"
	"PosInventory/app/models"
)

var db *gorm.DB

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// SetDB replaces the global database instance (used by tests)
func SetDB(d *gorm.DB) {
	db = d
}

// Initialize sets up the postgres connection and runs migrations
func Initialize(cfg config.DatabaseConfig) error {
	var err error
	db, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return Migrate(db)
}

// Migrate runs the schema migrations for every engine model
func Migrate(d *gorm.DB) error {
	err := d.AutoMigrate(
		// Inventory models
		&models.InventoryItem{},
		&models.InventoryTransaction{},
		&models.WasteLogEntry{},

		// Recipe models
		&models.MenuItem{},
		&models.PrepItem{},
		&models.RecipeIngredient{},
		&models.PrepItemIngredient{},

		// Liquor models
		&models.BottleProduct{},
		&models.LiquorRecipeIngredient{},

		// Daily-count tier
		&models.Ingredient{},
		&models.IngredientChild{},
		&models.MenuItemIngredient{},

		// Orders
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemModifier{},
		&models.Modifier{},

		// Settings
		&models.LocationSettings{},
	)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
