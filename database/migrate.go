package database

import (
	"context"
	"fmt"

	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"gorm.io/gorm"
)

// DefaultTables is the floor plan created for an empty database.
var DefaultTables = []models.Table{
	{TableName: "#1", Capacity: 6},
	{TableName: "#2", Capacity: 6},
	{TableName: "Bar #1", Capacity: 1},
	{TableName: "Bar #2", Capacity: 1},
}

func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Reservation{},
		&models.Table{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if utils.InfoLogger != nil {
		utils.InfoLogger.Println("AutoMigrate completed.")
	}
	return nil
}

// SeedTables inserts DefaultTables when no table exists yet. It returns the
// number of rows created.
func SeedTables(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Table{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	tables := make([]models.Table, len(DefaultTables))
	copy(tables, DefaultTables)
	if err := db.WithContext(ctx).Create(&tables).Error; err != nil {
		return 0, fmt.Errorf("seed tables: %w", err)
	}
	if utils.InfoLogger != nil {
		utils.InfoLogger.Printf("Seeded %d tables", len(tables))
	}
	return len(tables), nil
}
