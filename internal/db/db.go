package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostel-allocation-backend/config"
	"hostel-allocation-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.User{},
		&model.Building{},
		&model.Floor{},
		&model.Room{},
		&model.Bed{},
		&model.Student{},
		&model.Allocation{},
		&model.FeePayment{},
		&model.Expense{},
		&model.Mess{},
		&model.Meal{},
		&model.RoomIssue{},
		&model.PushSubscription{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	if cfg.EnableOccupancyIndexes {
		log.Println("Applying occupancy-specific DDL...")
		if err := applyOccupancyDDL(db); err != nil {
			log.Printf("Warning: failed to apply some occupancy DDL: %v. Continuing without them.", err)
		}
	}

	log.Println("Database initialization complete.")
	return db, nil
}

// applyOccupancyDDL adds the postgres-only partial indexes that back the
// hot allocation queries: free-bed lookups per room and the hierarchy
// joins in the available-beds listing.
func applyOccupancyDDL(db *gorm.DB) error {
	ddls := []string{
		"CREATE INDEX IF NOT EXISTS idx_beds_room_free ON beds (room_id) WHERE is_occupied = false;",
		"CREATE INDEX IF NOT EXISTS idx_rooms_floor_available ON rooms (floor_id) WHERE is_available = true;",
		"CREATE INDEX IF NOT EXISTS idx_allocations_room ON allocations (room_id, allocated_at DESC);",
	}

	for _, ddl := range ddls {
		if err := db.Exec(ddl).Error; err != nil {
			return fmt.Errorf("DDL failed on %q: %w", ddl, err)
		}
	}
	return nil
}
