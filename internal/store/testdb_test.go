package store

import (
	"fmt"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hostel-allocation-backend/internal/model"
)

// newSQLiteDB opens a private in-memory database and migrates the schema.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	migrate(t, db)
	return db
}

// newFileDB opens a file-backed database for tests that exercise
// concurrent transactions, which the shared-cache memory DB cannot serve.
func newFileDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "store.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=10000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Serialize writers at the pool; sqlite allows one writer anyway.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	migrate(t, db)
	return db
}

func migrate(t *testing.T, db *gorm.DB) {
	t.Helper()
	err := db.AutoMigrate(
		&model.Building{},
		&model.Floor{},
		&model.Room{},
		&model.Bed{},
		&model.Student{},
		&model.Allocation{},
	)
	require.NoError(t, err)
}

// seedRoom creates a building/floor/room chain with the given number of
// beds and returns the room with beds loaded.
func seedRoom(t *testing.T, db *gorm.DB, bedCount int) model.Room {
	t.Helper()

	building := model.Building{Name: "Block A", TotalFloors: 1}
	require.NoError(t, db.Create(&building).Error)

	floor := model.Floor{BuildingID: building.ID, FloorNumber: 1}
	require.NoError(t, db.Create(&floor).Error)

	room := model.Room{
		FloorID:     floor.ID,
		RoomNumber:  "101",
		TotalBeds:   strconv.Itoa(bedCount),
		IsAvailable: true,
	}
	require.NoError(t, db.Create(&room).Error)

	for i := 1; i <= bedCount; i++ {
		bed := model.Bed{RoomID: room.ID, BedNumber: strconv.Itoa(i)}
		require.NoError(t, db.Create(&bed).Error)
	}

	require.NoError(t, db.Preload("Beds").First(&room, "id = ?", room.ID).Error)
	return room
}

func seedStudent(t *testing.T, db *gorm.DB, name string) model.Student {
	t.Helper()
	student := model.Student{Name: name, MobileNumber: "99" + name}
	require.NoError(t, db.Create(&student).Error)
	return student
}
