package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
)

// Store defines the occupancy core: capacity provisioning, the allocation
// lifecycle, and the derived-state queries. Simple CRUD reads go through
// DB() directly; only the methods here may mutate occupancy-related fields.
type Store interface {
	// DB exposes the underlying connection for read-only CRUD handlers.
	DB() *gorm.DB

	// Capacity provisioning, invoked synchronously when a capacity field
	// is committed by the structure CRUD layer. Capacity never shrinks.
	SetBuildingFloorCount(ctx context.Context, buildingID uuid.UUID, n int) error
	SetFloorRoomCount(ctx context.Context, floorID uuid.UUID, n int) error
	SyncRoomBeds(ctx context.Context, roomID uuid.UUID) error

	// Allocation lifecycle. Deallocate and DeleteStudent report the room
	// whose bed was freed so the caller can notify waitlist subscribers.
	Allocate(ctx context.Context, studentID, bedID uuid.UUID, allocatedBy *uuid.UUID) (*model.Allocation, error)
	Deallocate(ctx context.Context, allocationID uuid.UUID) (uuid.UUID, error)
	DeleteStudent(ctx context.Context, studentID uuid.UUID) (*uuid.UUID, error)
	DeleteBed(ctx context.Context, bedID uuid.UUID) error

	// Derived-state queries.
	RoomStatus(ctx context.Context, roomID uuid.UUID) (*RoomStatus, error)
	ListAvailableBeds(ctx context.Context, f BedFilter) ([]model.Bed, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB returns the underlying gorm handle.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}
