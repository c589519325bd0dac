package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
	"hostel-allocation-backend/internal/parse"
)

// SetBuildingFloorCount ensures the building has floors numbered 1..n.
// A larger n appends the missing floors; n at or below the current count is
// a no-op. Existing floors are never touched or renumbered.
func (s *gormStore) SetBuildingFloorCount(ctx context.Context, buildingID uuid.UUID, n int) error {
	if n < 0 {
		return &ValidationError{Field: "total_floors", Detail: "must not be negative"}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var building model.Building
		if err := tx.First(&building, "id = ?", buildingID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Resource: "building", ID: buildingID.String()}
			}
			return fmt.Errorf("failed to load building: %w", err)
		}

		var current int64
		if err := tx.Model(&model.Floor{}).Where("building_id = ?", buildingID).Count(&current).Error; err != nil {
			return fmt.Errorf("failed to count floors: %w", err)
		}

		// Floors are contiguous 1..current, so new ones continue the sequence.
		for num := int(current) + 1; num <= n; num++ {
			floor := model.Floor{
				BuildingID:  buildingID,
				FloorNumber: num,
			}
			if err := tx.Create(&floor).Error; err != nil {
				return fmt.Errorf("failed to create floor %d: %w", num, err)
			}
		}
		return nil
	})
}

// SetFloorRoomCount ensures the floor has at least n rooms, creating
// placeholder rooms for the shortfall. The caller fills in room numbers,
// rent, and bed counts later. Idempotent under repeated or smaller n.
func (s *gormStore) SetFloorRoomCount(ctx context.Context, floorID uuid.UUID, n int) error {
	if n < 0 {
		return &ValidationError{Field: "total_rooms", Detail: "must not be negative"}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var floor model.Floor
		if err := tx.First(&floor, "id = ?", floorID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Resource: "floor", ID: floorID.String()}
			}
			return fmt.Errorf("failed to load floor: %w", err)
		}

		var current int64
		if err := tx.Model(&model.Room{}).Where("floor_id = ?", floorID).Count(&current).Error; err != nil {
			return fmt.Errorf("failed to count rooms: %w", err)
		}

		roomsToCreate := n - int(current)
		for i := 0; i < roomsToCreate; i++ {
			room := model.Room{
				FloorID:     floorID,
				RoomType:    "NON_AC",
				IsAvailable: true,
			}
			if err := tx.Create(&room).Error; err != nil {
				return fmt.Errorf("failed to create room on floor %d: %w", floor.FloorNumber, err)
			}
		}
		return nil
	})
}

// SyncRoomBeds reconciles a room's bed rows with its declared capacity.
// Beds are created once: if the room has no beds and the parsed capacity is
// positive, beds "1".."n" are created unoccupied. Once any bed exists the
// capacity field is advisory only and never adjusts bed rows again, so a
// lowered capacity cannot orphan live allocations. The room's availability
// flag is recomputed on every call.
func (s *gormStore) SyncRoomBeds(ctx context.Context, roomID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room model.Room
		if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Resource: "room", ID: roomID.String()}
			}
			return fmt.Errorf("failed to load room: %w", err)
		}

		totalBeds := parse.Capacity(room.TotalBeds)

		var current int64
		if err := tx.Model(&model.Bed{}).Where("room_id = ?", roomID).Count(&current).Error; err != nil {
			return fmt.Errorf("failed to count beds: %w", err)
		}

		if current == 0 && totalBeds > 0 {
			for num := 1; num <= totalBeds; num++ {
				bed := model.Bed{
					RoomID:    roomID,
					BedNumber: strconv.Itoa(num),
				}
				if err := tx.Create(&bed).Error; err != nil {
					return fmt.Errorf("failed to create bed %d: %w", num, err)
				}
			}
		}

		return refreshRoomAvailability(tx, roomID)
	})
}

// refreshRoomAvailability recomputes is_available from live bed rows and
// persists only that column. Must run inside the same transaction as the
// occupancy change it follows.
func refreshRoomAvailability(tx *gorm.DB, roomID uuid.UUID) error {
	var free int64
	if err := tx.Model(&model.Bed{}).
		Where("room_id = ? AND is_occupied = ?", roomID, false).
		Count(&free).Error; err != nil {
		return fmt.Errorf("failed to count free beds: %w", err)
	}

	if err := tx.Model(&model.Room{}).
		Where("id = ?", roomID).
		Update("is_available", free > 0).Error; err != nil {
		return fmt.Errorf("failed to update room availability: %w", err)
	}
	return nil
}
