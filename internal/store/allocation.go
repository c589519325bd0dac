package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hostel-allocation-backend/internal/model"
	"hostel-allocation-backend/internal/parse"
)

// Allocate binds a student to a bed. All checks and writes run in one
// transaction: the bed is claimed with a guarded update (is_occupied flips
// true only if it was false), the allocation row is created, and the room's
// availability is recomputed. Two concurrent requests for the same bed see
// exactly one success; the loser gets a ConflictError. The unique index on
// allocations.student_id catches a racing double-allocation of the student.
func (s *gormStore) Allocate(ctx context.Context, studentID, bedID uuid.UUID, allocatedBy *uuid.UUID) (*model.Allocation, error) {
	var alloc *model.Allocation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.Student
		if err := tx.First(&student, "id = ?", studentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Resource: "student", ID: studentID.String()}
			}
			return fmt.Errorf("failed to load student: %w", err)
		}

		var bed model.Bed
		if err := tx.First(&bed, "id = ?", bedID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Resource: "bed", ID: bedID.String()}
			}
			return fmt.Errorf("failed to load bed: %w", err)
		}

		var existing model.Allocation
		err := tx.Where("student_id = ?", studentID).First(&existing).Error
		switch {
		case err == nil:
			return s.studentConflict(tx, &existing)
		case err != gorm.ErrRecordNotFound:
			return fmt.Errorf("failed to check existing allocation: %w", err)
		}

		// Claim the bed. RowsAffected == 0 means another allocation won the
		// race or the bed was already occupied.
		res := tx.Model(&model.Bed{}).
			Where("id = ? AND is_occupied = ?", bedID, false).
			Update("is_occupied", true)
		if res.Error != nil {
			return fmt.Errorf("failed to claim bed: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return s.bedConflict(tx, &bed)
		}

		alloc = &model.Allocation{
			StudentID:   studentID,
			BedID:       bedID,
			RoomID:      bed.RoomID,
			AllocatedBy: allocatedBy,
		}
		if err := tx.Create(alloc).Error; err != nil {
			if isUniqueViolation(err) {
				return &ConflictError{Detail: "student or bed was allocated by a concurrent request"}
			}
			return fmt.Errorf("failed to create allocation: %w", err)
		}

		return refreshRoomAvailability(tx, bed.RoomID)
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

// bedConflict builds the ConflictError for an already-occupied bed.
func (s *gormStore) bedConflict(tx *gorm.DB, bed *model.Bed) error {
	var room model.Room
	roomNumber := bed.RoomID.String()
	if err := tx.First(&room, "id = ?", bed.RoomID).Error; err == nil {
		roomNumber = room.RoomNumber
	}
	return &ConflictError{
		Detail: fmt.Sprintf("bed %s in room %s is already occupied", bed.BedNumber, roomNumber),
	}
}

// studentConflict builds the ConflictError naming the student's existing bed.
func (s *gormStore) studentConflict(tx *gorm.DB, existing *model.Allocation) error {
	bedNumber := existing.BedID.String()
	roomNumber := existing.RoomID.String()

	var bed model.Bed
	if err := tx.First(&bed, "id = ?", existing.BedID).Error; err == nil {
		bedNumber = bed.BedNumber
	}
	var room model.Room
	if err := tx.First(&room, "id = ?", existing.RoomID).Error; err == nil {
		roomNumber = room.RoomNumber
	}
	return &ConflictError{
		Detail: fmt.Sprintf("student is already allocated to bed %s in room %s", bedNumber, roomNumber),
	}
}

// Deallocate releases an allocation: the bed is freed, the allocation row
// deleted, and the room's availability recomputed, atomically. Returns the
// room whose bed was freed.
func (s *gormStore) Deallocate(ctx context.Context, allocationID uuid.UUID) (uuid.UUID, error) {
	var roomID uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var alloc model.Allocation
		if err := tx.First(&alloc, "id = ?", allocationID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Resource: "allocation", ID: allocationID.String()}
			}
			return fmt.Errorf("failed to load allocation: %w", err)
		}
		roomID = alloc.RoomID
		return releaseAllocation(tx, &alloc)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return roomID, nil
}

// DeleteStudent removes a student, cascading through the same release path
// as Deallocate for any live allocation. Returns the freed room, if any.
func (s *gormStore) DeleteStudent(ctx context.Context, studentID uuid.UUID) (*uuid.UUID, error) {
	var freedRoom *uuid.UUID

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student model.Student
		if err := tx.First(&student, "id = ?", studentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Resource: "student", ID: studentID.String()}
			}
			return fmt.Errorf("failed to load student: %w", err)
		}

		var alloc model.Allocation
		err := tx.Where("student_id = ?", studentID).First(&alloc).Error
		switch {
		case err == nil:
			if err := releaseAllocation(tx, &alloc); err != nil {
				return err
			}
			roomID := alloc.RoomID
			freedRoom = &roomID
		case err != gorm.ErrRecordNotFound:
			return fmt.Errorf("failed to check allocation: %w", err)
		}

		if err := tx.Delete(&student).Error; err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return freedRoom, nil
}

// DeleteBed removes a bed, deleting any live allocation on it and
// recomputing the room's availability. Losing a bed can flip the room to
// unavailable when it was the last free one.
func (s *gormStore) DeleteBed(ctx context.Context, bedID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bed model.Bed
		if err := tx.First(&bed, "id = ?", bedID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return &NotFoundError{Resource: "bed", ID: bedID.String()}
			}
			return fmt.Errorf("failed to load bed: %w", err)
		}

		if err := tx.Where("bed_id = ?", bedID).Delete(&model.Allocation{}).Error; err != nil {
			return fmt.Errorf("failed to delete allocation for bed: %w", err)
		}
		if err := tx.Delete(&bed).Error; err != nil {
			return fmt.Errorf("failed to delete bed: %w", err)
		}
		return refreshRoomAvailability(tx, bed.RoomID)
	})
}

// releaseAllocation is the single release path shared by Deallocate and the
// entity-deletion cascades: free the bed, drop the allocation row, refresh
// the room.
func releaseAllocation(tx *gorm.DB, alloc *model.Allocation) error {
	if err := tx.Model(&model.Bed{}).
		Where("id = ?", alloc.BedID).
		Update("is_occupied", false).Error; err != nil {
		return fmt.Errorf("failed to free bed: %w", err)
	}
	if err := tx.Delete(alloc).Error; err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
	}
	return refreshRoomAvailability(tx, alloc.RoomID)
}

// RoomStatus reports a room's occupancy numbers. Bed rows are the ground
// truth: when the declared total_beds text disagrees with the actual bed
// count, availability is taken from the rows instead of the formula.
func (s *gormStore) RoomStatus(ctx context.Context, roomID uuid.UUID) (*RoomStatus, error) {
	db := s.db.WithContext(ctx)

	var room model.Room
	if err := db.First(&room, "id = ?", roomID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Resource: "room", ID: roomID.String()}
		}
		return nil, fmt.Errorf("failed to load room: %w", err)
	}

	var total, occupied int64
	if err := db.Model(&model.Bed{}).Where("room_id = ?", roomID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count beds: %w", err)
	}
	if err := db.Model(&model.Bed{}).
		Where("room_id = ? AND is_occupied = ?", roomID, true).
		Count(&occupied).Error; err != nil {
		return nil, fmt.Errorf("failed to count occupied beds: %w", err)
	}

	declared := parse.Capacity(room.TotalBeds)
	available := declared - int(occupied)
	if declared != int(total) {
		// Stale capacity text; count free rows directly.
		available = int(total - occupied)
	}
	if available < 0 {
		available = 0
	}

	return &RoomStatus{
		RoomID:          room.ID,
		RoomNumber:      room.RoomNumber,
		TotalBeds:       declared,
		OccupiedBeds:    int(occupied),
		AvailableBeds:   available,
		IsFullyOccupied: available == 0,
		IsAvailable:     room.IsAvailable,
	}, nil
}

// ListAvailableBeds returns unoccupied beds, optionally narrowed to a
// building, floor, or room.
func (s *gormStore) ListAvailableBeds(ctx context.Context, f BedFilter) ([]model.Bed, error) {
	q := s.db.WithContext(ctx).Model(&model.Bed{}).Where("beds.is_occupied = ?", false)

	if f.RoomID != nil {
		q = q.Where("beds.room_id = ?", *f.RoomID)
	}
	if f.FloorID != nil || f.BuildingID != nil {
		q = q.Joins("JOIN rooms ON rooms.id = beds.room_id")
	}
	if f.FloorID != nil {
		q = q.Where("rooms.floor_id = ?", *f.FloorID)
	}
	if f.BuildingID != nil {
		q = q.Joins("JOIN floors ON floors.id = rooms.floor_id").
			Where("floors.building_id = ?", *f.BuildingID)
	}

	var beds []model.Bed
	if err := q.Find(&beds).Error; err != nil {
		return nil, fmt.Errorf("failed to list available beds: %w", err)
	}
	return beds, nil
}
