package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allocation binds exactly one Student to exactly one Bed. RoomID is
// recorded redundantly for query convenience. The unique indexes on
// StudentID and BedID enforce at most one live allocation per student and
// per bed at the database level, which backs the optimistic conflict
// handling in the allocator.
type Allocation struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID   uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"student_id"`
	BedID       uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"bed_id"`
	RoomID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"room_id"`
	AllocatedBy *uuid.UUID `gorm:"type:uuid" json:"allocated_by"`
	AllocatedAt time.Time  `gorm:"not null" json:"allocated_at"`

	// Associations
	Student Student `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Bed     Bed     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Room    Room    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (a *Allocation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AllocatedAt.IsZero() {
		a.AllocatedAt = time.Now().UTC()
	}
	return nil
}
