package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bed belongs to one Room. IsOccupied is the authoritative occupancy bit;
// room availability is always recomputed from it. MonthlyRent overrides the
// room's rent when set.
type Bed struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID      uuid.UUID `gorm:"type:uuid;index;not null" json:"room_id"`
	BedNumber   string    `gorm:"size:10;not null" json:"bed_number"`
	IsOccupied  bool      `gorm:"not null;default:false" json:"is_occupied"`
	MonthlyRent string    `gorm:"size:20" json:"monthly_rent"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (b *Bed) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
