package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Floor belongs to one Building. TotalRooms is the declared room capacity;
// nil means the operator has not set it yet.
type Floor struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BuildingID  uuid.UUID `gorm:"type:uuid;index;not null" json:"building_id"`
	FloorNumber int       `gorm:"not null" json:"floor_number"`
	TotalRooms  *int      `json:"total_rooms"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`

	// Associations
	Building Building `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Rooms    []Room   `gorm:"foreignKey:FloorID;constraint:OnDelete:CASCADE" json:"rooms,omitempty"`
}

func (f *Floor) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
