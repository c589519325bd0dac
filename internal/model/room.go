package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Room belongs to one Floor. TotalBeds and MonthlyRent are free-form text
// filled in incrementally by operators; bed rows are the authoritative
// occupancy record, TotalBeds is only the declared capacity.
// IsAvailable is derived: true while at least one child bed is unoccupied.
type Room struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FloorID     uuid.UUID `gorm:"type:uuid;index;not null" json:"floor_id"`
	RoomNumber  string    `gorm:"size:20" json:"room_number"`
	RoomType    string    `gorm:"size:10" json:"room_type"` // AC, NON_AC
	Preference  string    `gorm:"size:10" json:"preference"`
	TotalBeds   string    `gorm:"size:20" json:"total_beds"`
	MonthlyRent string    `gorm:"size:20" json:"monthly_rent"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Floor Floor `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Beds  []Bed `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"beds,omitempty"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
