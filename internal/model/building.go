package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Building represents a hostel building with a declared floor capacity.
type Building struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	Address     string    `gorm:"type:text" json:"address"`
	Type        string    `gorm:"size:10" json:"type"` // boys, girls, coliving
	TotalFloors int       `gorm:"not null" json:"total_floors"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Floors []Floor `gorm:"foreignKey:BuildingID;constraint:OnDelete:CASCADE" json:"floors,omitempty"`
}

func (b *Building) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
