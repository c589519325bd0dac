package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Mess is the kitchen attached to one building.
type Mess struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BuildingID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"building_id"`

	// Associations
	Meals []Meal `gorm:"foreignKey:MessID;constraint:OnDelete:CASCADE" json:"meals,omitempty"`
}

func (m *Mess) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Meal is one scheduled meal of a mess. Menu holds the list of dishes as a
// JSON array.
type Meal struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	MessID    uuid.UUID      `gorm:"type:uuid;index;not null" json:"mess_id"`
	Meal      string         `gorm:"size:50;not null" json:"meal"`
	Timing    string         `gorm:"size:50" json:"timing"`
	Status    string         `gorm:"size:20" json:"status"` // Available, Not Available
	Menu      datatypes.JSON `json:"menu"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
