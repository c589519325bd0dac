package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Expense is a building-scoped operating expense entry.
type Expense struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BuildingID      *uuid.UUID `gorm:"type:uuid;index" json:"building_id"`
	Date            time.Time  `gorm:"not null" json:"date"`
	NatureOfExpense string     `gorm:"size:255;not null" json:"nature_of_expense"`
	Amount          int        `gorm:"not null" json:"amount"`

	// Associations
	Building *Building `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
