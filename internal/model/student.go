package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student is a hostel resident. The student's current bed is never stored
// here; it is derived by querying the live Allocation for the student, so
// the occupancy relation has a single owner.
type Student struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string     `gorm:"size:50" json:"name"`
	MobileNumber   string     `gorm:"size:15;uniqueIndex" json:"mobile_number"`
	AadharNumber   string     `gorm:"size:12" json:"aadhar_number"`
	Address        string     `gorm:"type:text" json:"address"`
	DateOfBirth    *time.Time `json:"date_of_birth"`
	EmergencyName  string     `gorm:"size:50" json:"emergency_name"`
	EmergencyPhone string     `gorm:"size:15" json:"emergency_phone"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
