package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomIssue is a maintenance problem reported by a student for a room.
type RoomIssue struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID        uuid.UUID `gorm:"type:uuid;index;not null" json:"student_id"`
	RoomID           uuid.UUID `gorm:"type:uuid;index;not null" json:"room_id"`
	IssueType        string    `gorm:"size:50;not null" json:"issue_type"` // water, electricity, cleaning, wifi, furniture, other
	IssueDescription string    `gorm:"type:text" json:"issue_description"`
	ResolutionStatus string    `gorm:"size:20;not null;default:in_progress" json:"resolution_status"` // in_progress, solved, not_solved
	ReportedAt       time.Time `gorm:"not null" json:"reported_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Student Student `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Room    Room    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (r *RoomIssue) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ReportedAt.IsZero() {
		r.ReportedAt = time.Now().UTC()
	}
	return nil
}
