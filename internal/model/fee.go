package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeePayment is one entry in the fee ledger for a student. Plain CRUD; it
// reads allocation state for reporting but never mutates it.
type FeePayment struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID            uuid.UUID `gorm:"type:uuid;index;not null" json:"student_id"`
	PaymentType          string    `gorm:"size:20;not null" json:"payment_type"` // Deposit_Only, Advance_Only, Deposit_Advance, Monthly_Rent
	Amount               int       `gorm:"not null" json:"amount"`
	PaymentMethod        string    `gorm:"size:20;not null" json:"payment_method"` // cash, upi, bank, card
	TransactionReference string    `gorm:"size:255" json:"transaction_reference"`
	Remarks              string    `gorm:"type:text" json:"remarks"`
	PaymentDate          time.Time `gorm:"not null" json:"payment_date"`
	UpdatedAt            time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Student Student `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (f *FeePayment) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.PaymentDate.IsZero() {
		f.PaymentDate = time.Now().UTC()
	}
	return nil
}
