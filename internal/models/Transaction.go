package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Transaction is one row per money movement. Reference is globally unique and
// doubles as the duplicate-payment guard for external gateway callbacks.
type Transaction struct {
	gorm.Model
	UserID      uint              `json:"user_id" gorm:"index"`
	Amount      float64           `json:"amount"`
	Description string            `json:"description"`
	Type        string            `json:"type"`   // deposit, withdrawal, transfer, payment, refund, bonus, subscription
	Method      string            `json:"method"` // upi, bank, other
	Details     datatypes.JSONMap `json:"details"`
	Status      string            `json:"status" gorm:"default:'pending'"`
	Reference   string            `json:"reference" gorm:"uniqueIndex"`
	PaymentID   string            `json:"paymentId"`
	Signature   string            `json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.Reference == "" {
		t.Reference = "TXN-" + uuid.NewString()
	}
	return nil
}
