package models

import "gorm.io/gorm"

// Wallet holds per-user funds. AvailableBalance is spendable; LockedBalance
// escrows pending referral rewards until the referee converts.
type Wallet struct {
	gorm.Model
	UserID           uint    `json:"user_id" gorm:"uniqueIndex"`
	AvailableBalance float64 `json:"availableBalance" gorm:"default:0"`
	LockedBalance    float64 `json:"lockedBalance" gorm:"default:0"`
	Currency         string  `json:"currency" gorm:"default:'INR'"`
}
