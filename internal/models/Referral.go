package models

import (
	"time"

	"gorm.io/gorm"
)

// ReferralReward is staged into the referrer's locked balance when the
// referee signs up and settles to available when they first pay.
const ReferralReward = 100

type Referral struct {
	gorm.Model
	ReferrerID   uint       `json:"referrer_id" gorm:"index"`
	RefereeID    uint       `json:"referee_id" gorm:"index"`
	Referrer     User       `json:"-" gorm:"foreignKey:ReferrerID"`
	Referee      User       `json:"-" gorm:"foreignKey:RefereeID"`
	Status       string     `json:"status" gorm:"default:'pending'"` // pending, completed, cancelled
	RewardAmount float64    `json:"rewardAmount" gorm:"default:100"`
	CompletedAt  *time.Time `json:"completedAt"`
}
