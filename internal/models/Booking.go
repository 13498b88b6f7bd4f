package models

import (
	"time"

	"gorm.io/gorm"
)

// Booking statuses. A booking is "active" while pending or confirmed; at most
// one active booking may exist per (user, trip).
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

type Booking struct {
	gorm.Model
	TripID      uint       `json:"trip_id" gorm:"index"`
	Trip        Trip       `json:"-"`
	UserID      uint       `json:"user_id" gorm:"index"`
	User        User       `json:"-"`
	NumPeople   int        `json:"numPeople"`
	TotalAmount float64    `json:"totalAmount"`
	BookingDate time.Time  `json:"bookingDate"`
	Status      string     `json:"status" gorm:"default:'confirmed';index"`
	CancelledAt *time.Time `json:"cancelledAt"`
}
