package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DeletedTrip archives a removed trip: deletion is copy-then-remove, so the
// listing disappears from the catalog but its data survives here.
type DeletedTrip struct {
	gorm.Model
	OriginalID uint           `json:"originalId" gorm:"index"`
	UserID     uint           `json:"user_id" gorm:"index"`
	TripName   string         `json:"tripName"`
	Snapshot   datatypes.JSON `json:"snapshot"`
}
