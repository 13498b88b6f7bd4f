package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TripPoint is the start or end of a trip, embedded with a column prefix.
type TripPoint struct {
	Location    string    `json:"location"`
	DateTime    time.Time `json:"dateTime"`
	Transport   string    `json:"transport"`
	Description string    `json:"description"`
}

// TripStop is an intermediate halt between start and end.
type TripStop struct {
	gorm.Model
	TripID      uint   `json:"trip_id" gorm:"index"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Transport   string `json:"transport"`
	Description string `json:"description"`
}

// Trip is a hosted listing. TotalPeople is the remaining bookable capacity
// and is only ever changed through conditional updates on the booking path.
type Trip struct {
	gorm.Model
	UserID        uint           `json:"userid" gorm:"index"`
	User          User           `json:"-"`
	TripName      string         `json:"tripName"`
	Budget        float64        `json:"budget"`
	Category      string         `json:"category"`
	TravellerType string         `json:"travellerType"`
	Description   string         `json:"description"`
	Activities    string         `json:"activities"`
	TotalPeople   int            `json:"totalPeople"`
	Inclusions    pq.StringArray `json:"inclusions" gorm:"type:text[]"`
	Exclusions    pq.StringArray `json:"exclusions" gorm:"type:text[]"`
	Start         TripPoint      `json:"start" gorm:"embedded;embeddedPrefix:start_"`
	End           TripPoint      `json:"end" gorm:"embedded;embeddedPrefix:end_"`
	Stops         []TripStop     `json:"stops"`
	Images        pq.StringArray `json:"images" gorm:"type:text[]"`
	Views         int64          `json:"views" gorm:"default:0"`
	Likes         []*User        `json:"-" gorm:"many2many:trip_likes"`
}
