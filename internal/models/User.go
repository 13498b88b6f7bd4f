package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subscription is embedded on User; Plan is one of "Free", "Basic", "Super".
type Subscription struct {
	Plan       string     `json:"plan" gorm:"default:'Free'"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	UpgradedAt *time.Time `json:"upgradedAt"`
}

type User struct {
	gorm.Model
	FullName    string            `json:"full_name"`
	Email       string            `json:"email" gorm:"unique"`
	Phone       string            `json:"phone"`
	Password    string            `json:"-"`
	Gender      string            `json:"gender"`
	DOB         string            `json:"dob"`
	Country     string            `json:"country"`
	AcceptTerms bool              `json:"accept_terms" gorm:"default:false"`
	IsVerified  bool              `json:"isVerified" gorm:"default:false"`
	ReferralID  string            `json:"referralId" gorm:"uniqueIndex"`
	ProfilePic  string            `json:"profilePic"`
	About       string            `json:"about"`
	Interests   pq.StringArray    `json:"interests" gorm:"type:text[]"`
	SocialLinks datatypes.JSONMap `json:"socialLinks"`
	LastLogin   *time.Time        `json:"lastLogin"`

	Subscription Subscription `json:"subscription" gorm:"embedded;embeddedPrefix:subscription_"`

	// Social graph. Both directions share the user_followers join table:
	// a row (user_id, follower_id) means follower_id follows user_id.
	Followers []*User `json:"followers,omitempty" gorm:"many2many:user_followers;joinForeignKey:UserID;joinReferences:FollowerID"`
	Following []*User `json:"following,omitempty" gorm:"many2many:user_followers;joinForeignKey:FollowerID;joinReferences:UserID"`
}
