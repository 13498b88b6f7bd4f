package models

import "gorm.io/gorm"

// KYC statuses: pending, verified, rejected. A rejected record may be
// superseded by resubmission; at most one non-rejected record per user.
type KYC struct {
	gorm.Model
	UserID          uint   `json:"userId" gorm:"index"`
	FullName        string `json:"fullName"`
	Mobile          string `json:"mobile"`
	PANNumber       string `json:"panNumber"`
	AadhaarNumber   string `json:"aadhaarNumber"`
	AadhaarFrontURL string `json:"aadhaarFrontUrl"`
	AadhaarBackURL  string `json:"aadhaarBackUrl"`
	PANCardURL      string `json:"panCardUrl"`
	Status          string `json:"status" gorm:"default:'pending'"`
}
