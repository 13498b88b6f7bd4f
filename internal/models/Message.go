package models

import "gorm.io/gorm"

type Message struct {
	gorm.Model
	SenderID   uint   `json:"senderId" gorm:"index"`
	ReceiverID uint   `json:"receiverId" gorm:"index"`
	Sender     User   `json:"-" gorm:"foreignKey:SenderID"`
	Receiver   User   `json:"-" gorm:"foreignKey:ReceiverID"`
	Content    string `json:"content"`
	Read       bool   `json:"read" gorm:"default:false"`
}
