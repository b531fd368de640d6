package model

import "time"

// PushSubscription is a browser push endpoint watching one laundry room.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	RoomID    string    `gorm:"size:64;not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}
