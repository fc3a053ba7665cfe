package models

import "gorm.io/gorm"

// User represents a registered player.
type User struct {
	gorm.Model
	Name         string `gorm:"size:30;not null"`
	Username     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
}
