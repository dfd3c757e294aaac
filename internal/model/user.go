package model

import "time"

// User stores Telegram user metadata and display preferences.
type User struct {
	ID                uint  `gorm:"primaryKey"`
	TelegramID        int64 `gorm:"uniqueIndex"`
	FirstName         string
	LastName          string
	Username          string
	PreferredCurrency string `gorm:"size:3;default:USD"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
