package model

import "time"

// ConverterCurrency is one slot of a user's quick-pick currency list in the
// converter menu. At most five per user, ordered by Position.
type ConverterCurrency struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"index"`
	CurrencyCode string `gorm:"size:3"`
	Position     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
