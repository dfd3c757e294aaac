package model

import "time"

// Reminder is a one-shot payment reminder. It is deactivated after the
// first delivery attempt, successful or not.
type Reminder struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"index"`
	Message   string
	RemindAt  time.Time `gorm:"index"`
	IsActive  bool      `gorm:"default:true;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
