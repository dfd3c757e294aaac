package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal is a savings target. CurrentAmount is derived from income
// transactions, not independently authoritative.
type Goal struct {
	ID            uint `gorm:"primaryKey"`
	UserID        uint `gorm:"index"`
	Name          string
	TargetAmount  decimal.Decimal `gorm:"type:numeric"`
	CurrentAmount decimal.Decimal `gorm:"type:numeric"`
	Deadline      *time.Time
	Achieved      bool `gorm:"default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
