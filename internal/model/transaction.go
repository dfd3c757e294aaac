package model

import "time"

// Transaction is a single income or expense record. The amount is stored
// encrypted; Currency is the currency of record at creation time and never
// changes afterwards.
type Transaction struct {
	ID          uint   `gorm:"primaryKey"`
	UserID      uint   `gorm:"index"`
	Amount      []byte `gorm:"not null"`
	Type        string `gorm:"size:10;index"`
	CategoryID  uint   `gorm:"index"`
	Currency    string `gorm:"size:3;default:USD"`
	Description string
	Date        time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Category    Category `gorm:"foreignKey:CategoryID"`
}
