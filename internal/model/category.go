package model

import "time"

// Transaction and category types.
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// SystemUserID owns the template categories copied to every new user.
const SystemUserID uint = 0

// Category groups transactions (groceries, salary, transport, etc.).
// The (user, name, type) triple is unique.
type Category struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;index:idx_user_category,unique"`
	Name      string `gorm:"size:50;index:idx_user_category,unique"`
	Type      string `gorm:"size:10;index:idx_user_category,unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidType reports whether t is one of the known transaction types.
func ValidType(t string) bool {
	return t == TypeIncome || t == TypeExpense
}
