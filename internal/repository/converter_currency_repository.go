package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"finance-bot/internal/model"
)

// ConverterCurrencyRepository manages the per-user quick-pick currency list
// used by the converter menu.
type ConverterCurrencyRepository struct {
	db *gorm.DB
}

func NewConverterCurrencyRepository(db *gorm.DB) *ConverterCurrencyRepository {
	return &ConverterCurrencyRepository{db: db}
}

// ListCodes returns the user's converter currencies ordered by position.
func (r *ConverterCurrencyRepository) ListCodes(ctx context.Context, userID uint) ([]string, error) {
	var entries []model.ConverterCurrency
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(entries))
	for _, e := range entries {
		codes = append(codes, e.CurrencyCode)
	}
	return codes, nil
}

// Replace swaps the user's whole list for the given codes, positions
// assigned in order.
func (r *ConverterCurrencyRepository) Replace(ctx context.Context, userID uint, codes []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.ConverterCurrency{}).Error; err != nil {
			return fmt.Errorf("clear converter currencies: %w", err)
		}
		for i, code := range codes {
			entry := model.ConverterCurrency{UserID: userID, CurrencyCode: code, Position: i}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("add converter currency %s: %w", code, err)
			}
		}
		return nil
	})
}
