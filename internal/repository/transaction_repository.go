package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"finance-bot/internal/model"
)

// TransactionRepository handles the persisted side of the ledger.
// Transactions are immutable once written.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// ListRecent returns the user's last transactions, newest first, with the
// category preloaded.
func (r *TransactionRepository) ListRecent(ctx context.Context, userID uint, limit int) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// ListExpensesSince returns expense transactions dated at or after since.
func (r *TransactionRepository) ListExpensesSince(ctx context.Context, userID uint, since time.Time) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := r.db.WithContext(ctx).Preload("Category").
		Where("user_id = ? AND type = ? AND date >= ?", userID, model.TypeExpense, since).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// ListByType returns all of the user's transactions of one type.
func (r *TransactionRepository) ListByType(ctx context.Context, userID uint, txType string) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND type = ?", userID, txType).
		Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}
