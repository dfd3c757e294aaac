package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"finance-bot/internal/model"
	"finance-bot/internal/repository"
)

// Validation failures surfaced to the user.
var (
	ErrInvalidAmount       = errors.New("amount must be positive and at most 1,000,000,000")
	ErrCategoryMismatch    = errors.New("category not found, belongs to another user, or type mismatch")
	ErrDuplicateCategory   = errors.New("category already exists")
	ErrInvalidCategoryType = errors.New("category type must be income or expense")
	ErrEmptyCategoryName   = errors.New("category name must be 1-50 characters")
)

var maxAmount = decimal.NewFromInt(1_000_000_000)

// AmountCodec is the at-rest encryption for transaction amounts.
type AmountCodec interface {
	Encrypt(amount decimal.Decimal) ([]byte, error)
	Decrypt(blob []byte) (decimal.Decimal, error)
}

// Normalizer converts a stored amount into a display currency, falling back
// to the original amount when the rate is unavailable.
type Normalizer interface {
	Normalize(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal
}

// TransactionView is a display-ready transaction: amount decrypted and
// normalized to the user's current preferred currency. Corrupt marks a row
// whose stored blob failed to decrypt; its amount is zero.
type TransactionView struct {
	ID           uint
	Amount       decimal.Decimal
	Currency     string
	Type         string
	CategoryName string
	Description  string
	Date         time.Time
	Corrupt      bool
}

// LedgerService owns transaction and category records. Writes validate,
// encrypt, persist; reads fetch, decrypt, normalize.
type LedgerService struct {
	txRepo       *repository.TransactionRepository
	categoryRepo *repository.CategoryRepository
	codec        AmountCodec
	normalizer   Normalizer
}

func NewLedgerService(txRepo *repository.TransactionRepository, categoryRepo *repository.CategoryRepository, codec AmountCodec, normalizer Normalizer) *LedgerService {
	return &LedgerService{
		txRepo:       txRepo,
		categoryRepo: categoryRepo,
		codec:        codec,
		normalizer:   normalizer,
	}
}

// Record validates and persists a new transaction. The amount is understood
// to be in the user's preferred currency at entry time, which becomes the
// transaction's currency of record. No network call happens on the write
// path.
func (s *LedgerService) Record(ctx context.Context, user *model.User, amount decimal.Decimal, txType string, categoryID uint, description string) (*model.Transaction, error) {
	if !amount.IsPositive() || amount.GreaterThan(maxAmount) {
		return nil, ErrInvalidAmount
	}
	if !model.ValidType(txType) {
		return nil, ErrInvalidCategoryType
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryMismatch
		}
		return nil, fmt.Errorf("load category: %w", err)
	}
	if category.UserID != user.ID || category.Type != txType {
		return nil, ErrCategoryMismatch
	}

	blob, err := s.codec.Encrypt(amount)
	if err != nil {
		return nil, fmt.Errorf("encrypt amount: %w", err)
	}

	tx := model.Transaction{
		UserID:      user.ID,
		Amount:      blob,
		Type:        txType,
		CategoryID:  categoryID,
		Currency:    user.PreferredCurrency,
		Description: description,
		Date:        time.Now(),
	}
	if err := s.txRepo.Create(ctx, &tx); err != nil {
		return nil, err
	}

	log.Printf("[info] transaction recorded user=%d type=%s category=%d currency=%s", user.ID, txType, categoryID, tx.Currency)
	return &tx, nil
}

// ListRecent returns the user's newest transactions with display-ready
// amounts. Conversion uses today's rate even for old rows; a row that fails
// to decrypt comes back flagged instead of aborting the listing.
func (s *LedgerService) ListRecent(ctx context.Context, user *model.User, limit int) ([]TransactionView, error) {
	txs, err := s.txRepo.ListRecent(ctx, user.ID, limit)
	if err != nil {
		return nil, err
	}

	views := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		view := TransactionView{
			ID:           tx.ID,
			Currency:     user.PreferredCurrency,
			Type:         tx.Type,
			CategoryName: categoryName(tx),
			Description:  tx.Description,
			Date:         tx.Date,
		}
		amount, err := s.codec.Decrypt(tx.Amount)
		if err != nil {
			log.Printf("decrypt transaction %d: %v", tx.ID, err)
			view.Corrupt = true
			views = append(views, view)
			continue
		}
		view.Amount = s.normalizer.Normalize(ctx, amount, recordedCurrency(tx, user), user.PreferredCurrency)
		views = append(views, view)
	}
	return views, nil
}

// MonthlyExpenseBreakdown sums normalized expense amounts per category over
// the trailing 30 days. A nil map means no matching rows, as opposed to a
// valid zero total. Rows that fail to decrypt are skipped.
func (s *LedgerService) MonthlyExpenseBreakdown(ctx context.Context, user *model.User) (map[string]decimal.Decimal, error) {
	since := time.Now().AddDate(0, 0, -30)
	txs, err := s.txRepo.ListExpensesSince(ctx, user.ID, since)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, nil
	}

	totals := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		amount, err := s.codec.Decrypt(tx.Amount)
		if err != nil {
			log.Printf("decrypt transaction %d: %v", tx.ID, err)
			continue
		}
		normalized := s.normalizer.Normalize(ctx, amount, recordedCurrency(tx, user), user.PreferredCurrency)
		name := categoryName(tx)
		totals[name] = totals[name].Add(normalized)
	}
	return totals, nil
}

// Categories returns the user's categories of the given type, copying the
// system defaults into the user's namespace on first access.
func (s *LedgerService) Categories(ctx context.Context, user *model.User, categoryType string) ([]model.Category, error) {
	if err := s.categoryRepo.EnsureDefaults(ctx, user.ID); err != nil {
		return nil, err
	}
	return s.categoryRepo.ListByUser(ctx, user.ID, categoryType)
}

// AddCategory creates a user category. The (user, name, type) triple must
// be unique.
func (s *LedgerService) AddCategory(ctx context.Context, user *model.User, name, categoryType string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > 50 {
		return nil, ErrEmptyCategoryName
	}
	if !model.ValidType(categoryType) {
		return nil, ErrInvalidCategoryType
	}

	_, err := s.categoryRepo.FindByName(ctx, user.ID, name, categoryType)
	switch {
	case err == nil:
		return nil, ErrDuplicateCategory
	case errors.Is(err, gorm.ErrRecordNotFound):
		// free to create
	default:
		return nil, fmt.Errorf("check category: %w", err)
	}

	category := model.Category{UserID: user.ID, Name: name, Type: categoryType}
	if err := s.categoryRepo.Create(ctx, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func categoryName(tx model.Transaction) string {
	if tx.Category.Name == "" {
		return "No category"
	}
	return tx.Category.Name
}

// recordedCurrency defends against legacy rows saved before currency
// stamping existed.
func recordedCurrency(tx model.Transaction, user *model.User) string {
	if tx.Currency == "" {
		return user.PreferredCurrency
	}
	return tx.Currency
}
