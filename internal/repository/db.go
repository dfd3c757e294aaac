package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"finance-bot/internal/model"
)

// Default category pool owned by the system user, copied to every new user
// on first access.
var defaultCategories = []model.Category{
	{UserID: model.SystemUserID, Name: "Salary", Type: model.TypeIncome},
	{UserID: model.SystemUserID, Name: "Gifts", Type: model.TypeIncome},
	{UserID: model.SystemUserID, Name: "Investments", Type: model.TypeIncome},
	{UserID: model.SystemUserID, Name: "Other Income", Type: model.TypeIncome},
	{UserID: model.SystemUserID, Name: "Food", Type: model.TypeExpense},
	{UserID: model.SystemUserID, Name: "Transport", Type: model.TypeExpense},
	{UserID: model.SystemUserID, Name: "Housing", Type: model.TypeExpense},
	{UserID: model.SystemUserID, Name: "Health", Type: model.TypeExpense},
	{UserID: model.SystemUserID, Name: "Entertainment", Type: model.TypeExpense},
	{UserID: model.SystemUserID, Name: "Other Expenses", Type: model.TypeExpense},
}

// NewDB opens a SQLite database, runs migrations and seeds the system
// category pool.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "finance.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Transaction{},
		&model.Goal{},
		&model.Reminder{},
		&model.ConverterCurrency{},
	); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}

	if err := seedDefaultCategories(db); err != nil {
		return nil, err
	}

	return db, nil
}

func seedDefaultCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Category{}).Where("user_id = ?", model.SystemUserID).Count(&count).Error; err != nil {
		return fmt.Errorf("count system categories: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, cat := range defaultCategories {
		cat := cat
		if err := db.Create(&cat).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", cat.Name, err)
		}
	}
	log.Printf("[info] seeded %d system default categories", len(defaultCategories))
	return nil
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	// Ignore DSNs with explicit mode=memory or network.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	// Strip file: prefix if present.
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
