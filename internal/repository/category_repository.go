package repository

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"finance-bot/internal/model"
)

// CategoryRepository manages transaction categories.
type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// EnsureDefaults copies the system category pool into the user's namespace
// when the user owns no categories yet. A second call is a no-op.
func (r *CategoryRepository) EnsureDefaults(ctx context.Context, userID uint) error {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	var defaults []model.Category
	if err := db.Where("user_id = ?", model.SystemUserID).Find(&defaults).Error; err != nil {
		return fmt.Errorf("load default categories: %w", err)
	}

	for _, def := range defaults {
		cat := model.Category{UserID: userID, Name: def.Name, Type: def.Type}
		if err := db.Create(&cat).Error; err != nil {
			return fmt.Errorf("copy category %q: %w", def.Name, err)
		}
	}

	log.Printf("[info] copied %d default categories for user %d", len(defaults), userID)
	return nil
}

// ListByUser returns the user's categories, optionally filtered by type.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID uint, categoryType string) ([]model.Category, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if categoryType != "" {
		query = query.Where("type = ?", categoryType)
	}
	var categories []model.Category
	if err := query.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName looks up a category by its unique (user, name, type) triple.
func (r *CategoryRepository) FindByName(ctx context.Context, userID uint, name, categoryType string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ? AND type = ?", userID, name, categoryType).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}
