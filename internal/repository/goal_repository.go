package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"finance-bot/internal/model"
)

// GoalRepository handles CRUD for savings goals.
type GoalRepository struct {
	db *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{db: db}
}

func (r *GoalRepository) Create(ctx context.Context, goal *model.Goal) error {
	if err := r.db.WithContext(ctx).Create(goal).Error; err != nil {
		return fmt.Errorf("create goal: %w", err)
	}
	return nil
}

func (r *GoalRepository) ListByUser(ctx context.Context, userID uint) ([]model.Goal, error) {
	var goals []model.Goal
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at ASC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

// Save persists the recomputed progress of a goal.
func (r *GoalRepository) Save(ctx context.Context, goal *model.Goal) error {
	if err := r.db.WithContext(ctx).Save(goal).Error; err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

func (r *GoalRepository) Delete(ctx context.Context, userID, goalID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, goalID).
		Delete(&model.Goal{}).Error; err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}
