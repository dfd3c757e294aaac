package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"finance-bot/internal/model"
)

// ReminderRepository handles CRUD for payment reminders.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) ListActive(ctx context.Context, userID uint) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("remind_at ASC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// ListDue returns every active reminder across all users whose fire time
// has passed.
func (r *ReminderRepository) ListDue(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).
		Where("is_active = ? AND remind_at <= ?", true, now).
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// Deactivate marks a reminder delivered (or failed). It is never retried.
func (r *ReminderRepository) Deactivate(ctx context.Context, reminderID uint) error {
	if err := r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("id = ?", reminderID).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("deactivate reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, userID, reminderID uint) error {
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, reminderID).
		Delete(&model.Reminder{}).Error; err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}
