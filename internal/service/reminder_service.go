package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"finance-bot/internal/model"
	"finance-bot/internal/repository"
)

var (
	ErrInvalidReminderText = errors.New("reminder message must be 1-200 characters")
	ErrReminderInPast      = errors.New("reminder time must be in the future")
)

// ReminderSender delivers a reminder message to a user's chat.
type ReminderSender interface {
	SendReminder(chatID int64, message string) error
}

// ReminderService manages payment reminders and runs the delivery sweep.
type ReminderService struct {
	reminderRepo *repository.ReminderRepository
	userRepo     *repository.UserRepository
}

func NewReminderService(reminderRepo *repository.ReminderRepository, userRepo *repository.UserRepository) *ReminderService {
	return &ReminderService{reminderRepo: reminderRepo, userRepo: userRepo}
}

// Create schedules a new reminder.
func (s *ReminderService) Create(ctx context.Context, user *model.User, message string, remindAt time.Time) (*model.Reminder, error) {
	message = strings.TrimSpace(message)
	if message == "" || len([]rune(message)) > 200 {
		return nil, ErrInvalidReminderText
	}
	if !remindAt.After(time.Now()) {
		return nil, ErrReminderInPast
	}

	reminder := model.Reminder{
		UserID:   user.ID,
		Message:  message,
		RemindAt: remindAt,
		IsActive: true,
	}
	if err := s.reminderRepo.Create(ctx, &reminder); err != nil {
		return nil, err
	}
	log.Printf("[info] reminder created user=%d remind_at=%s", user.ID, remindAt.Format(time.RFC3339))
	return &reminder, nil
}

// ListActive returns the user's pending reminders.
func (s *ReminderService) ListActive(ctx context.Context, user *model.User) ([]model.Reminder, error) {
	return s.reminderRepo.ListActive(ctx, user.ID)
}

func (s *ReminderService) Delete(ctx context.Context, user *model.User, reminderID uint) error {
	return s.reminderRepo.Delete(ctx, user.ID, reminderID)
}

// SweepDue delivers every due reminder sequentially. A reminder is
// deactivated after the first attempt whether or not the send succeeded, so
// a broken chat never causes repeat notifications. One failed delivery does
// not block the rest.
func (s *ReminderService) SweepDue(ctx context.Context, sender ReminderSender) error {
	due, err := s.reminderRepo.ListDue(ctx, time.Now())
	if err != nil {
		return err
	}

	for _, reminder := range due {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		user, err := s.userRepo.FindByID(ctx, reminder.UserID)
		if err != nil {
			log.Printf("load user %d for reminder %d: %v", reminder.UserID, reminder.ID, err)
		} else if err := sender.SendReminder(user.TelegramID, reminder.Message); err != nil {
			log.Printf("send reminder %d to user %d: %v", reminder.ID, reminder.UserID, err)
		} else {
			log.Printf("[info] reminder %d delivered to user %d", reminder.ID, reminder.UserID)
		}

		if err := s.reminderRepo.Deactivate(ctx, reminder.ID); err != nil {
			log.Printf("deactivate reminder %d: %v", reminder.ID, err)
		}
	}
	return nil
}
