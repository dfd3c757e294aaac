package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finance-bot/internal/service"
)

func (b *Bot) handleRemindersMenu(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	reminders, err := b.reminders.ListActive(ctx, user)
	if err != nil {
		log.Printf("list reminders for user %d: %v", user.ID, err)
		return b.sendMainMenu(msg.Chat.ID, "❌ Error occurred.")
	}
	text := fmt.Sprintf("⏰ <b>Reminder Management</b>\n📋 Active reminders: %d", len(reminders))
	return b.sendWithReplyMarkup(msg.Chat.ID, text, remindersMenuKeyboard())
}

func (b *Bot) startReminderFlow(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageReminderMessage})
	return b.sendWithReplyMarkup(msg.Chat.ID, "⏰ Enter reminder message:", cancelKeyboard())
}

func (b *Bot) continueReminderFlow(ctx context.Context, msg *tgbotapi.Message, state *conversationState, text string) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	switch state.stage {
	case stageReminderMessage:
		if text == "" || len([]rune(text)) > 200 {
			return b.sendWithReplyMarkup(msg.Chat.ID, "❌ Message must be 1-200 characters. Try again:", cancelKeyboard())
		}
		state.reminderMessage = text
		state.stage = stageReminderTime
		return b.sendWithReplyMarkup(msg.Chat.ID, "📅 When should I remind you?", reminderTimeKeyboard())

	case stageReminderTime:
		var remindAt time.Time
		now := time.Now()
		switch text {
		case "In 1 hour":
			remindAt = now.Add(time.Hour)
		case "In 3 hours":
			remindAt = now.Add(3 * time.Hour)
		case "Tomorrow":
			remindAt = time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
		case "In 1 week":
			remindAt = now.AddDate(0, 0, 7)
		case btnCustomTime:
			return b.sendWithReplyMarkup(msg.Chat.ID,
				"📅 Enter date and time in format <code>31.12.2026 15:30</code>:", cancelKeyboard())
		default:
			parsed, err := time.ParseInLocation("02.01.2006 15:04", text, now.Location())
			if err != nil {
				return b.sendText(msg.Chat.ID, "❌ Invalid format. Use DD.MM.YYYY HH:MM (e.g., 31.12.2026 15:30):")
			}
			remindAt = parsed
		}

		reminder, err := b.reminders.Create(ctx, user, state.reminderMessage, remindAt)
		if err != nil {
			if errors.Is(err, service.ErrReminderInPast) {
				return b.sendWithReplyMarkup(msg.Chat.ID, "❌ Reminder time must be in the future. Try again:", reminderTimeKeyboard())
			}
			if errors.Is(err, service.ErrInvalidReminderText) {
				b.clearConversation(msg.From.ID)
				return b.sendMainMenu(msg.Chat.ID, "❌ Message must be 1-200 characters.")
			}
			log.Printf("create reminder for user %d: %v", user.ID, err)
			b.clearConversation(msg.From.ID)
			return b.sendMainMenu(msg.Chat.ID, "❌ Error creating reminder. Try again.")
		}

		b.clearConversation(msg.From.ID)
		return b.sendMainMenu(msg.Chat.ID, fmt.Sprintf(
			"✅ <b>Reminder set successfully!</b>\n\n"+
				"⏰ Message: %s\n📅 Date: %s\n⏳ Time until reminder: %s",
			escape(reminder.Message),
			reminder.RemindAt.Format("02.01.2006 at 15:04"),
			humanizeUntil(reminder.RemindAt, now)))
	}
	return nil
}

func (b *Bot) handleViewReminders(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	reminders, err := b.reminders.ListActive(ctx, user)
	if err != nil {
		log.Printf("list reminders for user %d: %v", user.ID, err)
		return b.sendText(msg.Chat.ID, "❌ Error retrieving reminders.")
	}
	if len(reminders) == 0 {
		return b.sendText(msg.Chat.ID, "⏰ You don't have any active reminders.\nUse /add_reminder to create one!")
	}

	now := time.Now()
	var builder strings.Builder
	builder.WriteString("⏰ <b>Your active reminders</b>\n\n")
	for i, reminder := range reminders {
		until := "Overdue"
		if reminder.RemindAt.After(now) {
			until = humanizeUntil(reminder.RemindAt, now)
		}
		builder.WriteString(fmt.Sprintf("%d. %s\n📅 %s\n⏳ %s\n\n",
			i+1, escape(reminder.Message),
			reminder.RemindAt.Format("02.01.2006 15:04"), until))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func humanizeUntil(t, now time.Time) string {
	diff := t.Sub(now)
	switch {
	case diff >= 24*time.Hour:
		return fmt.Sprintf("in %d days", int(diff.Hours()/24))
	case diff >= time.Hour:
		return fmt.Sprintf("in %d hours", int(diff.Hours()))
	default:
		minutes := int(diff.Minutes())
		if minutes < 1 {
			minutes = 1
		}
		return fmt.Sprintf("in %d minutes", minutes)
	}
}
