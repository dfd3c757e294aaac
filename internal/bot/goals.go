package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"finance-bot/internal/service"
)

var hundred = decimal.NewFromInt(100)

func (b *Bot) handleGoalsMenu(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	goals, err := b.goals.List(ctx, user)
	if err != nil {
		log.Printf("list goals for user %d: %v", user.ID, err)
		return b.sendMainMenu(msg.Chat.ID, "❌ Error occurred.")
	}
	text := fmt.Sprintf("🎯 <b>Goal Management</b>\n📊 Goals: %d", len(goals))
	return b.sendWithReplyMarkup(msg.Chat.ID, text, goalsMenuKeyboard())
}

func (b *Bot) startGoalFlow(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageGoalName})
	return b.sendWithReplyMarkup(msg.Chat.ID, "🎯 Enter goal name:", cancelKeyboard())
}

func (b *Bot) continueGoalFlow(ctx context.Context, msg *tgbotapi.Message, state *conversationState, text string) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	switch state.stage {
	case stageGoalName:
		if text == "" || len([]rune(text)) > 100 {
			return b.sendWithReplyMarkup(msg.Chat.ID, "❌ Name must be 1-100 characters. Try again:", cancelKeyboard())
		}
		state.goalName = text
		state.stage = stageGoalAmount
		return b.sendWithReplyMarkup(msg.Chat.ID,
			fmt.Sprintf("💰 Enter target amount (in %s):", user.PreferredCurrency), cancelKeyboard())

	case stageGoalAmount:
		amount, err := parseAmount(text)
		if err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, fmt.Sprintf("❌ %s. Enter a valid amount (e.g., 100.50):", escape(err.Error())), cancelKeyboard())
		}
		state.goalTarget = amount
		state.stage = stageGoalDeadline
		return b.sendWithReplyMarkup(msg.Chat.ID, "📅 Select deadline:", goalDeadlineKeyboard())

	case stageGoalDeadline:
		var deadline *time.Time
		switch text {
		case "1 month":
			deadline = futureDate(30)
		case "3 months":
			deadline = futureDate(90)
		case "6 months":
			deadline = futureDate(180)
		case "1 year":
			deadline = futureDate(365)
		case btnNoDeadline:
			deadline = nil
		case btnCustomDate:
			return b.sendWithReplyMarkup(msg.Chat.ID,
				"📅 Enter deadline in format <code>31.12.2026</code>:", cancelKeyboard())
		default:
			parsed, err := time.Parse("02.01.2006", text)
			if err != nil {
				return b.sendText(msg.Chat.ID, "❌ Invalid date format. Use DD.MM.YYYY (e.g., 31.12.2026):")
			}
			if !parsed.After(time.Now()) {
				return b.sendText(msg.Chat.ID, "❌ Deadline must be in the future. Try again:")
			}
			deadline = &parsed
		}

		goal, err := b.goals.Create(ctx, user, state.goalName, state.goalTarget, deadline)
		b.clearConversation(msg.From.ID)
		if err != nil {
			if errors.Is(err, service.ErrInvalidGoalName) || errors.Is(err, service.ErrInvalidAmount) {
				return b.sendMainMenu(msg.Chat.ID, fmt.Sprintf("❌ %s", escape(err.Error())))
			}
			log.Printf("create goal for user %d: %v", user.ID, err)
			return b.sendMainMenu(msg.Chat.ID, "❌ Error creating goal. Try again.")
		}

		deadlineText := "No deadline"
		if goal.Deadline != nil {
			deadlineText = goal.Deadline.Format("02.01.2006")
		}
		return b.sendMainMenu(msg.Chat.ID, fmt.Sprintf(
			"✅ <b>Goal created successfully!</b>\n\n"+
				"🎯 %s\n💰 Target: %s\n📅 Deadline: %s\n"+
				"📊 Progress is calculated automatically from your income",
			escape(goal.Name),
			service.FormatAmount(goal.TargetAmount, user.PreferredCurrency),
			deadlineText))
	}
	return nil
}

func (b *Bot) handleViewGoals(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	goals, err := b.goals.ListWithProgress(ctx, user)
	if err != nil {
		log.Printf("goals with progress for user %d: %v", user.ID, err)
		return b.sendText(msg.Chat.ID, "❌ Error retrieving goals.")
	}
	if len(goals) == 0 {
		return b.sendText(msg.Chat.ID, "🎯 You don't have any goals yet.\nUse /create_goal to create one!")
	}

	var builder strings.Builder
	builder.WriteString("🎯 <b>Your financial goals</b>\n\n")
	for i, goal := range goals {
		percent := 0
		if goal.TargetAmount.IsPositive() {
			percent = int(goal.CurrentAmount.Div(goal.TargetAmount).Mul(hundred).IntPart())
			if percent > 100 {
				percent = 100
			}
		}

		status := "🔄 In progress"
		if goal.Achieved {
			status = "✅ Achieved"
		}
		deadlineText := "No deadline"
		if goal.Deadline != nil {
			deadlineText = goal.Deadline.Format("02.01.2006")
		}

		builder.WriteString(fmt.Sprintf(
			"%d. %s\n💰 %s / %s\n📊 %s %d%%\n📅 %s\n📈 %s\n\n",
			i+1, escape(goal.Name),
			service.FormatAmount(goal.CurrentAmount, user.PreferredCurrency),
			service.FormatAmount(goal.TargetAmount, user.PreferredCurrency),
			progressBar(percent), percent,
			deadlineText, status))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func progressBar(percent int) string {
	filled := percent / 10
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}

func futureDate(days int) *time.Time {
	d := time.Now().AddDate(0, 0, days)
	return &d
}
