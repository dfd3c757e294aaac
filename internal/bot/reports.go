package bot

import (
	"context"
	"errors"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finance-bot/internal/service"
)

func (b *Bot) handleReportsMenu(msg *tgbotapi.Message) error {
	return b.sendWithReplyMarkup(msg.Chat.ID, "📋 <b>Report Generation</b>\n\nChoose report format:", reportsMenuKeyboard())
}

func (b *Bot) handleExport(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	if err := b.sendText(msg.Chat.ID, "📄 Generating report..."); err != nil {
		return err
	}

	data, err := b.export.TransactionsCSV(ctx, user)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			return b.sendMainMenu(msg.Chat.ID, "❌ No data available for report generation.")
		}
		log.Printf("export for user %d: %v", user.ID, err)
		return b.sendMainMenu(msg.Chat.ID, "❌ Error generating report. Please try again.")
	}

	return b.sendDocument(msg.Chat.ID, "financial_report.csv", data,
		"📄 Your Financial Report\n\nLast transactions in "+user.PreferredCurrency+".")
}
