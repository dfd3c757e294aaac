package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finance-bot/internal/service"
)

const (
	btnIncome     = "➕ Income"
	btnExpense    = "➖ Expense"
	btnStatistics = "📊 Statistics"
	btnCategories = "📝 Categories"
	btnGoals      = "🎯 Goals"
	btnReminders  = "⏰ Reminders"
	btnConverter  = "💸 Converter"
	btnReports    = "📋 Reports"

	btnAddCategory       = "Add Category"
	btnMyCategories      = "My Categories"
	btnChangeCurrency    = "💱 Change Currency"
	btnConvert           = "💱 Convert"
	btnCurrencySettings  = "⚙️ Currency Settings"
	btnEditConverterList = "✏️ Edit Converter Currencies"
	btnCreateGoal        = "Create Goal"
	btnMyGoals           = "My Goals"
	btnAddReminder       = "Add Reminder"
	btnMyReminders       = "My Reminders"
	btnCSVReport         = "📄 CSV Report"
	btnViewTransactions  = "View Transactions"
	btnBack              = "Back"
	btnCancel            = "Cancel"
	btnOtherCurrency     = "Other Currency"
	btnNoDeadline        = "No deadline"
	btnCustomDate        = "Custom date"
	btnCustomTime        = "Custom date/time"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnIncome),
			tgbotapi.NewKeyboardButton(btnExpense),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnStatistics),
			tgbotapi.NewKeyboardButton(btnCategories),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnGoals),
			tgbotapi.NewKeyboardButton(btnReminders),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnConverter),
			tgbotapi.NewKeyboardButton(btnReports),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// namesKeyboard lays out arbitrary labels one per row, with a trailing
// Cancel button.
func namesKeyboard(names []string) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(names)+1)
	for _, name := range names {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(name)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// currencyPickKeyboard lays out currency codes three per row, plus Other
// Currency and Cancel.
func currencyPickKeyboard(codes []string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(codes); i += 3 {
		end := i + 3
		if end > len(codes) {
			end = len(codes)
		}
		row := make([]tgbotapi.KeyboardButton, 0, 3)
		for _, code := range codes[i:end] {
			row = append(row, tgbotapi.NewKeyboardButton(code))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(btnOtherCurrency),
		tgbotapi.NewKeyboardButton(btnCancel),
	))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

// supportedCurrencyKeyboard shows every supported currency with its symbol.
func supportedCurrencyKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	codes := service.SupportedCurrencies
	for i := 0; i < len(codes); i += 2 {
		row := []tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton(currencyButtonLabel(codes[i])),
		}
		if i+1 < len(codes) {
			row = append(row, tgbotapi.NewKeyboardButton(currencyButtonLabel(codes[i+1])))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)))
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}

func currencyButtonLabel(code string) string {
	return code + " (" + service.CurrencySymbol(code) + ")"
}

func converterMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnConvert)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCurrencySettings)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func currencySettingsKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnEditConverterList)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnChangeCurrency)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func categoriesMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnAddCategory)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnMyCategories)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnChangeCurrency)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func goalsMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCreateGoal)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnMyGoals)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func remindersMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnAddReminder)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnMyReminders)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func reportsMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCSVReport)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnViewTransactions)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func goalDeadlineKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("1 month"),
			tgbotapi.NewKeyboardButton("3 months"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("6 months"),
			tgbotapi.NewKeyboardButton("1 year"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCustomDate),
			tgbotapi.NewKeyboardButton(btnNoDeadline),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func reminderTimeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("In 1 hour"),
			tgbotapi.NewKeyboardButton("In 3 hours"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Tomorrow"),
			tgbotapi.NewKeyboardButton("In 1 week"),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCustomTime),
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
