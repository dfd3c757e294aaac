package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"finance-bot/internal/model"
	"finance-bot/internal/service"
)

var maxInputAmount = decimal.NewFromInt(1_000_000_000)

// parseAmount accepts a plain positive decimal up to one billion.
func parseAmount(text string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number")
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount must be greater than 0")
	}
	if amount.GreaterThan(maxInputAmount) {
		return decimal.Zero, fmt.Errorf("amount is too large")
	}
	return amount, nil
}

func (b *Bot) startTransactionFlow(ctx context.Context, msg *tgbotapi.Message, txType string) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageTxAmount, txType: txType})
	prompt := "💰 Enter the income amount:"
	if txType == model.TypeExpense {
		prompt = "💸 Enter the expense amount:"
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, prompt, cancelKeyboard())
}

func (b *Bot) continueTransactionFlow(ctx context.Context, msg *tgbotapi.Message, state *conversationState, text string) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	switch state.stage {
	case stageTxAmount:
		amount, err := parseAmount(text)
		if err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, fmt.Sprintf("❌ %s. Enter a valid amount (e.g., 100.50):", escape(err.Error())), cancelKeyboard())
		}
		state.amount = amount
		state.stage = stageTxCategory

		categories, err := b.ledger.Categories(ctx, user, state.txType)
		if err != nil {
			b.clearConversation(msg.From.ID)
			return b.sendMainMenu(msg.Chat.ID, "❌ Error loading categories.")
		}
		if len(categories) == 0 {
			b.clearConversation(msg.From.ID)
			return b.sendMainMenu(msg.Chat.ID, fmt.Sprintf("❌ No %s categories found. Create one first via /add_category.", state.txType))
		}

		names := make([]string, 0, len(categories))
		for _, cat := range categories {
			names = append(names, cat.Name)
		}
		emoji := "💰"
		if state.txType == model.TypeExpense {
			emoji = "💸"
		}
		return b.sendWithReplyMarkup(msg.Chat.ID, emoji+" Choose category:", namesKeyboard(names))

	case stageTxCategory:
		categories, err := b.ledger.Categories(ctx, user, state.txType)
		if err != nil {
			b.clearConversation(msg.From.ID)
			return b.sendMainMenu(msg.Chat.ID, "❌ Error loading categories.")
		}
		var category *model.Category
		for i := range categories {
			if categories[i].Name == text {
				category = &categories[i]
				break
			}
		}
		if category == nil {
			return b.sendText(msg.Chat.ID, "Choose a category from the list.")
		}

		tx, err := b.ledger.Record(ctx, user, state.amount, state.txType, category.ID, "")
		b.clearConversation(msg.From.ID)
		if err != nil {
			if errors.Is(err, service.ErrInvalidAmount) || errors.Is(err, service.ErrCategoryMismatch) {
				return b.sendMainMenu(msg.Chat.ID, fmt.Sprintf("❌ %s", escape(err.Error())))
			}
			log.Printf("record transaction for user %d: %v", user.ID, err)
			return b.sendMainMenu(msg.Chat.ID, "❌ Error saving transaction.")
		}

		label := "Income"
		if tx.Type == model.TypeExpense {
			label = "Expense"
		}
		amountStr := service.FormatAmount(state.amount, user.PreferredCurrency)
		return b.sendMainMenu(msg.Chat.ID, fmt.Sprintf("✅ %s %s in category '%s' saved!", label, amountStr, escape(category.Name)))
	}
	return nil
}

func (b *Bot) handleViewTransactions(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	views, err := b.ledger.ListRecent(ctx, user, 10)
	if err != nil {
		log.Printf("list transactions for user %d: %v", user.ID, err)
		return b.sendText(msg.Chat.ID, "❌ Error retrieving transactions.")
	}
	if len(views) == 0 {
		return b.sendText(msg.Chat.ID, "📊 You have no transactions yet.")
	}

	var builder strings.Builder
	builder.WriteString("📊 <b>Your recent transactions</b>\n\n")
	for _, view := range views {
		emoji := "💰"
		if view.Type == model.TypeExpense {
			emoji = "💸"
		}
		if view.Corrupt {
			builder.WriteString(fmt.Sprintf("%s %s | %s | ⚠️ unreadable record\n",
				emoji, view.Date.Format("02.01 15:04"), escape(view.CategoryName)))
			continue
		}
		builder.WriteString(fmt.Sprintf("%s %s | %s | %s\n",
			emoji, view.Date.Format("02.01 15:04"), escape(view.CategoryName),
			service.FormatAmount(view.Amount, view.Currency)))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	totals, err := b.ledger.MonthlyExpenseBreakdown(ctx, user)
	if err != nil {
		log.Printf("monthly breakdown for user %d: %v", user.ID, err)
		return b.sendText(msg.Chat.ID, "❌ Error creating statistics.")
	}
	if totals == nil {
		return b.sendText(msg.Chat.ID, "📊 No expenses in the last month.")
	}

	total := decimal.Zero
	for _, amount := range totals {
		total = total.Add(amount)
	}

	var builder strings.Builder
	builder.WriteString("📊 <b>Monthly expense statistics by category</b>\n\n")
	for _, name := range sortedKeys(totals) {
		amount := totals[name]
		percentage := decimal.Zero
		if total.IsPositive() {
			percentage = amount.Div(total).Mul(decimal.NewFromInt(100))
		}
		builder.WriteString(fmt.Sprintf("• %s: %s (%s%%)\n",
			escape(name), service.FormatAmount(amount, user.PreferredCurrency), percentage.StringFixed(1)))
	}
	builder.WriteString(fmt.Sprintf("\n💸 Total expenses: %s", service.FormatAmount(total, user.PreferredCurrency)))
	return b.sendText(msg.Chat.ID, builder.String())
}

func (b *Bot) handleCategoriesMenu(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	text := fmt.Sprintf("📝 <b>Category Management</b>\n💱 Current currency: %s", user.PreferredCurrency)
	return b.sendWithReplyMarkup(msg.Chat.ID, text, categoriesMenuKeyboard())
}

func (b *Bot) handleViewCategories(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	income, err := b.ledger.Categories(ctx, user, model.TypeIncome)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Error retrieving categories.")
	}
	expense, err := b.ledger.Categories(ctx, user, model.TypeExpense)
	if err != nil {
		return b.sendText(msg.Chat.ID, "❌ Error retrieving categories.")
	}

	if len(income) == 0 && len(expense) == 0 {
		return b.sendText(msg.Chat.ID, "📝 You don't have any categories yet.")
	}

	var builder strings.Builder
	builder.WriteString("📝 <b>Your categories</b>\n\n")
	if len(income) > 0 {
		builder.WriteString("💰 Income categories:\n")
		for i, cat := range income {
			builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, escape(cat.Name)))
		}
		builder.WriteByte('\n')
	}
	if len(expense) > 0 {
		builder.WriteString("💸 Expense categories:\n")
		for i, cat := range expense {
			builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, escape(cat.Name)))
		}
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) startCategoryFlow(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageCategoryType})
	return b.sendWithReplyMarkup(msg.Chat.ID, "📝 Select category type:", namesKeyboard([]string{"💰 Income", "💸 Expense"}))
}

func (b *Bot) continueCategoryFlow(ctx context.Context, msg *tgbotapi.Message, state *conversationState, text string) error {
	switch state.stage {
	case stageCategoryType:
		switch text {
		case "💰 Income":
			state.categoryType = model.TypeIncome
		case "💸 Expense":
			state.categoryType = model.TypeExpense
		default:
			return b.sendText(msg.Chat.ID, "Please select a type from the buttons.")
		}
		state.stage = stageCategoryName
		return b.sendWithReplyMarkup(msg.Chat.ID, "📝 Enter category name:", cancelKeyboard())

	case stageCategoryName:
		user, err := b.ensureUser(ctx, msg.From)
		if err != nil {
			return err
		}
		category, err := b.ledger.AddCategory(ctx, user, text, state.categoryType)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrDuplicateCategory):
				return b.sendWithReplyMarkup(msg.Chat.ID, "❌ This category already exists.", cancelKeyboard())
			case errors.Is(err, service.ErrEmptyCategoryName):
				return b.sendWithReplyMarkup(msg.Chat.ID, "❌ Name must be 1-50 characters. Try again:", cancelKeyboard())
			default:
				log.Printf("add category for user %d: %v", user.ID, err)
				b.clearConversation(msg.From.ID)
				return b.sendMainMenu(msg.Chat.ID, "❌ Error adding category.")
			}
		}
		b.clearConversation(msg.From.ID)
		emoji := "💰"
		if category.Type == model.TypeExpense {
			emoji = "💸"
		}
		return b.sendMainMenu(msg.Chat.ID, fmt.Sprintf("✅ %s Category '%s' added!", emoji, escape(category.Name)))
	}
	return nil
}

func (b *Bot) startCurrencyFlow(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageCurrencyPick})
	text := fmt.Sprintf("💱 Current currency: %s\nSelect new preferred currency:", user.PreferredCurrency)
	return b.sendWithReplyMarkup(msg.Chat.ID, text, supportedCurrencyKeyboard())
}

func (b *Bot) continueCurrencyFlow(ctx context.Context, msg *tgbotapi.Message, text string) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	// Accept both "USD ($)" button labels and bare codes.
	code := strings.ToUpper(strings.TrimSpace(strings.SplitN(text, " ", 2)[0]))
	ok, err := b.converter.SetMainCurrency(ctx, user.ID, code)
	if err != nil {
		log.Printf("set currency for user %d: %v", user.ID, err)
		b.clearConversation(msg.From.ID)
		return b.sendMainMenu(msg.Chat.ID, "❌ Error changing currency.")
	}
	if !ok {
		return b.sendWithReplyMarkup(msg.Chat.ID, "❌ Select a currency from the list.", supportedCurrencyKeyboard())
	}
	b.clearConversation(msg.From.ID)
	return b.sendMainMenu(msg.Chat.ID, fmt.Sprintf("✅ Currency changed to %s!", code))
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
