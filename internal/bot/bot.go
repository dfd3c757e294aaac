package bot

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finance-bot/internal/model"
	"finance-bot/internal/repository"
	"finance-bot/internal/service"
)

// Bot aggregates the Telegram API with the finance services.
type Bot struct {
	api           *tgbotapi.BotAPI
	userRepo      *repository.UserRepository
	ledger        *service.LedgerService
	converter     *service.ConverterService
	goals         *service.GoalService
	reminders     *service.ReminderService
	export        *service.ExportService
	conversations map[int64]*conversationState
	mu            sync.Mutex
}

func New(token string, userRepo *repository.UserRepository, ledger *service.LedgerService, converter *service.ConverterService, goals *service.GoalService, reminders *service.ReminderService, export *service.ExportService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:           api,
		userRepo:      userRepo,
		ledger:        ledger,
		converter:     converter,
		goals:         goals,
		reminders:     reminders,
		export:        export,
		conversations: make(map[int64]*conversationState),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil {
			continue
		}
		if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendMainMenu(msg.Chat.ID, "❌ Cancelled.")
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		b.clearConversation(msg.From.ID)
		return b.handleCommand(ctx, msg)
	}

	if b.hasConversation(msg.From.ID) {
		return b.handleConversation(ctx, msg)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	return b.sendText(msg.Chat.ID, "I didn't understand that. Use the menu below or /help for commands.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		return b.handleStart(ctx, msg)
	case "help":
		return b.handleHelp(msg)
	case "menu":
		return b.sendMainMenu(msg.Chat.ID, "🏠 Main Menu:")
	case "add_income":
		return b.startTransactionFlow(ctx, msg, model.TypeIncome)
	case "add_expense":
		return b.startTransactionFlow(ctx, msg, model.TypeExpense)
	case "view_transactions":
		return b.handleViewTransactions(ctx, msg)
	case "stats":
		return b.handleStats(ctx, msg)
	case "set_currency":
		return b.startCurrencyFlow(ctx, msg)
	case "add_category":
		return b.startCategoryFlow(ctx, msg)
	case "convert":
		return b.startConvertFlow(ctx, msg)
	case "create_goal":
		return b.startGoalFlow(ctx, msg)
	case "goals":
		return b.handleViewGoals(ctx, msg)
	case "add_reminder":
		return b.startReminderFlow(ctx, msg)
	case "reminders":
		return b.handleViewReminders(ctx, msg)
	case "export_csv":
		return b.handleExport(ctx, msg)
	case "cancel":
		b.clearConversation(msg.From.ID)
		return b.sendMainMenu(msg.Chat.ID, "❌ Cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. See /help.")
	}
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(msg.Text) {
	case btnIncome:
		return true, b.startTransactionFlow(ctx, msg, model.TypeIncome)
	case btnExpense:
		return true, b.startTransactionFlow(ctx, msg, model.TypeExpense)
	case btnStatistics:
		return true, b.handleStats(ctx, msg)
	case btnCategories:
		return true, b.handleCategoriesMenu(ctx, msg)
	case btnGoals:
		return true, b.handleGoalsMenu(ctx, msg)
	case btnReminders:
		return true, b.handleRemindersMenu(ctx, msg)
	case btnConverter:
		return true, b.handleConverterMenu(ctx, msg)
	case btnReports:
		return true, b.handleReportsMenu(msg)
	case btnAddCategory:
		return true, b.startCategoryFlow(ctx, msg)
	case btnMyCategories:
		return true, b.handleViewCategories(ctx, msg)
	case btnChangeCurrency:
		return true, b.startCurrencyFlow(ctx, msg)
	case btnConvert:
		return true, b.startConvertFlow(ctx, msg)
	case btnCurrencySettings:
		return true, b.handleCurrencySettings(ctx, msg)
	case btnEditConverterList:
		return true, b.startConverterListFlow(ctx, msg)
	case btnCreateGoal:
		return true, b.startGoalFlow(ctx, msg)
	case btnMyGoals:
		return true, b.handleViewGoals(ctx, msg)
	case btnAddReminder:
		return true, b.startReminderFlow(ctx, msg)
	case btnMyReminders:
		return true, b.handleViewReminders(ctx, msg)
	case btnCSVReport:
		return true, b.handleExport(ctx, msg)
	case btnViewTransactions:
		return true, b.handleViewTransactions(ctx, msg)
	case btnBack:
		return true, b.sendMainMenu(msg.Chat.ID, "🏠 Main Menu:")
	default:
		return false, nil
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "friend"
	}

	log.Printf("[info] /start from user=%d currency=%s", user.ID, user.PreferredCurrency)

	text := fmt.Sprintf(
		"👋 Welcome to Financial Bot, %s!\n\n"+
			"💰 Track your income and expenses\n"+
			"📊 View statistics and analytics\n"+
			"🎯 Set and track financial goals\n"+
			"⏰ Set reminders for payments\n"+
			"💸 Convert currencies\n"+
			"📋 Generate reports\n\n"+
			"🔒 All amounts are encrypted at rest.\n\n"+
			"Choose an option from the menu below:",
		escape(name),
	)
	return b.sendMainMenu(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "🤖 <b>Financial Bot Help</b>\n\n" +
		"• /add_income — add an income transaction\n" +
		"• /add_expense — add an expense transaction\n" +
		"• /view_transactions — recent transactions\n" +
		"• /stats — monthly expense statistics\n" +
		"• /add_category — add a category\n" +
		"• /set_currency — change preferred currency\n" +
		"• /convert — currency converter\n" +
		"• /create_goal — create a savings goal\n" +
		"• /goals — view goals with progress\n" +
		"• /add_reminder — schedule a payment reminder\n" +
		"• /reminders — active reminders\n" +
		"• /export_csv — export transactions\n" +
		"• /cancel — cancel the current input\n\n" +
		"Supported currencies: " + strings.Join(service.SupportedCurrencies, ", ") + ".\n" +
		"Set your preferred currency and all amounts are displayed in it."
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message) error {
	state := b.getConversation(msg.From.ID)
	if state == nil {
		return nil
	}

	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageTxAmount, stageTxCategory:
		return b.continueTransactionFlow(ctx, msg, state, text)
	case stageCategoryType, stageCategoryName:
		return b.continueCategoryFlow(ctx, msg, state, text)
	case stageCurrencyPick:
		return b.continueCurrencyFlow(ctx, msg, text)
	case stageConvertAmount, stageConvertBase, stageConvertTarget:
		return b.continueConvertFlow(ctx, msg, state, text)
	case stageConverterList:
		return b.continueConverterListFlow(ctx, msg, text)
	case stageGoalName, stageGoalAmount, stageGoalDeadline:
		return b.continueGoalFlow(ctx, msg, state, text)
	case stageReminderMessage, stageReminderTime:
		return b.continueReminderFlow(ctx, msg, state, text)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendMainMenu(msg.Chat.ID, "Dialog reset. Use the menu to start over.")
	}
}

// SendReminder delivers a due reminder to a chat. It implements
// service.ReminderSender for the minute sweep.
func (b *Bot) SendReminder(chatID int64, message string) error {
	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("🔔 Reminder:\n\n%s", message))
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendMainMenu(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendDocument(chatID int64, filename string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		return err
	}
	return b.sendMainMenu(chatID, "🏠 Main Menu:")
}

func isCancelInput(text string) bool {
	value := strings.TrimSpace(strings.ToLower(text))
	return value == strings.ToLower(btnCancel) || value == "cancel"
}

func escape(s string) string {
	return html.EscapeString(s)
}
