package bot

import "github.com/shopspring/decimal"

type conversationStage int

const (
	stageNone conversationStage = iota
	stageTxAmount
	stageTxCategory
	stageCategoryType
	stageCategoryName
	stageCurrencyPick
	stageConvertAmount
	stageConvertBase
	stageConvertTarget
	stageConverterList
	stageGoalName
	stageGoalAmount
	stageGoalDeadline
	stageReminderMessage
	stageReminderTime
)

// conversationState holds the partial input of a multi-step flow for one
// user. One flow at a time per user.
type conversationState struct {
	stage conversationStage

	txType string
	amount decimal.Decimal

	categoryType string

	convertBase string

	goalName   string
	goalTarget decimal.Decimal

	reminderMessage string
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) hasConversation(userID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.conversations[userID]
	return ok
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}
