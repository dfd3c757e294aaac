package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"finance-bot/internal/service"
)

func (b *Bot) handleConverterMenu(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	display, err := b.converter.ConverterCurrencies(ctx, user.ID, user.PreferredCurrency)
	if err != nil {
		log.Printf("converter currencies for user %d: %v", user.ID, err)
		return b.sendWithReplyMarkup(msg.Chat.ID, "💱 Currency Converter", converterMenuKeyboard())
	}

	ratesText, err := b.converter.PopularRates(ctx, user.PreferredCurrency, display)
	if err != nil {
		log.Printf("popular rates for user %d: %v", user.ID, err)
		ratesText = "📈 Exchange rates temporarily unavailable"
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, fmt.Sprintf("💱 <b>Currency Converter</b>\n\n%s", ratesText), converterMenuKeyboard())
}

func (b *Bot) startConvertFlow(ctx context.Context, msg *tgbotapi.Message) error {
	if _, err := b.ensureUser(ctx, msg.From); err != nil {
		return err
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageConvertAmount})
	return b.sendWithReplyMarkup(msg.Chat.ID, "💱 Enter amount to convert:", cancelKeyboard())
}

func (b *Bot) continueConvertFlow(ctx context.Context, msg *tgbotapi.Message, state *conversationState, text string) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	switch state.stage {
	case stageConvertAmount:
		amount, err := parseAmount(text)
		if err != nil {
			return b.sendWithReplyMarkup(msg.Chat.ID, fmt.Sprintf("❌ %s. Enter a valid amount (e.g., 100.50):", escape(err.Error())), cancelKeyboard())
		}
		state.amount = amount
		state.stage = stageConvertBase
		codes, err := b.quickPickCodes(ctx, user.ID, user.PreferredCurrency, "")
		if err != nil {
			return err
		}
		return b.sendWithReplyMarkup(msg.Chat.ID, "💰 Select source currency:", currencyPickKeyboard(codes))

	case stageConvertBase:
		if text == btnOtherCurrency {
			return b.sendText(msg.Chat.ID, "Enter currency code (e.g.: KZT, BYN, CHF):")
		}
		code, ok := parseCurrencyCode(text)
		if !ok {
			return b.sendText(msg.Chat.ID, "❌ Currency code must be 3 letters (e.g.: USD, EUR)")
		}
		state.convertBase = code
		state.stage = stageConvertTarget
		codes, err := b.quickPickCodes(ctx, user.ID, user.PreferredCurrency, code)
		if err != nil {
			return err
		}
		return b.sendWithReplyMarkup(msg.Chat.ID, "🎯 Select target currency:", currencyPickKeyboard(codes))

	case stageConvertTarget:
		if text == btnOtherCurrency {
			return b.sendText(msg.Chat.ID, "Enter currency code (e.g.: KZT, BYN, CHF):")
		}
		target, ok := parseCurrencyCode(text)
		if !ok {
			return b.sendText(msg.Chat.ID, "❌ Currency code must be 3 letters (e.g.: USD, EUR)")
		}
		if target == state.convertBase {
			return b.sendText(msg.Chat.ID, "❌ Source and target currencies cannot be the same")
		}

		result, err := b.converter.Convert(ctx, state.amount, state.convertBase, target)
		b.clearConversation(msg.From.ID)
		if err != nil {
			log.Printf("convert %s->%s for user %d: %v", state.convertBase, target, user.ID, err)
			return b.sendMainMenu(msg.Chat.ID, "❌ Failed to get exchange rates. Check currency codes and try again.")
		}
		return b.sendMainMenu(msg.Chat.ID, fmt.Sprintf(
			"💱 <b>Conversion result</b>\n\n💰 %s %s\n🔄\n💰 %s %s",
			state.amount.StringFixed(2), state.convertBase, result.StringFixed(2), target))
	}
	return nil
}

func (b *Bot) handleCurrencySettings(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	display, err := b.converter.ConverterCurrencies(ctx, user.ID, user.PreferredCurrency)
	if err != nil {
		log.Printf("converter currencies for user %d: %v", user.ID, err)
		return b.sendMainMenu(msg.Chat.ID, "❌ Error showing settings.")
	}

	text := fmt.Sprintf(
		"⚙️ <b>Currency Settings</b>\n\n"+
			"💰 Your main currency: %s\n"+
			"📊 Converter currencies: %s\n\n"+
			"You can customize up to 5 currencies for quick access in converter.",
		user.PreferredCurrency, strings.Join(display, ", "))
	return b.sendWithReplyMarkup(msg.Chat.ID, text, currencySettingsKeyboard())
}

func (b *Bot) startConverterListFlow(ctx context.Context, msg *tgbotapi.Message) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	current, err := b.converter.ConverterCurrencies(ctx, user.ID, user.PreferredCurrency)
	if err != nil {
		return b.sendMainMenu(msg.Chat.ID, "❌ Error showing settings.")
	}

	b.setConversation(msg.From.ID, &conversationState{stage: stageConverterList})
	text := fmt.Sprintf(
		"✏️ <b>Edit Converter Currencies</b>\n\n"+
			"Current currencies: %s\n\n"+
			"Send up to 5 currency codes separated by spaces.\n"+
			"Example: EUR GBP CNY JPY KZT\n\n"+
			"Available currencies: %s",
		strings.Join(current, ", "), strings.Join(service.SupportedCurrencies, ", "))
	return b.sendWithReplyMarkup(msg.Chat.ID, text, cancelKeyboard())
}

func (b *Bot) continueConverterListFlow(ctx context.Context, msg *tgbotapi.Message, text string) error {
	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	codes := strings.Fields(strings.ToUpper(text))
	if len(codes) == 0 {
		return b.sendWithReplyMarkup(msg.Chat.ID, "❌ Please enter at least one currency. Try again:", cancelKeyboard())
	}
	if len(codes) > 5 {
		return b.sendWithReplyMarkup(msg.Chat.ID, "❌ Maximum 5 currencies allowed. Try again:", cancelKeyboard())
	}

	ok, err := b.converter.SetConverterCurrencies(ctx, user.ID, user.PreferredCurrency, codes)
	if err != nil {
		log.Printf("set converter currencies for user %d: %v", user.ID, err)
		b.clearConversation(msg.From.ID)
		return b.sendMainMenu(msg.Chat.ID, "❌ Error saving currencies.")
	}
	if !ok {
		return b.sendWithReplyMarkup(msg.Chat.ID,
			"❌ Use supported codes different from your main currency. Try again:", cancelKeyboard())
	}

	b.clearConversation(msg.From.ID)
	return b.sendMainMenu(msg.Chat.ID, fmt.Sprintf("✅ Converter currencies updated!\nNew currencies: %s", strings.Join(codes, ", ")))
}

// quickPickCodes builds the keyboard list for a convert step: the user's
// main currency first, then the quick-pick list, minus exclude.
func (b *Bot) quickPickCodes(ctx context.Context, userID uint, mainCurrency, exclude string) ([]string, error) {
	display, err := b.converter.ConverterCurrencies(ctx, userID, mainCurrency)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(display)+1)
	if mainCurrency != exclude {
		codes = append(codes, mainCurrency)
	}
	for _, code := range display {
		if code != mainCurrency && code != exclude {
			codes = append(codes, code)
		}
	}
	return codes, nil
}

// parseCurrencyCode validates a 3-letter alphabetic code. The rate provider
// decides whether the currency actually exists.
func parseCurrencyCode(text string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(text))
	if len(code) != 3 {
		return "", false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	return code, true
}
