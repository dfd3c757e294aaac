package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	"finance-bot/internal/repository"
)

// RateSource provides a live rate mapping for a base currency. One call is
// one network round trip; batch views fetch once and look targets up in the
// returned mapping.
type RateSource interface {
	Rates(ctx context.Context, base string) (map[string]float64, error)
}

const maxConverterCurrencies = 5

// ConverterService converts between currencies and owns the user's currency
// preferences. Display paths go through Normalize and never fail; the
// explicit converter feature goes through Convert and surfaces rate errors.
type ConverterService struct {
	rates    RateSource
	userRepo *repository.UserRepository
	prefRepo *repository.ConverterCurrencyRepository
}

func NewConverterService(rates RateSource, userRepo *repository.UserRepository, prefRepo *repository.ConverterCurrencyRepository) *ConverterService {
	return &ConverterService{rates: rates, userRepo: userRepo, prefRepo: prefRepo}
}

// Convert turns amount from one currency into another at the current spot
// rate. Errors from the rate source propagate; the converter feature has no
// sensible fallback and the user must be told to retry.
func (s *ConverterService) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if from == to {
		return amount, nil
	}
	mapping, err := s.rates.Rates(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := mapping[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("currency %s not found in rates for %s", to, from)
	}
	return amount.Mul(decimal.NewFromFloat(rate)), nil
}

// Normalize converts a stored amount from its currency of record to a
// display currency. Same-currency calls return the amount unchanged without
// touching the network. When the rate lookup fails the original amount is
// returned as-is: a listing must never hard-fail because one remote lookup
// failed, even though the resulting values may not be comparable.
func (s *ConverterService) Normalize(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	if from == to {
		return amount
	}
	converted, err := s.Convert(ctx, amount, from, to)
	if err != nil {
		log.Printf("normalize %s->%s failed, keeping original amount: %v", from, to, err)
		return amount
	}
	return converted
}

// PopularRates renders the quick-rates view for the converter menu: a single
// fetch of the base mapping, then one lookup per display currency.
func (s *ConverterService) PopularRates(ctx context.Context, base string, display []string) (string, error) {
	mapping, err := s.rates.Rates(ctx, base)
	if err != nil {
		return "", err
	}

	baseSymbol := CurrencySymbol(base)
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📈 Current Rates (1 %s):\n\n", base))
	for _, code := range display {
		if code == base {
			continue
		}
		rate, ok := mapping[code]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("💱 1 %s = %.2f %s\n", baseSymbol, rate, CurrencySymbol(code)))
	}
	return strings.TrimSpace(b.String()), nil
}

// SetMainCurrency changes the user's preferred display currency. Returns
// false and leaves the user untouched when the code is not supported.
func (s *ConverterService) SetMainCurrency(ctx context.Context, userID uint, code string) (bool, error) {
	code = strings.ToUpper(code)
	if !IsSupportedCurrency(code) {
		return false, nil
	}
	if err := s.userRepo.SetPreferredCurrency(ctx, userID, code); err != nil {
		return false, err
	}
	log.Printf("[info] set currency %s for user %d", code, userID)
	return true, nil
}

// ConverterCurrencies returns the user's quick-pick list, seeding the
// defaults (minus the main currency) on first access.
func (s *ConverterService) ConverterCurrencies(ctx context.Context, userID uint, mainCurrency string) ([]string, error) {
	codes, err := s.prefRepo.ListCodes(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(codes) > 0 {
		return codes, nil
	}

	defaults := make([]string, 0, maxConverterCurrencies)
	for _, code := range DefaultConverterCurrencies {
		if code == mainCurrency {
			continue
		}
		defaults = append(defaults, code)
		if len(defaults) == maxConverterCurrencies {
			break
		}
	}
	if err := s.prefRepo.Replace(ctx, userID, defaults); err != nil {
		return nil, err
	}
	log.Printf("[info] created default converter currencies for user %d", userID)
	return defaults, nil
}

// SetConverterCurrencies replaces the quick-pick list. The main currency is
// dropped from the input; anything unsupported or oversized is rejected.
func (s *ConverterService) SetConverterCurrencies(ctx context.Context, userID uint, mainCurrency string, codes []string) (bool, error) {
	if len(codes) == 0 || len(codes) > maxConverterCurrencies {
		return false, nil
	}
	cleaned := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(code)
		if !IsSupportedCurrency(code) {
			return false, nil
		}
		if code == mainCurrency {
			continue
		}
		cleaned = append(cleaned, code)
	}
	if len(cleaned) == 0 {
		return false, nil
	}
	if err := s.prefRepo.Replace(ctx, userID, cleaned); err != nil {
		return false, err
	}
	log.Printf("[info] set converter currencies for user %d: %v", userID, cleaned)
	return true, nil
}
