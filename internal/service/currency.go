package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SupportedCurrencies is the fixed set a user may pick as preferred or
// converter currency.
var SupportedCurrencies = []string{"RUB", "USD", "EUR", "GBP", "CNY", "JPY", "KZT", "BYN"}

// DefaultConverterCurrencies seeds a new user's converter quick-pick list.
var DefaultConverterCurrencies = []string{"USD", "EUR", "GBP", "CNY", "JPY"}

var currencySymbols = map[string]string{
	"RUB": "₽",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CNY": "¥",
	"JPY": "¥",
	"KZT": "₸",
	"BYN": "Br",
}

// IsSupportedCurrency reports whether code is in the supported set.
func IsSupportedCurrency(code string) bool {
	code = strings.ToUpper(code)
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// CurrencySymbol returns the display symbol for a code, falling back to the
// code itself.
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code
}

// FormatAmount renders an amount with the currency's symbol, two decimal
// places.
func FormatAmount(amount decimal.Decimal, code string) string {
	return fmt.Sprintf("%s %s", amount.StringFixed(2), CurrencySymbol(code))
}
