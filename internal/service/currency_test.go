package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsSupportedCurrency(t *testing.T) {
	assert.True(t, IsSupportedCurrency("USD"))
	assert.True(t, IsSupportedCurrency("rub"))
	assert.False(t, IsSupportedCurrency("XXX"))
	assert.False(t, IsSupportedCurrency(""))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1234.50 $", FormatAmount(decimal.NewFromFloat(1234.5), "USD"))
	assert.Equal(t, "0.99 €", FormatAmount(decimal.NewFromFloat(0.99), "EUR"))
	assert.Equal(t, "10.00 CHF", FormatAmount(decimal.NewFromInt(10), "CHF"))
}
