package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount("1234.56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", amount.StringFixed(2))

	for _, bad := range []string{"abc", "", "-5", "0", "1000000000.01", "12,50"} {
		_, err := parseAmount(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseCurrencyCode(t *testing.T) {
	code, ok := parseCurrencyCode(" usd ")
	assert.True(t, ok)
	assert.Equal(t, "USD", code)

	for _, bad := range []string{"US", "USDD", "U5D", "", "$$$"} {
		_, ok := parseCurrencyCode(bad)
		assert.False(t, ok, "input %q", bad)
	}
}

func TestIsCancelInput(t *testing.T) {
	assert.True(t, isCancelInput("cancel"))
	assert.True(t, isCancelInput("  Cancel "))
	assert.True(t, isCancelInput(btnCancel))
	assert.False(t, isCancelInput("continue"))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", progressBar(0))
	assert.Equal(t, "█████░░░░░", progressBar(55))
	assert.Equal(t, "██████████", progressBar(100))
	assert.Equal(t, "██████████", progressBar(250))
}

func TestHumanizeUntil(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "in 3 days", humanizeUntil(now.Add(72*time.Hour), now))
	assert.Equal(t, "in 5 hours", humanizeUntil(now.Add(5*time.Hour+10*time.Minute), now))
	assert.Equal(t, "in 30 minutes", humanizeUntil(now.Add(30*time.Minute), now))
	assert.Equal(t, "in 1 minutes", humanizeUntil(now.Add(10*time.Second), now))
}
