package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"finance-bot/internal/repository"
)

type fakeRateSource struct {
	rates map[string]float64
	err   error
	calls int
}

func (f *fakeRateSource) Rates(ctx context.Context, base string) (map[string]float64, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rates, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return db
}

func TestConvert(t *testing.T) {
	src := &fakeRateSource{rates: map[string]float64{"EUR": 0.9, "RUB": 90}}
	svc := NewConverterService(src, nil, nil)

	got, err := svc.Convert(context.Background(), decimal.NewFromInt(100), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "90.00", got.StringFixed(2))
}

func TestConvertSameCurrencySkipsNetwork(t *testing.T) {
	src := &fakeRateSource{}
	svc := NewConverterService(src, nil, nil)

	got, err := svc.Convert(context.Background(), decimal.NewFromInt(100), "USD", "USD")
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.StringFixed(2))
	assert.Zero(t, src.calls)

	normalized := svc.Normalize(context.Background(), decimal.NewFromInt(100), "EUR", "EUR")
	assert.Equal(t, "100.00", normalized.StringFixed(2))
	assert.Zero(t, src.calls)
}

func TestConvertSurfacesErrors(t *testing.T) {
	src := &fakeRateSource{err: errors.New("boom")}
	svc := NewConverterService(src, nil, nil)

	_, err := svc.Convert(context.Background(), decimal.NewFromInt(100), "USD", "EUR")
	assert.Error(t, err)

	src = &fakeRateSource{rates: map[string]float64{"EUR": 0.9}}
	_, err = NewConverterService(src, nil, nil).Convert(context.Background(), decimal.NewFromInt(1), "USD", "JPY")
	assert.Error(t, err)
}

func TestNormalizeFallsBackToOriginal(t *testing.T) {
	src := &fakeRateSource{err: errors.New("rates down")}
	svc := NewConverterService(src, nil, nil)

	amount := decimal.NewFromFloat(250.75)
	got := svc.Normalize(context.Background(), amount, "EUR", "USD")
	assert.True(t, amount.Equal(got))
}

func TestNormalizeConverts(t *testing.T) {
	src := &fakeRateSource{rates: map[string]float64{"USD": 1.1}}
	svc := NewConverterService(src, nil, nil)

	got := svc.Normalize(context.Background(), decimal.NewFromInt(100), "EUR", "USD")
	assert.Equal(t, "110.00", got.StringFixed(2))
}

func TestPopularRatesSingleFetch(t *testing.T) {
	src := &fakeRateSource{rates: map[string]float64{"EUR": 0.9, "RUB": 90, "GBP": 0.8}}
	svc := NewConverterService(src, nil, nil)

	text, err := svc.PopularRates(context.Background(), "USD", []string{"EUR", "RUB", "USD", "KZT"})
	require.NoError(t, err)
	assert.Equal(t, 1, src.calls)
	assert.Contains(t, text, "0.90 €")
	assert.Contains(t, text, "90.00 ₽")
	assert.NotContains(t, text, "KZT")
}

func TestSetMainCurrency(t *testing.T) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	svc := NewConverterService(&fakeRateSource{}, userRepo, nil)
	ctx := context.Background()

	user, err := userRepo.UpsertFromTelegram(ctx, 1001, "Alice", "", "alice")
	require.NoError(t, err)
	assert.Equal(t, "USD", user.PreferredCurrency)

	ok, err := svc.SetMainCurrency(ctx, user.ID, "eur")
	require.NoError(t, err)
	assert.True(t, ok)

	updated, err := userRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "EUR", updated.PreferredCurrency)

	ok, err = svc.SetMainCurrency(ctx, user.ID, "XXX")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConverterCurrenciesSeedsDefaults(t *testing.T) {
	db := newTestDB(t)
	prefRepo := repository.NewConverterCurrencyRepository(db)
	svc := NewConverterService(&fakeRateSource{}, nil, prefRepo)
	ctx := context.Background()

	codes, err := svc.ConverterCurrencies(ctx, 1, "USD")
	require.NoError(t, err)
	assert.NotEmpty(t, codes)
	assert.LessOrEqual(t, len(codes), 5)
	assert.NotContains(t, codes, "USD")

	again, err := svc.ConverterCurrencies(ctx, 1, "USD")
	require.NoError(t, err)
	assert.Equal(t, codes, again)
}

func TestSetConverterCurrencies(t *testing.T) {
	db := newTestDB(t)
	prefRepo := repository.NewConverterCurrencyRepository(db)
	svc := NewConverterService(&fakeRateSource{}, nil, prefRepo)
	ctx := context.Background()

	ok, err := svc.SetConverterCurrencies(ctx, 1, "USD", []string{"eur", "rub", "USD"})
	require.NoError(t, err)
	assert.True(t, ok)

	codes, err := svc.ConverterCurrencies(ctx, 1, "USD")
	require.NoError(t, err)
	assert.Equal(t, []string{"EUR", "RUB"}, codes)

	ok, err = svc.SetConverterCurrencies(ctx, 1, "USD", []string{"EUR", "XXX"})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.SetConverterCurrencies(ctx, 1, "USD", []string{"EUR", "RUB", "GBP", "CNY", "JPY", "KZT"})
	require.NoError(t, err)
	assert.False(t, ok)
}
