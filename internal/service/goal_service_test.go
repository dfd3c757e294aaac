package service

import (
	"context"
	"crypto/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-bot/internal/crypto"
	"finance-bot/internal/model"
	"finance-bot/internal/repository"
)

type goalFixture struct {
	ledger *LedgerService
	goals  *GoalService
	user   *model.User
}

func newGoalFixture(t *testing.T) *goalFixture {
	t.Helper()
	db := newTestDB(t)

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	codec, err := crypto.NewCodecWithKey(key)
	require.NoError(t, err)

	txRepo := repository.NewTransactionRepository(db)
	users := repository.NewUserRepository(db)
	ledger := NewLedgerService(txRepo, repository.NewCategoryRepository(db), codec, identityNormalizer{})
	goals := NewGoalService(repository.NewGoalRepository(db), txRepo, codec)

	user, err := users.UpsertFromTelegram(context.Background(), 55, "Sam", "", "sam")
	require.NoError(t, err)

	return &goalFixture{ledger: ledger, goals: goals, user: user}
}

func (f *goalFixture) addIncome(t *testing.T, amount int64) {
	t.Helper()
	ctx := context.Background()
	cats, err := f.ledger.Categories(ctx, f.user, model.TypeIncome)
	require.NoError(t, err)
	_, err = f.ledger.Record(ctx, f.user, decimal.NewFromInt(amount), model.TypeIncome, cats[0].ID, "")
	require.NoError(t, err)
}

func TestGoalCreateValidation(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()

	_, err := f.goals.Create(ctx, f.user, "   ", decimal.NewFromInt(100), nil)
	assert.ErrorIs(t, err, ErrInvalidGoalName)

	_, err = f.goals.Create(ctx, f.user, "Vacation", decimal.NewFromInt(-1), nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	deadline := time.Now().AddDate(0, 3, 0)
	goal, err := f.goals.Create(ctx, f.user, "Vacation", decimal.NewFromInt(1000), &deadline)
	require.NoError(t, err)
	assert.Equal(t, "Vacation", goal.Name)
	assert.False(t, goal.Achieved)
	assert.True(t, goal.CurrentAmount.IsZero())
}

func TestGoalProgressEvenSplit(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()

	_, err := f.goals.Create(ctx, f.user, "Vacation", decimal.NewFromInt(1000), nil)
	require.NoError(t, err)
	_, err = f.goals.Create(ctx, f.user, "Laptop", decimal.NewFromInt(200), nil)
	require.NoError(t, err)

	f.addIncome(t, 600)

	goals, err := f.goals.ListWithProgress(ctx, f.user)
	require.NoError(t, err)
	require.Len(t, goals, 2)

	byName := map[string]model.Goal{}
	for _, g := range goals {
		byName[g.Name] = g
	}

	// 600 split across two active goals, capped at the target.
	assert.Equal(t, "300.00", byName["Vacation"].CurrentAmount.StringFixed(2))
	assert.False(t, byName["Vacation"].Achieved)
	assert.Equal(t, "200.00", byName["Laptop"].CurrentAmount.StringFixed(2))
	assert.True(t, byName["Laptop"].Achieved)
}

func TestGoalProgressPersistsAcrossReads(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()

	_, err := f.goals.Create(ctx, f.user, "Car", decimal.NewFromInt(500), nil)
	require.NoError(t, err)
	f.addIncome(t, 700)

	_, err = f.goals.ListWithProgress(ctx, f.user)
	require.NoError(t, err)

	goals, err := f.goals.List(ctx, f.user)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.True(t, goals[0].Achieved)
	assert.Equal(t, "500.00", goals[0].CurrentAmount.StringFixed(2))
}

func TestGoalDelete(t *testing.T) {
	f := newGoalFixture(t)
	ctx := context.Background()

	goal, err := f.goals.Create(ctx, f.user, "Bike", decimal.NewFromInt(300), nil)
	require.NoError(t, err)

	require.NoError(t, f.goals.Delete(ctx, f.user, goal.ID))

	goals, err := f.goals.List(ctx, f.user)
	require.NoError(t, err)
	assert.Empty(t, goals)
}
