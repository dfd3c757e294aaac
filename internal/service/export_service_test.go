package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-bot/internal/model"
)

func TestTransactionsCSVNoData(t *testing.T) {
	f := newLedgerFixture(t, identityNormalizer{})
	export := NewExportService(f.ledger)

	_, err := export.TransactionsCSV(context.Background(), f.user)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestTransactionsCSV(t *testing.T) {
	f := newLedgerFixture(t, identityNormalizer{})
	export := NewExportService(f.ledger)
	ctx := context.Background()

	salary := f.category(t, "Salary", model.TypeIncome)
	food := f.category(t, "Food", model.TypeExpense)

	_, err := f.ledger.Record(ctx, f.user, decimal.NewFromInt(1000), model.TypeIncome, salary.ID, "paycheck")
	require.NoError(t, err)
	_, err = f.ledger.Record(ctx, f.user, decimal.NewFromFloat(59.99), model.TypeExpense, food.ID, "groceries")
	require.NoError(t, err)

	data, err := export.TransactionsCSV(ctx, f.user)
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Category", "Type", "Amount (USD)", "Description"}, rows[0])

	// Two data rows, blank spacer, three summary rows.
	require.Len(t, rows, 7)
	last := rows[len(rows)-1]
	assert.Equal(t, "Balance", last[0])
	assert.Equal(t, "940.01", last[3])
	assert.Equal(t, "Income", rows[4][0])
	assert.Equal(t, "1000.00", rows[4][3])
	assert.Equal(t, "Expenses", rows[5][0])
	assert.Equal(t, "59.99", rows[5][3])
}

func TestTransactionsCSVSkipsCorruptInTotals(t *testing.T) {
	f := newLedgerFixture(t, identityNormalizer{})
	export := NewExportService(f.ledger)
	ctx := context.Background()

	food := f.category(t, "Food", model.TypeExpense)
	tx, err := f.ledger.Record(ctx, f.user, decimal.NewFromInt(30), model.TypeExpense, food.ID, "")
	require.NoError(t, err)
	_, err = f.ledger.Record(ctx, f.user, decimal.NewFromInt(10), model.TypeExpense, food.ID, "")
	require.NoError(t, err)

	err = f.db.Model(&model.Transaction{}).Where("id = ?", tx.ID).
		Update("amount", []byte("garbage")).Error
	require.NoError(t, err)

	data, err := export.TransactionsCSV(ctx, f.user)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "unreadable")

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	last := rows[len(rows)-1]
	assert.Equal(t, "Balance", last[0])
	assert.Equal(t, "-10.00", last[3])
}
