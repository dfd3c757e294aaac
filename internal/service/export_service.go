package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"finance-bot/internal/model"
)

// ErrNoData means there is nothing to export, as opposed to an empty but
// valid report.
var ErrNoData = errors.New("no data available")

const exportLimit = 100

// ExportService renders transaction reports for download. Amounts are
// display-normalized, so the report is in the user's current preferred
// currency.
type ExportService struct {
	ledger *LedgerService
}

func NewExportService(ledger *LedgerService) *ExportService {
	return &ExportService{ledger: ledger}
}

// TransactionsCSV exports the user's last transactions as a CSV document
// with income/expense/balance summary rows.
func (s *ExportService) TransactionsCSV(ctx context.Context, user *model.User) ([]byte, error) {
	views, err := s.ledger.ListRecent(ctx, user, exportLimit)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Date", "Category", "Type", fmt.Sprintf("Amount (%s)", user.PreferredCurrency), "Description"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	totalIncome := decimal.Zero
	totalExpense := decimal.Zero
	for _, view := range views {
		amount := view.Amount.StringFixed(2)
		if view.Corrupt {
			amount = "unreadable"
		} else if view.Type == model.TypeIncome {
			totalIncome = totalIncome.Add(view.Amount)
		} else {
			totalExpense = totalExpense.Add(view.Amount)
		}
		record := []string{
			view.Date.Format("02.01.2006 15:04"),
			view.CategoryName,
			view.Type,
			amount,
			view.Description,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write record: %w", err)
		}
	}

	summary := [][]string{
		{},
		{"Income", "", "", totalIncome.StringFixed(2), ""},
		{"Expenses", "", "", totalExpense.StringFixed(2), ""},
		{"Balance", "", "", totalIncome.Sub(totalExpense).StringFixed(2), ""},
	}
	for _, row := range summary {
		if len(row) == 0 {
			row = []string{"", "", "", "", ""}
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write summary: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
