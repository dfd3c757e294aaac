package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finance-bot/internal/model"
	"finance-bot/internal/repository"
)

var ErrInvalidGoalName = errors.New("goal name must be 1-100 characters")

// GoalService manages savings goals. Progress is a naive even split of all
// income across unachieved goals, recomputed on every read. The recompute is
// a read-modify-write without locking; concurrent edits may lose updates.
type GoalService struct {
	goalRepo *repository.GoalRepository
	txRepo   *repository.TransactionRepository
	codec    AmountCodec
}

func NewGoalService(goalRepo *repository.GoalRepository, txRepo *repository.TransactionRepository, codec AmountCodec) *GoalService {
	return &GoalService{goalRepo: goalRepo, txRepo: txRepo, codec: codec}
}

// Create adds a goal with a positive target and optional deadline.
func (s *GoalService) Create(ctx context.Context, user *model.User, name string, target decimal.Decimal, deadline *time.Time) (*model.Goal, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > 100 {
		return nil, ErrInvalidGoalName
	}
	if !target.IsPositive() || target.GreaterThan(maxAmount) {
		return nil, ErrInvalidAmount
	}

	goal := model.Goal{
		UserID:        user.ID,
		Name:          name,
		TargetAmount:  target,
		CurrentAmount: decimal.Zero,
		Deadline:      deadline,
	}
	if err := s.goalRepo.Create(ctx, &goal); err != nil {
		return nil, err
	}
	log.Printf("[info] goal created user=%d name=%q target=%s", user.ID, name, target)
	return &goal, nil
}

// List returns the user's goals without recomputing progress.
func (s *GoalService) List(ctx context.Context, user *model.User) ([]model.Goal, error) {
	return s.goalRepo.ListByUser(ctx, user.ID)
}

// ListWithProgress recomputes each unachieved goal's progress from the
// user's total income, persists the result, and returns all goals.
// Achieved holds exactly when current >= target.
func (s *GoalService) ListWithProgress(ctx context.Context, user *model.User) ([]model.Goal, error) {
	goals, err := s.goalRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return goals, nil
	}

	totalIncome, err := s.totalIncome(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	active := 0
	for _, goal := range goals {
		if !goal.Achieved {
			active++
		}
	}
	if active == 0 {
		return goals, nil
	}

	share := totalIncome.Div(decimal.NewFromInt(int64(active)))
	for i := range goals {
		goal := &goals[i]
		if goal.Achieved {
			continue
		}
		goal.CurrentAmount = decimal.Min(share, goal.TargetAmount)
		if goal.CurrentAmount.GreaterThanOrEqual(goal.TargetAmount) {
			goal.Achieved = true
		}
		if err := s.goalRepo.Save(ctx, goal); err != nil {
			return nil, err
		}
	}
	return goals, nil
}

func (s *GoalService) Delete(ctx context.Context, user *model.User, goalID uint) error {
	return s.goalRepo.Delete(ctx, user.ID, goalID)
}

func (s *GoalService) totalIncome(ctx context.Context, userID uint) (decimal.Decimal, error) {
	txs, err := s.txRepo.ListByType(ctx, userID, model.TypeIncome)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load income: %w", err)
	}
	total := decimal.Zero
	for _, tx := range txs {
		amount, err := s.codec.Decrypt(tx.Amount)
		if err != nil {
			log.Printf("decrypt transaction %d: %v", tx.ID, err)
			continue
		}
		total = total.Add(amount)
	}
	return total, nil
}
