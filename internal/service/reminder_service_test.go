package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance-bot/internal/model"
	"finance-bot/internal/repository"
)

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) SendReminder(chatID int64, message string) error {
	f.sent = append(f.sent, message)
	return f.err
}

func newReminderFixture(t *testing.T) (*ReminderService, *model.User) {
	t.Helper()
	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	svc := NewReminderService(repository.NewReminderRepository(db), users)

	user, err := users.UpsertFromTelegram(context.Background(), 77, "Pat", "", "pat")
	require.NoError(t, err)
	return svc, user
}

func TestReminderCreateValidation(t *testing.T) {
	svc, user := newReminderFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, user, "  ", time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrInvalidReminderText)

	_, err = svc.Create(ctx, user, "Pay rent", time.Now().Add(-time.Minute))
	assert.ErrorIs(t, err, ErrReminderInPast)

	reminder, err := svc.Create(ctx, user, "Pay rent", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, reminder.IsActive)
}

func TestSweepDueDeliversAndDeactivates(t *testing.T) {
	svc, user := newReminderFixture(t)
	ctx := context.Background()

	due, err := svc.Create(ctx, user, "Pay rent", time.Now().Add(50*time.Millisecond))
	require.NoError(t, err)
	_, err = svc.Create(ctx, user, "Renew insurance", time.Now().Add(24*time.Hour))
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)

	sender := &fakeSender{}
	require.NoError(t, svc.SweepDue(ctx, sender))
	assert.Equal(t, []string{"Pay rent"}, sender.sent)

	active, err := svc.ListActive(ctx, user)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.NotEqual(t, due.ID, active[0].ID)

	// A second sweep finds nothing due.
	require.NoError(t, svc.SweepDue(ctx, sender))
	assert.Len(t, sender.sent, 1)
}

func TestSweepDueDeactivatesOnSendFailure(t *testing.T) {
	svc, user := newReminderFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, user, "Pay rent", time.Now().Add(50*time.Millisecond))
	require.NoError(t, err)
	time.Sleep(100 * time.Millisecond)

	sender := &fakeSender{err: errors.New("chat blocked")}
	require.NoError(t, svc.SweepDue(ctx, sender))
	assert.Len(t, sender.sent, 1)

	// Deactivated despite the failure, so it is never retried.
	active, err := svc.ListActive(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestReminderDelete(t *testing.T) {
	svc, user := newReminderFixture(t)
	ctx := context.Background()

	reminder, err := svc.Create(ctx, user, "Pay rent", time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user, reminder.ID))

	active, err := svc.ListActive(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, active)
}
