package wallet

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trotropay/internal/models"
	"trotropay/internal/store/memory"
	"trotropay/internal/types"
)

func newLedger(t *testing.T, balance string) (*Ledger, uint) {
	t.Helper()
	st := memory.New()
	u := &models.User{Phone: "0245678901", Role: models.RolePassenger, Balance: types.MustMoney(balance)}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return NewLedger(st), u.ID
}

func TestDebit(t *testing.T) {
	ctx := context.Background()
	l, id := newLedger(t, "25.40")

	balance, err := l.Debit(ctx, id, types.MustMoney("3.50"))
	require.NoError(t, err)
	assert.Equal(t, "21.90", balance.String())

	got, err := l.GetBalance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "21.90", got.String())
}

func TestDebitExactBalance(t *testing.T) {
	l, id := newLedger(t, "3.50")
	balance, err := l.Debit(context.Background(), id, types.MustMoney("3.50"))
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestInsufficientBalanceLeavesBalance(t *testing.T) {
	ctx := context.Background()
	l, id := newLedger(t, "21.90")

	_, err := l.Debit(ctx, id, types.MustMoney("30.00"))
	require.ErrorIs(t, err, ErrInsufficientBalance)

	got, err := l.GetBalance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "21.90", got.String())
}

func TestRejectsNonPositiveAmounts(t *testing.T) {
	ctx := context.Background()
	l, id := newLedger(t, "5.00")

	_, err := l.Debit(ctx, id, types.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = l.Credit(ctx, id, types.MustMoney("-1.00"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestUnknownUser(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t, "5.00")

	_, err := l.GetBalance(ctx, 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = l.Debit(ctx, 99, types.MustMoney("1.00"))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCredit(t *testing.T) {
	l, id := newLedger(t, "0.00")
	balance, err := l.Credit(context.Background(), id, types.MustMoney("10.10"))
	require.NoError(t, err)
	assert.Equal(t, "10.10", balance.String())
}

func TestCreditLimits(t *testing.T) {
	ctx := context.Background()
	l, id := newLedger(t, "99999000.00")

	_, err := l.Credit(ctx, id, types.MustMoney("5000.01"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	balance, err := l.Credit(ctx, id, types.MustMoney("999.99"))
	require.NoError(t, err)
	assert.Equal(t, "99999999.99", balance.String())

	_, err = l.Credit(ctx, id, types.MustMoney("0.01"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	got, err := l.GetBalance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "99999999.99", got.String())
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	l, id := newLedger(t, "25.40")

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := l.Debit(ctx, id, types.MustMoney("3.00")); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, succeeded)
	got, err := l.GetBalance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "1.40", got.String())
}
