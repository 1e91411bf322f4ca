// Package wallet moves money in and out of user balances. A balance never
// goes below zero.
package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"trotropay/internal/models"
	"trotropay/internal/store"
	"trotropay/internal/types"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrUserNotFound        = errors.New("user not found")
)

var (
	// MaxCredit caps a single top-up.
	MaxCredit = types.MustMoney("5000.00")
	// MaxBalance is the largest balance the numeric(10,2) column holds.
	MaxBalance = types.MustMoney("99999999.99")
)

// Accounts is the part of store.Store the ledger needs.
type Accounts interface {
	Atomic(ctx context.Context, fn func(tx store.Store) error) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
}

type Ledger struct {
	accounts Accounts
}

// NewLedger returns a ledger over accounts. Passing the Store of an open
// Atomic makes debits and credits part of that unit of work.
func NewLedger(accounts Accounts) *Ledger {
	return &Ledger{accounts: accounts}
}

func (l *Ledger) GetBalance(ctx context.Context, userID uint) (types.Money, error) {
	u, err := l.accounts.GetUser(ctx, userID)
	if err != nil {
		return types.Zero, userErr(err, userID)
	}
	return u.Balance, nil
}

// Debit takes amount from the user's balance and returns the new balance.
// The user row stays locked until the surrounding transaction ends, so
// concurrent debits for one user run one after another.
func (l *Ledger) Debit(ctx context.Context, userID uint, amount types.Money) (types.Money, error) {
	if !amount.IsPositive() {
		return types.Zero, ErrInvalidAmount
	}
	var balance types.Money
	err := l.accounts.Atomic(ctx, func(tx store.Store) error {
		u, err := tx.LockUser(ctx, userID)
		if err != nil {
			return userErr(err, userID)
		}
		if amount.GreaterThan(u.Balance) {
			return fmt.Errorf("%w: balance %s, needed %s", ErrInsufficientBalance, u.Balance, amount)
		}
		balance = u.Balance.Sub(amount)
		return tx.SetBalance(ctx, userID, balance)
	})
	if err != nil {
		return types.Zero, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  amount.String(),
		"balance": balance.String(),
	}).Debug("Wallet debited")
	return balance, nil
}

// Credit adds amount to the user's balance and returns the new balance.
func (l *Ledger) Credit(ctx context.Context, userID uint, amount types.Money) (types.Money, error) {
	if !amount.IsPositive() {
		return types.Zero, ErrInvalidAmount
	}
	if amount.GreaterThan(MaxCredit) {
		return types.Zero, fmt.Errorf("%w: top-up above %s", ErrInvalidAmount, MaxCredit)
	}
	var balance types.Money
	err := l.accounts.Atomic(ctx, func(tx store.Store) error {
		u, err := tx.LockUser(ctx, userID)
		if err != nil {
			return userErr(err, userID)
		}
		balance = u.Balance.Add(amount)
		if balance.GreaterThan(MaxBalance) {
			return fmt.Errorf("%w: balance would exceed %s", ErrInvalidAmount, MaxBalance)
		}
		return tx.SetBalance(ctx, userID, balance)
	})
	if err != nil {
		return types.Zero, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  amount.String(),
		"balance": balance.String(),
	}).Info("Wallet credited")
	return balance, nil
}

func userErr(err error, userID uint) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	return err
}
