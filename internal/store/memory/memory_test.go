package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trotropay/internal/models"
	"trotropay/internal/store"
	"trotropay/internal/types"
)

func TestAtomicRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{Phone: "0245678901", Role: models.RolePassenger, Balance: types.MustMoney("25.40")}
	require.NoError(t, s.CreateUser(ctx, u))

	boom := errors.New("boom")
	err := s.Atomic(ctx, func(tx store.Store) error {
		require.NoError(t, tx.SetBalance(ctx, u.ID, types.MustMoney("1.00")))
		require.NoError(t, tx.CreateTransaction(ctx, &models.Transaction{Reference: "r1", PassengerID: u.ID}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.40", got.Balance.String())
	txns, err := s.ListTransactionsByPassenger(ctx, u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestNestedAtomicJoinsOuter(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := &models.User{Phone: "0245678901", Balance: types.MustMoney("10.00")}
	require.NoError(t, s.CreateUser(ctx, u))

	err := s.Atomic(ctx, func(tx store.Store) error {
		require.NoError(t, tx.Atomic(ctx, func(inner store.Store) error {
			return inner.SetBalance(ctx, u.ID, types.MustMoney("5.00"))
		}))
		// A failing inner unit leaves the outer one intact.
		_ = tx.Atomic(ctx, func(inner store.Store) error {
			_ = inner.SetBalance(ctx, u.ID, types.MustMoney("0.00"))
			return errors.New("inner failed")
		})
		got, err := tx.GetUser(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "5.00", got.Balance.String())
		return nil
	})
	require.NoError(t, err)

	got, err := s.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "5.00", got.Balance.String())
}

func TestUniqueKeys(t *testing.T) {
	ctx := context.Background()
	s := New()

	require.NoError(t, s.CreateUser(ctx, &models.User{Phone: "0245678901"}))
	assert.ErrorIs(t, s.CreateUser(ctx, &models.User{Phone: "0245678901"}), store.ErrConflict)

	require.NoError(t, s.CreateRoute(ctx, &models.Route{Name: "Circle - Lapaz"}))
	assert.ErrorIs(t, s.CreateRoute(ctx, &models.Route{Name: "Circle - Lapaz"}), store.ErrConflict)

	_, err := s.GetUser(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.GetCommission(ctx, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestReturnedRowsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	r := &models.Route{Name: "Tema - Accra", Stops: []string{"Tema", "Accra"}}
	require.NoError(t, s.CreateRoute(ctx, r))

	got, err := s.GetRoute(ctx, r.ID)
	require.NoError(t, err)
	got.Stops[0] = "Changed"

	again, err := s.GetRoute(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tema", again.Stops[0])
}

func TestUpdateRouteKeepsRowOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	r := &models.Route{Name: "Tema - Accra", Stops: []string{"Tema", "Accra"}}
	require.NoError(t, s.CreateRoute(ctx, r))

	_, err := s.UpdateRoute(ctx, r.ID, func(r *models.Route) error {
		r.Stops = nil
		return errors.New("rejected")
	})
	require.Error(t, err)

	got, err := s.GetRoute(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tema", "Accra"}, []string(got.Stops))
}

func TestTransactionOrdering(t *testing.T) {
	ctx := context.Background()
	s := New()
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	for i, ref := range []string{"a", "b", "c"} {
		require.NoError(t, s.CreateTransaction(ctx, &models.Transaction{
			Reference:   ref,
			PassengerID: 1,
			VehicleID:   7,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}))
	}

	mine, err := s.ListTransactionsByPassenger(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "c", mine[0].Reference)
	assert.Equal(t, "b", mine[1].Reference)

	since, err := s.ListTransactionsByVehicle(ctx, 7, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, since, 2)
	assert.Equal(t, "b", since[0].Reference)
	assert.Equal(t, "c", since[1].Reference)
}

func TestSaveCommissionUpserts(t *testing.T) {
	ctx := context.Background()
	s := New()
	first := &models.Commission{OwnerID: 4}
	require.NoError(t, s.SaveCommission(ctx, first))
	second := &models.Commission{OwnerID: 4}
	require.NoError(t, s.SaveCommission(ctx, second))
	assert.Equal(t, first.ID, second.ID)
}
