package fleet_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"trotropay/internal/fleet"
	"trotropay/internal/models"
	"trotropay/internal/seed"
	"trotropay/internal/store"
	"trotropay/internal/store/memory"
)

type crew struct {
	passenger, mate, driver, owner uint
}

func setup(t *testing.T) (*fleet.Service, store.Store, crew) {
	t.Helper()
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, seed.Demo(ctx, st, bcrypt.MinCost))

	id := func(phone string) uint {
		u, err := st.GetUserByPhone(ctx, phone)
		require.NoError(t, err)
		return u.ID
	}
	return fleet.NewService(st), st, crew{
		passenger: id("0245678901"),
		mate:      id("0234567890"),
		driver:    id("0223456789"),
		owner:     id("0212345678"),
	}
}

func TestCreateVehicle(t *testing.T) {
	svc, st, c := setup(t)
	ctx := context.Background()
	route, err := st.GetRouteByName(ctx, "Tema - Accra")
	require.NoError(t, err)

	v, err := svc.Create(ctx, c.owner, fleet.NewVehicle{Code: " gt-4321-22 ", RouteID: &route.ID, MaxCapacity: 14})
	require.NoError(t, err)
	assert.Equal(t, "GT-4321-22", v.Code)
	assert.True(t, v.IsActive)
	require.NotNil(t, v.RouteName)
	assert.Equal(t, "Tema - Accra", *v.RouteName)

	_, err = svc.Create(ctx, c.owner, fleet.NewVehicle{Code: "GT-4321-22"})
	assert.ErrorIs(t, err, fleet.ErrVehicleExists)
	_, err = svc.Create(ctx, c.owner, fleet.NewVehicle{Code: ""})
	assert.ErrorIs(t, err, fleet.ErrInvalidVehicle)
	missing := uint(999)
	_, err = svc.Create(ctx, c.owner, fleet.NewVehicle{Code: "GT-1", RouteID: &missing})
	assert.ErrorIs(t, err, fleet.ErrRouteNotFound)

	mine, err := svc.ListForOwner(ctx, c.owner)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestOnlyDriverChangesRoute(t *testing.T) {
	svc, st, c := setup(t)
	ctx := context.Background()
	route, err := st.GetRouteByName(ctx, "Tema - Accra")
	require.NoError(t, err)

	_, _, err = svc.AssignRoute(ctx, c.mate, "GT-1234-20", route.ID)
	assert.ErrorIs(t, err, fleet.ErrNotDriver)

	v, r, err := svc.AssignRoute(ctx, c.driver, "GT-1234-20", route.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tema - Accra", r.Name)
	assert.True(t, v.OnRoute("Tema - Accra"))

	_, _, err = svc.AssignRoute(ctx, c.driver, "GT-0000-00", route.ID)
	assert.ErrorIs(t, err, fleet.ErrVehicleNotFound)
}

func TestAssignCrew(t *testing.T) {
	svc, _, c := setup(t)
	ctx := context.Background()

	_, err := svc.AssignCrew(ctx, c.owner, "GT-1234-20", fleet.Crew{DriverID: &c.mate})
	assert.ErrorIs(t, err, fleet.ErrInvalidCrew)

	_, err = svc.AssignCrew(ctx, c.driver, "GT-1234-20", fleet.Crew{DriverID: &c.driver})
	assert.ErrorIs(t, err, fleet.ErrNotOwner)

	v, err := svc.AssignCrew(ctx, c.owner, "GT-1234-20", fleet.Crew{DriverID: &c.driver})
	require.NoError(t, err)
	assert.Nil(t, v.MateID)
	assert.Equal(t, []uint{c.driver, c.owner}, v.Crew())
}

func TestBoardAndAlightClamp(t *testing.T) {
	svc, _, c := setup(t)
	ctx := context.Background()

	v, err := svc.Board(ctx, c.mate, "GT-1234-20", 5)
	require.NoError(t, err)
	assert.Equal(t, 5, v.CurrentPassengers)

	v, err = svc.Board(ctx, c.mate, "GT-1234-20", 50)
	require.NoError(t, err)
	assert.Equal(t, v.MaxCapacity, v.CurrentPassengers)

	v, err = svc.Alight(ctx, c.driver, "GT-1234-20", 100)
	require.NoError(t, err)
	assert.Zero(t, v.CurrentPassengers)

	_, err = svc.Board(ctx, c.passenger, "GT-1234-20", 1)
	assert.ErrorIs(t, err, fleet.ErrNotCrew)
	_, err = svc.Board(ctx, c.mate, "GT-1234-20", 0)
	assert.ErrorIs(t, err, fleet.ErrInvalidCount)
}

func TestSetActive(t *testing.T) {
	svc, _, c := setup(t)
	ctx := context.Background()

	v, err := svc.SetActive(ctx, c.owner, "GT-1234-20", false)
	require.NoError(t, err)
	assert.False(t, v.IsActive)

	_, err = svc.SetActive(ctx, c.mate, "GT-1234-20", true)
	assert.ErrorIs(t, err, fleet.ErrNotOwner)
}

func TestForCrewAndTransactions(t *testing.T) {
	svc, st, c := setup(t)
	ctx := context.Background()

	v, err := svc.ForCrew(ctx, c.mate)
	require.NoError(t, err)
	assert.True(t, v.IsMate(c.mate))

	_, err = svc.ForCrew(ctx, c.passenger)
	assert.ErrorIs(t, err, fleet.ErrVehicleNotFound)

	require.NoError(t, st.CreateTransaction(ctx, &models.Transaction{
		Reference: "ref-1", PassengerID: c.passenger, VehicleID: v.ID, OwnerID: c.owner,
	}))
	txns, err := svc.Transactions(ctx, c.owner, v.Code, time.Time{})
	require.NoError(t, err)
	assert.Len(t, txns, 1)

	_, err = svc.Transactions(ctx, c.passenger, v.Code, time.Time{})
	assert.ErrorIs(t, err, fleet.ErrNotCrew)
}

func TestPaymentURI(t *testing.T) {
	assert.Equal(t, "trotropay://payment/GT-1234-20", fleet.PaymentURI("GT-1234-20"))
}
