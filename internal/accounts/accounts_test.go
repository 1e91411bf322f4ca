package accounts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"trotropay/internal/models"
	"trotropay/internal/store/memory"
	"trotropay/internal/types"
)

func newService() *Service {
	return NewService(memory.New(), Options{
		StartingBalance: types.MustMoney("5.00"),
		HashCost:        bcrypt.MinCost,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	u, err := svc.Register(ctx, Registration{Name: "Ama Serwaa", Phone: "024 123-4567", PIN: "4321"})
	require.NoError(t, err)
	assert.Equal(t, models.RolePassenger, u.Role)
	assert.Equal(t, "0241234567", u.Phone)
	assert.Equal(t, "5.00", u.Balance.String())
	assert.NotEqual(t, "4321", u.PinHash)

	got, err := svc.Login(ctx, "0241234567", "4321")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.Login(ctx, "0241234567", "0000")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "0200000000", "4321")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCrewStartsWithEmptyWallet(t *testing.T) {
	u, err := newService().Register(context.Background(), Registration{
		Name: "Kojo", Phone: "0551234567", PIN: "123456", Role: "Driver",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDriver, u.Role)
	assert.True(t, u.Balance.IsZero())
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, err := svc.Register(ctx, Registration{Name: "Ama", Phone: "0241234567", PIN: "4321"})
	require.NoError(t, err)

	tests := map[string]struct {
		in   Registration
		want error
	}{
		"taken phone": {Registration{Name: "Esi", Phone: "0241234567", PIN: "1111"}, ErrPhoneTaken},
		"no name":     {Registration{Phone: "0201111111", PIN: "1111"}, ErrNameRequired},
		"short phone": {Registration{Name: "Esi", Phone: "02411", PIN: "1111"}, ErrInvalidPhone},
		"short pin":   {Registration{Name: "Esi", Phone: "0201111111", PIN: "12"}, ErrInvalidPIN},
		"letters pin": {Registration{Name: "Esi", Phone: "0201111111", PIN: "abcd"}, ErrInvalidPIN},
		"bad role":    {Registration{Name: "Esi", Phone: "0201111111", PIN: "1111", Role: "conductor"}, ErrInvalidRole},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGet(t *testing.T) {
	_, err := newService().Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
