package commission

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trotropay/internal/store/memory"
	"trotropay/internal/types"
)

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSplitDefault(t *testing.T) {
	s := Split(types.MustMoney("100.00"), DefaultConfig())

	assert.Equal(t, "15.00", s.DriverShare.String())
	assert.Equal(t, "10.00", s.MateShare.String())
	assert.Equal(t, "5.00", s.PlatformFee.String())
	assert.Equal(t, "70.00", s.OwnerNet.String())
	assert.True(t, s.Drift().IsZero())
	assert.Equal(t, "30.00", s.Commissions().String())
}

func TestSplitReportsRoundingDrift(t *testing.T) {
	// 0.05 at 15/10/5: driver 0.0075, mate 0.005, platform 0.0025, owner 0.035.
	s := Split(types.MustMoney("0.05"), DefaultConfig())

	assert.Equal(t, "0.01", s.DriverShare.String())
	assert.Equal(t, "0.01", s.MateShare.String())
	assert.Equal(t, "0.00", s.PlatformFee.String())
	assert.Equal(t, "0.04", s.OwnerNet.String())
	assert.Equal(t, "-0.01", s.Drift().String())
}

func TestSplitZeroGross(t *testing.T) {
	s := Split(types.Zero, DefaultConfig())
	assert.True(t, s.OwnerNet.IsZero())
	assert.True(t, s.Drift().IsZero())
}

func TestSplitAdd(t *testing.T) {
	a := Split(types.MustMoney("3.50"), DefaultConfig())
	b := Split(types.MustMoney("1.50"), DefaultConfig())
	sum := a.Add(b)
	assert.Equal(t, "5.00", sum.Gross.String())
	assert.Equal(t, a.DriverShare.Add(b.DriverShare), sum.DriverShare)
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, Config{DriverPct: pct("50"), MatePct: pct("30"), PlatformPct: pct("20")}.Validate())

	for name, cfg := range map[string]Config{
		"negative":     {DriverPct: pct("-1"), MatePct: pct("10"), PlatformPct: pct("5")},
		"over hundred": {DriverPct: pct("101"), MatePct: pct("0"), PlatformPct: pct("0")},
		"sum too big":  {DriverPct: pct("60"), MatePct: pct("30"), PlatformPct: pct("10.5")},
	} {
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, name)
	}
}

func TestServiceFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.New())

	cfg, err := svc.ForOwner(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	saved, err := svc.Update(ctx, 4, Config{DriverPct: pct("20"), MatePct: pct("12.5"), PlatformPct: pct("5")})
	require.NoError(t, err)
	assert.True(t, saved.MatePct.Equal(pct("12.5")))

	cfg, err = svc.ForOwner(ctx, 4)
	require.NoError(t, err)
	assert.True(t, cfg.DriverPct.Equal(pct("20")))

	_, err = svc.Update(ctx, 4, Config{DriverPct: pct("90"), MatePct: pct("20")})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
