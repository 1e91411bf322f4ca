// Package commission splits a gross fare between driver, mate, platform and
// owner.
package commission

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"trotropay/internal/models"
	"trotropay/internal/store"
	"trotropay/internal/types"
)

var ErrInvalidConfig = errors.New("commission percentages must be between 0 and 100 and sum to at most 100")

var hundred = decimal.NewFromInt(100)

// Config holds percentages, e.g. 15 for 15%. The owner keeps the remainder.
type Config struct {
	DriverPct   decimal.Decimal `json:"driverCommission"`
	MatePct     decimal.Decimal `json:"mateCommission"`
	PlatformPct decimal.Decimal `json:"platformFee"`
}

func DefaultConfig() Config {
	return Config{
		DriverPct:   decimal.NewFromInt(15),
		MatePct:     decimal.NewFromInt(10),
		PlatformPct: decimal.NewFromInt(5),
	}
}

func (c Config) Validate() error {
	for _, pct := range []decimal.Decimal{c.DriverPct, c.MatePct, c.PlatformPct} {
		if pct.IsNegative() || pct.GreaterThan(hundred) {
			return ErrInvalidConfig
		}
	}
	if c.DriverPct.Add(c.MatePct).Add(c.PlatformPct).GreaterThan(hundred) {
		return ErrInvalidConfig
	}
	return nil
}

// Shares is the result of Split.
type Shares struct {
	Gross       types.Money `json:"gross"`
	DriverShare types.Money `json:"driverShare"`
	MateShare   types.Money `json:"mateShare"`
	PlatformFee types.Money `json:"platformFee"`
	OwnerNet    types.Money `json:"ownerNet"`
}

// Split computes every share from the exact gross and rounds each one to
// pesewas on its own. The rounded shares can miss the gross by a pesewa or
// two; Drift reports the difference and nothing absorbs it.
func Split(gross types.Money, cfg Config) Shares {
	g := gross.Decimal()
	driver := g.Mul(cfg.DriverPct).Div(hundred)
	mate := g.Mul(cfg.MatePct).Div(hundred)
	platform := g.Mul(cfg.PlatformPct).Div(hundred)
	return Shares{
		Gross:       gross,
		DriverShare: types.FromDecimal(driver),
		MateShare:   types.FromDecimal(mate),
		PlatformFee: types.FromDecimal(platform),
		OwnerNet:    types.FromDecimal(g.Sub(driver).Sub(mate).Sub(platform)),
	}
}

// Drift is gross minus the sum of the rounded shares.
func (s Shares) Drift() types.Money {
	return s.Gross.Sub(s.DriverShare).Sub(s.MateShare).Sub(s.PlatformFee).Sub(s.OwnerNet)
}

// Add sums two splits, for totals over many transactions.
func (s Shares) Add(o Shares) Shares {
	return Shares{
		Gross:       s.Gross.Add(o.Gross),
		DriverShare: s.DriverShare.Add(o.DriverShare),
		MateShare:   s.MateShare.Add(o.MateShare),
		PlatformFee: s.PlatformFee.Add(o.PlatformFee),
		OwnerNet:    s.OwnerNet.Add(o.OwnerNet),
	}
}

// Commissions is what the owner pays out: driver, mate and platform.
func (s Shares) Commissions() types.Money {
	return s.DriverShare.Add(s.MateShare).Add(s.PlatformFee)
}

// Store is the part of store.Store the commission service needs.
type Store interface {
	GetCommission(ctx context.Context, ownerID uint) (*models.Commission, error)
	SaveCommission(ctx context.Context, c *models.Commission) error
}

type Service struct {
	store Store
}

func NewService(s Store) *Service {
	return &Service{store: s}
}

// ForOwner returns the owner's config, or DefaultConfig when none is on file.
func (s *Service) ForOwner(ctx context.Context, ownerID uint) (Config, error) {
	c, err := s.store.GetCommission(ctx, ownerID)
	if errors.Is(err, store.ErrNotFound) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}
	return Config{DriverPct: c.DriverPct, MatePct: c.MatePct, PlatformPct: c.PlatformPct}, nil
}

func (s *Service) Update(ctx context.Context, ownerID uint, cfg Config) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	row := &models.Commission{
		OwnerID:     ownerID,
		DriverPct:   cfg.DriverPct.Round(2),
		MatePct:     cfg.MatePct.Round(2),
		PlatformPct: cfg.PlatformPct.Round(2),
	}
	if err := s.store.SaveCommission(ctx, row); err != nil {
		return Config{}, fmt.Errorf("save commission for owner %d: %w", ownerID, err)
	}
	return Config{DriverPct: row.DriverPct, MatePct: row.MatePct, PlatformPct: row.PlatformPct}, nil
}
