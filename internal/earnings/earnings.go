// Package earnings builds the per-role dashboard summaries. All money
// splits go through the commission package using the vehicle owner's
// configuration.
package earnings

import (
	"context"
	"errors"
	"time"

	"trotropay/internal/commission"
	"trotropay/internal/models"
	"trotropay/internal/store"
	"trotropay/internal/types"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoVehicle    = errors.New("no vehicle assigned")
)

const (
	recentTrips    = 5
	recentPayments = 10
	weekDays       = 7
)

type Service struct {
	store       store.Store
	commissions *commission.Service
	now         func() time.Time
}

func NewService(st store.Store, commissions *commission.Service, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: st, commissions: commissions, now: now}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func gross(txns []models.Transaction) types.Money {
	total := types.Zero
	for _, t := range txns {
		total = total.Add(t.Amount)
	}
	return total
}

func (s *Service) user(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// optionalUser resolves a crew seat; an empty seat or a deleted user is nil.
func (s *Service) optionalUser(ctx context.Context, id *uint) (*models.User, error) {
	if id == nil {
		return nil, nil
	}
	u, err := s.store.GetUser(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

func (s *Service) crewVehicle(ctx context.Context, userID uint, match func(*models.Vehicle) bool) (*models.Vehicle, error) {
	vehicles, err := s.store.ListVehiclesByCrew(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range vehicles {
		if match(&vehicles[i]) {
			return &vehicles[i], nil
		}
	}
	return nil, ErrNoVehicle
}

func (s *Service) today(ctx context.Context, vehicleID uint) ([]models.Transaction, error) {
	return s.store.ListTransactionsByVehicle(ctx, vehicleID, startOfDay(s.now()))
}

type PassengerSummary struct {
	User               *models.User         `json:"user"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
}

func (s *Service) Passenger(ctx context.Context, userID uint) (*PassengerSummary, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	txns, err := s.store.ListTransactionsByPassenger(ctx, userID, recentTrips)
	if err != nil {
		return nil, err
	}
	return &PassengerSummary{User: u, RecentTransactions: txns}, nil
}

type DaySummary struct {
	Day        string      `json:"day"`
	Date       string      `json:"date"`
	Earnings   types.Money `json:"earnings"`
	Trips      int         `json:"trips"`
	Commission types.Money `json:"commission"`
}

type MateSummary struct {
	User           *models.User         `json:"user"`
	Vehicle        *models.Vehicle      `json:"vehicle"`
	TodayEarnings  types.Money          `json:"todayEarnings"`
	PassengerCount int                  `json:"passengerCount"`
	RecentPayments []models.Transaction `json:"recentPayments"`
	WeeklyData     []DaySummary         `json:"weeklyData"`
}

// Mate summarises today's takings and the last seven days for a mate.
// PassengerCount counts payments, as the mate collects one per payment.
func (s *Service) Mate(ctx context.Context, userID uint) (*MateSummary, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	v, err := s.crewVehicle(ctx, userID, func(v *models.Vehicle) bool { return v.IsMate(userID) })
	if err != nil {
		return nil, err
	}
	cfg, err := s.commissions.ForOwner(ctx, v.OwnerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	weekStart := startOfDay(now).AddDate(0, 0, -(weekDays - 1))
	week, err := s.store.ListTransactionsByVehicle(ctx, v.ID, weekStart)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]models.Transaction, weekDays)
	for _, t := range week {
		key := t.CreatedAt.In(now.Location()).Format(time.DateOnly)
		byDate[key] = append(byDate[key], t)
	}
	weekly := make([]DaySummary, 0, weekDays)
	for i := 0; i < weekDays; i++ {
		day := weekStart.AddDate(0, 0, i)
		txns := byDate[day.Format(time.DateOnly)]
		total := gross(txns)
		weekly = append(weekly, DaySummary{
			Day:        day.Format("Mon"),
			Date:       day.Format(time.DateOnly),
			Earnings:   total,
			Trips:      len(txns),
			Commission: commission.Split(total, cfg).MateShare,
		})
	}

	today := byDate[now.Format(time.DateOnly)]
	recent := make([]models.Transaction, 0, recentPayments)
	for i := len(today) - 1; i >= 0 && len(recent) < recentPayments; i-- {
		recent = append(recent, today[i])
	}
	return &MateSummary{
		User:           u,
		Vehicle:        v,
		TodayEarnings:  gross(today),
		PassengerCount: len(today),
		RecentPayments: recent,
		WeeklyData:     weekly,
	}, nil
}

type DriverSummary struct {
	User              *models.User    `json:"user"`
	Vehicle           *models.Vehicle `json:"vehicle"`
	GrossEarnings     types.Money     `json:"grossEarnings"`
	DriverShare       types.Money     `json:"driverShare"`
	Mate              *models.User    `json:"mate"`
	TodayTransactions int             `json:"todayTransactions"`
}

func (s *Service) Driver(ctx context.Context, userID uint) (*DriverSummary, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	v, err := s.crewVehicle(ctx, userID, func(v *models.Vehicle) bool { return v.IsDriver(userID) })
	if err != nil {
		return nil, err
	}
	cfg, err := s.commissions.ForOwner(ctx, v.OwnerID)
	if err != nil {
		return nil, err
	}
	today, err := s.today(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	mate, err := s.optionalUser(ctx, v.MateID)
	if err != nil {
		return nil, err
	}
	total := gross(today)
	return &DriverSummary{
		User:              u,
		Vehicle:           v,
		GrossEarnings:     total,
		DriverShare:       commission.Split(total, cfg).DriverShare,
		Mate:              mate,
		TodayTransactions: len(today),
	}, nil
}

type VehicleEarnings struct {
	models.Vehicle
	GrossEarnings     types.Money `json:"grossEarnings"`
	NetEarnings       types.Money `json:"netEarnings"`
	Commissions       types.Money `json:"commissions"`
	Drift             types.Money `json:"roundingDrift"`
	DriverName        string      `json:"driverName"`
	MateName          string      `json:"mateName"`
	TodayTransactions int         `json:"todayTransactions"`
}

type OwnerSummary struct {
	User          *models.User      `json:"user"`
	Vehicles      []VehicleEarnings `json:"vehicles"`
	TotalEarnings types.Money       `json:"totalEarnings"`
	NetProfit     types.Money       `json:"netProfit"`
	Commission    commission.Config `json:"commission"`
}

const unassigned = "Unassigned"

func (s *Service) Owner(ctx context.Context, userID uint) (*OwnerSummary, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.commissions.ForOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.store.ListVehiclesByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := &OwnerSummary{User: u, Vehicles: make([]VehicleEarnings, 0, len(vehicles)), Commission: cfg}
	var totals commission.Shares
	for _, v := range vehicles {
		today, err := s.today(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		shares := commission.Split(gross(today), cfg)
		totals = totals.Add(shares)

		ve := VehicleEarnings{
			Vehicle:           v,
			GrossEarnings:     shares.Gross,
			NetEarnings:       shares.OwnerNet,
			Commissions:       shares.Commissions(),
			Drift:             shares.Drift(),
			DriverName:        unassigned,
			MateName:          unassigned,
			TodayTransactions: len(today),
		}
		if d, err := s.optionalUser(ctx, v.DriverID); err != nil {
			return nil, err
		} else if d != nil {
			ve.DriverName = d.Name
		}
		if m, err := s.optionalUser(ctx, v.MateID); err != nil {
			return nil, err
		} else if m != nil {
			ve.MateName = m.Name
		}
		out.Vehicles = append(out.Vehicles, ve)
	}
	out.TotalEarnings = totals.Gross
	out.NetProfit = totals.OwnerNet
	return out, nil
}
