// Package fleet manages vehicles, their crew and their route assignment.
package fleet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"trotropay/internal/models"
	"trotropay/internal/store"
)

var (
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrVehicleExists   = errors.New("a vehicle with this id already exists")
	ErrRouteNotFound   = errors.New("route not found")
	ErrNotDriver       = errors.New("only this vehicle's driver can change its route")
	ErrNotOwner        = errors.New("only this vehicle's owner can change it")
	ErrNotCrew         = errors.New("only this vehicle's crew can update it")
	ErrInvalidCrew     = errors.New("crew member not found or has the wrong role")
	ErrInvalidVehicle  = errors.New("vehicle id is required and capacity cannot be negative")
	ErrInvalidCount    = errors.New("passenger count must be at least 1")
)

const paymentURIPrefix = "trotropay://payment/"

// PaymentURI is what a vehicle's QR code encodes.
func PaymentURI(code string) string {
	return paymentURIPrefix + code
}

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

type NewVehicle struct {
	Code        string
	RouteID     *uint
	MaxCapacity int
}

func (s *Service) Create(ctx context.Context, ownerID uint, in NewVehicle) (*models.Vehicle, error) {
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" || in.MaxCapacity < 0 {
		return nil, ErrInvalidVehicle
	}
	v := &models.Vehicle{Code: code, OwnerID: ownerID, IsActive: true, MaxCapacity: in.MaxCapacity}
	if in.RouteID != nil {
		r, err := s.route(ctx, *in.RouteID)
		if err != nil {
			return nil, err
		}
		v.RouteName = &r.Name
	}
	if err := s.store.CreateVehicle(ctx, v); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("%w: %s", ErrVehicleExists, code)
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"vehicle": v.Code, "owner_id": ownerID}).Info("Vehicle created")
	return v, nil
}

func (s *Service) Get(ctx context.Context, code string) (*models.Vehicle, error) {
	v, err := s.store.GetVehicleByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, code)
	}
	return v, err
}

func (s *Service) ListForOwner(ctx context.Context, ownerID uint) ([]models.Vehicle, error) {
	return s.store.ListVehiclesByOwner(ctx, ownerID)
}

// ForCrew returns the first vehicle userID drives or works as mate on.
func (s *Service) ForCrew(ctx context.Context, userID uint) (*models.Vehicle, error) {
	vehicles, err := s.store.ListVehiclesByCrew(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, ErrVehicleNotFound
	}
	return &vehicles[0], nil
}

func (s *Service) route(ctx context.Context, routeID uint) (*models.Route, error) {
	r, err := s.store.GetRoute(ctx, routeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrRouteNotFound, routeID)
	}
	return r, err
}

// update applies fn to the vehicle under the store's row lock.
func (s *Service) update(ctx context.Context, code string, fn func(*models.Vehicle) error) (*models.Vehicle, error) {
	v, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateVehicle(ctx, v.ID, fn)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, code)
	}
	return updated, err
}

// AssignRoute puts the vehicle on a route. Only its driver may do this.
func (s *Service) AssignRoute(ctx context.Context, driverID uint, code string, routeID uint) (*models.Vehicle, *models.Route, error) {
	r, err := s.route(ctx, routeID)
	if err != nil {
		return nil, nil, err
	}
	v, err := s.update(ctx, code, func(v *models.Vehicle) error {
		if !v.IsDriver(driverID) {
			return ErrNotDriver
		}
		name := r.Name
		v.RouteName = &name
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	logrus.WithFields(logrus.Fields{"vehicle": v.Code, "route": r.Name, "driver_id": driverID}).Info("Vehicle route changed")
	return v, r, nil
}

// Crew is a full crew assignment; a nil id leaves the seat empty.
type Crew struct {
	DriverID *uint
	MateID   *uint
}

func (s *Service) checkCrew(ctx context.Context, id *uint, role models.Role) error {
	if id == nil {
		return nil
	}
	u, err := s.store.GetUser(ctx, *id)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: user %d", ErrInvalidCrew, *id)
	}
	if err != nil {
		return err
	}
	if u.Role != role {
		return fmt.Errorf("%w: user %d is a %s, not a %s", ErrInvalidCrew, *id, u.Role, role)
	}
	return nil
}

// AssignCrew replaces the driver and mate. Only the owner may do this.
// Past transactions keep the crew they were taken with.
func (s *Service) AssignCrew(ctx context.Context, ownerID uint, code string, crew Crew) (*models.Vehicle, error) {
	if err := s.checkCrew(ctx, crew.DriverID, models.RoleDriver); err != nil {
		return nil, err
	}
	if err := s.checkCrew(ctx, crew.MateID, models.RoleMate); err != nil {
		return nil, err
	}
	return s.update(ctx, code, func(v *models.Vehicle) error {
		if v.OwnerID != ownerID {
			return ErrNotOwner
		}
		v.DriverID = crew.DriverID
		v.MateID = crew.MateID
		return nil
	})
}

// SetActive takes a vehicle in or out of service. Inactive vehicles refuse
// payments.
func (s *Service) SetActive(ctx context.Context, ownerID uint, code string, active bool) (*models.Vehicle, error) {
	return s.update(ctx, code, func(v *models.Vehicle) error {
		if v.OwnerID != ownerID {
			return ErrNotOwner
		}
		v.IsActive = active
		return nil
	})
}

// Board adds n passengers, capped at MaxCapacity when it is set.
func (s *Service) Board(ctx context.Context, actorID uint, code string, n int) (*models.Vehicle, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}
	return s.adjustLoad(ctx, actorID, code, n)
}

// Alight removes n passengers, never going below zero.
func (s *Service) Alight(ctx context.Context, actorID uint, code string, n int) (*models.Vehicle, error) {
	if n < 1 {
		return nil, ErrInvalidCount
	}
	return s.adjustLoad(ctx, actorID, code, -n)
}

func (s *Service) adjustLoad(ctx context.Context, actorID uint, code string, delta int) (*models.Vehicle, error) {
	return s.update(ctx, code, func(v *models.Vehicle) error {
		if !v.HasMember(actorID) {
			return ErrNotCrew
		}
		v.CurrentPassengers = clamp(v.CurrentPassengers+delta, v.MaxCapacity)
		return nil
	})
}

// clamp bounds n to [0, max]; max 0 means capacity is not tracked.
func clamp(n, max int) int {
	if n < 0 {
		return 0
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// Transactions lists the vehicle's payments since the given time. Only its
// crew and owner may read them.
func (s *Service) Transactions(ctx context.Context, actorID uint, code string, since time.Time) ([]models.Transaction, error) {
	v, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if !v.HasMember(actorID) {
		return nil, ErrNotCrew
	}
	return s.store.ListTransactionsByVehicle(ctx, v.ID, since)
}
