package fare

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"trotropay/internal/models"
	"trotropay/internal/store"
)

// RouteStore is the slice of store.Store the fare service uses.
type RouteStore interface {
	CreateRoute(ctx context.Context, r *models.Route) error
	GetRoute(ctx context.Context, id uint) (*models.Route, error)
	ListRoutes(ctx context.Context) ([]models.Route, error)
	UpdateRoute(ctx context.Context, id uint, fn func(*models.Route) error) (*models.Route, error)
	ListVehiclesByRoute(ctx context.Context, routeName string) ([]models.Vehicle, error)
}

// Service reads and edits routes. Every edit is a locked read-modify-write
// of the whole route.
type Service struct {
	store RouteStore
}

func NewService(s RouteStore) *Service {
	return &Service{store: s}
}

// NewRoute is the input for Create. Fares uses the "<stop>:<amount>" format.
type NewRoute struct {
	Name  string
	Stops []string
	Fares []string
	Path  []byte
}

func (s *Service) List(ctx context.Context) ([]models.Route, error) {
	return s.store.ListRoutes(ctx)
}

func (s *Service) Get(ctx context.Context, routeID uint) (*models.Route, error) {
	r, err := s.store.GetRoute(ctx, routeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRouteNotFound
	}
	return r, err
}

func (s *Service) table(ctx context.Context, routeID uint) (Table, error) {
	r, err := s.Get(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return FromRoute(r)
}

func (s *Service) Quote(ctx context.Context, routeID uint, boarding, alighting string) (Quote, error) {
	t, err := s.table(ctx, routeID)
	if err != nil {
		return Quote{}, err
	}
	return Calculate(t, boarding, alighting)
}

func (s *Service) ValidStops(ctx context.Context, routeID uint, boarding string) ([]string, error) {
	t, err := s.table(ctx, routeID)
	if err != nil {
		return nil, err
	}
	return ValidStops(t, boarding), nil
}

// Create stores a new route after checking its stops and fares.
func (s *Service) Create(ctx context.Context, in NewRoute) (*models.Route, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrRouteName
	}
	byStop, err := ParseFares(in.Fares)
	if err != nil {
		return nil, err
	}
	t, err := NewTable(in.Stops, byStop)
	if err != nil {
		return nil, err
	}

	r := &models.Route{Name: name, Path: in.Path}
	t.ApplyTo(r)
	if err := s.store.CreateRoute(ctx, r); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("%w: %q", ErrRouteExists, name)
		}
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"route_id": r.ID, "route": r.Name, "stops": len(t)}).Info("Route created")
	return r, nil
}

// CanEdit reports whether userID drives or owns a vehicle on the route.
func (s *Service) CanEdit(ctx context.Context, r *models.Route, userID uint) (bool, error) {
	vehicles, err := s.store.ListVehiclesByRoute(ctx, r.Name)
	if err != nil {
		return false, err
	}
	for i := range vehicles {
		if vehicles[i].IsDriver(userID) || vehicles[i].OwnerID == userID {
			return true, nil
		}
	}
	return false, nil
}

// Edit applies fn to the route's fare table on behalf of editorID and
// persists the result.
func (s *Service) Edit(ctx context.Context, routeID, editorID uint, op string, fn func(Table) (Table, error)) (*models.Route, error) {
	r, err := s.Get(ctx, routeID)
	if err != nil {
		return nil, err
	}
	ok, err := s.CanEdit(ctx, r, editorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrForbidden
	}

	updated, err := s.store.UpdateRoute(ctx, routeID, func(r *models.Route) error {
		t, err := FromRoute(r)
		if err != nil {
			return err
		}
		next, err := fn(t)
		if err != nil {
			return err
		}
		next.ApplyTo(r)
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRouteNotFound
	}
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"route_id": routeID,
		"editor":   editorID,
		"op":       op,
	}).Info("Route fare table updated")
	return updated, nil
}

func (s *Service) AddStop(ctx context.Context, routeID, editorID uint, name string, position int) (*models.Route, error) {
	return s.Edit(ctx, routeID, editorID, "add_stop", func(t Table) (Table, error) {
		return t.AddStop(name, position)
	})
}

func (s *Service) RemoveStop(ctx context.Context, routeID, editorID uint, name string) (*models.Route, error) {
	return s.Edit(ctx, routeID, editorID, "remove_stop", func(t Table) (Table, error) {
		return t.RemoveStop(name)
	})
}

func (s *Service) ReorderStop(ctx context.Context, routeID, editorID uint, index int, dir Direction) (*models.Route, error) {
	return s.Edit(ctx, routeID, editorID, "reorder_stop", func(t Table) (Table, error) {
		return t.ReorderStop(index, dir)
	})
}

func (s *Service) SetStops(ctx context.Context, routeID, editorID uint, names []string) (*models.Route, error) {
	return s.Edit(ctx, routeID, editorID, "set_stops", func(t Table) (Table, error) {
		return t.SetStops(names)
	})
}

// SetFares replaces the fare table from "<stop>:<amount>" entries.
func (s *Service) SetFares(ctx context.Context, routeID, editorID uint, entries []string) (*models.Route, error) {
	byStop, err := ParseFares(entries)
	if err != nil {
		return nil, err
	}
	return s.Edit(ctx, routeID, editorID, "set_fares", func(t Table) (Table, error) {
		return t.SetFares(byStop)
	})
}
