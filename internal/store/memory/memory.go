// Package memory is a process-local store.Store. All state sits behind one
// mutex; Atomic stages writes on a copy and swaps it in on success.
package memory

import (
	"context"
	"sync"
	"time"

	"trotropay/internal/models"
	"trotropay/internal/store"
	"trotropay/internal/types"
)

type Store struct {
	mu   sync.RWMutex
	data *data
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{data: newData()}
}

func read[T any](s *Store, fn func(t *tx) (T, error)) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{d: s.data})
}

func write[T any](s *Store, fn func(t *tx) (T, error)) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&tx{d: s.data})
}

func exec(s *Store, fn func(t *tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&tx{d: s.data})
}

// Atomic holds the write lock for the whole callback, so callers are
// serialized. fn must only use the Store it is given.
func (s *Store) Atomic(ctx context.Context, fn func(store.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.data.clone()
	if err := fn(&tx{d: staged}); err != nil {
		return err
	}
	s.data = staged
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return exec(s, func(t *tx) error { return t.CreateUser(ctx, u) })
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return read(s, func(t *tx) (*models.User, error) { return t.GetUser(ctx, id) })
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return read(s, func(t *tx) (*models.User, error) { return t.GetUserByPhone(ctx, phone) })
}

func (s *Store) LockUser(ctx context.Context, id uint) (*models.User, error) {
	return write(s, func(t *tx) (*models.User, error) { return t.LockUser(ctx, id) })
}

func (s *Store) SetBalance(ctx context.Context, id uint, balance types.Money) error {
	return exec(s, func(t *tx) error { return t.SetBalance(ctx, id, balance) })
}

func (s *Store) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	return exec(s, func(t *tx) error { return t.CreateVehicle(ctx, v) })
}

func (s *Store) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	return read(s, func(t *tx) (*models.Vehicle, error) { return t.GetVehicle(ctx, id) })
}

func (s *Store) GetVehicleByCode(ctx context.Context, code string) (*models.Vehicle, error) {
	return read(s, func(t *tx) (*models.Vehicle, error) { return t.GetVehicleByCode(ctx, code) })
}

func (s *Store) ListVehiclesByOwner(ctx context.Context, ownerID uint) ([]models.Vehicle, error) {
	return read(s, func(t *tx) ([]models.Vehicle, error) { return t.ListVehiclesByOwner(ctx, ownerID) })
}

func (s *Store) ListVehiclesByCrew(ctx context.Context, userID uint) ([]models.Vehicle, error) {
	return read(s, func(t *tx) ([]models.Vehicle, error) { return t.ListVehiclesByCrew(ctx, userID) })
}

func (s *Store) ListVehiclesByRoute(ctx context.Context, routeName string) ([]models.Vehicle, error) {
	return read(s, func(t *tx) ([]models.Vehicle, error) { return t.ListVehiclesByRoute(ctx, routeName) })
}

func (s *Store) UpdateVehicle(ctx context.Context, id uint, fn func(*models.Vehicle) error) (*models.Vehicle, error) {
	return write(s, func(t *tx) (*models.Vehicle, error) { return t.UpdateVehicle(ctx, id, fn) })
}

func (s *Store) CreateRoute(ctx context.Context, r *models.Route) error {
	return exec(s, func(t *tx) error { return t.CreateRoute(ctx, r) })
}

func (s *Store) GetRoute(ctx context.Context, id uint) (*models.Route, error) {
	return read(s, func(t *tx) (*models.Route, error) { return t.GetRoute(ctx, id) })
}

func (s *Store) GetRouteByName(ctx context.Context, name string) (*models.Route, error) {
	return read(s, func(t *tx) (*models.Route, error) { return t.GetRouteByName(ctx, name) })
}

func (s *Store) ListRoutes(ctx context.Context) ([]models.Route, error) {
	return read(s, func(t *tx) ([]models.Route, error) { return t.ListRoutes(ctx) })
}

func (s *Store) UpdateRoute(ctx context.Context, id uint, fn func(*models.Route) error) (*models.Route, error) {
	return write(s, func(t *tx) (*models.Route, error) { return t.UpdateRoute(ctx, id, fn) })
}

func (s *Store) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return exec(s, func(t *tx) error { return t.CreateTransaction(ctx, txn) })
}

func (s *Store) ListTransactionsByPassenger(ctx context.Context, passengerID uint, limit int) ([]models.Transaction, error) {
	return read(s, func(t *tx) ([]models.Transaction, error) {
		return t.ListTransactionsByPassenger(ctx, passengerID, limit)
	})
}

func (s *Store) ListTransactionsByVehicle(ctx context.Context, vehicleID uint, since time.Time) ([]models.Transaction, error) {
	return read(s, func(t *tx) ([]models.Transaction, error) {
		return t.ListTransactionsByVehicle(ctx, vehicleID, since)
	})
}

func (s *Store) GetCommission(ctx context.Context, ownerID uint) (*models.Commission, error) {
	return read(s, func(t *tx) (*models.Commission, error) { return t.GetCommission(ctx, ownerID) })
}

func (s *Store) SaveCommission(ctx context.Context, c *models.Commission) error {
	return exec(s, func(t *tx) error { return t.SaveCommission(ctx, c) })
}
