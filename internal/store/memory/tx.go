package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"trotropay/internal/models"
	"trotropay/internal/store"
	"trotropay/internal/types"
)

type data struct {
	nextID       uint
	users        map[uint]models.User
	vehicles     map[uint]models.Vehicle
	routes       map[uint]models.Route
	transactions []models.Transaction
	commissions  map[uint]models.Commission
}

func newData() *data {
	return &data{
		users:       map[uint]models.User{},
		vehicles:    map[uint]models.Vehicle{},
		routes:      map[uint]models.Route{},
		commissions: map[uint]models.Commission{},
	}
}

// clone copies the indexes. Stored values are never mutated in place, so
// they can be shared between copies.
func (d *data) clone() *data {
	c := &data{
		nextID:       d.nextID,
		users:        make(map[uint]models.User, len(d.users)),
		vehicles:     make(map[uint]models.Vehicle, len(d.vehicles)),
		routes:       make(map[uint]models.Route, len(d.routes)),
		transactions: append([]models.Transaction(nil), d.transactions...),
		commissions:  make(map[uint]models.Commission, len(d.commissions)),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.vehicles {
		c.vehicles[k] = v
	}
	for k, v := range d.routes {
		c.routes[k] = v
	}
	for k, v := range d.commissions {
		c.commissions[k] = v
	}
	return c
}

func (d *data) id() uint {
	d.nextID++
	return d.nextID
}

// tx implements store.Store over one data snapshot without locking; the
// owning Store takes the lock.
type tx struct {
	d *data
}

var _ store.Store = (*tx)(nil)

func (t *tx) Atomic(ctx context.Context, fn func(store.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	staged := t.d.clone()
	if err := fn(&tx{d: staged}); err != nil {
		return err
	}
	*t.d = *staged
	return nil
}

func notFound(kind string, key any) error {
	return fmt.Errorf("%s %v: %w", kind, key, store.ErrNotFound)
}

func (t *tx) CreateUser(_ context.Context, u *models.User) error {
	for _, existing := range t.d.users {
		if existing.Phone == u.Phone {
			return fmt.Errorf("phone %s: %w", u.Phone, store.ErrConflict)
		}
	}
	u.ID = t.d.id()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	t.d.users[u.ID] = *u
	return nil
}

func (t *tx) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := t.d.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &u, nil
}

func (t *tx) GetUserByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, u := range t.d.users {
		if u.Phone == phone {
			return &u, nil
		}
	}
	return nil, notFound("user with phone", phone)
}

func (t *tx) LockUser(ctx context.Context, id uint) (*models.User, error) {
	return t.GetUser(ctx, id)
}

func (t *tx) SetBalance(_ context.Context, id uint, balance types.Money) error {
	u, ok := t.d.users[id]
	if !ok {
		return notFound("user", id)
	}
	u.Balance = balance
	t.d.users[id] = u
	return nil
}

func cloneVehicle(v models.Vehicle) models.Vehicle {
	if v.RouteName != nil {
		name := *v.RouteName
		v.RouteName = &name
	}
	v.DriverID = cloneID(v.DriverID)
	v.MateID = cloneID(v.MateID)
	return v
}

func cloneID(id *uint) *uint {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

func (t *tx) CreateVehicle(_ context.Context, v *models.Vehicle) error {
	for _, existing := range t.d.vehicles {
		if existing.Code == v.Code {
			return fmt.Errorf("vehicle %s: %w", v.Code, store.ErrConflict)
		}
	}
	v.ID = t.d.id()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	t.d.vehicles[v.ID] = cloneVehicle(*v)
	return nil
}

func (t *tx) GetVehicle(_ context.Context, id uint) (*models.Vehicle, error) {
	v, ok := t.d.vehicles[id]
	if !ok {
		return nil, notFound("vehicle", id)
	}
	v = cloneVehicle(v)
	return &v, nil
}

func (t *tx) GetVehicleByCode(_ context.Context, code string) (*models.Vehicle, error) {
	for _, v := range t.d.vehicles {
		if v.Code == code {
			v = cloneVehicle(v)
			return &v, nil
		}
	}
	return nil, notFound("vehicle", code)
}

func (t *tx) listVehicles(match func(*models.Vehicle) bool) []models.Vehicle {
	out := []models.Vehicle{}
	for _, v := range t.d.vehicles {
		if match(&v) {
			out = append(out, cloneVehicle(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (t *tx) ListVehiclesByOwner(_ context.Context, ownerID uint) ([]models.Vehicle, error) {
	return t.listVehicles(func(v *models.Vehicle) bool { return v.OwnerID == ownerID }), nil
}

func (t *tx) ListVehiclesByCrew(_ context.Context, userID uint) ([]models.Vehicle, error) {
	return t.listVehicles(func(v *models.Vehicle) bool { return v.IsDriver(userID) || v.IsMate(userID) }), nil
}

func (t *tx) ListVehiclesByRoute(_ context.Context, routeName string) ([]models.Vehicle, error) {
	return t.listVehicles(func(v *models.Vehicle) bool { return v.OnRoute(routeName) }), nil
}

func (t *tx) UpdateVehicle(_ context.Context, id uint, fn func(*models.Vehicle) error) (*models.Vehicle, error) {
	v, ok := t.d.vehicles[id]
	if !ok {
		return nil, notFound("vehicle", id)
	}
	v = cloneVehicle(v)
	if err := fn(&v); err != nil {
		return nil, err
	}
	v.ID = id
	t.d.vehicles[id] = cloneVehicle(v)
	return &v, nil
}

func cloneRoute(r models.Route) models.Route {
	r.Stops = append([]string(nil), r.Stops...)
	r.Fares = append([]string(nil), r.Fares...)
	if r.Path != nil {
		r.Path = append([]byte(nil), r.Path...)
	}
	return r
}

func (t *tx) CreateRoute(_ context.Context, r *models.Route) error {
	for _, existing := range t.d.routes {
		if existing.Name == r.Name {
			return fmt.Errorf("route %s: %w", r.Name, store.ErrConflict)
		}
	}
	r.ID = t.d.id()
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	t.d.routes[r.ID] = cloneRoute(*r)
	return nil
}

func (t *tx) GetRoute(_ context.Context, id uint) (*models.Route, error) {
	r, ok := t.d.routes[id]
	if !ok {
		return nil, notFound("route", id)
	}
	r = cloneRoute(r)
	return &r, nil
}

func (t *tx) GetRouteByName(_ context.Context, name string) (*models.Route, error) {
	for _, r := range t.d.routes {
		if r.Name == name {
			r = cloneRoute(r)
			return &r, nil
		}
	}
	return nil, notFound("route", name)
}

func (t *tx) ListRoutes(_ context.Context) ([]models.Route, error) {
	out := make([]models.Route, 0, len(t.d.routes))
	for _, r := range t.d.routes {
		out = append(out, cloneRoute(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *tx) UpdateRoute(_ context.Context, id uint, fn func(*models.Route) error) (*models.Route, error) {
	r, ok := t.d.routes[id]
	if !ok {
		return nil, notFound("route", id)
	}
	r = cloneRoute(r)
	if err := fn(&r); err != nil {
		return nil, err
	}
	for otherID, other := range t.d.routes {
		if otherID != id && other.Name == r.Name {
			return nil, fmt.Errorf("route %s: %w", r.Name, store.ErrConflict)
		}
	}
	r.ID = id
	r.UpdatedAt = time.Now()
	t.d.routes[id] = cloneRoute(r)
	return &r, nil
}

func cloneTransaction(txn models.Transaction) models.Transaction {
	txn.MateID = cloneID(txn.MateID)
	txn.DriverID = cloneID(txn.DriverID)
	return txn
}

func (t *tx) CreateTransaction(_ context.Context, txn *models.Transaction) error {
	for _, existing := range t.d.transactions {
		if existing.Reference == txn.Reference {
			return fmt.Errorf("transaction %s: %w", txn.Reference, store.ErrConflict)
		}
	}
	txn.ID = t.d.id()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	t.d.transactions = append(t.d.transactions, cloneTransaction(*txn))
	return nil
}

func (t *tx) ListTransactionsByPassenger(_ context.Context, passengerID uint, limit int) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for _, txn := range t.d.transactions {
		if txn.PassengerID == passengerID {
			out = append(out, cloneTransaction(txn))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (t *tx) ListTransactionsByVehicle(_ context.Context, vehicleID uint, since time.Time) ([]models.Transaction, error) {
	out := []models.Transaction{}
	for _, txn := range t.d.transactions {
		if txn.VehicleID == vehicleID && !txn.CreatedAt.Before(since) {
			out = append(out, cloneTransaction(txn))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (t *tx) GetCommission(_ context.Context, ownerID uint) (*models.Commission, error) {
	c, ok := t.d.commissions[ownerID]
	if !ok {
		return nil, notFound("commission for owner", ownerID)
	}
	return &c, nil
}

// SaveCommission inserts or replaces the owner's row.
func (t *tx) SaveCommission(_ context.Context, c *models.Commission) error {
	now := time.Now()
	if existing, ok := t.d.commissions[c.OwnerID]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else {
		c.ID = t.d.id()
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	t.d.commissions[c.OwnerID] = *c
	return nil
}
