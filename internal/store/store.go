// Package store defines the persistence boundary. The postgres package backs
// it with gorm; the memory package is used for tests and demo runs.
package store

import (
	"context"
	"errors"
	"time"

	"trotropay/internal/models"
	"trotropay/internal/types"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// Store is every read and write the services need. Methods called on the
// Store handed to an Atomic callback run inside that unit of work.
type Store interface {
	// Atomic runs fn in one transaction. If fn returns an error nothing it
	// wrote is kept.
	Atomic(ctx context.Context, fn func(tx Store) error) error

	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	// LockUser reads a user and holds its row until the enclosing Atomic
	// finishes.
	LockUser(ctx context.Context, id uint) (*models.User, error)
	SetBalance(ctx context.Context, id uint, balance types.Money) error

	CreateVehicle(ctx context.Context, v *models.Vehicle) error
	GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error)
	GetVehicleByCode(ctx context.Context, code string) (*models.Vehicle, error)
	ListVehiclesByOwner(ctx context.Context, ownerID uint) ([]models.Vehicle, error)
	ListVehiclesByCrew(ctx context.Context, userID uint) ([]models.Vehicle, error)
	ListVehiclesByRoute(ctx context.Context, routeName string) ([]models.Vehicle, error)
	UpdateVehicle(ctx context.Context, id uint, fn func(*models.Vehicle) error) (*models.Vehicle, error)

	CreateRoute(ctx context.Context, r *models.Route) error
	GetRoute(ctx context.Context, id uint) (*models.Route, error)
	GetRouteByName(ctx context.Context, name string) (*models.Route, error)
	ListRoutes(ctx context.Context) ([]models.Route, error)
	// UpdateRoute reads, edits and writes back the whole route under a lock.
	UpdateRoute(ctx context.Context, id uint, fn func(*models.Route) error) (*models.Route, error)

	CreateTransaction(ctx context.Context, t *models.Transaction) error
	// ListTransactionsByPassenger returns newest first; limit <= 0 means all.
	ListTransactionsByPassenger(ctx context.Context, passengerID uint, limit int) ([]models.Transaction, error)
	// ListTransactionsByVehicle returns transactions created at or after
	// since, oldest first.
	ListTransactionsByVehicle(ctx context.Context, vehicleID uint, since time.Time) ([]models.Transaction, error)

	GetCommission(ctx context.Context, ownerID uint) (*models.Commission, error)
	SaveCommission(ctx context.Context, c *models.Commission) error
}
