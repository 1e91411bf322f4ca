// Package postgres implements store.Store with gorm on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trotropay/internal/models"
	"trotropay/internal/store"
	"trotropay/internal/types"
)

const uniqueViolation = "23505"

type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// translate maps gorm and driver errors onto the store sentinels.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, store.ErrConflict)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

func (s *Store) locking(ctx context.Context) *gorm.DB {
	return s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// Atomic opens a transaction, or a savepoint when already inside one.
func (s *Store) Atomic(ctx context.Context, fn func(store.Store) error) error {
	return s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.conn(ctx).Create(u).Error, "create user")
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "get user")
	}
	return &u, nil
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("phone = ?", phone).First(&u).Error; err != nil {
		return nil, translate(err, "get user by phone")
	}
	return &u, nil
}

// LockUser takes SELECT ... FOR UPDATE on the user row. Outside Atomic the
// lock is released as soon as the statement finishes.
func (s *Store) LockUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.locking(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "lock user")
	}
	return &u, nil
}

func (s *Store) SetBalance(ctx context.Context, id uint, balance types.Money) error {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("balance", balance)
	if res.Error != nil {
		return translate(res.Error, "set balance")
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("set balance for user %d: %w", id, store.ErrNotFound)
	}
	return nil
}

func (s *Store) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	return translate(s.conn(ctx).Create(v).Error, "create vehicle")
}

func (s *Store) GetVehicle(ctx context.Context, id uint) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.conn(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err, "get vehicle")
	}
	return &v, nil
}

func (s *Store) GetVehicleByCode(ctx context.Context, code string) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.conn(ctx).Where("code = ?", code).First(&v).Error; err != nil {
		return nil, translate(err, "get vehicle by code")
	}
	return &v, nil
}

func (s *Store) listVehicles(ctx context.Context, query string, args ...interface{}) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	if err := s.conn(ctx).Where(query, args...).Order("id").Find(&vehicles).Error; err != nil {
		return nil, translate(err, "list vehicles")
	}
	return vehicles, nil
}

func (s *Store) ListVehiclesByOwner(ctx context.Context, ownerID uint) ([]models.Vehicle, error) {
	return s.listVehicles(ctx, "owner_id = ?", ownerID)
}

func (s *Store) ListVehiclesByCrew(ctx context.Context, userID uint) ([]models.Vehicle, error) {
	return s.listVehicles(ctx, "driver_id = ? OR mate_id = ?", userID, userID)
}

func (s *Store) ListVehiclesByRoute(ctx context.Context, routeName string) ([]models.Vehicle, error) {
	return s.listVehicles(ctx, "route_name = ?", routeName)
}

func (s *Store) UpdateVehicle(ctx context.Context, id uint, fn func(*models.Vehicle) error) (*models.Vehicle, error) {
	var v models.Vehicle
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&v, id).Error; err != nil {
			return err
		}
		if err := fn(&v); err != nil {
			return err
		}
		v.ID = id
		return tx.Save(&v).Error
	})
	if err != nil {
		return nil, translate(err, "update vehicle")
	}
	return &v, nil
}

func (s *Store) CreateRoute(ctx context.Context, r *models.Route) error {
	return translate(s.conn(ctx).Create(r).Error, "create route")
}

func (s *Store) GetRoute(ctx context.Context, id uint) (*models.Route, error) {
	var r models.Route
	if err := s.conn(ctx).First(&r, id).Error; err != nil {
		return nil, translate(err, "get route")
	}
	return &r, nil
}

func (s *Store) GetRouteByName(ctx context.Context, name string) (*models.Route, error) {
	var r models.Route
	if err := s.conn(ctx).Where("name = ?", name).First(&r).Error; err != nil {
		return nil, translate(err, "get route by name")
	}
	return &r, nil
}

func (s *Store) ListRoutes(ctx context.Context) ([]models.Route, error) {
	var routes []models.Route
	if err := s.conn(ctx).Order("id").Find(&routes).Error; err != nil {
		return nil, translate(err, "list routes")
	}
	return routes, nil
}

func (s *Store) UpdateRoute(ctx context.Context, id uint, fn func(*models.Route) error) (*models.Route, error) {
	var r models.Route
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&r, id).Error; err != nil {
			return err
		}
		if err := fn(&r); err != nil {
			return err
		}
		r.ID = id
		return tx.Save(&r).Error
	})
	if err != nil {
		return nil, translate(err, "update route")
	}
	return &r, nil
}

func (s *Store) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	return translate(s.conn(ctx).Create(t).Error, "create transaction")
}

func (s *Store) ListTransactionsByPassenger(ctx context.Context, passengerID uint, limit int) ([]models.Transaction, error) {
	q := s.conn(ctx).Where("passenger_id = ?", passengerID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var txns []models.Transaction
	if err := q.Find(&txns).Error; err != nil {
		return nil, translate(err, "list passenger transactions")
	}
	return txns, nil
}

func (s *Store) ListTransactionsByVehicle(ctx context.Context, vehicleID uint, since time.Time) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.conn(ctx).
		Where("vehicle_id = ? AND created_at >= ?", vehicleID, since).
		Order("created_at, id").
		Find(&txns).Error
	if err != nil {
		return nil, translate(err, "list vehicle transactions")
	}
	return txns, nil
}

func (s *Store) GetCommission(ctx context.Context, ownerID uint) (*models.Commission, error) {
	var c models.Commission
	if err := s.conn(ctx).Where("owner_id = ?", ownerID).First(&c).Error; err != nil {
		return nil, translate(err, "get commission")
	}
	return &c, nil
}

// SaveCommission upserts on owner_id.
func (s *Store) SaveCommission(ctx context.Context, c *models.Commission) error {
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"driver_pct", "mate_pct", "platform_pct", "updated_at"}),
	}).Create(c).Error
	return translate(err, "save commission")
}
