// Package seed loads the demo accounts, routes and vehicles.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"trotropay/internal/accounts"
	"trotropay/internal/fare"
	"trotropay/internal/models"
	"trotropay/internal/store"
	"trotropay/internal/types"
)

const DemoPIN = "1234"

type demoUser struct {
	phone   string
	name    string
	role    models.Role
	balance string
}

var demoUsers = []demoUser{
	{"0245678901", "Kwame Asante", models.RolePassenger, "25.40"},
	{"0234567890", "Kofi Mate", models.RoleMate, "0.00"},
	{"0223456789", "John Mensah", models.RoleDriver, "0.00"},
	{"0212345678", "Mary Owner", models.RoleOwner, "0.00"},
}

type demoRoute struct {
	name  string
	stops []string
	fares []string
}

var demoRoutes = []demoRoute{
	{
		name:  "Circle - Lapaz",
		stops: []string{"Circle", "37 Station", "Achimota", "Lapaz"},
		fares: []string{"Circle:0.00", "37 Station:2.00", "Achimota:2.50", "Lapaz:3.50"},
	},
	{
		name:  "Tema - Accra",
		stops: []string{"Tema", "Ashaiman", "Teshie", "Accra"},
		fares: []string{"Tema:0.00", "Ashaiman:2.50", "Teshie:3.00", "Accra:4.00"},
	},
}

var demoVehicles = []struct {
	code  string
	route string
}{
	{"GT-1234-20", "Circle - Lapaz"},
	{"GT-5678-19", "Tema - Accra"},
}

const demoCapacity = 18

// Demo inserts the demo data in one transaction. It does nothing when the
// demo passenger already exists. hashCost is the bcrypt cost for the PINs.
func Demo(ctx context.Context, st store.Store, hashCost int) error {
	if _, err := st.GetUserByPhone(ctx, demoUsers[0].phone); err == nil {
		logrus.Info("Demo data already present, skipping seed")
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := accounts.HashPIN(DemoPIN, hashCost)
	if err != nil {
		return err
	}

	return st.Atomic(ctx, func(tx store.Store) error {
		ids := map[models.Role]uint{}
		for _, du := range demoUsers {
			u := &models.User{
				Phone:   du.phone,
				Name:    du.name,
				Role:    du.role,
				PinHash: hash,
				Balance: types.MustMoney(du.balance),
			}
			if err := tx.CreateUser(ctx, u); err != nil {
				return fmt.Errorf("seed user %s: %w", du.phone, err)
			}
			ids[du.role] = u.ID
		}

		for _, dr := range demoRoutes {
			byStop, err := fare.ParseFares(dr.fares)
			if err != nil {
				return err
			}
			t, err := fare.NewTable(dr.stops, byStop)
			if err != nil {
				return fmt.Errorf("seed route %s: %w", dr.name, err)
			}
			r := &models.Route{Name: dr.name}
			t.ApplyTo(r)
			if err := tx.CreateRoute(ctx, r); err != nil {
				return fmt.Errorf("seed route %s: %w", dr.name, err)
			}
		}

		driverID, mateID := ids[models.RoleDriver], ids[models.RoleMate]
		for _, dv := range demoVehicles {
			routeName := dv.route
			driver, mate := driverID, mateID
			v := &models.Vehicle{
				Code:        dv.code,
				RouteName:   &routeName,
				OwnerID:     ids[models.RoleOwner],
				DriverID:    &driver,
				MateID:      &mate,
				IsActive:    true,
				MaxCapacity: demoCapacity,
			}
			if err := tx.CreateVehicle(ctx, v); err != nil {
				return fmt.Errorf("seed vehicle %s: %w", dv.code, err)
			}
		}

		err := tx.SaveCommission(ctx, &models.Commission{
			OwnerID:     ids[models.RoleOwner],
			DriverPct:   decimal.NewFromInt(15),
			MatePct:     decimal.NewFromInt(10),
			PlatformPct: decimal.NewFromInt(5),
		})
		if err != nil {
			return fmt.Errorf("seed commission: %w", err)
		}

		logrus.WithFields(logrus.Fields{
			"passenger": demoUsers[0].phone,
			"mate":      demoUsers[1].phone,
			"driver":    demoUsers[2].phone,
			"owner":     demoUsers[3].phone,
		}).Info("Demo data seeded (PIN 1234)")
		return nil
	})
}
