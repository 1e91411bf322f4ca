package models

import (
	"time"

	"trotropay/internal/types"
)

type Role string

const (
	RolePassenger Role = "passenger"
	RoleMate      Role = "mate"
	RoleDriver    Role = "driver"
	RoleOwner     Role = "owner"
)

// ParseRole normalizes a role name; an empty role means passenger.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case "":
		return RolePassenger, true
	case RolePassenger, RoleMate, RoleDriver, RoleOwner:
		return r, true
	default:
		return "", false
	}
}

// User is any wallet holder: passengers, mates, drivers and owners.
// Balance changes only through the wallet ledger.
type User struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Phone     string      `gorm:"uniqueIndex;not null" json:"phone"`
	PinHash   string      `gorm:"not null" json:"-"`
	Role      Role        `gorm:"not null" json:"role"`
	Name      string      `gorm:"not null" json:"name"`
	Balance   types.Money `gorm:"type:numeric(10,2);not null;default:0" json:"balance"`
	CreatedAt time.Time   `json:"createdAt"`
}
