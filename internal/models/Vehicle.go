package models

import "time"

// Vehicle is a trotro identified by its plate-style code (e.g. GT-1234-20).
// RouteName, DriverID and MateID stay nil until assigned.
type Vehicle struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Code              string    `gorm:"uniqueIndex;not null" json:"vehicleId"`
	RouteName         *string   `gorm:"index" json:"route"`
	OwnerID           uint      `gorm:"index;not null" json:"ownerId"`
	DriverID          *uint     `gorm:"index" json:"driverId"`
	MateID            *uint     `gorm:"index" json:"mateId"`
	IsActive          bool      `gorm:"not null" json:"isActive"`
	CurrentPassengers int       `gorm:"not null;default:0" json:"currentPassengers"`
	MaxCapacity       int       `gorm:"not null;default:0" json:"maxCapacity"`
	CreatedAt         time.Time `json:"createdAt"`
}

// Crew returns the ids that receive payment notifications: driver, mate, owner.
func (v *Vehicle) Crew() []uint {
	ids := make([]uint, 0, 3)
	if v.DriverID != nil {
		ids = append(ids, *v.DriverID)
	}
	if v.MateID != nil {
		ids = append(ids, *v.MateID)
	}
	return append(ids, v.OwnerID)
}

func (v *Vehicle) IsDriver(userID uint) bool {
	return v.DriverID != nil && *v.DriverID == userID
}

func (v *Vehicle) IsMate(userID uint) bool {
	return v.MateID != nil && *v.MateID == userID
}

// HasMember reports whether userID is the driver, mate or owner.
func (v *Vehicle) HasMember(userID uint) bool {
	return v.OwnerID == userID || v.IsDriver(userID) || v.IsMate(userID)
}

func (v *Vehicle) OnRoute(name string) bool {
	return v.RouteName != nil && *v.RouteName == name
}
