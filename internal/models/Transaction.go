package models

import (
	"time"

	"trotropay/internal/types"
)

type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionFailed    TransactionStatus = "failed"
)

const PaymentMethodMomo = "momo"

// Transaction is an append-only record of a fare payment. Crew ids and the
// route name are copied from the vehicle when the payment is taken, so later
// reassignments never rewrite history.
type Transaction struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	Reference      string            `gorm:"uniqueIndex;size:36;not null" json:"reference"`
	PassengerID    uint              `gorm:"index;not null" json:"passengerId"`
	VehicleID      uint              `gorm:"index;not null" json:"vehicleId"`
	MateID         *uint             `json:"mateId"`
	DriverID       *uint             `json:"driverId"`
	OwnerID        uint              `gorm:"not null" json:"ownerId"`
	Amount         types.Money       `gorm:"type:numeric(10,2);not null" json:"amount"`
	PassengerCount int               `gorm:"not null;default:1" json:"passengerCount"`
	BoardingStop   string            `json:"boardingStop,omitempty"`
	Destination    string            `gorm:"not null" json:"destination"`
	RouteName      string            `gorm:"not null" json:"route"`
	Status         TransactionStatus `gorm:"not null" json:"status"`
	PaymentMethod  string            `gorm:"not null" json:"paymentMethod"`
	CreatedAt      time.Time         `gorm:"index" json:"createdAt"`
}
