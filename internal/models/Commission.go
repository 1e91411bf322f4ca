package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Commission holds an owner's revenue split in percent. Whatever the three
// shares leave over is the owner's net.
type Commission struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OwnerID     uint            `gorm:"uniqueIndex;not null" json:"ownerId"`
	DriverPct   decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"driverCommission"`
	MatePct     decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"mateCommission"`
	PlatformPct decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"platformFee"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
