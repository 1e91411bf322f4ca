package models

import (
	"time"

	"github.com/lib/pq"
)

// Route is a named trotro line. Stops and Fares are positionally aligned;
// Fares holds "stop:amount" pairs with cumulative amounts from the first stop.
// Use the fare package to read or edit them.
type Route struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Name       string         `gorm:"uniqueIndex;not null" json:"name"`
	StartPoint string         `gorm:"not null" json:"startPoint"`
	EndPoint   string         `gorm:"not null" json:"endPoint"`
	Stops      pq.StringArray `gorm:"type:text[];not null" json:"stops"`
	Fares      pq.StringArray `gorm:"type:text[];not null" json:"fares"`

	// Path is an optional LineString in WKB, served as GeoJSON.
	Path []byte `gorm:"type:bytea" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
