// internal/models/pickup_area.go
package models

import (
	"gorm.io/gorm"
)

// PickupArea is a named pickup spot riders and drivers group around.
// Location holds a WKB-encoded point for the map links on the forms;
// it is opaque to the database and decoded at the API boundary.
type PickupArea struct {
	gorm.Model
	Name     string `gorm:"uniqueIndex;not null" json:"name"`
	Address  string `json:"address"`
	Location []byte `gorm:"type:bytea" json:"-"`
}
