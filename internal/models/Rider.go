// internal/models/rider.go
package models

import (
	"gorm.io/gorm"
)

// Rider is a registrant requesting SeatsNeeded seats. DriverID is nullable:
// nil means unmatched, non-nil is a confirmed assignment to that driver.
// The column carries ON DELETE SET NULL so deleting a driver frees its riders.
type Rider struct {
	gorm.Model
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	SeatsNeeded int    `json:"seats_needed" gorm:"default:1;check:seats_needed > 0"`
	PickupArea  string `json:"pickup_area" gorm:"index"`
	Notes       string `json:"notes,omitempty"`
	DriverID    *uint  `json:"driver_id,omitempty" gorm:"index"`
}
