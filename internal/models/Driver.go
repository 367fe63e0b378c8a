// internal/models/driver.go
package models

import (
	"gorm.io/gorm"
)

// Driver is a registrant offering passenger seats for a run. SeatsAvailable
// counts passenger seats only; the driver occupies their own seat implicitly.
type Driver struct {
	gorm.Model
	Name           string `json:"name"`
	PhoneNumber    string `json:"phone_number"`
	SeatsAvailable int    `json:"seats_available" gorm:"not null;check:seats_available > 0"`
	PickupArea     string `json:"pickup_area" gorm:"index"`
	LeaveKfmTime   string `json:"leave_kfm_time,omitempty"`
	LeaveUclaTime  string `json:"leave_ucla_time,omitempty"`
	Notes          string `json:"notes,omitempty"`

	Riders []Rider `gorm:"foreignKey:DriverID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"riders,omitempty"`
}
