// internal/models/app_state.go
package models

import "time"

// AppState is a singleton row (id = 1) gating public visibility of the
// dashboard. Until IsFinalized is set the rider/driver lists stay admin-only.
type AppState struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	IsFinalized bool      `gorm:"not null;default:false" json:"is_finalized"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the singular table name used by the original schema.
func (AppState) TableName() string {
	return "app_state"
}
