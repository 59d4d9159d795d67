package models

import (
	"time"

	"gorm.io/datatypes"
)

// Admin represents a reporting console administrator.
type Admin struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	Permissions  datatypes.JSON `gorm:"type:json"`              // Granted permission keys.
	IsSuperAdmin bool           `gorm:"not null;default:false"` // Bypasses permission checks.

	TOTPSecret    string `gorm:"type:text"`               // TOTP secret, empty when MFA is off.
	TOTPConfirmed bool   `gorm:"not null;default:false"`  // Secret verified once; login enforces TOTP only after this.

	Active bool `gorm:"not null;default:true"` // Whether the admin can sign in.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
