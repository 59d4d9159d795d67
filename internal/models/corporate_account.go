package models

import "time"

// Corporate account statuses stored by the membership site.
const (
	// CorporateStatusEnabled marks an account in good standing.
	CorporateStatusEnabled = "enabled"
	// CorporateStatusActive is a legacy alias still present in older rows.
	CorporateStatusActive = "active"
	// CorporateStatusDisabled marks a suspended account.
	CorporateStatusDisabled = "disabled"
)

// CorporateAccount is a parent membership entity allowed to carry
// dependent sub-user accounts.
type CorporateAccount struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`    // Owning parent user ID.
	User   User   `gorm:"foreignKey:UserID"` // Owning parent user.

	Status string `gorm:"type:text;not null;index"` // Lifecycle status.

	NumSubAccounts int `gorm:"not null;default:0"` // Licensed sub-account seats.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
