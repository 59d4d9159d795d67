package models

import "time"

// Attribute keys used by the reporting core.
const (
	// AttrLoginCount stores the cumulative login counter.
	AttrLoginCount = "login_count"
	// AttrLastLogin stores the most recent login. Historical writers used
	// both unix timestamps and free-text dates, so the value stays text.
	AttrLastLogin = "last_login"
)

// UserAttribute is a named per-user key-value pair. It mirrors the
// loosely-typed metadata rows of the membership site, which is why the
// value is an uninterpreted string.
type UserAttribute struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index:idx_user_attributes_user_key,unique"` // Owning user ID.
	Key    string `gorm:"type:text;not null;index:idx_user_attributes_user_key,unique"`
	Value  string `gorm:"type:text"` // Raw attribute value.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
