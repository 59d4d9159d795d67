package models

import "time"

// User represents a member account mirrored from the membership site.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username    string `gorm:"type:text;not null;uniqueIndex"` // Unique login name.
	Email       string `gorm:"type:text;index"`                // Email address.
	DisplayName string `gorm:"type:text"`                      // Public display name.
	FirstName   string `gorm:"type:text"`                      // Given name.
	LastName    string `gorm:"type:text"`                      // Family name.

	Company  string `gorm:"type:text"` // Company profile field.
	Location string `gorm:"type:text"` // Treatment center / location profile field.

	// CorporateAccountID links a sub-account to its owning corporate
	// account. Parents and independent members leave it nil. A user
	// belongs to at most one corporate account.
	CorporateAccountID *uint64 `gorm:"index"`

	RegisteredAt time.Time `gorm:"not null"` // Signup timestamp on the membership site.

	Subscriptions []Subscription `gorm:"foreignKey:UserID"` // Related subscriptions.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
