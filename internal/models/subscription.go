package models

import "time"

// Subscription statuses stored by the membership site.
const (
	// SubscriptionStatusActive marks a running subscription.
	SubscriptionStatusActive = "active"
	// SubscriptionStatusPending marks a subscription awaiting payment.
	SubscriptionStatusPending = "pending"
	// SubscriptionStatusCancelled marks a cancelled subscription.
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription ties a user to a membership product.
type Subscription struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`    // Subscriber user ID.
	User   User   `gorm:"foreignKey:UserID"` // Subscriber user.

	// ProductID may reference a product that no longer exists; report
	// rows for such subscriptions carry membership ID 0.
	ProductID uint64   `gorm:"not null;index"`
	Product   *Product `gorm:"foreignKey:ProductID"` // Related product when resolvable.

	Status string `gorm:"type:text;not null;index"` // Lifecycle status.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
