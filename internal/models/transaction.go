package models

import "time"

// Transaction statuses counted by the corporate report.
const (
	// TransactionStatusComplete marks a settled payment.
	TransactionStatusComplete = "complete"
	// TransactionStatusConfirmed marks a confirmed trial or comp.
	TransactionStatusConfirmed = "confirmed"
	// TransactionStatusRefunded marks a refunded payment.
	TransactionStatusRefunded = "refunded"
)

// Transaction records a membership purchase.
type Transaction struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserID uint64 `gorm:"not null;index"`    // Purchasing user ID.
	User   User   `gorm:"foreignKey:UserID"` // Purchasing user.

	ProductID uint64   `gorm:"not null;index"`       // Purchased product ID.
	Product   *Product `gorm:"foreignKey:ProductID"` // Purchased product.

	SubscriptionID *uint64       `gorm:"index"`                     // Related subscription, nil for one-offs.
	Subscription   *Subscription `gorm:"foreignKey:SubscriptionID"` // Related subscription record.

	Status string `gorm:"type:text;not null;index"` // Settlement status.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Purchase timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
