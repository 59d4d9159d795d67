package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/recoveryfit/corpreport/internal/models"
	"gorm.io/gorm"
)

// GormSource reads membership data through GORM. It implements
// report.Source.
type GormSource struct {
	db *gorm.DB
}

// NewGormSource constructs a GormSource.
func NewGormSource(db *gorm.DB) *GormSource {
	return &GormSource{db: db}
}

// DB exposes the underlying connection for query composition.
func (s *GormSource) DB() *gorm.DB { return s.db }

// CorporateAccounts returns accounts whose status is in the allow-list,
// in primary-key order. An empty allow-list returns every account.
func (s *GormSource) CorporateAccounts(ctx context.Context, statuses []string) ([]models.CorporateAccount, error) {
	q := s.db.WithContext(ctx).Model(&models.CorporateAccount{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var accounts []models.CorporateAccount
	if errFind := q.Order("id").Find(&accounts).Error; errFind != nil {
		return nil, fmt.Errorf("store: corporate accounts: %w", errFind)
	}
	return accounts, nil
}

// UserByID returns a user, or nil when the record does not exist.
func (s *GormSource) UserByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if errFind := s.db.WithContext(ctx).First(&user, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: user %d: %w", id, errFind)
	}
	return &user, nil
}

// SubUsers returns the users attached to a corporate account.
func (s *GormSource) SubUsers(ctx context.Context, accountID uint64) ([]models.User, error) {
	var users []models.User
	errFind := s.db.WithContext(ctx).
		Where("corporate_account_id = ?", accountID).
		Order("id").
		Find(&users).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: sub users of account %d: %w", accountID, errFind)
	}
	return users, nil
}

// SubUsersOfParent returns the sub-users across every corporate account
// owned by a parent user.
func (s *GormSource) SubUsersOfParent(ctx context.Context, parentUserID uint64) ([]models.User, error) {
	var users []models.User
	errFind := s.db.WithContext(ctx).
		Where("corporate_account_id IN (?)",
			s.db.Model(&models.CorporateAccount{}).Select("id").Where("user_id = ?", parentUserID)).
		Order("id").
		Find(&users).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: sub users of parent %d: %w", parentUserID, errFind)
	}
	return users, nil
}

// Users returns all member users, newest registrations first.
func (s *GormSource) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if errFind := s.db.WithContext(ctx).Order("registered_at DESC").Find(&users).Error; errFind != nil {
		return nil, fmt.Errorf("store: users: %w", errFind)
	}
	return users, nil
}

// ActiveSubscriptions returns a user's active subscriptions with their
// products preloaded. Subscriptions whose product no longer exists keep
// a nil Product.
func (s *GormSource) ActiveSubscriptions(ctx context.Context, userID uint64) ([]models.Subscription, error) {
	var subs []models.Subscription
	errFind := s.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Preload("Product").
		Order("id").
		Find(&subs).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: subscriptions of user %d: %w", userID, errFind)
	}
	return subs, nil
}

// Attribute reads a named per-user attribute, "" when absent.
func (s *GormSource) Attribute(ctx context.Context, userID uint64, key string) (string, error) {
	var attr models.UserAttribute
	errFind := s.db.WithContext(ctx).
		Where("user_id = ? AND key = ?", userID, key).
		First(&attr).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("store: attribute %q of user %d: %w", key, userID, errFind)
	}
	return attr.Value, nil
}
