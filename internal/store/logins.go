package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/recoveryfit/corpreport/internal/models"
	"github.com/recoveryfit/corpreport/internal/report"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetAttribute upserts a named per-user attribute.
func (s *GormSource) SetAttribute(ctx context.Context, userID uint64, key, value string) error {
	now := time.Now().UTC()
	attr := models.UserAttribute{
		UserID:    userID,
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
	errUpsert := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
			DoUpdates: clause.Assignments(map[string]any{"value": value, "updated_at": now}),
		}).
		Create(&attr).Error
	if errUpsert != nil {
		return fmt.Errorf("store: set attribute %q of user %d: %w", key, userID, errUpsert)
	}
	return nil
}

// RecordLogin bumps a user's login counter and stamps the last login.
// The timestamp is stored as a unix integer string; older rows written
// by other systems may hold free-text dates, which readers tolerate.
func (s *GormSource) RecordLogin(ctx context.Context, userID uint64, at time.Time) error {
	user, errUser := s.UserByID(ctx, userID)
	if errUser != nil {
		return errUser
	}
	if user == nil {
		return gorm.ErrRecordNotFound
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := &GormSource{db: tx}

		raw, errAttr := scoped.Attribute(ctx, userID, models.AttrLoginCount)
		if errAttr != nil {
			return errAttr
		}
		count := report.CoerceLoginCount(raw) + 1

		if errSet := scoped.SetAttribute(ctx, userID, models.AttrLoginCount, strconv.Itoa(count)); errSet != nil {
			return errSet
		}
		return scoped.SetAttribute(ctx, userID, models.AttrLastLogin, strconv.FormatInt(at.Unix(), 10))
	})
}
