package store

import (
	"context"
	"fmt"

	dbutil "github.com/recoveryfit/corpreport/internal/db"
	"github.com/recoveryfit/corpreport/internal/models"
	"github.com/recoveryfit/corpreport/internal/report"
)

// ReportQuery holds the SQL-level filters for the corporate report.
// Threshold and ordering parameters are applied after aggregation by
// the report package.
type ReportQuery struct {
	Search     string   // Matches parent username, email, display name, or company.
	Location   string   // Matches the parent location field.
	ProductIDs []uint64 // Corporate membership products to report on.
}

// CorporateReportRows builds one flattened row per parent and corporate
// product. Parents are users holding a complete or confirmed transaction
// on a corporate product while not being sub-accounts themselves.
// Totals aggregate over the parent's sub-accounts.
func (s *GormSource) CorporateReportRows(ctx context.Context, query ReportQuery) ([]report.CorporateReportRow, error) {
	if len(query.ProductIDs) == 0 {
		return []report.CorporateReportRow{}, nil
	}

	q := s.db.WithContext(ctx).Model(&models.Transaction{}).
		Joins("JOIN users ON users.id = transactions.user_id").
		Where("transactions.product_id IN ?", query.ProductIDs).
		Where("transactions.status IN ?", []string{models.TransactionStatusComplete, models.TransactionStatusConfirmed}).
		Where("users.corporate_account_id IS NULL")

	if query.Search != "" {
		pattern := dbutil.NormalizeLikePattern(s.db, "%"+query.Search+"%")
		q = q.Where(
			"("+dbutil.CaseInsensitiveLikeExpr(s.db, "users.username")+" OR "+
				dbutil.CaseInsensitiveLikeExpr(s.db, "users.email")+" OR "+
				dbutil.CaseInsensitiveLikeExpr(s.db, "users.display_name")+" OR "+
				dbutil.CaseInsensitiveLikeExpr(s.db, "users.company")+")",
			pattern, pattern, pattern, pattern,
		)
	}
	if query.Location != "" {
		pattern := dbutil.NormalizeLikePattern(s.db, "%"+query.Location+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(s.db, "users.location"), pattern)
	}

	var transactions []models.Transaction
	errFind := q.Preload("User").Preload("Subscription").Order("transactions.id").Find(&transactions).Error
	if errFind != nil {
		return nil, fmt.Errorf("store: corporate report transactions: %w", errFind)
	}

	rows := make([]report.CorporateReportRow, 0, len(transactions))
	seen := make(map[[2]uint64]bool, len(transactions))

	for i := range transactions {
		tx := &transactions[i]
		key := [2]uint64{tx.UserID, tx.ProductID}
		if seen[key] {
			continue
		}
		seen[key] = true

		row, errRow := s.buildReportRow(ctx, tx)
		if errRow != nil {
			// A malformed parent never aborts the whole report.
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// buildReportRow aggregates one parent's sub-accounts into a report row.
func (s *GormSource) buildReportRow(ctx context.Context, tx *models.Transaction) (report.CorporateReportRow, error) {
	parent := tx.User

	row := report.CorporateReportRow{
		ParentID:          parent.ID,
		ParentUsername:    parent.Username,
		ParentEmail:       parent.Email,
		CompanyName:       parent.Company,
		Location:          parent.Location,
		MembershipID:      tx.ProductID,
		SignupDate:        tx.CreatedAt,
		TransactionStatus: tx.Status,
	}
	if tx.Subscription != nil {
		row.SubscriptionStatus = tx.Subscription.Status
	}

	subUsers, errSubs := s.SubUsersOfParent(ctx, parent.ID)
	if errSubs != nil {
		return report.CorporateReportRow{}, errSubs
	}

	row.SubAccountCount = len(subUsers)
	row.SubAccounts = make([]report.UserEntry, 0, len(subUsers))

	for i := range subUsers {
		sub := &subUsers[i]

		rawCount, errCount := s.Attribute(ctx, sub.ID, models.AttrLoginCount)
		if errCount != nil {
			rawCount = ""
		}
		rawLast, errLast := s.Attribute(ctx, sub.ID, models.AttrLastLogin)
		if errLast != nil {
			rawLast = ""
		}
		memberships, errMember := s.ActiveSubscriptions(ctx, sub.ID)
		if errMember != nil {
			memberships = nil
		}

		entry := report.BuildUserEntry(sub, rawCount, rawLast, memberships)
		row.SubAccounts = append(row.SubAccounts, entry)
		row.TotalLogins += entry.LoginCount

		if entry.LastLoginTS != nil && (row.LastLoginTS == nil || *entry.LastLoginTS > *row.LastLoginTS) {
			ts := *entry.LastLoginTS
			row.LastLoginTS = &ts
			row.LastLoginDate = rawLast
		}
	}

	if row.LastLoginTS != nil {
		row.FormattedLastLogin = report.FormatTimestamp(*row.LastLoginTS)
	} else {
		row.FormattedLastLogin = "Never"
	}
	return row, nil
}
