package report

import (
	"context"
	"time"

	"github.com/recoveryfit/corpreport/internal/models"

	log "github.com/sirupsen/logrus"
)

// Source is the read interface over the membership data the builders
// consume. Lookups are synchronous; a failed lookup causes the affected
// record to be skipped, never a retry.
type Source interface {
	// CorporateAccounts returns accounts whose status is in the allow-list.
	CorporateAccounts(ctx context.Context, statuses []string) ([]models.CorporateAccount, error)
	// UserByID returns a user or nil when it cannot be resolved.
	UserByID(ctx context.Context, id uint64) (*models.User, error)
	// SubUsers returns the users attached to a corporate account.
	SubUsers(ctx context.Context, accountID uint64) ([]models.User, error)
	// Users returns all member users.
	Users(ctx context.Context) ([]models.User, error)
	// ActiveSubscriptions returns active subscriptions with products
	// preloaded where resolvable.
	ActiveSubscriptions(ctx context.Context, userID uint64) ([]models.Subscription, error)
	// Attribute reads a named per-user attribute, "" when absent.
	Attribute(ctx context.Context, userID uint64, key string) (string, error)
}

// Service builds report documents from a Source. All derived data is
// recomputed per call; nothing is cached.
type Service struct {
	src            Source
	invoices       *InvoiceMap
	activeStatuses []string
}

// NewService constructs a Service. The invoice map and status allow-list
// are static configuration, treated as read-only.
func NewService(src Source, invoices *InvoiceMap, activeStatuses []string) *Service {
	return &Service{src: src, invoices: invoices, activeStatuses: activeStatuses}
}

// InvoiceMap exposes the configured mapping table.
func (s *Service) InvoiceMap() *InvoiceMap { return s.invoices }

// BuildParentGroups assembles one group per active corporate account:
// the parent user first, then sub-users, with summed logins and the max
// last-login. Accounts whose parent cannot be resolved are skipped.
func (s *Service) BuildParentGroups(ctx context.Context) ([]ParentGroup, error) {
	accounts, err := s.src.CorporateAccounts(ctx, s.activeStatuses)
	if err != nil {
		return nil, err
	}

	groups := make([]ParentGroup, 0, len(accounts))
	for _, account := range accounts {
		parent, errUser := s.src.UserByID(ctx, account.UserID)
		if errUser != nil || parent == nil {
			log.WithField("corp_id", account.ID).Debug("skipping corporate account without parent user")
			continue
		}

		subUsers, errSubs := s.src.SubUsers(ctx, account.ID)
		if errSubs != nil {
			log.WithError(errSubs).WithField("corp_id", account.ID).Debug("skipping corporate account, sub-user lookup failed")
			continue
		}

		group := ParentGroup{
			CorpID:       account.ID,
			ParentUserID: parent.ID,
			ParentLabel:  ParentLabel(parent),
			Members:      make([]UserEntry, 0, len(subUsers)+1),
		}

		members := append([]models.User{*parent}, subUsers...)
		for i := range members {
			entry := s.buildEntry(ctx, &members[i])
			group.Members = append(group.Members, entry)
			group.TotalLogins += entry.LoginCount
			group.LastLoginTS = maxTimestamp(group.LastLoginTS, entry.LastLoginTS)
		}
		if group.LastLoginTS != nil {
			group.LastLogin = FormatTimestamp(*group.LastLoginTS)
		}

		groups = append(groups, group)
	}
	return groups, nil
}

// BuildInvoiceHierarchy folds parent groups into invoice buckets, in
// first-seen order of the resolved labels.
func (s *Service) BuildInvoiceHierarchy(ctx context.Context) ([]InvoiceGroup, error) {
	groups, err := s.BuildParentGroups(ctx)
	if err != nil {
		return nil, err
	}
	return FoldInvoiceGroups(groups, s.invoices), nil
}

// FoldInvoiceGroups groups parent groups by their resolved invoice label.
// Bucket totals are the sum of member totals; the bucket last-login is
// the max over members, nil when every member is nil. Output preserves
// insertion order; sorting is the presentation layer's concern.
func FoldInvoiceGroups(groups []ParentGroup, invoices *InvoiceMap) []InvoiceGroup {
	out := make([]InvoiceGroup, 0)
	index := make(map[string]int)

	for _, group := range groups {
		label := invoices.Resolve(group.ParentLabel)
		pos, ok := index[label]
		if !ok {
			pos = len(out)
			index[label] = pos
			out = append(out, InvoiceGroup{InvoiceLabel: label})
		}

		bucket := &out[pos]
		bucket.Parents = append(bucket.Parents, group)
		bucket.TotalLogins += group.TotalLogins
		bucket.LastLoginTS = maxTimestamp(bucket.LastLoginTS, group.LastLoginTS)
		if bucket.LastLoginTS != nil {
			bucket.LastLogin = FormatTimestamp(*bucket.LastLoginTS)
		}
	}
	return out
}

// BuildMemberPayload flattens every user into one list with summary
// counters for the member dashboard.
func (s *Service) BuildMemberPayload(ctx context.Context) (*MemberPayload, error) {
	users, err := s.src.Users(ctx)
	if err != nil {
		return nil, err
	}

	payload := &MemberPayload{Members: make([]UserEntry, 0, len(users))}
	activeSince := time.Now().Add(-30 * 24 * time.Hour).Unix()

	for i := range users {
		entry := s.buildEntry(ctx, &users[i])
		payload.Members = append(payload.Members, entry)

		payload.Totals.TotalLoginEvents += entry.LoginCount
		if entry.LastLoginTS == nil {
			payload.Totals.NeverLoggedIn++
		} else if *entry.LastLoginTS >= activeSince {
			payload.Totals.Active30++
		}
	}
	payload.Totals.TotalMembers = len(payload.Members)
	return payload, nil
}

// buildEntry reads login metrics and subscriptions for one user.
// Attribute and subscription lookup failures coerce to defaults rather
// than failing the whole build.
func (s *Service) buildEntry(ctx context.Context, user *models.User) UserEntry {
	rawCount, errCount := s.src.Attribute(ctx, user.ID, models.AttrLoginCount)
	if errCount != nil {
		rawCount = ""
	}
	rawLast, errLast := s.src.Attribute(ctx, user.ID, models.AttrLastLogin)
	if errLast != nil {
		rawLast = ""
	}
	subs, errSubs := s.src.ActiveSubscriptions(ctx, user.ID)
	if errSubs != nil {
		subs = nil
	}
	return BuildUserEntry(user, rawCount, rawLast, subs)
}

// maxTimestamp returns the later of two optional timestamps, nil when
// both are nil.
func maxTimestamp(current, candidate *int64) *int64 {
	if candidate == nil {
		return current
	}
	if current == nil || *candidate > *current {
		v := *candidate
		return &v
	}
	return current
}
