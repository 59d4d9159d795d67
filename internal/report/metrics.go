package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/recoveryfit/corpreport/internal/models"
)

// timestampFormat is the canonical display format for login timestamps.
const timestampFormat = "2006-01-02 15:04:05"

// lastLoginLayouts are tried in order when the stored last-login value is
// not numeric. The mix mirrors what historical writers actually stored.
var lastLoginLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"January 2, 2006 3:04 pm",
	"January 2, 2006",
	time.RFC1123,
}

// CoerceLoginCount converts a raw stored login counter to a non-negative
// integer. Absent or malformed values count as zero.
func CoerceLoginCount(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseLastLogin normalizes a stored last-login value. It returns the
// unix timestamp when the value is numeric or parses as a date, plus a
// display string. Unparseable values yield a nil timestamp with the raw
// text kept verbatim for display only.
func ParseLastLogin(raw string) (*int64, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ""
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		if n <= 0 {
			return nil, ""
		}
		return &n, FormatTimestamp(n)
	}

	for _, layout := range lastLoginLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			ts := t.Unix()
			return &ts, FormatTimestamp(ts)
		}
	}

	return nil, trimmed
}

// FormatTimestamp renders a unix timestamp in the canonical display form.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format(timestampFormat)
}

// DisplayName picks the first non-empty of first+last name, display name,
// and username.
func DisplayName(first, last, display, username string) string {
	name := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if name != "" {
		return name
	}
	if display != "" {
		return display
	}
	return username
}

// BuildUserEntry assembles a dashboard entry from a user record, its raw
// login metrics, and its active subscriptions. Subscriptions without a
// resolvable product still contribute an entry with membership ID 0.
func BuildUserEntry(user *models.User, rawLoginCount, rawLastLogin string, subs []models.Subscription) UserEntry {
	entry := UserEntry{
		UserID:       user.ID,
		Name:         DisplayName(user.FirstName, user.LastName, user.DisplayName, user.Username),
		Email:        user.Email,
		Username:     user.Username,
		LoginCount:   CoerceLoginCount(rawLoginCount),
		RegisteredAt: user.RegisteredAt,
		Memberships:  make([]MembershipEntry, 0, len(subs)),
	}
	entry.LastLoginTS, entry.LastLogin = ParseLastLogin(rawLastLogin)

	for _, sub := range subs {
		membership := MembershipEntry{
			SubscriptionID: sub.ID,
			Status:         sub.Status,
			CreatedAt:      sub.CreatedAt,
		}
		if sub.Product != nil {
			membership.MembershipID = sub.Product.ID
			membership.Title = sub.Product.Title
		}
		entry.Memberships = append(entry.Memberships, membership)
	}
	return entry
}
