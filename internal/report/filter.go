package report

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Sort keys accepted by the dashboards. Unrecognized keys fall back to
// each list's default.
const (
	SortByLabel      = "label"
	SortByLogins     = "logins"
	SortByLastLogin  = "last_login"
	SortByName       = "name"
	SortByRegistered = "registered"
)

// DateFilterAll disables the last-login day threshold.
const DateFilterAll = "all"

// InvoiceFilter holds the invoice dashboard filter parameters.
type InvoiceFilter struct {
	Search       string // Free-text search over labels and descendants.
	InvoiceLabel string // Exact invoice label facet, "" or "all" for any.
	Days         string // Day-count threshold for last login, "all" for any.
	Sort         string // Sort key, defaults to SortByLabel.
}

// MemberFilter holds the member dashboard filter parameters.
type MemberFilter struct {
	Search     string // Free-text search over name, email, username.
	Membership string // Exact membership title facet, "" or "all" for any.
	Days       string // Day-count threshold for last login, "all" for any.
	MinLogins  int    // Minimum login count, 0 disables.
	Sort       string // Sort key, defaults to SortByLogins.
}

// FilterInvoices applies search, facet, and date filters to invoice
// groups (AND-composed), then sorts. The input slice is not mutated.
func FilterInvoices(groups []InvoiceGroup, f InvoiceFilter, now time.Time) []InvoiceGroup {
	threshold, hasThreshold := dateThreshold(f.Days, now)
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	facet := strings.TrimSpace(f.InvoiceLabel)

	filtered := make([]InvoiceGroup, 0, len(groups))
	for _, group := range groups {
		if facet != "" && facet != DateFilterAll && group.InvoiceLabel != facet {
			continue
		}
		if hasThreshold && (group.LastLoginTS == nil || *group.LastLoginTS < threshold) {
			continue
		}
		if needle != "" && !invoiceMatchesSearch(group, needle) {
			continue
		}
		filtered = append(filtered, group)
	}

	sortInvoices(filtered, f.Sort)
	return filtered
}

// invoiceMatchesSearch reports whether the group or any descendant
// matches the needle.
func invoiceMatchesSearch(group InvoiceGroup, needle string) bool {
	if strings.Contains(strings.ToLower(group.InvoiceLabel), needle) {
		return true
	}
	for _, parent := range group.Parents {
		if strings.Contains(strings.ToLower(parent.ParentLabel), needle) {
			return true
		}
		for _, member := range parent.Members {
			if entryMatchesSearch(member, needle) {
				return true
			}
		}
	}
	return false
}

func entryMatchesSearch(entry UserEntry, needle string) bool {
	return strings.Contains(strings.ToLower(entry.Name), needle) ||
		strings.Contains(strings.ToLower(entry.Email), needle) ||
		strings.Contains(strings.ToLower(entry.Username), needle)
}

func sortInvoices(groups []InvoiceGroup, key string) {
	switch key {
	case SortByLogins:
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].TotalLogins > groups[j].TotalLogins
		})
	case SortByLastLogin:
		sort.SliceStable(groups, func(i, j int) bool {
			return tsOrZero(groups[i].LastLoginTS) > tsOrZero(groups[j].LastLoginTS)
		})
	default:
		sort.SliceStable(groups, func(i, j int) bool {
			return strings.ToLower(groups[i].InvoiceLabel) < strings.ToLower(groups[j].InvoiceLabel)
		})
	}
}

// FilterMembers applies search, facet, date, and minimum-login filters
// to the flat member list, then sorts. The input slice is not mutated.
func FilterMembers(entries []UserEntry, f MemberFilter, now time.Time) []UserEntry {
	threshold, hasThreshold := dateThreshold(f.Days, now)
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	facet := strings.TrimSpace(f.Membership)

	filtered := make([]UserEntry, 0, len(entries))
	for _, entry := range entries {
		if needle != "" && !entryMatchesSearch(entry, needle) {
			continue
		}
		if facet != "" && facet != DateFilterAll && !hasMembershipTitle(entry, facet) {
			continue
		}
		if hasThreshold && (entry.LastLoginTS == nil || *entry.LastLoginTS < threshold) {
			continue
		}
		if f.MinLogins > 0 && entry.LoginCount < f.MinLogins {
			continue
		}
		filtered = append(filtered, entry)
	}

	sortMembers(filtered, f.Sort)
	return filtered
}

func hasMembershipTitle(entry UserEntry, title string) bool {
	for _, membership := range entry.Memberships {
		if membership.Title == title {
			return true
		}
	}
	return false
}

func sortMembers(entries []UserEntry, key string) {
	switch key {
	case SortByName:
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
		})
	case SortByLastLogin:
		sort.SliceStable(entries, func(i, j int) bool {
			return tsOrZero(entries[i].LastLoginTS) > tsOrZero(entries[j].LastLoginTS)
		})
	case SortByRegistered:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].RegisteredAt.After(entries[j].RegisteredAt)
		})
	default:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].LoginCount > entries[j].LoginCount
		})
	}
}

// dateThreshold converts a day-count parameter to the earliest accepted
// unix timestamp. "all", empty, and non-positive values disable the
// filter.
func dateThreshold(days string, now time.Time) (int64, bool) {
	trimmed := strings.TrimSpace(days)
	if trimmed == "" || trimmed == DateFilterAll {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n <= 0 {
		return 0, false
	}
	return now.Unix() - int64(n)*86400, true
}

// Corporate report ordering columns. Unrecognized values fall back to
// total logins.
var reportOrderColumns = map[string]struct{}{
	"parent_username":   {},
	"company_name":      {},
	"location":          {},
	"total_logins":      {},
	"last_login_date":   {},
	"sub_account_count": {},
}

// FilterReportRows drops rows below the minimum-login threshold. The
// input slice is not mutated.
func FilterReportRows(rows []CorporateReportRow, minLogins int) []CorporateReportRow {
	if minLogins <= 0 {
		return append([]CorporateReportRow(nil), rows...)
	}
	filtered := make([]CorporateReportRow, 0, len(rows))
	for _, row := range rows {
		if row.TotalLogins >= minLogins {
			filtered = append(filtered, row)
		}
	}
	return filtered
}

// SortReportRows orders report rows by the requested column. Direction
// is "ASC" or "DESC"; anything else means DESC.
func SortReportRows(rows []CorporateReportRow, orderBy, order string) {
	if _, ok := reportOrderColumns[orderBy]; !ok {
		orderBy = "total_logins"
	}
	asc := strings.EqualFold(strings.TrimSpace(order), "ASC")

	less := func(a, b CorporateReportRow) bool {
		switch orderBy {
		case "parent_username":
			return strings.ToLower(a.ParentUsername) < strings.ToLower(b.ParentUsername)
		case "company_name":
			return strings.ToLower(a.CompanyName) < strings.ToLower(b.CompanyName)
		case "location":
			return strings.ToLower(a.Location) < strings.ToLower(b.Location)
		case "last_login_date":
			return tsOrZero(a.LastLoginTS) < tsOrZero(b.LastLoginTS)
		case "sub_account_count":
			return a.SubAccountCount < b.SubAccountCount
		default:
			return a.TotalLogins < b.TotalLogins
		}
	}
	if asc {
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
	} else {
		sort.SliceStable(rows, func(i, j int) bool { return less(rows[j], rows[i]) })
	}
}

// SummarizeReport computes the corporate report counters.
func SummarizeReport(rows []CorporateReportRow) ReportSummary {
	summary := ReportSummary{TotalCorporateAccounts: len(rows)}
	for _, row := range rows {
		summary.TotalSubAccounts += row.SubAccountCount
		summary.TotalLogins += row.TotalLogins
	}
	if len(rows) > 0 {
		avg := float64(summary.TotalLogins) / float64(len(rows))
		summary.AverageLoginsPerAccount = math.Round(avg*100) / 100
	}
	return summary
}

func tsOrZero(ts *int64) int64 {
	if ts == nil {
		return 0
	}
	return *ts
}
