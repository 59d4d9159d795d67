package report

import (
	"testing"
	"time"
)

func sampleInvoices(now time.Time) []InvoiceGroup {
	recent := now.Add(-10 * 24 * time.Hour).Unix()
	old := now.Add(-120 * 24 * time.Hour).Unix()

	return []InvoiceGroup{
		{
			InvoiceLabel: "OCYA",
			TotalLogins:  40,
			LastLoginTS:  &recent,
			Parents: []ParentGroup{
				{
					ParentLabel: "Newport-Miramar",
					Members: []UserEntry{
						{Name: "Jane Doe", Email: "jane@example.com", Username: "jane-m"},
					},
				},
			},
		},
		{
			InvoiceLabel: "North Carolina RTC",
			TotalLogins:  70,
			LastLoginTS:  &old,
			Parents: []ParentGroup{
				{ParentLabel: "Newport-Charlotte"},
			},
		},
		{
			InvoiceLabel: UnmappedLabel,
			TotalLogins:  5,
			Parents: []ParentGroup{
				{ParentLabel: "Stray-Account"},
			},
		},
	}
}

func TestFilterInvoices_SearchDescendants(t *testing.T) {
	now := time.Now()
	groups := sampleInvoices(now)

	got := FilterInvoices(groups, InvoiceFilter{Search: "jane@example"}, now)
	if len(got) != 1 || got[0].InvoiceLabel != "OCYA" {
		t.Fatalf("expected OCYA via descendant email, got %+v", got)
	}

	got = FilterInvoices(groups, InvoiceFilter{Search: "charlotte"}, now)
	if len(got) != 1 || got[0].InvoiceLabel != "North Carolina RTC" {
		t.Fatalf("expected match via parent label, got %+v", got)
	}

	got = FilterInvoices(groups, InvoiceFilter{Search: "nobody"}, now)
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestFilterInvoices_FacetAndDate(t *testing.T) {
	now := time.Now()
	groups := sampleInvoices(now)

	got := FilterInvoices(groups, InvoiceFilter{InvoiceLabel: "OCYA"}, now)
	if len(got) != 1 || got[0].InvoiceLabel != "OCYA" {
		t.Fatalf("facet filter failed: %+v", got)
	}

	// 30-day window keeps only the recent group; the nil-timestamp group
	// is excluded whenever a finite threshold is active.
	got = FilterInvoices(groups, InvoiceFilter{Days: "30"}, now)
	if len(got) != 1 || got[0].InvoiceLabel != "OCYA" {
		t.Fatalf("date filter failed: %+v", got)
	}

	got = FilterInvoices(groups, InvoiceFilter{Days: "all"}, now)
	if len(got) != 3 {
		t.Fatalf("expected all groups with days=all, got %d", len(got))
	}
}

func TestFilterInvoices_Sort(t *testing.T) {
	now := time.Now()
	groups := sampleInvoices(now)

	byLabel := FilterInvoices(groups, InvoiceFilter{Sort: SortByLabel}, now)
	if byLabel[0].InvoiceLabel != "North Carolina RTC" || byLabel[2].InvoiceLabel != UnmappedLabel {
		t.Fatalf("label sort wrong: %v", labels(byLabel))
	}

	byLogins := FilterInvoices(groups, InvoiceFilter{Sort: SortByLogins}, now)
	if byLogins[0].TotalLogins != 70 || byLogins[2].TotalLogins != 5 {
		t.Fatalf("logins sort wrong: %v", labels(byLogins))
	}

	byLast := FilterInvoices(groups, InvoiceFilter{Sort: SortByLastLogin}, now)
	if byLast[0].InvoiceLabel != "OCYA" || byLast[2].InvoiceLabel != UnmappedLabel {
		t.Fatalf("last-login sort wrong (nils last): %v", labels(byLast))
	}

	// Unrecognized keys fall back to the label sort.
	fallback := FilterInvoices(groups, InvoiceFilter{Sort: "bogus"}, now)
	if fallback[0].InvoiceLabel != "North Carolina RTC" {
		t.Fatalf("fallback sort wrong: %v", labels(fallback))
	}

	// The input slice keeps its original order.
	if groups[0].InvoiceLabel != "OCYA" {
		t.Fatalf("input mutated: %v", labels(groups))
	}
}

func labels(groups []InvoiceGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.InvoiceLabel
	}
	return out
}

func TestFilterMembers(t *testing.T) {
	now := time.Now()
	recent := now.Add(-5 * 24 * time.Hour).Unix()
	entries := []UserEntry{
		{UserID: 1, Name: "Alice", Username: "alice", LoginCount: 17, LastLoginTS: &recent,
			Memberships: []MembershipEntry{{Title: "Gold"}}},
		{UserID: 2, Name: "Bob", Username: "bob", LoginCount: 5},
		{UserID: 3, Name: "Cara", Username: "cara", LoginCount: 10,
			Memberships: []MembershipEntry{{Title: "Silver"}}},
	}

	got := FilterMembers(entries, MemberFilter{MinLogins: 10}, now)
	if len(got) != 2 {
		t.Fatalf("min-logins filter: expected 2, got %d", len(got))
	}
	for _, entry := range got {
		if entry.LoginCount < 10 {
			t.Fatalf("entry below threshold survived: %+v", entry)
		}
	}

	got = FilterMembers(entries, MemberFilter{Membership: "Gold"}, now)
	if len(got) != 1 || got[0].UserID != 1 {
		t.Fatalf("membership facet failed: %+v", got)
	}

	got = FilterMembers(entries, MemberFilter{Days: "30"}, now)
	if len(got) != 1 || got[0].UserID != 1 {
		t.Fatalf("date filter failed: %+v", got)
	}

	got = FilterMembers(entries, MemberFilter{Search: "CARA"}, now)
	if len(got) != 1 || got[0].UserID != 3 {
		t.Fatalf("case-insensitive search failed: %+v", got)
	}

	got = FilterMembers(entries, MemberFilter{Sort: SortByName}, now)
	if got[0].Name != "Alice" || got[2].Name != "Cara" {
		t.Fatalf("name sort failed: %+v", got)
	}

	got = FilterMembers(entries, MemberFilter{}, now)
	if got[0].LoginCount != 17 {
		t.Fatalf("default sort should be logins descending: %+v", got)
	}
}

func TestSortReportRows(t *testing.T) {
	ts := int64(1000)
	rows := []CorporateReportRow{
		{ParentUsername: "beta", TotalLogins: 5},
		{ParentUsername: "alpha", TotalLogins: 17, LastLoginTS: &ts},
		{ParentUsername: "gamma", TotalLogins: 10},
	}

	SortReportRows(rows, "total_logins", "DESC")
	if rows[0].TotalLogins != 17 || rows[2].TotalLogins != 5 {
		t.Fatalf("desc sort failed: %+v", rows)
	}

	SortReportRows(rows, "parent_username", "ASC")
	if rows[0].ParentUsername != "alpha" || rows[2].ParentUsername != "gamma" {
		t.Fatalf("asc username sort failed: %+v", rows)
	}

	// Unknown column and direction fall back to total_logins DESC.
	SortReportRows(rows, "; DROP TABLE", "sideways")
	if rows[0].TotalLogins != 17 {
		t.Fatalf("fallback sort failed: %+v", rows)
	}
}

func TestFilterReportRowsAndSummary(t *testing.T) {
	rows := []CorporateReportRow{
		{TotalLogins: 5, SubAccountCount: 2},
		{TotalLogins: 17, SubAccountCount: 3},
		{TotalLogins: 10, SubAccountCount: 1},
	}

	kept := FilterReportRows(rows, 10)
	if len(kept) != 2 {
		t.Fatalf("expected rows with totals 17 and 10, got %+v", kept)
	}

	summary := SummarizeReport(rows)
	if summary.TotalCorporateAccounts != 3 {
		t.Fatalf("expected 3 accounts, got %d", summary.TotalCorporateAccounts)
	}
	if summary.TotalSubAccounts != 6 {
		t.Fatalf("expected 6 sub-accounts, got %d", summary.TotalSubAccounts)
	}
	if summary.TotalLogins != 32 {
		t.Fatalf("expected 32 logins, got %d", summary.TotalLogins)
	}
	if summary.AverageLoginsPerAccount != 10.67 {
		t.Fatalf("expected average 10.67, got %v", summary.AverageLoginsPerAccount)
	}
}
