package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/recoveryfit/corpreport/internal/models"
)

// fakeSource serves builder tests from fixed in-memory records.
type fakeSource struct {
	accounts []models.CorporateAccount
	users    map[uint64]models.User
	subUsers map[uint64][]models.User
	attrs    map[uint64]map[string]string
	subs     map[uint64][]models.Subscription

	failUsers map[uint64]bool
}

func (f *fakeSource) CorporateAccounts(_ context.Context, statuses []string) ([]models.CorporateAccount, error) {
	allowed := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		allowed[s] = true
	}
	var out []models.CorporateAccount
	for _, account := range f.accounts {
		if len(statuses) == 0 || allowed[account.Status] {
			out = append(out, account)
		}
	}
	return out, nil
}

func (f *fakeSource) UserByID(_ context.Context, id uint64) (*models.User, error) {
	if f.failUsers[id] {
		return nil, errors.New("lookup failed")
	}
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (f *fakeSource) SubUsers(_ context.Context, accountID uint64) ([]models.User, error) {
	return f.subUsers[accountID], nil
}

func (f *fakeSource) Users(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, account := range f.accounts {
		if user, ok := f.users[account.UserID]; ok {
			out = append(out, user)
		}
	}
	for _, subs := range f.subUsers {
		out = append(out, subs...)
	}
	return out, nil
}

func (f *fakeSource) ActiveSubscriptions(_ context.Context, userID uint64) ([]models.Subscription, error) {
	return f.subs[userID], nil
}

func (f *fakeSource) Attribute(_ context.Context, userID uint64, key string) (string, error) {
	return f.attrs[userID][key], nil
}

func newFixtureSource() *fakeSource {
	return &fakeSource{
		accounts: []models.CorporateAccount{
			{ID: 1, UserID: 10, Status: models.CorporateStatusEnabled},
			{ID: 2, UserID: 20, Status: models.CorporateStatusActive},
			{ID: 3, UserID: 30, Status: models.CorporateStatusDisabled},
			{ID: 4, UserID: 99, Status: models.CorporateStatusEnabled}, // parent missing
		},
		users: map[uint64]models.User{
			10: {ID: 10, Username: "acme-parent", Company: "Acme", Location: "NY"},
			20: {ID: 20, Username: "newport_eastbay"},
		},
		subUsers: map[uint64][]models.User{
			1: {
				{ID: 11, Username: "acme-sub1", CorporateAccountID: ptrUint64(1)},
				{ID: 12, Username: "acme-sub2", CorporateAccountID: ptrUint64(1)},
			},
		},
		attrs: map[uint64]map[string]string{
			10: {models.AttrLoginCount: "5", models.AttrLastLogin: "1000"},
			11: {models.AttrLoginCount: "", models.AttrLastLogin: ""},
			12: {models.AttrLoginCount: "12", models.AttrLastLogin: "2000"},
			20: {models.AttrLoginCount: "2", models.AttrLastLogin: "not-a-date"},
		},
		subs:      map[uint64][]models.Subscription{},
		failUsers: map[uint64]bool{},
	}
}

func ptrUint64(v uint64) *uint64 { return &v }

func activeStatuses() []string {
	return []string{models.CorporateStatusEnabled, models.CorporateStatusActive}
}

func TestBuildParentGroups_AggregatesAndSkips(t *testing.T) {
	src := newFixtureSource()
	svc := NewService(src, testInvoiceMap(), activeStatuses())

	groups, err := svc.BuildParentGroups(context.Background())
	if err != nil {
		t.Fatalf("BuildParentGroups: %v", err)
	}
	// Account 3 is disabled, account 4 has no parent user.
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	acme := groups[0]
	if acme.CorpID != 1 || acme.ParentUserID != 10 {
		t.Fatalf("unexpected first group %+v", acme)
	}
	if acme.ParentLabel != "Acme-NY" {
		t.Fatalf("expected parent label Acme-NY, got %q", acme.ParentLabel)
	}
	if len(acme.Members) != 3 || acme.Members[0].UserID != 10 {
		t.Fatalf("expected parent-first member list, got %+v", acme.Members)
	}
	if acme.TotalLogins != 17 {
		t.Fatalf("expected total logins 17, got %d", acme.TotalLogins)
	}
	if acme.LastLoginTS == nil || *acme.LastLoginTS != 2000 {
		t.Fatalf("expected last login 2000, got %v", acme.LastLoginTS)
	}

	newport := groups[1]
	if newport.ParentLabel != "newport-eastbay" {
		t.Fatalf("expected username-derived label, got %q", newport.ParentLabel)
	}
	if newport.LastLoginTS != nil {
		t.Fatalf("expected nil last login for unparseable value, got %v", newport.LastLoginTS)
	}
	if newport.TotalLogins != 2 {
		t.Fatalf("expected total logins 2, got %d", newport.TotalLogins)
	}
}

func TestBuildParentGroups_SkipsOnUserLookupError(t *testing.T) {
	src := newFixtureSource()
	src.failUsers[20] = true
	svc := NewService(src, testInvoiceMap(), activeStatuses())

	groups, err := svc.BuildParentGroups(context.Background())
	if err != nil {
		t.Fatalf("BuildParentGroups: %v", err)
	}
	if len(groups) != 1 || groups[0].CorpID != 1 {
		t.Fatalf("expected only the first group to survive, got %+v", groups)
	}
}

func TestFoldInvoiceGroups(t *testing.T) {
	ts1, ts2 := int64(1000), int64(2000)
	groups := []ParentGroup{
		{ParentLabel: "Newport-Eastbay", TotalLogins: 10, LastLoginTS: &ts1},
		{ParentLabel: "Unknown Co", TotalLogins: 1},
		{ParentLabel: "newport_eastbay", TotalLogins: 7, LastLoginTS: &ts2},
	}
	m := testInvoiceMap()

	invoices := FoldInvoiceGroups(groups, m)
	if len(invoices) != 2 {
		t.Fatalf("expected 2 invoice groups, got %d", len(invoices))
	}

	eastbay := invoices[0]
	if eastbay.InvoiceLabel != "Norcal-Eastbay" {
		t.Fatalf("expected Norcal-Eastbay first, got %q", eastbay.InvoiceLabel)
	}
	if eastbay.TotalLogins != 17 {
		t.Fatalf("expected bucket total 17, got %d", eastbay.TotalLogins)
	}
	if eastbay.LastLoginTS == nil || *eastbay.LastLoginTS != 2000 {
		t.Fatalf("expected bucket last login 2000, got %v", eastbay.LastLoginTS)
	}
	if len(eastbay.Parents) != 2 {
		t.Fatalf("expected 2 parents in bucket, got %d", len(eastbay.Parents))
	}

	unmapped := invoices[1]
	if unmapped.InvoiceLabel != UnmappedLabel {
		t.Fatalf("expected Unmapped bucket, got %q", unmapped.InvoiceLabel)
	}
	if unmapped.LastLoginTS != nil {
		t.Fatalf("expected nil last login for all-nil bucket, got %v", unmapped.LastLoginTS)
	}
}

func TestFoldInvoiceGroups_SumAssociativity(t *testing.T) {
	groups := []ParentGroup{
		{ParentLabel: "a", TotalLogins: 3},
		{ParentLabel: "b", TotalLogins: 4},
		{ParentLabel: "c", TotalLogins: 5},
	}
	m := NewInvoiceMap(nil)

	forward := FoldInvoiceGroups(groups, m)
	reversed := FoldInvoiceGroups([]ParentGroup{groups[2], groups[1], groups[0]}, m)
	if len(forward) != 1 || len(reversed) != 1 {
		t.Fatalf("expected single Unmapped bucket")
	}
	if forward[0].TotalLogins != reversed[0].TotalLogins {
		t.Fatalf("sum depends on order: %d vs %d", forward[0].TotalLogins, reversed[0].TotalLogins)
	}
}

func TestBuildMemberPayload_Totals(t *testing.T) {
	src := newFixtureSource()
	recent := time.Now().Add(-24 * time.Hour).Unix()
	src.attrs[12][models.AttrLastLogin] = "1700000000"
	src.attrs[11][models.AttrLastLogin] = ""
	src.attrs[10][models.AttrLastLogin] = formatUnix(recent)

	svc := NewService(src, testInvoiceMap(), activeStatuses())
	payload, err := svc.BuildMemberPayload(context.Background())
	if err != nil {
		t.Fatalf("BuildMemberPayload: %v", err)
	}

	if payload.Totals.TotalMembers != len(payload.Members) {
		t.Fatalf("total members %d != len(members) %d", payload.Totals.TotalMembers, len(payload.Members))
	}
	// 5 + 2 + 0 + 12 login events across the fixture users.
	if payload.Totals.TotalLoginEvents != 19 {
		t.Fatalf("expected 19 login events, got %d", payload.Totals.TotalLoginEvents)
	}
	// User 11 never logged in; user 20 has an unparseable value.
	if payload.Totals.NeverLoggedIn != 2 {
		t.Fatalf("expected 2 never-logged-in, got %d", payload.Totals.NeverLoggedIn)
	}
	if payload.Totals.Active30 != 1 {
		t.Fatalf("expected 1 active in 30 days, got %d", payload.Totals.Active30)
	}
}

func formatUnix(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04:05")
}
