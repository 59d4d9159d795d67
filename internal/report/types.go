package report

import "time"

// MembershipEntry describes one active subscription on a user entry.
type MembershipEntry struct {
	MembershipID   uint64    `json:"membership_id"`   // Product ID, 0 when unresolvable.
	Title          string    `json:"title"`           // Product title, may be empty.
	SubscriptionID uint64    `json:"subscription_id"` // Subscription ID.
	Status         string    `json:"status"`          // Subscription status.
	CreatedAt      time.Time `json:"created_at"`      // Subscription start.
}

// UserEntry is one member row in a dashboard payload.
type UserEntry struct {
	UserID      uint64 `json:"user_id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	LoginCount  int    `json:"login_count"`
	// LastLogin is the formatted timestamp, or the raw stored value when
	// it could not be parsed. Empty means the user never logged in.
	LastLogin    string            `json:"last_login,omitempty"`
	LastLoginTS  *int64            `json:"last_login_ts"`
	RegisteredAt time.Time         `json:"registered_at"`
	Memberships  []MembershipEntry `json:"memberships"`
}

// ParentGroup aggregates a corporate account's owner and sub-users.
// Members always lists the parent first.
type ParentGroup struct {
	CorpID       uint64      `json:"corp_id"`
	ParentUserID uint64      `json:"parent_user_id"`
	ParentLabel  string      `json:"parent_label"`
	TotalLogins  int         `json:"total_logins"`
	LastLogin    string      `json:"last_login,omitempty"`
	LastLoginTS  *int64      `json:"last_login_ts"`
	Members      []UserEntry `json:"sub_accounts"`
}

// InvoiceGroup buckets parent groups under one invoice label.
type InvoiceGroup struct {
	InvoiceLabel string        `json:"invoice_label"`
	TotalLogins  int           `json:"total_logins"`
	LastLogin    string        `json:"last_login,omitempty"`
	LastLoginTS  *int64        `json:"last_login_ts"`
	Parents      []ParentGroup `json:"parents"`
}

// MemberTotals summarizes the flat member dashboard.
type MemberTotals struct {
	TotalMembers     int `json:"total_members"`
	Active30         int `json:"active_30"`
	NeverLoggedIn    int `json:"never_logged_in"`
	TotalLoginEvents int `json:"total_login_events"`
}

// MemberPayload is the member dashboard document.
type MemberPayload struct {
	Members []UserEntry  `json:"members"`
	Totals  MemberTotals `json:"totals"`
}

// CorporateReportRow is one flattened parent row in the corporate report.
type CorporateReportRow struct {
	ParentID           uint64      `json:"parent_id"`
	ParentUsername     string      `json:"parent_username"`
	ParentEmail        string      `json:"parent_email"`
	CompanyName        string      `json:"company_name"`
	Location           string      `json:"location"`
	MembershipID       uint64      `json:"membership_id"`
	SubAccountCount    int         `json:"sub_account_count"`
	TotalLogins        int         `json:"total_logins"`
	LastLoginDate      string      `json:"last_login_date,omitempty"` // Raw stored value.
	LastLoginTS        *int64      `json:"last_login_ts"`
	FormattedLastLogin string      `json:"formatted_last_login"`
	SignupDate         time.Time   `json:"parent_signup_date"`
	TransactionStatus  string      `json:"transaction_status"`
	SubscriptionStatus string      `json:"subscription_status"`
	SubAccounts        []UserEntry `json:"sub_accounts"`
}

// ReportSummary carries the corporate report counters.
type ReportSummary struct {
	TotalCorporateAccounts  int     `json:"total_corporate_accounts"`
	TotalSubAccounts        int     `json:"total_sub_accounts"`
	TotalLogins             int     `json:"total_logins"`
	AverageLoginsPerAccount float64 `json:"average_logins_per_account"`
}
