// Package export renders report payloads into downloadable formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/recoveryfit/corpreport/internal/report"
)

// utf8BOM makes spreadsheet tools detect the encoding correctly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// reportHeader is the fixed column order of the corporate report export.
var reportHeader = []string{
	"Parent ID",
	"Parent Username",
	"Parent Email",
	"Company Name",
	"Location",
	"Membership ID",
	"Sub-Account Count",
	"Total Logins",
	"Last Login Date",
	"Last Login (Human)",
	"Signup Date",
	"Transaction Status",
	"Subscription Status",
}

const signupDateFormat = "2006-01-02 15:04:05"

// WriteCorporateReportCSV streams the flattened corporate report rows as
// CSV, one line per parent, prefixed with a UTF-8 byte-order marker.
func WriteCorporateReportCSV(w io.Writer, rows []report.CorporateReportRow) error {
	if _, errBOM := w.Write(utf8BOM); errBOM != nil {
		return fmt.Errorf("export: write bom: %w", errBOM)
	}

	cw := csv.NewWriter(w)
	if errHeader := cw.Write(reportHeader); errHeader != nil {
		return fmt.Errorf("export: write header: %w", errHeader)
	}

	for i := range rows {
		if errRow := cw.Write(reportRecord(&rows[i])); errRow != nil {
			return fmt.Errorf("export: write row: %w", errRow)
		}
	}

	cw.Flush()
	if errFlush := cw.Error(); errFlush != nil {
		return fmt.Errorf("export: flush: %w", errFlush)
	}
	return nil
}

func reportRecord(row *report.CorporateReportRow) []string {
	lastLoginRaw := row.LastLoginDate
	if lastLoginRaw == "" {
		lastLoginRaw = "Never"
	}
	lastLoginHuman := row.FormattedLastLogin
	if lastLoginHuman == "" {
		lastLoginHuman = "Never"
	}
	company := row.CompanyName
	if company == "" {
		company = "N/A"
	}
	location := row.Location
	if location == "" {
		location = "N/A"
	}
	subscriptionStatus := row.SubscriptionStatus
	if subscriptionStatus == "" {
		subscriptionStatus = "N/A"
	}

	return []string{
		strconv.FormatUint(row.ParentID, 10),
		row.ParentUsername,
		row.ParentEmail,
		company,
		location,
		strconv.FormatUint(row.MembershipID, 10),
		strconv.Itoa(row.SubAccountCount),
		strconv.Itoa(row.TotalLogins),
		lastLoginRaw,
		lastLoginHuman,
		row.SignupDate.UTC().Format(signupDateFormat),
		row.TransactionStatus,
		subscriptionStatus,
	}
}
