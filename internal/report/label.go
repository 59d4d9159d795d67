package report

import (
	"fmt"
	"strings"

	"github.com/recoveryfit/corpreport/internal/models"
)

// ParentLabel derives the display label for a corporate parent. The
// fallback chain guarantees a non-empty result:
//
//  1. company and location set: "{company}-{location}"
//  2. company set: company
//  3. username containing '-' or '_': "{head}-{tail}" split on the first
//     separator
//  4. username set: username
//  5. otherwise: "User-{id}"
func ParentLabel(user *models.User) string {
	if user == nil {
		return ""
	}

	company := strings.TrimSpace(user.Company)
	location := strings.TrimSpace(user.Location)

	if company != "" && location != "" {
		return company + "-" + location
	}
	if company != "" {
		return company
	}

	if user.Username != "" {
		if idx := strings.IndexAny(user.Username, "-_"); idx > 0 && idx < len(user.Username)-1 {
			return user.Username[:idx] + "-" + user.Username[idx+1:]
		}
		return user.Username
	}

	return fmt.Sprintf("User-%d", user.ID)
}
