package permissions

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Definition describes an admin permission.
type Definition struct {
	Key    string `json:"key"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Label  string `json:"label"`
	Module string `json:"module"`
}

// Key builds a permission key from method and path.
func Key(method, path string) string {
	return strings.ToUpper(method) + " " + path
}

// NormalizePermissions trims, de-duplicates, and sorts permissions.
func NormalizePermissions(perms []string) []string {
	if len(perms) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(perms))
	normalized := make([]string, 0, len(perms))
	for _, perm := range perms {
		trimmed := strings.TrimSpace(perm)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	sort.Strings(normalized)
	return normalized
}

// ValidatePermissions validates that all permissions exist in the definition set.
func ValidatePermissions(perms []string) error {
	if len(perms) == 0 {
		return nil
	}
	allowed := definitionMap
	for _, perm := range perms {
		trimmed := strings.TrimSpace(perm)
		if trimmed == "" {
			continue
		}
		if _, ok := allowed[trimmed]; !ok {
			return fmt.Errorf("invalid permission: %s", trimmed)
		}
	}
	return nil
}

// ParsePermissions parses and normalizes permissions from JSON.
func ParsePermissions(raw []byte) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var perms []string
	if err := json.Unmarshal(raw, &perms); err != nil {
		return []string{}
	}
	return NormalizePermissions(perms)
}

// MarshalPermissions serializes normalized permissions to JSON.
func MarshalPermissions(perms []string) ([]byte, error) {
	normalized := NormalizePermissions(perms)
	return json.Marshal(normalized)
}

// HasPermission checks whether the key exists in the permission list.
func HasPermission(perms []string, key string) bool {
	if key == "" {
		return false
	}
	for _, perm := range perms {
		if perm == key {
			return true
		}
	}
	return false
}

// Definitions returns a copy of all permission definitions.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// newDefinition builds a Definition with a normalized key.
func newDefinition(method, path, label, module string) Definition {
	upperMethod := strings.ToUpper(method)
	return Definition{
		Key:    Key(upperMethod, path),
		Method: upperMethod,
		Path:   path,
		Label:  label,
		Module: module,
	}
}

// definitions is the ordered list of permission definitions.
var definitions = []Definition{
	newDefinition("GET", "/v0/admin/dashboard/invoices", "View Invoice Dashboard", "Dashboards"),
	newDefinition("GET", "/v0/admin/dashboard/members", "View Member Dashboard", "Dashboards"),

	newDefinition("GET", "/v0/admin/reports/corporate", "View Corporate Report", "Reports"),
	newDefinition("GET", "/v0/admin/reports/corporate/export", "Export Corporate Report CSV", "Reports"),

	newDefinition("GET", "/v0/admin/users", "List Members", "Members"),
	newDefinition("GET", "/v0/admin/users/:id", "Get Member", "Members"),
	newDefinition("GET", "/v0/admin/users/:id/logins", "View Member Logins", "Members"),

	newDefinition("POST", "/v0/admin/admins", "Create Administrator", "Administrators"),
	newDefinition("GET", "/v0/admin/admins", "List Administrators", "Administrators"),
	newDefinition("GET", "/v0/admin/admins/:id", "Get Administrator", "Administrators"),
	newDefinition("PUT", "/v0/admin/admins/:id", "Update Administrator", "Administrators"),
	newDefinition("DELETE", "/v0/admin/admins/:id", "Delete Administrator", "Administrators"),
	newDefinition("POST", "/v0/admin/admins/:id/disable", "Disable Administrator", "Administrators"),
	newDefinition("POST", "/v0/admin/admins/:id/enable", "Enable Administrator", "Administrators"),
	newDefinition("PUT", "/v0/admin/admins/:id/password", "Change Administrator Password", "Administrators"),
	newDefinition("GET", "/v0/admin/permissions", "List Permission Definitions", "Administrators"),
}

// definitionMap provides fast lookup for permission definitions.
var definitionMap = func() map[string]Definition {
	out := make(map[string]Definition, len(definitions))
	for _, def := range definitions {
		out[def.Key] = def
	}
	return out
}()
