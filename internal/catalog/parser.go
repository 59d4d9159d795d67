// Package catalog mirrors the membership site's product list into the
// local products table.
package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/recoveryfit/corpreport/internal/models"
)

// productPayload is one product entry from the membership site. IDs
// arrive as numbers or numeric strings depending on the exporter
// version, so the field stays raw.
type productPayload struct {
	ID    json.RawMessage `json:"id"`
	Title string          `json:"title"`
}

// ParseProductsPayload decodes a membership product export. Entries
// with a missing or unparseable ID are skipped, empty titles kept.
func ParseProductsPayload(body []byte) ([]models.Product, error) {
	var entries []productPayload
	if errUnmarshal := json.Unmarshal(body, &entries); errUnmarshal != nil {
		return nil, fmt.Errorf("catalog: parse products payload: %w", errUnmarshal)
	}

	products := make([]models.Product, 0, len(entries))
	seen := make(map[uint64]bool, len(entries))
	for _, entry := range entries {
		id, ok := parseProductID(entry.ID)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		products = append(products, models.Product{
			ID:    id,
			Title: strings.TrimSpace(entry.Title),
		})
	}
	return products, nil
}

func parseProductID(raw json.RawMessage) (uint64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var asNumber uint64
	if errNumber := json.Unmarshal(raw, &asNumber); errNumber == nil {
		return asNumber, asNumber > 0
	}

	var asString string
	if errString := json.Unmarshal(raw, &asString); errString == nil {
		id, errParse := strconv.ParseUint(strings.TrimSpace(asString), 10, 64)
		if errParse != nil {
			return 0, false
		}
		return id, id > 0
	}
	return 0, false
}
