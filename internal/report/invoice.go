package report

// UnmappedLabel is the invoice bucket for parents no mapping entry matches.
const UnmappedLabel = "Unmapped"

// InvoiceMapping is one configured parent-label to invoice-label pair.
// Entry order is significant: when two parent keys normalize to the same
// string, the first listed entry wins.
type InvoiceMapping struct {
	Parent  string `yaml:"parent" json:"parent"`
	Invoice string `yaml:"invoice" json:"invoice"`
}

// InvoiceMap resolves parent labels to invoice labels. It is built once
// from static configuration and read-only afterwards.
type InvoiceMap struct {
	exact      map[string]string
	normalized []normalizedMapping
}

type normalizedMapping struct {
	key     string
	invoice string
}

// NewInvoiceMap builds the lookup index from ordered mapping entries.
// Normalized keys are precomputed so lookups do not re-normalize the
// whole table.
func NewInvoiceMap(entries []InvoiceMapping) *InvoiceMap {
	m := &InvoiceMap{
		exact:      make(map[string]string, len(entries)),
		normalized: make([]normalizedMapping, 0, len(entries)),
	}
	for _, entry := range entries {
		if entry.Parent == "" {
			continue
		}
		if _, exists := m.exact[entry.Parent]; !exists {
			m.exact[entry.Parent] = entry.Invoice
		}
		m.normalized = append(m.normalized, normalizedMapping{
			key:     NormalizeLabel(entry.Parent),
			invoice: entry.Invoice,
		})
	}
	return m
}

// Resolve returns the invoice label for a parent label: exact match
// first, then the first entry whose normalized key matches, then
// UnmappedLabel. Resolve is total and never fails.
func (m *InvoiceMap) Resolve(parentLabel string) string {
	if m == nil {
		return UnmappedLabel
	}
	if invoice, ok := m.exact[parentLabel]; ok {
		return invoice
	}
	needle := NormalizeLabel(parentLabel)
	for _, entry := range m.normalized {
		if entry.key == needle {
			return entry.invoice
		}
	}
	return UnmappedLabel
}

// Len reports the number of configured entries.
func (m *InvoiceMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.normalized)
}
