package report

import "testing"

func testInvoiceMap() *InvoiceMap {
	return NewInvoiceMap([]InvoiceMapping{
		{Parent: "Acme-NY", Invoice: "NYGroup"},
		{Parent: "Newport-Charlotte", Invoice: "North Carolina RTC"},
		{Parent: "Newport-Eastbay", Invoice: "Norcal-Eastbay"},
	})
}

func TestInvoiceMapResolve_Exact(t *testing.T) {
	m := testInvoiceMap()
	if got := m.Resolve("Acme-NY"); got != "NYGroup" {
		t.Fatalf("exact lookup = %q, want %q", got, "NYGroup")
	}
}

func TestInvoiceMapResolve_Normalized(t *testing.T) {
	m := testInvoiceMap()
	if got := m.Resolve("acme ny"); got != "NYGroup" {
		t.Fatalf("normalized lookup = %q, want %q", got, "NYGroup")
	}
	if got := m.Resolve("newport_eastbay"); got != "Norcal-Eastbay" {
		t.Fatalf("normalized lookup = %q, want %q", got, "Norcal-Eastbay")
	}
}

func TestInvoiceMapResolve_Unmapped(t *testing.T) {
	m := testInvoiceMap()
	for _, label := range []string{"Unknown Co", "", "acme ny extra"} {
		if got := m.Resolve(label); got != UnmappedLabel {
			t.Fatalf("Resolve(%q) = %q, want %q", label, got, UnmappedLabel)
		}
	}
}

func TestInvoiceMapResolve_FirstListedWinsOnNormalizedTie(t *testing.T) {
	// Both keys normalize to "newport eastbay"; entry order decides.
	m := NewInvoiceMap([]InvoiceMapping{
		{Parent: "Newport-Eastbay", Invoice: "First"},
		{Parent: "newport_eastbay", Invoice: "Second"},
	})
	if got := m.Resolve("NEWPORT EASTBAY"); got != "First" {
		t.Fatalf("tie-break = %q, want %q", got, "First")
	}
	// Exact matches still honor their own entry.
	if got := m.Resolve("newport_eastbay"); got != "Second" {
		t.Fatalf("exact on second key = %q, want %q", got, "Second")
	}
}

func TestInvoiceMapResolve_NilMap(t *testing.T) {
	var m *InvoiceMap
	if got := m.Resolve("anything"); got != UnmappedLabel {
		t.Fatalf("nil map resolve = %q, want %q", got, UnmappedLabel)
	}
}
