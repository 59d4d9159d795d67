package report

import "testing"

func TestNormalizeLabel(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme-NY", "acme ny"},
		{"  Newport__East   Bay ", "newport east bay"},
		{"acme ny", "acme ny"},
		{"A--_-B", "a b"},
		{"", ""},
		{"   ", ""},
		{"-_-", ""},
	}
	for _, tc := range cases {
		if got := NormalizeLabel(tc.in); got != tc.want {
			t.Fatalf("NormalizeLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLabel_Idempotent(t *testing.T) {
	inputs := []string{"Acme-NY", "Newport_Charlotte RTC", "  mixed -- CASE__x ", ""}
	for _, in := range inputs {
		once := NormalizeLabel(in)
		if twice := NormalizeLabel(once); twice != once {
			t.Fatalf("NormalizeLabel not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}
