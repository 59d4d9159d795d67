package report

import (
	"testing"

	"github.com/recoveryfit/corpreport/internal/models"
)

func TestParentLabel(t *testing.T) {
	cases := []struct {
		name string
		user models.User
		want string
	}{
		{
			name: "company and location",
			user: models.User{Company: "Acme", Location: "NY", Username: "ignored"},
			want: "Acme-NY",
		},
		{
			name: "company only",
			user: models.User{Company: "Acme", Username: "ignored"},
			want: "Acme",
		},
		{
			name: "username with dash",
			user: models.User{Username: "jdoe-sub1"},
			want: "jdoe-sub1",
		},
		{
			name: "username with underscore",
			user: models.User{Username: "jenny_opi"},
			want: "jenny-opi",
		},
		{
			name: "username split on first separator only",
			user: models.User{Username: "newport-east_bay"},
			want: "newport-east_bay",
		},
		{
			name: "plain username",
			user: models.User{Username: "jdoe"},
			want: "jdoe",
		},
		{
			name: "fallback to id",
			user: models.User{ID: 42},
			want: "User-42",
		},
		{
			name: "whitespace-only company ignored",
			user: models.User{Company: "  ", Username: "jdoe"},
			want: "jdoe",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParentLabel(&tc.user); got != tc.want {
				t.Fatalf("ParentLabel = %q, want %q", got, tc.want)
			}
		})
	}
}
