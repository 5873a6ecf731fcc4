package catalog

import (
	"strings"
	"testing"

	"github.com/spec-kit/employee-directory/internal/domain"
)

func TestLoadEmbedded(t *testing.T) {
	t.Parallel()

	d, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if d.FilterAll != domain.AllDepartments {
		t.Fatalf("expected filter sentinel %q, got %q", domain.AllDepartments, d.FilterAll)
	}
	want := "Engineering,Marketing,Sales,HR,Finance,Support"
	if got := strings.Join(d.Names, ","); got != want {
		t.Fatalf("unexpected departments %s", got)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		want    string
		wantErr bool
	}{
		{name: "dedupes and trims", doc: "filter_all: All\ndepartments: [' Sales', Sales, '', HR]", want: "Sales,HR"},
		{name: "missing sentinel", doc: "departments: [Sales]", wantErr: true},
		{name: "sentinel listed", doc: "filter_all: All\ndepartments: [All]", wantErr: true},
		{name: "malformed", doc: "departments: [", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			d, err := Parse([]byte(tt.doc))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse returned error: %v", err)
			}
			if got := strings.Join(d.Names, ","); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
