package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed departments.yaml
var departmentsYAML []byte

// Departments lists the suggested department names shown by clients. Department stays free
// text on the record; the list only drives pickers and filters.
type Departments struct {
	FilterAll string   `yaml:"filter_all" json:"filterAll"`
	Names     []string `yaml:"departments" json:"departments"`
}

// Load parses the embedded department catalog.
func Load() (*Departments, error) {
	return Parse(departmentsYAML)
}

// Parse decodes a department catalog document.
func Parse(data []byte) (*Departments, error) {
	var d Departments
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode department catalog: %w", err)
	}
	if strings.TrimSpace(d.FilterAll) == "" {
		return nil, fmt.Errorf("department catalog: filter_all is required")
	}
	seen := make(map[string]struct{}, len(d.Names))
	names := make([]string, 0, len(d.Names))
	for _, name := range d.Names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if name == d.FilterAll {
			return nil, fmt.Errorf("department catalog: %q is reserved for the filter", name)
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	d.Names = names
	return &d, nil
}
