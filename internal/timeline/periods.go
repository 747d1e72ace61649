// Package timeline assembles curated artwork timelines: search, dedupe,
// daily shuffle, progressive batch fetch, cache.
package timeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Period is the static query spec for one curated timeline period. This
// is configuration, not derived data: each key maps to exactly one spec.
type Period struct {
	Key       string   `yaml:"key" json:"key"`
	Title     string   `yaml:"title" json:"title"`
	DateLabel string   `yaml:"dateLabel" json:"dateLabel"`
	StartDate int      `yaml:"startDate" json:"startDate"`
	EndDate   int      `yaml:"endDate" json:"endDate"`
	Queries   []string `yaml:"queries" json:"-"`
}

// builtinPeriods is the default curated period set.
var builtinPeriods = []Period{
	{
		Key:       "ancient",
		Title:     "Ancient World",
		DateLabel: "3000 BCE – 500 CE",
		StartDate: -3000,
		EndDate:   500,
		Queries:   []string{"ancient egyptian", "greek sculpture", "roman marble", "mesopotamia"},
	},
	{
		Key:       "medieval",
		Title:     "Medieval",
		DateLabel: "500 – 1400",
		StartDate: 500,
		EndDate:   1400,
		Queries:   []string{"medieval manuscript", "byzantine", "gothic", "illuminated"},
	},
	{
		Key:       "renaissance",
		Title:     "Renaissance",
		DateLabel: "1300 – 1600",
		StartDate: 1300,
		EndDate:   1600,
		Queries:   []string{"renaissance painting", "italian renaissance", "dutch master", "northern renaissance"},
	},
	{
		Key:       "baroque",
		Title:     "Baroque & Rococo",
		DateLabel: "1600 – 1780",
		StartDate: 1600,
		EndDate:   1780,
		Queries:   []string{"baroque painting", "rembrandt", "rococo", "dutch golden age"},
	},
	{
		Key:       "romanticism",
		Title:     "Romanticism & Realism",
		DateLabel: "1780 – 1860",
		StartDate: 1780,
		EndDate:   1860,
		Queries:   []string{"romanticism", "landscape painting", "turner", "realism painting"},
	},
	{
		Key:       "impressionism",
		Title:     "Impressionism",
		DateLabel: "1860 – 1900",
		StartDate: 1860,
		EndDate:   1900,
		Queries:   []string{"impressionism", "monet", "degas", "post-impressionism"},
	},
	{
		Key:       "modern",
		Title:     "Modern & Contemporary",
		DateLabel: "1900 – today",
		StartDate: 1900,
		EndDate:   2100,
		Queries:   []string{"modern art", "abstract painting", "cubism", "contemporary sculpture"},
	},
}

// Periods returns the period specs keyed by period key. When path is
// non-empty the YAML file at path replaces the built-in set.
func Periods(path string) (map[string]Period, error) {
	specs := builtinPeriods

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read periods file %s: %w", path, err)
		}
		var loaded []Period
		if err := yaml.Unmarshal(raw, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse periods file %s: %w", path, err)
		}
		specs = loaded
	}

	out := make(map[string]Period, len(specs))
	for _, p := range specs {
		if _, dup := out[p.Key]; dup {
			return nil, fmt.Errorf("duplicate period key %q", p.Key)
		}
		out[p.Key] = p
	}
	return out, nil
}
