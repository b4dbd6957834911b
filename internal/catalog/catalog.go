// Package catalog loads the series catalog resource that drives a batch
// invocation. The catalog is loaded once and treated as immutable.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Record describes one tracked series in the catalog.
type Record struct {
	Code        string `json:"px_code"`
	Dataset     string `json:"dataset"`
	Branch      string `json:"branch,omitempty"`
	Label       string `json:"label"`
	GeneralName string `json:"general_name,omitempty"`
	APIURL      string `json:"api_url"`
}

// IsNational reports whether the record queries the national territory
// level. National series are prioritized when the batch is ordered.
func (r Record) IsNational() bool {
	return strings.Contains(r.APIURL, "/n1/1/")
}

// Load reads and parses the catalog file.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return records, nil
}

// FilterDataset keeps only records belonging to the named dataset. An empty
// dataset keeps everything.
func FilterDataset(records []Record, dataset string) []Record {
	if dataset == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Dataset == dataset {
			out = append(out, r)
		}
	}
	return out
}

// DedupeByCode drops later duplicates of the same series code so that at
// most one updater per identifier is in flight per batch.
func DedupeByCode(records []Record) []Record {
	seen := make(map[string]bool, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if seen[r.Code] {
			continue
		}
		seen[r.Code] = true
		out = append(out, r)
	}
	return out
}

// OrderNationalFirst returns records with national series ahead of regional
// ones, stable within each group.
func OrderNationalFirst(records []Record) []Record {
	out := append([]Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsNational() && !out[j].IsNational()
	})
	return out
}

// Datasets lists the distinct dataset names in the catalog, sorted.
func Datasets(records []Record) []string {
	seen := map[string]bool{}
	for _, r := range records {
		seen[r.Dataset] = true
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
