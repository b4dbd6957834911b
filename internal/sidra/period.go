// Package sidra fetches tabular observations from the SIDRA aggregate API
// and normalizes its period encodings.
package sidra

import (
	"fmt"
	"strconv"
	"strings"
)

// Portuguese month names as they appear in SIDRA period labels.
var monthsByName = map[string]int{
	"janeiro":   1,
	"fevereiro": 2,
	"março":     3,
	"marco":     3,
	"abril":     4,
	"maio":      5,
	"junho":     6,
	"julho":     7,
	"agosto":    8,
	"setembro":  9,
	"outubro":   10,
	"novembro":  11,
	"dezembro":  12,
}

// NormalizePeriod converts a SIDRA period code plus its human-readable label
// into a canonical YYYY-MM-DD key. Canonical keys sort lexicographically in
// calendar order across the supported granularities. Returns "" when neither
// input can be interpreted; the caller drops that observation.
//
// Supported encodings:
//   - YYYYMM codes for monthly series ("202406" -> "2024-06-01")
//   - YYYYQQ codes when the label mentions a quarter ("202402" + "2º
//     trimestre 2024" -> "2024-04-01", the quarter's first month)
//   - rolling-quarter labels name a month range; the last named month wins
//     ("abr-mai-jun 2024" style labels -> "2024-06-01")
//   - YYYY codes for annual series ("2024" -> "2024-01-01")
func NormalizePeriod(code, label string) string {
	code = strings.TrimSpace(code)
	labelLower := strings.ToLower(strings.TrimSpace(label))

	if len(code) == 6 && isDigits(code) {
		year, _ := strconv.Atoi(code[:4])
		suffix, _ := strconv.Atoi(code[4:])
		if year < 1900 || year > 2200 {
			return ""
		}
		// Quarterly codes reuse the six-digit shape with 01..04 in the
		// month slot; the label disambiguates.
		if strings.Contains(labelLower, "trimestre") && suffix >= 1 && suffix <= 4 {
			if m := lastMonthInLabel(labelLower); m > 0 {
				// Rolling quarter: the label names the window's months.
				return formatPeriod(year, m)
			}
			return formatPeriod(year, (suffix-1)*3+1)
		}
		if suffix >= 1 && suffix <= 12 {
			return formatPeriod(year, suffix)
		}
		return ""
	}

	if len(code) == 4 && isDigits(code) {
		year, _ := strconv.Atoi(code)
		if year < 1900 || year > 2200 {
			return ""
		}
		return formatPeriod(year, 1)
	}

	// Fall back to the label alone: "junho 2024", "2024".
	if m := lastMonthInLabel(labelLower); m > 0 {
		if year := yearInLabel(labelLower); year > 0 {
			return formatPeriod(year, m)
		}
	}
	if year := yearInLabel(labelLower); year > 0 {
		return formatPeriod(year, 1)
	}
	return ""
}

func formatPeriod(year, month int) string {
	return fmt.Sprintf("%04d-%02d-01", year, month)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// lastMonthInLabel returns the last Portuguese month named in the label,
// or 0 when none is found. Rolling-quarter labels list several months and
// the window is keyed by the final one.
func lastMonthInLabel(labelLower string) int {
	last := 0
	lastIdx := -1
	for name, m := range monthsByName {
		if idx := strings.LastIndex(labelLower, name); idx > lastIdx {
			lastIdx = idx
			last = m
		}
	}
	// Abbreviated windows like "abr-mai-jun 2024".
	for abbr, m := range monthAbbrevs {
		if idx := strings.LastIndex(labelLower, abbr); idx > lastIdx {
			lastIdx = idx
			last = m
		}
	}
	return last
}

var monthAbbrevs = map[string]int{
	"jan": 1, "fev": 2, "mar": 3, "abr": 4, "mai": 5, "jun": 6,
	"jul": 7, "ago": 8, "set": 9, "out": 10, "nov": 11, "dez": 12,
}

func yearInLabel(labelLower string) int {
	fields := strings.FieldsFunc(labelLower, func(r rune) bool {
		return r < '0' || r > '9'
	})
	for i := len(fields) - 1; i >= 0; i-- {
		if len(fields[i]) == 4 {
			year, _ := strconv.Atoi(fields[i])
			if year >= 1900 && year <= 2200 {
				return year
			}
		}
	}
	return 0
}
