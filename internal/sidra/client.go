package sidra

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"statsync/internal/contract"
	"statsync/schema"
)

// Header labels that identify the period column.
var periodKeywords = []string{"mês", "mes", "trimestre", "ano", "período", "periodo"}

// Placeholder tokens SIDRA uses for missing or suppressed observations.
var placeholderValues = map[string]bool{"": true, "..": true, "...": true, "-": true}

var periodParamPattern = regexp.MustCompile(`/p/[^/]+`)

// Dimension code columns look like D1C, D2C, D3C.
var codeColumnPattern = regexp.MustCompile(`^D\d+C$`)

// Client fetches series observations over the SIDRA aggregate REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	// Now is injectable for bounded-range construction in tests.
	Now func() time.Time
}

var _ contract.SeriesProvider = &Client{}

// NewClient builds a Client with the given request timeout and a request
// rate cap in requests per second.
func NewClient(timeout time.Duration, requestsPerSecond float64) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		Now:        time.Now,
	}
}

// BoundedURL rewrites the query's period parameter to the half-open range
// starting at the first month after lastPeriod and ending at the current
// month. URLs without a period parameter are returned unchanged and the
// caller filters the over-fetch.
func (c *Client) BoundedURL(apiURL, lastPeriod string) string {
	if lastPeriod == "" {
		return apiURL
	}
	last, err := time.Parse("2006-01-02", lastPeriod)
	if err != nil {
		return apiURL
	}
	start := time.Date(last.Year(), last.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	end := c.Now().UTC()

	rangeParam := fmt.Sprintf("/p/%s-%s", start.Format("200601"), end.Format("200601"))
	if !periodParamPattern.MatchString(apiURL) {
		return apiURL
	}
	return periodParamPattern.ReplaceAllString(apiURL, rangeParam)
}

// FetchSeries retrieves the period->value map for one series. When
// lastPeriod is non-empty the outbound query is narrowed to later periods,
// though callers must still filter since narrowing is best-effort. The
// returned RowMeta holds territory and variable descriptors from the first
// data row, for diagnostics only.
func (c *Client) FetchSeries(ctx context.Context, apiURL string, lastPeriod string) (map[string]float64, schema.RowMeta, error) {
	url := c.BoundedURL(apiURL, lastPeriod)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, schema.RowMeta{}, &contract.FetchError{URL: url, Reason: "rate limiter interrupted", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, schema.RowMeta{}, &contract.FetchError{URL: url, Reason: "building request", Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, schema.RowMeta{}, &contract.FetchError{URL: url, Reason: "transport failure", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, schema.RowMeta{}, &contract.FetchError{
			URL:    url,
			Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, schema.RowMeta{}, &contract.FetchError{URL: url, Reason: "reading response", Err: err}
	}

	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, schema.RowMeta{}, &contract.FetchError{URL: url, Reason: "malformed response", Err: err}
	}
	if len(rows) < 2 {
		return nil, schema.RowMeta{}, &contract.FetchError{URL: url, Reason: "response has no data rows"}
	}

	periodKey := findPeriodColumn(rows[0])
	if periodKey == "" {
		return nil, schema.RowMeta{}, &contract.FetchError{URL: url, Reason: "unable to identify period column"}
	}
	nameKey := ""
	if strings.HasPrefix(periodKey, "D") {
		nameKey = strings.Replace(periodKey, "C", "N", 1)
	}

	values := make(map[string]float64)
	for _, row := range rows[1:] {
		v, ok := parseObservation(row["V"])
		if !ok {
			continue
		}
		period := NormalizePeriod(asString(row[periodKey]), asString(row[nameKey]))
		if period == "" {
			continue
		}
		values[period] = v
	}

	meta := schema.RowMeta{
		TerritoryCode: asString(rows[1]["D1C"]),
		TerritoryName: asString(rows[1]["D1N"]),
		VariableCode:  asString(rows[1]["D2C"]),
		VariableName:  asString(rows[1]["D2N"]),
	}
	return values, meta, nil
}

// findPeriodColumn picks the header key for the period dimension. Responses
// carry the dimension twice, a code column ("D3C": "Trimestre (Código)") and
// a label column ("D3N": "Trimestre"), and both labels contain the keyword.
// The code column wins since its values are the numeric period codes; keys
// are scanned in sorted order so ties resolve the same way every run.
func findPeriodColumn(header map[string]any) string {
	keys := make([]string, 0, len(header))
	for k := range header {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fallback := ""
	for _, key := range keys {
		text, ok := header[key].(string)
		if !ok {
			continue
		}
		lower := strings.ToLower(text)
		matched := false
		for _, word := range periodKeywords {
			if strings.Contains(lower, word) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if codeColumnPattern.MatchString(key) || strings.Contains(lower, "(código)") {
			return key
		}
		if fallback == "" {
			fallback = key
		}
	}
	return fallback
}

// parseObservation filters placeholder tokens and values that do not parse
// as a finite number. Absent is absent, never zero or NaN.
func parseObservation(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case string:
		if placeholderValues[strings.TrimSpace(v)] {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
