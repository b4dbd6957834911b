package sidra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statsync/internal/contract"
)

func fixedClock() time.Time {
	return time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)
}

func newTestClient() *Client {
	c := NewClient(5*time.Second, 1000)
	c.Now = fixedClock
	return c
}

func TestBoundedURL(t *testing.T) {
	c := newTestClient()

	got := c.BoundedURL("https://api.example.org/t/1419/n1/1/v/63/p/all", "2024-06-01")
	assert.Equal(t, "https://api.example.org/t/1419/n1/1/v/63/p/202407-202408", got)

	got = c.BoundedURL("https://api.example.org/t/1419/n1/1/v/63/p/last%2012", "2024-06-01")
	assert.Equal(t, "https://api.example.org/t/1419/n1/1/v/63/p/202407-202408", got)

	// No period parameter to rewrite, caller filters instead.
	got = c.BoundedURL("https://api.example.org/t/1419/n1/1/v/63", "2024-06-01")
	assert.Equal(t, "https://api.example.org/t/1419/n1/1/v/63", got)

	// No prior data means full history.
	got = c.BoundedURL("https://api.example.org/t/1419/p/all", "")
	assert.Equal(t, "https://api.example.org/t/1419/p/all", got)
}

const sampleResponse = `[
  {"D1C": "Território", "D1N": "Território", "D2C": "Variável", "D2N": "Variável", "D3C": "Mês (Código)", "D3N": "Mês", "V": "Valor"},
  {"D1C": "1", "D1N": "Brasil", "D2C": "63", "D2N": "IPCA - Variação mensal", "D3C": "202401", "D3N": "janeiro 2024", "V": "0.42"},
  {"D1C": "1", "D1N": "Brasil", "D2C": "63", "D2N": "IPCA - Variação mensal", "D3C": "202402", "D3N": "fevereiro 2024", "V": "..."},
  {"D1C": "1", "D1N": "Brasil", "D2C": "63", "D2N": "IPCA - Variação mensal", "D3C": "202403", "D3N": "março 2024", "V": "0.16"}
]`

func TestFetchSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	c := newTestClient()
	values, meta, err := c.FetchSeries(context.Background(), srv.URL, "")
	require.NoError(t, err)

	assert.Equal(t, map[string]float64{
		"2024-01-01": 0.42,
		"2024-03-01": 0.16,
	}, values)
	assert.Equal(t, "Brasil", meta.TerritoryName)
	assert.Equal(t, "63", meta.VariableCode)
}

func TestFindPeriodColumnPrefersCodeColumn(t *testing.T) {
	header := map[string]any{
		"D1C": "Brasil (Código)", "D1N": "Brasil",
		"D2C": "Variável (Código)", "D2N": "Variável",
		"D3C": "Trimestre (Código)", "D3N": "Trimestre",
		"V": "Valor",
	}
	// Map iteration order varies per run; the pick must not.
	for i := 0; i < 100; i++ {
		assert.Equal(t, "D3C", findPeriodColumn(header))
	}
}

func TestFindPeriodColumnLabelFallback(t *testing.T) {
	header := map[string]any{"P": "Trimestre", "V": "Valor"}
	assert.Equal(t, "P", findPeriodColumn(header))
}

const quarterlyResponse = `[
  {"D1C": "Brasil (Código)", "D1N": "Brasil", "D2C": "Variável (Código)", "D2N": "Variável", "D3C": "Trimestre (Código)", "D3N": "Trimestre", "V": "Valor"},
  {"D1C": "1", "D1N": "Brasil", "D2C": "5932", "D2N": "PIB - Taxa trimestral", "D3C": "202401", "D3N": "1º trimestre 2024", "V": "0.9"},
  {"D1C": "1", "D1N": "Brasil", "D2C": "5932", "D2N": "PIB - Taxa trimestral", "D3C": "202402", "D3N": "2º trimestre 2024", "V": "1.4"},
  {"D1C": "1", "D1N": "Brasil", "D2C": "5932", "D2N": "PIB - Taxa trimestral", "D3C": "202403", "D3N": "3º trimestre 2024", "V": "0.8"},
  {"D1C": "1", "D1N": "Brasil", "D2C": "5932", "D2N": "PIB - Taxa trimestral", "D3C": "202404", "D3N": "4º trimestre 2024", "V": "0.1"}
]`

func TestFetchSeriesQuarterly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quarterlyResponse))
	}))
	defer srv.Close()

	c := newTestClient()
	values, _, err := c.FetchSeries(context.Background(), srv.URL, "")
	require.NoError(t, err)

	// Each quarter keeps its own key. Parsing the label column instead of
	// the code column would collapse all four into the year's first month.
	assert.Equal(t, map[string]float64{
		"2024-01-01": 0.9,
		"2024-04-01": 1.4,
		"2024-07-01": 0.8,
		"2024-10-01": 0.1,
	}, values)
}

func TestFetchSeriesTooFewRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"D1C": "Território", "V": "Valor"}]`))
	}))
	defer srv.Close()

	c := newTestClient()
	_, _, err := c.FetchSeries(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.True(t, contract.IsFetchError(err))
}

func TestFetchSeriesNoPeriodColumn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"D1C": "Território", "V": "Valor"}, {"D1C": "1", "V": "1.0"}]`))
	}))
	defer srv.Close()

	c := newTestClient()
	_, _, err := c.FetchSeries(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.True(t, contract.IsFetchError(err))
}

func TestFetchSeriesBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newTestClient()
	_, _, err := c.FetchSeries(context.Background(), srv.URL, "")
	assert.True(t, contract.IsFetchError(err))
}

func TestParseObservation(t *testing.T) {
	cases := []struct {
		raw  any
		want float64
		ok   bool
	}{
		{"1.5", 1.5, true},
		{float64(2), 2, true},
		{"...", 0, false},
		{"..", 0, false},
		{"", 0, false},
		{nil, 0, false},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := parseObservation(tc.raw)
		assert.Equal(t, tc.ok, ok)
		if ok {
			assert.Equal(t, tc.want, got)
		}
	}
}
