package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `[
  {"px_code": "px1", "dataset": "ipca", "label": "IPCA geral", "api_url": "https://api.example.org/t/1419/n1/1/v/63/p/all"},
  {"px_code": "px2", "dataset": "ipca", "label": "IPCA regional", "api_url": "https://api.example.org/t/1419/n7/2301/v/63/p/all"},
  {"px_code": "px1", "dataset": "ipca", "label": "dup", "api_url": "https://api.example.org/t/1419/n1/1/v/63/p/all"},
  {"px_code": "px3", "dataset": "inpc", "label": "INPC geral", "api_url": "https://api.example.org/t/1100/n1/1/v/44/p/all"}
]`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	records, err := Load(writeCatalog(t))
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "px1", records[0].Code)
	assert.Equal(t, "ipca", records[0].Dataset)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestFilterDataset(t *testing.T) {
	records, err := Load(writeCatalog(t))
	require.NoError(t, err)

	ipca := FilterDataset(records, "ipca")
	assert.Len(t, ipca, 3)
	assert.Len(t, FilterDataset(records, "inpc"), 1)
	assert.Len(t, FilterDataset(records, ""), 4)
	assert.Empty(t, FilterDataset(records, "pib"))
}

func TestDedupeByCode(t *testing.T) {
	records, err := Load(writeCatalog(t))
	require.NoError(t, err)

	deduped := DedupeByCode(records)
	require.Len(t, deduped, 3)
	assert.Equal(t, "IPCA geral", deduped[0].Label)
}

func TestOrderNationalFirst(t *testing.T) {
	records := []Record{
		{Code: "r1", APIURL: "https://api.example.org/t/1/n7/2301/v/63/p/all"},
		{Code: "n1", APIURL: "https://api.example.org/t/1/n1/1/v/63/p/all"},
		{Code: "r2", APIURL: "https://api.example.org/t/1/n6/35/v/63/p/all"},
	}
	ordered := OrderNationalFirst(records)
	assert.Equal(t, []string{"n1", "r1", "r2"},
		[]string{ordered[0].Code, ordered[1].Code, ordered[2].Code})
	// Input untouched.
	assert.Equal(t, "r1", records[0].Code)
}

func TestDatasets(t *testing.T) {
	records, err := Load(writeCatalog(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"inpc", "ipca"}, Datasets(records))
}
