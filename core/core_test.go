package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"statsync/internal/artifact"
	"statsync/internal/contract"
	"statsync/schema"
)

// noopRunManager stands in where the run store path is never reached.
type noopRunManager struct{}

func (noopRunManager) GetRunStore() contract.RunStore { return nil }

const worklistCatalog = `[
  {"px_code": "px1", "dataset": "ipca", "branch": "indice", "label": "Headline",
   "general_name": "ipca_headline", "api_url": "https://api.example.org/t/1737/n1/1/p/all"},
  {"px_code": "px2", "dataset": "ipca", "branch": "indice", "label": "Regional",
   "general_name": "ipca_regional", "api_url": "https://api.example.org/t/1737/n7/3501/p/all"},
  {"px_code": "px3", "dataset": "pmc", "branch": "volume", "label": "Retail",
   "general_name": "pmc_retail", "api_url": "https://api.example.org/t/8880/n1/1/p/all"}
]`

func writeCatalogFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(worklistCatalog), 0o644))
	return path
}

func TestBuildWorklistFiltersDataset(t *testing.T) {
	cfg := &contract.Config{CatalogPath: writeCatalogFile(t), Dataset: "ipca"}
	store := &MockStore{}

	records, err := BuildWorklist(context.Background(), cfg, store)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "px1", records[0].Code, "National series should come first")
	store.AssertNotCalled(t, "ListCodes")
}

func TestBuildWorklistNationalOnly(t *testing.T) {
	cfg := &contract.Config{CatalogPath: writeCatalogFile(t), Dataset: "ipca", NationalOnly: true}
	store := &MockStore{}

	records, err := BuildWorklist(context.Background(), cfg, store)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "px1", records[0].Code)
}

func TestBuildWorklistResumeSkipsStored(t *testing.T) {
	cfg := &contract.Config{CatalogPath: writeCatalogFile(t), Resume: true}
	store := &MockStore{}
	store.On("ListCodes", mock.Anything).Return([]string{"px1"}, nil)

	records, err := BuildWorklist(context.Background(), cfg, store)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, rec := range records {
		assert.NotEqual(t, "px1", rec.Code)
	}
}

func TestBuildWorklistMissingCatalog(t *testing.T) {
	cfg := &contract.Config{CatalogPath: filepath.Join(t.TempDir(), "missing.json")}

	_, err := BuildWorklist(context.Background(), cfg, &MockStore{})
	assert.Error(t, err)
}

func TestLoadRetryWorklistFromArtifact(t *testing.T) {
	dir := t.TempDir()
	cfg := &contract.Config{
		Dataset:       "ipca",
		ArtifactsDir:  dir,
		RunBackend:    schema.NoneBackend,
		RetryLookback: 7 * 24 * time.Hour,
	}

	summary := schema.BatchSummary{
		Dataset: "ipca",
		Failures: []schema.FailureEntry{
			{Code: "px9", Label: "Broken", Endpoint: "https://api.example.org/t/1/n1/1/p/all", Error: "status 500"},
		},
	}
	_, err := artifact.WriteFailureLog(dir, summary, time.Now())
	require.NoError(t, err)

	records, err := loadRetryWorklist(cfg, &noopRunManager{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "px9", records[0].Code)
	assert.Equal(t, "ipca", records[0].Dataset)
	assert.Equal(t, "https://api.example.org/t/1/n1/1/p/all", records[0].APIURL)
}

func TestLoadRetryWorklistEmptyWhenNoArtifacts(t *testing.T) {
	cfg := &contract.Config{
		Dataset:       "ipca",
		ArtifactsDir:  t.TempDir(),
		RunBackend:    schema.NoneBackend,
		RetryLookback: 7 * 24 * time.Hour,
	}

	records, err := loadRetryWorklist(cfg, &noopRunManager{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRunConfigParams(t *testing.T) {
	cfg := &contract.Config{Workers: 4, Strategy: schema.StrategyAuto, DryRun: true, StoreRoot: "flat_series"}

	params := runConfigParams(cfg)
	assert.Equal(t, 4, params["workers"])
	assert.Equal(t, "auto", params["strategy"])
	assert.Equal(t, true, params["dry_run"])
}
