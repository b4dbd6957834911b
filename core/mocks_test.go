package core

import (
	"context"

	"github.com/stretchr/testify/mock"

	"statsync/internal/contract"
	"statsync/schema"
)

// MockProvider is a testify mock for the series provider.
type MockProvider struct {
	mock.Mock
}

var _ contract.SeriesProvider = &MockProvider{}

func (m *MockProvider) FetchSeries(ctx context.Context, apiURL string, lastPeriod string) (map[string]float64, schema.RowMeta, error) {
	args := m.Called(ctx, apiURL, lastPeriod)
	var values map[string]float64
	if args.Get(0) != nil {
		values = args.Get(0).(map[string]float64)
	}
	return values, args.Get(1).(schema.RowMeta), args.Error(2)
}

// MockStore is a testify mock for the series store.
type MockStore struct {
	mock.Mock
}

var _ contract.SeriesStore = &MockStore{}

func (m *MockStore) LoadRecord(ctx context.Context, code string) (*schema.SeriesRecord, error) {
	args := m.Called(ctx, code)
	var rec *schema.SeriesRecord
	if args.Get(0) != nil {
		rec = args.Get(0).(*schema.SeriesRecord)
	}
	return rec, args.Error(1)
}

func (m *MockStore) SaveRecord(ctx context.Context, code string, rec *schema.SeriesRecord) error {
	args := m.Called(ctx, code, rec)
	return args.Error(0)
}

func (m *MockStore) SaveVintage(ctx context.Context, code string, v schema.Vintage) error {
	args := m.Called(ctx, code, v)
	return args.Error(0)
}

func (m *MockStore) ListCodes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	var codes []string
	if args.Get(0) != nil {
		codes = args.Get(0).([]string)
	}
	return codes, args.Error(1)
}
