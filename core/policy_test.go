package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"statsync/internal/contract"
	"statsync/schema"
)

func TestPreferIncrementalThenFullUsesIncrementalResult(t *testing.T) {
	provider := &MockProvider{}
	store := &MockStore{}
	ctx := context.Background()

	store.On("LoadRecord", ctx, "px1").
		Return(&schema.SeriesRecord{Values: map[string]float64{"2024-06-01": 2}}, nil)
	provider.On("FetchSeries", ctx, testRecord.APIURL, "2024-06-01").
		Return(map[string]float64{}, schema.RowMeta{}, nil)

	update := PreferIncrementalThenFull(newTestUpdater(provider, store, false))
	out := update(ctx, testRecord)

	assert.Equal(t, schema.OutcomeNoNewData, out.Kind)
	provider.AssertNumberOfCalls(t, "FetchSeries", 1)
}

func TestPreferIncrementalThenFullFallsBackOnFetchError(t *testing.T) {
	provider := &MockProvider{}
	store := &MockStore{}
	ctx := context.Background()

	store.On("LoadRecord", ctx, "px1").
		Return(&schema.SeriesRecord{Values: map[string]float64{"2024-06-01": 2}}, nil)
	// Bounded fetch fails, the full-history fetch succeeds.
	provider.On("FetchSeries", ctx, testRecord.APIURL, "2024-06-01").
		Return(nil, schema.RowMeta{}, &contract.FetchError{URL: testRecord.APIURL, Reason: "response has no data rows"})
	provider.On("FetchSeries", ctx, testRecord.APIURL, "").
		Return(map[string]float64{"2024-06-01": 2, "2024-07-01": 3}, schema.RowMeta{}, nil)
	store.On("SaveVintage", ctx, "px1", mock.Anything).Return(nil)
	store.On("SaveRecord", ctx, "px1", mock.Anything).Return(nil)

	update := PreferIncrementalThenFull(newTestUpdater(provider, store, false))
	out := update(ctx, testRecord)

	assert.Equal(t, schema.OutcomeRevised, out.Kind)
	provider.AssertNumberOfCalls(t, "FetchSeries", 2)
}

func TestPreferIncrementalThenFullNoFallbackOnStoreError(t *testing.T) {
	provider := &MockProvider{}
	store := &MockStore{}
	ctx := context.Background()

	store.On("LoadRecord", ctx, "px1").
		Return(nil, &contract.StoreError{Path: "flat_series/px1", Op: "get"})

	update := PreferIncrementalThenFull(newTestUpdater(provider, store, false))
	out := update(ctx, testRecord)

	assert.Equal(t, schema.OutcomeFailure, out.Kind)
	provider.AssertNotCalled(t, "FetchSeries", mock.Anything, mock.Anything, mock.Anything)
}

func TestSelectStrategy(t *testing.T) {
	u := newTestUpdater(&MockProvider{}, &MockStore{}, false)
	assert.NotNil(t, SelectStrategy(u, schema.StrategyIncremental))
	assert.NotNil(t, SelectStrategy(u, schema.StrategyFull))
	assert.NotNil(t, SelectStrategy(u, schema.StrategyAuto))
}
