package runstore

import (
	"time"

	"github.com/stretchr/testify/mock"

	"statsync/internal/contract"
	"statsync/schema"
)

// MockRunStore is a mock implementation of the RunStore interface.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun mocks run creation.
func (m *MockRunStore) BeginRun(startTime time.Time, dataset string, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, dataset, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun mocks run completion.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, summary schema.BatchSummary) error {
	args := m.Called(runID, endTime, summary)
	return args.Error(0)
}

// RecordOutcome mocks outcome recording.
func (m *MockRunStore) RecordOutcome(runID int64, outcome schema.RecordOutcome) error {
	args := m.Called(runID, outcome)
	return args.Error(0)
}

// LoadFailures mocks failure worklist loading.
func (m *MockRunStore) LoadFailures(dataset string, since time.Time) ([]schema.FailureEntry, error) {
	args := m.Called(dataset, since)
	var entries []schema.FailureEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]schema.FailureEntry)
	}
	return entries, args.Error(1)
}

// HasRecentFailures mocks the recent-failure check.
func (m *MockRunStore) HasRecentFailures(dataset string, since time.Time) (bool, error) {
	args := m.Called(dataset, since)
	return args.Bool(0), args.Error(1)
}

// GetStatus mocks status retrieval.
func (m *MockRunStore) GetStatus() (schema.RunStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStoreStatus), args.Error(1)
}

// GetAllRuns mocks run export.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	var runs []schema.RunRecord
	if args.Get(0) != nil {
		runs = args.Get(0).([]schema.RunRecord)
	}
	return runs, args.Error(1)
}

// GetAllOutcomes mocks outcome export.
func (m *MockRunStore) GetAllOutcomes() ([]schema.OutcomeRecord, error) {
	args := m.Called()
	var outcomes []schema.OutcomeRecord
	if args.Get(0) != nil {
		outcomes = args.Get(0).([]schema.OutcomeRecord)
	}
	return outcomes, args.Error(1)
}

// Close mocks connection close.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
