package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"statsync/internal/catalog"
	"statsync/internal/contract"
	"statsync/internal/docstore"
	"statsync/schema"
)

// Updater runs single-series updates against a provider and a store.
// DryRun executes fetch and comparison but performs no store writes.
type Updater struct {
	Provider contract.SeriesProvider
	Store    contract.SeriesStore
	DryRun   bool

	// Now is injectable for deterministic timestamps in tests.
	Now func() time.Time
}

// NewUpdater wires an Updater with the real clock.
func NewUpdater(provider contract.SeriesProvider, store contract.SeriesStore, dryRun bool) *Updater {
	return &Updater{Provider: provider, Store: store, DryRun: dryRun, Now: time.Now}
}

func (u *Updater) outcome(rec catalog.Record, kind schema.OutcomeKind) schema.RecordOutcome {
	return schema.RecordOutcome{
		Code:        rec.Code,
		Dataset:     rec.Dataset,
		Label:       rec.Label,
		GeneralName: rec.GeneralName,
		Endpoint:    rec.APIURL,
		Kind:        kind,
	}
}

func (u *Updater) failure(rec catalog.Record, err error) schema.RecordOutcome {
	out := u.outcome(rec, schema.OutcomeFailure)
	out.Error = err.Error()
	out.Cause = err
	return out
}

// UpdateIncremental fetches only periods after the stored boundary and
// merges them into the live record. No vintage is written on this path;
// appended periods are new data, not revisions.
func (u *Updater) UpdateIncremental(ctx context.Context, rec catalog.Record) schema.RecordOutcome {
	existing, err := u.Store.LoadRecord(ctx, rec.Code)
	if err != nil {
		return u.failure(rec, err)
	}

	var lastPeriod string
	if existing != nil {
		lastPeriod = schema.LastPeriod(existing.Values)
	}

	fetched, rowMeta, err := u.Provider.FetchSeries(ctx, rec.APIURL, lastPeriod)
	if err != nil {
		return u.failure(rec, err)
	}

	if existing == nil || len(existing.Values) == 0 {
		return u.firstIngestion(ctx, rec, fetched, rowMeta, existing)
	}

	// Defense against a provider that ignored the bound and returned
	// full history.
	newValues := schema.FilterAfter(fetched, lastPeriod)
	if len(newValues) == 0 {
		out := u.outcome(rec, schema.OutcomeNoNewData)
		out.Message = "No new data"
		out.TotalPoints = len(existing.Values)
		return out
	}

	merged := schema.MergeValues(existing.Values, newValues)
	updated := &schema.SeriesRecord{
		Metadata: u.refreshMetadata(existing.Metadata, rec, rowMeta, nil),
		Values:   merged,
	}
	if !u.DryRun {
		if err := u.Store.SaveRecord(ctx, rec.Code, updated); err != nil {
			return u.failure(rec, err)
		}
	}

	out := u.outcome(rec, schema.OutcomeRevised)
	out.Message = fmt.Sprintf("Merged %d new points", len(newValues))
	out.NewPoints = len(newValues)
	out.TotalPoints = len(merged)
	return out
}

// UpdateWithVintages refreshes the full series, compares it against the
// stored version and archives the prior snapshot as a vintage when the
// comparison detects changes. The archive write happens before the live
// overwrite and is best-effort.
func (u *Updater) UpdateWithVintages(ctx context.Context, rec catalog.Record) schema.RecordOutcome {
	fetched, rowMeta, err := u.Provider.FetchSeries(ctx, rec.APIURL, "")
	if err != nil {
		return u.failure(rec, err)
	}
	if len(fetched) == 0 {
		return u.failure(rec, fmt.Errorf("no data returned from provider"))
	}

	existing, err := u.Store.LoadRecord(ctx, rec.Code)
	if err != nil {
		return u.failure(rec, err)
	}
	if existing == nil || len(existing.Values) == 0 {
		return u.firstIngestion(ctx, rec, fetched, rowMeta, existing)
	}

	cmp := CompareValues(existing.Values, fetched)
	if cmp.HasChanges() && !u.DryRun {
		vintage := schema.Vintage{
			Timestamp:        docstore.Timestamp(u.Now()),
			Values:           existing.Values,
			MetadataSnapshot: existing.Metadata,
		}
		if err := u.Store.SaveVintage(ctx, rec.Code, vintage); err != nil {
			contract.LogWarn("could not archive vintage for %s: %v", rec.Code, err)
		}
	}

	updated := &schema.SeriesRecord{
		Metadata: u.refreshMetadata(existing.Metadata, rec, rowMeta, cmp),
		Values:   fetched,
	}
	if !u.DryRun {
		if err := u.Store.SaveRecord(ctx, rec.Code, updated); err != nil {
			return u.failure(rec, err)
		}
	}

	var out schema.RecordOutcome
	if cmp.HasChanges() {
		out = u.outcome(rec, schema.OutcomeRevised)
		out.Message = changeSummary(cmp)
	} else {
		out = u.outcome(rec, schema.OutcomeUnchanged)
		out.Message = fmt.Sprintf("No changes: %d points", len(fetched))
	}
	out.Comparison = cmp
	out.NewPoints = len(cmp.Added)
	out.TotalPoints = len(fetched)
	return out
}

// firstIngestion creates the live record from scratch. No comparison is
// performed and no vintage is written.
func (u *Updater) firstIngestion(ctx context.Context, rec catalog.Record, fetched map[string]float64, rowMeta schema.RowMeta, existing *schema.SeriesRecord) schema.RecordOutcome {
	if len(fetched) == 0 {
		return u.failure(rec, fmt.Errorf("no data returned from provider"))
	}
	var prior map[string]any
	if existing != nil {
		prior = existing.Metadata
	}
	record := &schema.SeriesRecord{
		Metadata: u.refreshMetadata(prior, rec, rowMeta, nil),
		Values:   fetched,
	}
	if !u.DryRun {
		if err := u.Store.SaveRecord(ctx, rec.Code, record); err != nil {
			return u.failure(rec, err)
		}
	}
	out := u.outcome(rec, schema.OutcomeFirstIngestion)
	out.Message = fmt.Sprintf("First ingestion: %d points", len(fetched))
	out.NewPoints = len(fetched)
	out.TotalPoints = len(fetched)
	return out
}

// refreshMetadata preserves prior metadata keys and overwrites only the
// fields every update refreshes.
func (u *Updater) refreshMetadata(prior map[string]any, rec catalog.Record, rowMeta schema.RowMeta, cmp *schema.VintageComparison) map[string]any {
	meta := make(map[string]any, len(prior)+8)
	for k, v := range prior {
		meta[k] = v
	}
	meta[schema.MetaCode] = rec.Code
	meta[schema.MetaDataset] = rec.Dataset
	meta[schema.MetaBranch] = rec.Branch
	meta[schema.MetaLabel] = rec.Label
	meta[schema.MetaGeneralName] = rec.GeneralName
	meta[schema.MetaAPIURL] = rec.APIURL
	meta[schema.MetaRowSample] = rowMeta
	meta[schema.MetaLastUpdated] = docstore.Timestamp(u.Now())
	if cmp != nil {
		meta[schema.MetaVintageComparison] = cmp
	}
	return meta
}

func changeSummary(cmp *schema.VintageComparison) string {
	var parts []string
	if len(cmp.Added) > 0 {
		parts = append(parts, fmt.Sprintf("+%d new", len(cmp.Added)))
	}
	if len(cmp.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("-%d removed", len(cmp.Removed)))
	}
	if len(cmp.Changed) > 0 {
		parts = append(parts, fmt.Sprintf("~%d revised", len(cmp.Changed)))
	}
	return fmt.Sprintf("Updated: %s (vintage saved)", strings.Join(parts, ", "))
}
