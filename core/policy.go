package core

import (
	"context"

	"statsync/internal/catalog"
	"statsync/internal/contract"
	"statsync/schema"
)

// UpdateFunc runs one series update and reports its outcome.
type UpdateFunc func(ctx context.Context, rec catalog.Record) schema.RecordOutcome

// SelectStrategy maps a configured strategy name to an update function.
// Auto resolves to the incremental-then-full chain.
func SelectStrategy(u *Updater, strategy schema.UpdateStrategy) UpdateFunc {
	switch strategy {
	case schema.StrategyIncremental:
		return u.UpdateIncremental
	case schema.StrategyFull:
		return u.UpdateWithVintages
	default:
		return PreferIncrementalThenFull(u)
	}
}

// PreferIncrementalThenFull tries the cheap incremental path first and falls
// back to a full vintage-aware refresh when the incremental fetch fails.
// Only fetch failures trigger the fallback; store failures do not, since the
// full path would hit the same store.
func PreferIncrementalThenFull(u *Updater) UpdateFunc {
	return func(ctx context.Context, rec catalog.Record) schema.RecordOutcome {
		out := u.UpdateIncremental(ctx, rec)
		if out.Kind != schema.OutcomeFailure {
			return out
		}
		if !contract.IsFetchError(out.Cause) {
			return out
		}
		return u.UpdateWithVintages(ctx, rec)
	}
}
