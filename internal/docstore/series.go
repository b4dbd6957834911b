package docstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"statsync/internal/contract"
	"statsync/schema"
)

// SeriesStore persists series records and their vintages under a single
// root node, one child per series code.
type SeriesStore struct {
	client *Client
	root   string
}

var _ contract.SeriesStore = &SeriesStore{}

// NewSeriesStore wraps a store client rooted at the given node, commonly
// "flat_series".
func NewSeriesStore(client *Client, root string) *SeriesStore {
	return &SeriesStore{client: client, root: strings.Trim(root, "/")}
}

func (s *SeriesStore) recordPath(code string) string {
	return s.root + "/" + EscapeSegment(code)
}

// LoadRecord reads the live record for a series. Returns (nil, nil) when the
// series has never been ingested.
func (s *SeriesStore) LoadRecord(ctx context.Context, code string) (*schema.SeriesRecord, error) {
	var rec *schema.SeriesRecord
	if err := s.client.Get(ctx, s.recordPath(code), &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SaveRecord replaces the live record for a series. The record node also
// holds the vintages child, and Set replaces whole subtrees, so the two
// record fields are written at their own sub-paths to leave the archive
// intact.
func (s *SeriesStore) SaveRecord(ctx context.Context, code string, rec *schema.SeriesRecord) error {
	if err := s.client.Set(ctx, s.recordPath(code)+"/metadata", rec.Metadata); err != nil {
		return err
	}
	return s.client.Set(ctx, s.recordPath(code)+"/values", rec.Values)
}

// SaveVintage archives an immutable snapshot keyed by its timestamp.
func (s *SeriesStore) SaveVintage(ctx context.Context, code string, v schema.Vintage) error {
	key := VintageKey(v.Timestamp)
	path := s.recordPath(code) + "/vintages/" + key
	return s.client.Set(ctx, path, v)
}

// ListCodes enumerates every series code stored under the root.
func (s *SeriesStore) ListCodes(ctx context.Context) ([]string, error) {
	return s.client.ShallowKeys(ctx, s.root)
}

// VintageKey derives a path-safe child key from a snapshot timestamp.
func VintageKey(ts string) string {
	safe := strings.ReplaceAll(ts, ":", "-")
	safe = strings.ReplaceAll(safe, ".", "-")
	return fmt.Sprintf("vintage_%s", EscapeSegment(safe))
}

// Timestamp renders t in the format vintage snapshots are keyed by.
func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
