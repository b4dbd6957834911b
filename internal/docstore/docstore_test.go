package docstore

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statsync/schema"
)

// fakeStore is an in-memory stand-in for the document store's REST surface.
// Nodes form a nested tree and a PUT replaces the whole subtree at its path,
// matching the real store's write semantics.
type fakeStore struct {
	mu   sync.Mutex
	tree map[string]any
}

func newFakeStore() *fakeStore {
	return &fakeStore{tree: make(map[string]any)}
}

func pathSegments(urlPath string) []string {
	trimmed := strings.TrimSuffix(strings.Trim(urlPath, "/"), ".json")
	return strings.Split(trimmed, "/")
}

func (f *fakeStore) lookup(segs []string) (any, bool) {
	var node any = f.tree
	for _, seg := range segs {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

func (f *fakeStore) put(segs []string, value any) {
	node := f.tree
	for i, seg := range segs {
		if i == len(segs)-1 {
			node[seg] = value
			return
		}
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
}

func (f *fakeStore) handler(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	segs := pathSegments(r.URL.Path)
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		var value any
		if err := json.Unmarshal(body, &value); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.put(segs, value)
		w.Write(body)
	case http.MethodGet:
		node, ok := f.lookup(segs)
		if !ok {
			w.Write([]byte("null"))
			return
		}
		if r.URL.Query().Get("shallow") == "true" {
			children, isMap := node.(map[string]any)
			if !isMap || len(children) == 0 {
				w.Write([]byte("null"))
				return
			}
			keys := make(map[string]bool, len(children))
			for k := range children {
				keys[k] = true
			}
			out, _ := json.Marshal(keys)
			w.Write(out)
			return
		}
		out, _ := json.Marshal(node)
		w.Write(out)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStore(t *testing.T) (*SeriesStore, *httptest.Server) {
	t.Helper()
	fake := newFakeStore()
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL, "", 5*time.Second)
	return NewSeriesStore(client, "flat_series"), srv
}

func TestEscapeSegment(t *testing.T) {
	assert.Equal(t, "table_1419_v_63", EscapeSegment("table.1419/v#63"))
	assert.Equal(t, "plain", EscapeSegment("plain"))
	assert.Equal(t, "a_b_", EscapeSegment(`a[b]`))
}

func TestSeriesStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	rec, err := store.LoadRecord(ctx, "px1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	saved := &schema.SeriesRecord{
		Metadata: map[string]any{schema.MetaCode: "px1"},
		Values:   map[string]float64{"2024-01-01": 1.5},
	}
	require.NoError(t, store.SaveRecord(ctx, "px1", saved))

	rec, err = store.LoadRecord(ctx, "px1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, saved.Values, rec.Values)
	assert.Equal(t, "px1", rec.Metadata[schema.MetaCode])
}

func TestSeriesStoreVintageAndList(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecord(ctx, "px1", &schema.SeriesRecord{
		Values: map[string]float64{"2024-01-01": 1},
	}))
	require.NoError(t, store.SaveVintage(ctx, "px1", schema.Vintage{
		Timestamp: "2024-08-15T12:00:00Z",
		Values:    map[string]float64{"2024-01-01": 1},
	}))

	codes, err := store.ListCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"px1"}, codes)
}

func TestVintageSurvivesLiveOverwrite(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecord(ctx, "px1", &schema.SeriesRecord{
		Metadata: map[string]any{schema.MetaCode: "px1"},
		Values:   map[string]float64{"2024-01-01": 1.0},
	}))
	require.NoError(t, store.SaveVintage(ctx, "px1", schema.Vintage{
		Timestamp: "2024-08-15T12:00:00Z",
		Values:    map[string]float64{"2024-01-01": 1.0},
	}))

	// A revision lands: the archive must outlive the live overwrite.
	require.NoError(t, store.SaveRecord(ctx, "px1", &schema.SeriesRecord{
		Metadata: map[string]any{schema.MetaCode: "px1"},
		Values:   map[string]float64{"2024-01-01": 1.1},
	}))

	rec, err := store.LoadRecord(ctx, "px1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 1.1, rec.Values["2024-01-01"])

	var v schema.Vintage
	path := "flat_series/px1/vintages/" + VintageKey("2024-08-15T12:00:00Z")
	require.NoError(t, store.client.Get(ctx, path, &v))
	assert.Equal(t, map[string]float64{"2024-01-01": 1.0}, v.Values)
}

func TestVintageKey(t *testing.T) {
	key := VintageKey("2024-08-15T12:00:00.123Z")
	assert.Equal(t, "vintage_2024-08-15T12-00-00-123Z", key)
}

func TestEscapedCodePath(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRecord(ctx, "a.b/c", &schema.SeriesRecord{
		Values: map[string]float64{"2024-01-01": 9},
	}))
	rec, err := store.LoadRecord(ctx, "a.b/c")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 9.0, rec.Values["2024-01-01"])
}
