package records

import (
	"github.com/umarkabirdananini/portal/pkg/platform/sentinel"
)

// Index resolves normalized references against the loaded record set. The set
// is read-only for the lifetime of the process; lookups are linear scans over
// realistic set sizes, so load order is the tie-break when two references
// collide under normalization (first match wins).
type Index struct {
	records  []Record
	degraded bool
}

// NewIndex builds an index over an already-loaded record set. The slice is
// retained as-is; callers must not mutate it afterwards.
func NewIndex(recs []Record) *Index {
	return &Index{records: recs}
}

// NewDegradedIndex builds an empty index for the case where the backing
// dataset could not be loaded. Every lookup resolves to not-found and
// Degraded reports true so the condition can be surfaced once to callers.
func NewDegradedIndex() *Index {
	return &Index{degraded: true}
}

// Find resolves a raw reference to at most one record. An empty canonical key
// short-circuits to sentinel.ErrNotFound without scanning. Matching is exact
// canonical equality only; no partial or fuzzy matching.
func (ix *Index) Find(raw string) (Record, error) {
	key := Normalize(raw)
	if key == "" {
		return Record{}, sentinel.ErrNotFound
	}
	for _, rec := range ix.records {
		if Normalize(rec.Reference) == key {
			return rec, nil
		}
	}
	return Record{}, sentinel.ErrNotFound
}

// Degraded reports whether the index is serving in place of a dataset that
// failed to load.
func (ix *Index) Degraded() bool {
	return ix.degraded
}

// Len returns the number of loaded records.
func (ix *Index) Len() int {
	return len(ix.records)
}
