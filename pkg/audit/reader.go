package audit

import "context"

// Reader serves queries over the audit trail.
type Reader struct {
	storage Storage
}

// NewReader creates a Reader over the given storage.
func NewReader(storage Storage) *Reader {
	if storage == nil {
		panic("audit: storage cannot be nil")
	}
	return &Reader{storage: storage}
}

// Find returns events matching the criteria, newest first.
func (r *Reader) Find(ctx context.Context, criteria Criteria) ([]Event, error) {
	return r.storage.Query(ctx, criteria)
}

// Count returns the number of matching events. Storages implementing
// StorageCounter answer without materializing rows; for others the events
// are fetched and counted.
func (r *Reader) Count(ctx context.Context, criteria Criteria) (int64, error) {
	if counter, ok := r.storage.(StorageCounter); ok {
		return counter.Count(ctx, criteria)
	}
	criteria.Limit = 0
	criteria.Offset = 0
	events, err := r.storage.Query(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return int64(len(events)), nil
}
