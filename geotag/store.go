// Package geotag keeps track of where the photos of the album were taken
// and groups them by place for display on a map.
package geotag

import (
	"context"
	"encoding/json"
	"fmt"

	"bitbucket.org/kleinnic74/photomap/consts"
	"bitbucket.org/kleinnic74/photomap/logging"
	"go.uber.org/zap"
)

// KeyValueStore is the storage the geotag list is persisted in
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// IDSet is a set of photo IDs
type IDSet map[string]struct{}

func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s IDSet) Has(id string) bool {
	_, found := s[id]
	return found
}

// Store persists the list of geotag records as a single JSON blob. Every
// mutation reads, modifies and writes back the whole list without any
// locking: concurrent writers can lose updates, the last write wins.
type Store struct {
	kv  KeyValueStore
	key string
}

// NewStore creates a store persisting to kv under the default key
func NewStore(kv KeyValueStore) *Store {
	return NewStoreWithKey(kv, consts.GeotagsKey)
}

func NewStoreWithKey(kv KeyValueStore, key string) *Store {
	return &Store{kv: kv, key: key}
}

// Load returns all records in capture order. A missing, unreadable or
// corrupt blob is treated as an empty list.
func (s *Store) Load(ctx context.Context) []Record {
	records, err := s.load(ctx)
	if err != nil {
		logging.From(ctx).Named("geotags").Warn("Failed to load geotags, assuming none", zap.String("key", s.key), zap.Error(err))
		return []Record{}
	}
	return records
}

func (s *Store) load(ctx context.Context) ([]Record, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	return s.decode(ctx, data)
}

// loadForUpdate fails when the blob cannot be read so that a mutation never
// overwrites records it did not see. A corrupt blob counts as empty.
func (s *Store) loadForUpdate(ctx context.Context) ([]Record, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.decode(ctx, data)
	if err != nil {
		logging.From(ctx).Named("geotags").Warn("Replacing corrupt geotags", zap.String("key", s.key), zap.Error(err))
		return []Record{}, nil
	}
	return records, nil
}

func (s *Store) read(ctx context.Context) ([]byte, error) {
	data, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	if !found {
		return nil, nil
	}
	return data, nil
}

func (s *Store) decode(ctx context.Context, data []byte) ([]Record, error) {
	if len(data) == 0 {
		return []Record{}, nil
	}
	var decoded []Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	records := make([]Record, 0, len(decoded))
	for _, r := range decoded {
		if r.PhotoID == "" {
			logging.From(ctx).Named("geotags").Debug("Dropping geotag without photo id", zap.String("uri", r.URI))
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *Store) save(ctx context.Context, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("write %s: %w", s.key, err)
	}
	return nil
}

// Append adds r at the end of the list. IDs are not checked for uniqueness,
// callers must use a fresh photo ID for every record.
func (s *Store) Append(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	records, err := s.loadForUpdate(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(records, r))
}

// PruneToExisting drops the records of photos which are not in existing.
// The list is only written back when records were dropped.
func (s *Store) PruneToExisting(ctx context.Context, existing IDSet) (changed bool, err error) {
	records, err := s.loadForUpdate(ctx)
	if err != nil {
		return false, err
	}
	kept := filter(records, func(r Record) bool { return existing.Has(r.PhotoID) })
	if len(kept) == len(records) {
		return false, nil
	}
	logging.From(ctx).Named("geotags").Debug("Pruning geotags of missing photos",
		zap.Int("before", len(records)), zap.Int("after", len(kept)))
	return true, s.save(ctx, kept)
}

// PruneExcluding drops the records of the removed photos and always writes
// the list back.
func (s *Store) PruneExcluding(ctx context.Context, removed IDSet) error {
	records, err := s.loadForUpdate(ctx)
	if err != nil {
		return err
	}
	kept := filter(records, func(r Record) bool { return !removed.Has(r.PhotoID) })
	return s.save(ctx, kept)
}

func filter(records []Record, keep func(Record) bool) []Record {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			kept = append(kept, r)
		}
	}
	return kept
}
