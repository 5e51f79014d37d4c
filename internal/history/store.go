package history

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for the BadgerDB key scheme.
const (
	prefixSnapshot = "s:"
	prefixTime     = "t:"
)

// Store persists snapshots in BadgerDB. Bodies live under s:<id>; a
// t:<created>:<id> entry per snapshot keeps listings in time order without
// loading every body.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the snapshot store at dbPath.
func Open(dbPath string) (*Store, error) {
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // suppress badger logs
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the store.
func (s *Store) Close() error {
	return s.db.Close()
}

func snapshotKey(id string) []byte { return []byte(prefixSnapshot + id) }

func timeKey(at time.Time, id string) []byte {
	return []byte(prefixTime + at.UTC().Format(time.RFC3339Nano) + ":" + id)
}

// Put appends a snapshot.
func (s *Store) Put(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(snapshotKey(snap.ID), data); err != nil {
			return err
		}
		return txn.Set(timeKey(snap.CreatedAt, snap.ID), nil)
	})
}

// Get returns the snapshot whose ID starts with idPrefix. Unknown and
// ambiguous prefixes are errors.
func (s *Store) Get(idPrefix string) (*Snapshot, error) {
	var snap *Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		// Exact ID first; the common case after copying one from a listing.
		if item, err := txn.Get(snapshotKey(idPrefix)); err == nil {
			got, err := decodeSnapshot(item)
			if err != nil {
				return err
			}
			snap = got
			return nil
		}

		prefix := []byte(prefixSnapshot + idPrefix)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		matches := 0
		for it.Seek(prefix); it.Valid(); it.Next() {
			matches++
			if matches > 1 {
				return fmt.Errorf("snapshot id %q is ambiguous", idPrefix)
			}
			got, err := decodeSnapshot(it.Item())
			if err != nil {
				return err
			}
			snap = got
		}
		if matches == 0 {
			return fmt.Errorf("snapshot %q not found", idPrefix)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Latest returns the most recent snapshot, or an error when the store is
// empty.
func (s *Store) Latest() (*Snapshot, error) {
	snaps, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("no snapshots recorded")
	}
	return snaps[0], nil
}

// List returns all snapshots, newest first.
func (s *Store) List() ([]*Snapshot, error) {
	var snaps []*Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		ids, err := scanTimeIndex(txn)
		if err != nil {
			return err
		}
		for _, id := range ids {
			item, err := txn.Get(snapshotKey(id))
			if err != nil {
				continue // index entry for a deleted snapshot; skip
			}
			snap, err := decodeSnapshot(item)
			if err != nil {
				continue
			}
			snaps = append(snaps, snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The time index is already near-ordered; sort on the parsed timestamps
	// so listings are exact regardless of key formatting.
	sort.SliceStable(snaps, func(i, j int) bool {
		return snaps[i].CreatedAt.After(snaps[j].CreatedAt)
	})
	return snaps, nil
}

// Count returns the number of stored snapshots.
func (s *Store) Count() (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixTime)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(opts.Prefix); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// scanTimeIndex returns snapshot IDs in stored time order. The ID is the
// segment after the final colon; timestamps contain colons, UUIDs do not.
func scanTimeIndex(txn *badger.Txn) ([]string, error) {
	var ids []string
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefixTime)
	it := txn.NewIterator(opts)
	defer it.Close()
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		key := string(it.Item().Key())
		if idx := strings.LastIndex(key, ":"); idx >= 0 && idx < len(key)-1 {
			ids = append(ids, key[idx+1:])
		}
	}
	return ids, nil
}

func decodeSnapshot(item *badger.Item) (*Snapshot, error) {
	var snap Snapshot
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &snap)
	})
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
