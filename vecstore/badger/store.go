// Copyright 2025 Paddock Pal
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/vecstore"
)

// Store implements vecstore.Store on BadgerDB. Queries are brute-force
// scans over the index's record prefix, which is adequate for the
// regulation corpus sizes this store targets.
type Store struct {
	backend *Backend
}

var _ vecstore.Store = (*Store)(nil)

// NewStore creates a Store on an open backend.
func NewStore(backend *Backend) *Store {
	return &Store{backend: backend}
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// EnsureIndex creates the index if absent. An existing index with a
// different dimension or metric is a configuration error.
func (s *Store) EnsureIndex(ctx context.Context, spec core.IndexSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeIndexSpecKey(spec.Name)
		existing, err := readIndexSpec(tx, key)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Dimension != spec.Dimension || existing.Metric != spec.Metric {
				return fmt.Errorf("index %q exists with dimension %d metric %s: %w",
					spec.Name, existing.Dimension, existing.Metric, core.ErrConfiguration)
			}
			return nil
		}
		if err := tx.Set(key, vecstore.MarshalIndexSpec(&spec)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DescribeIndex returns the stored spec for a named index.
func (s *Store) DescribeIndex(ctx context.Context, name string) (core.IndexSpec, error) {
	var spec core.IndexSpec
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		found, err := readIndexSpec(tx, makeIndexSpecKey(name))
		if err != nil {
			return err
		}
		if found == nil {
			return fmt.Errorf("index %q: %w", name, core.ErrNotFound)
		}
		spec = *found
		return nil
	}, false)
	return spec, err
}

// ListIndexes returns the specs of all indexes sorted by name.
func (s *Store) ListIndexes(ctx context.Context) ([]core.IndexSpec, error) {
	var specs []core.IndexSpec
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeIndexSpecScanPrefix()
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				spec, err := vecstore.UnmarshalIndexSpec(val)
				if err != nil {
					return err
				}
				specs = append(specs, *spec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(specs, func(a, b core.IndexSpec) int {
		return strings.Compare(a.Name, b.Name)
	})
	return specs, nil
}

// DeleteIndex removes an index and all its records. Missing indexes are
// a no-op.
func (s *Store) DeleteIndex(ctx context.Context, name string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRecordScanPrefix(name)
		opts.PrefetchValues = false
		it := tx.NewIterator(opts)
		var keys [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		it.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		if err := tx.Delete(makeIndexSpecKey(name)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Upsert writes records into the index, overwriting duplicate ids. All
// vectors are validated against the index dimension before the first
// write.
func (s *Store) Upsert(ctx context.Context, index string, records []core.EmbeddingRecord) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		spec, err := readIndexSpec(tx, makeIndexSpecKey(index))
		if err != nil {
			return err
		}
		if spec == nil {
			return fmt.Errorf("index %q: %w", index, core.ErrNotFound)
		}

		for _, record := range records {
			if err := spec.CheckDimension(record.Vector); err != nil {
				return fmt.Errorf("record %q: %w", record.ID, err)
			}
		}

		for i := range records {
			key := makeRecordKey(index, records[i].ID)
			if err := tx.Set(key, vecstore.MarshalRecord(&records[i])); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Query scans all records of the index, scores them against the query
// vector and returns the topK ranked by the index's metric.
func (s *Store) Query(ctx context.Context, index string, vector []float32, topK int) ([]core.Match, error) {
	if topK <= 0 {
		return nil, nil
	}

	var (
		metric  core.Metric
		matches []core.Match
	)
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		spec, err := readIndexSpec(tx, makeIndexSpecKey(index))
		if err != nil {
			return err
		}
		if spec == nil {
			return fmt.Errorf("index %q: %w", index, core.ErrNotFound)
		}
		if err := spec.CheckDimension(vector); err != nil {
			return err
		}
		metric = spec.Metric

		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeRecordScanPrefix(index)
		it := tx.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				record, err := vecstore.UnmarshalRecord(val)
				if err != nil {
					return err
				}
				matches = append(matches, core.Match{
					ID:       record.ID,
					Score:    vecstore.Score(metric, vector, record.Vector),
					Metadata: record.Metadata,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(matches, func(a, b core.Match) int {
		if vecstore.Better(metric, a.Score, b.Score) {
			return -1
		}
		if vecstore.Better(metric, b.Score, a.Score) {
			return 1
		}
		return 0
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// readIndexSpec loads an index spec inside a transaction, returning nil
// when the key is absent.
func readIndexSpec(tx *badger.Txn, key []byte) (*core.IndexSpec, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var spec *core.IndexSpec
	err = item.Value(func(val []byte) error {
		spec, err = vecstore.UnmarshalIndexSpec(val)
		return err
	})
	return spec, err
}
