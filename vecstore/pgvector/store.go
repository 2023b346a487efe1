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

// Package pgvector implements vecstore.Store on PostgreSQL with the
// pgvector extension. Each index gets its own table with a vector column
// and an HNSW index matching the index's metric; index definitions live
// in a catalog table so dimension and metric survive restarts.
package pgvector

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/paddockpal/paddock/core"
	"github.com/paddockpal/paddock/vecstore"
)

// Store is a PostgreSQL-backed vector store.
type Store struct {
	db *sql.DB
}

var _ vecstore.Store = (*Store)(nil)

// New opens a connection to PostgreSQL and prepares the catalog table.
// The pgvector extension is created if the role has permission to do so.
func New(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is required: %w", core.ErrConfiguration)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS vector_indexes (
			name TEXT PRIMARY KEY,
			dimension INT NOT NULL,
			metric TEXT NOT NULL
		)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureIndex creates the catalog entry, the record table and the HNSW
// index if absent. Reusing a name with a different spec fails.
func (s *Store) EnsureIndex(ctx context.Context, spec core.IndexSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}

	existing, err := s.lookupSpec(ctx, spec.Name)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return err
	}
	if err == nil {
		if existing.Dimension != spec.Dimension || existing.Metric != spec.Metric {
			return fmt.Errorf("index %q exists with dimension %d metric %s: %w",
				spec.Name, existing.Dimension, existing.Metric, core.ErrConfiguration)
		}
		return nil
	}

	table := tableName(spec.Name)
	ops := "vector_cosine_ops"
	if spec.Metric == core.MetricEuclidean {
		ops = "vector_l2_ops"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			embedding vector(%d) NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}'
		)`, table, spec.Dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding %s)`,
			table, table, ops),
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create index %q: %w", spec.Name, err)
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO vector_indexes (name, dimension, metric) VALUES ($1, $2, $3)
		 ON CONFLICT (name) DO NOTHING`,
		spec.Name, spec.Dimension, string(spec.Metric))
	if err != nil {
		return fmt.Errorf("register index %q: %w", spec.Name, err)
	}
	return tx.Commit()
}

// DescribeIndex returns the stored spec for a named index.
func (s *Store) DescribeIndex(ctx context.Context, name string) (core.IndexSpec, error) {
	return s.lookupSpec(ctx, name)
}

// ListIndexes returns the specs of all indexes sorted by name.
func (s *Store) ListIndexes(ctx context.Context) ([]core.IndexSpec, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, dimension, metric FROM vector_indexes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list indexes: %w", err)
	}
	defer rows.Close()

	var specs []core.IndexSpec
	for rows.Next() {
		var spec core.IndexSpec
		var metric string
		if err := rows.Scan(&spec.Name, &spec.Dimension, &metric); err != nil {
			return nil, fmt.Errorf("scan index row: %w", err)
		}
		spec.Metric = core.Metric(metric)
		specs = append(specs, spec)
	}
	return specs, rows.Err()
}

// DeleteIndex drops the record table and removes the catalog entry.
// Deleting a missing index is a no-op.
func (s *Store) DeleteIndex(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s`, tableName(name))); err != nil {
		return fmt.Errorf("drop index %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM vector_indexes WHERE name = $1`, name); err != nil {
		return fmt.Errorf("deregister index %q: %w", name, err)
	}
	return tx.Commit()
}

// Upsert writes records into the index, overwriting duplicate ids. All
// vectors are validated against the index dimension before any write.
func (s *Store) Upsert(ctx context.Context, index string, records []core.EmbeddingRecord) error {
	spec, err := s.lookupSpec(ctx, index)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := spec.CheckDimension(record.Vector); err != nil {
			return fmt.Errorf("record %q: %w", record.ID, err)
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, embedding, metadata)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata
	`, tableName(index))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, record := range records {
		metadata, err := json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for %q: %w", record.ID, err)
		}
		if _, err := tx.ExecContext(ctx, query, record.ID, pgv.NewVector(record.Vector), metadata); err != nil {
			return fmt.Errorf("upsert record %q: %w", record.ID, err)
		}
	}
	return tx.Commit()
}

// Query returns the topK records closest to the vector, ranked by the
// index's metric.
func (s *Store) Query(ctx context.Context, index string, vector []float32, topK int) ([]core.Match, error) {
	if topK <= 0 {
		return nil, nil
	}
	spec, err := s.lookupSpec(ctx, index)
	if err != nil {
		return nil, err
	}
	if err := spec.CheckDimension(vector); err != nil {
		return nil, err
	}

	// Both pgvector operators sort ascending by distance, so ORDER BY is
	// the same either way; cosine distance converts to similarity so
	// scores match the metric's ranking direction.
	scoreExpr := `1 - (embedding <=> $1)`
	orderExpr := `embedding <=> $1`
	if spec.Metric == core.MetricEuclidean {
		scoreExpr = `embedding <-> $1`
		orderExpr = `embedding <-> $1`
	}

	query := fmt.Sprintf(`
		SELECT id, metadata, %s AS score
		FROM %s
		ORDER BY %s
		LIMIT $2
	`, scoreExpr, tableName(index), orderExpr)

	rows, err := s.db.QueryContext(ctx, query, pgv.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("query index %q: %w", index, err)
	}
	defer rows.Close()

	var matches []core.Match
	for rows.Next() {
		var match core.Match
		var metadata []byte
		if err := rows.Scan(&match.ID, &metadata, &match.Score); err != nil {
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &match.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshal metadata for %q: %w", match.ID, err)
			}
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (s *Store) lookupSpec(ctx context.Context, name string) (core.IndexSpec, error) {
	var spec core.IndexSpec
	var metric string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, dimension, metric FROM vector_indexes WHERE name = $1`, name).
		Scan(&spec.Name, &spec.Dimension, &metric)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return spec, fmt.Errorf("index %q: %w", name, core.ErrNotFound)
		}
		return spec, fmt.Errorf("lookup index %q: %w", name, err)
	}
	spec.Metric = core.Metric(metric)
	return spec, nil
}

// tableName maps an index name to a safe SQL identifier. Index names
// come from a fixed category set, so a character filter is enough.
func tableName(index string) string {
	var b strings.Builder
	b.WriteString("vs_")
	for _, r := range strings.ToLower(index) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
