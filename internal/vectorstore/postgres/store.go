// ABOUTME: Postgres pgvector implementation of the vector store contract
// ABOUTME: One table of id/content/metadata/embedding with cosine similarity search
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/harper/askdoc/internal/models"
	"github.com/harper/askdoc/internal/vectorstore"
)

// identifierRe guards the table name, which is interpolated into DDL and
// queries and cannot be a bind parameter.
var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Store is a pgvector-backed vector store. The sqlx pool bounds concurrent
// database operations; exhausted slots queue rather than fail.
type Store struct {
	db        *sqlx.DB
	table     string
	dimension int
}

// Open connects to Postgres and returns a Store. The connection is verified
// with a ping before use.
func Open(ctx context.Context, dsn, table string, dimension int) (*Store, error) {
	if !identifierRe.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", vectorstore.ErrStorage, table)
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting: %v", vectorstore.ErrStorage, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)

	return &Store{db: db, table: table, dimension: dimension}, nil
}

// NewWithDB wraps an existing connection pool. Used by tests with sqlmock.
func NewWithDB(db *sqlx.DB, table string, dimension int) (*Store, error) {
	if !identifierRe.MatchString(table) {
		return nil, fmt.Errorf("%w: invalid table name %q", vectorstore.ErrStorage, table)
	}
	return &Store{db: db, table: table, dimension: dimension}, nil
}

// EnsureSchema creates the pgvector extension, the record table, and the
// ivfflat cosine index. Every statement is IF NOT EXISTS, so repeated calls
// leave the schema unchanged.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			metadata JSONB NOT NULL DEFAULT '{}',
			embedding vector(%d)
		)`, s.table, s.dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_embedding
			ON %s USING ivfflat (embedding vector_cosine_ops)
			WITH (lists = 100)`, s.table, s.table),
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: ensuring schema: %v", vectorstore.ErrStorage, err)
		}
	}
	return nil
}

// AddRecords inserts records one statement at a time and reports how many
// made it in. There is no rollback on mid-batch failure: records written
// before the failing one stay persisted, and the returned count says so.
func (s *Store) AddRecords(ctx context.Context, records []models.Record) (int, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, content, metadata, embedding) VALUES ($1, $2, $3, $4)`, s.table)

	written := 0
	for _, rec := range records {
		if len(rec.Embedding) != s.dimension {
			return written, fmt.Errorf("%w: record %s has embedding dimension %d, expected %d",
				vectorstore.ErrStorage, rec.ID, len(rec.Embedding), s.dimension)
		}
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return written, fmt.Errorf("%w: marshaling metadata for %s: %v", vectorstore.ErrStorage, rec.ID, err)
		}
		if _, err := s.db.ExecContext(ctx, query, rec.ID, rec.Content, meta, pgvector.NewVector(rec.Embedding)); err != nil {
			return written, fmt.Errorf("%w: inserting record %s: %v", vectorstore.ErrStorage, rec.ID, err)
		}
		written++
	}
	return written, nil
}

// SimilaritySearch ranks records by cosine distance to the query vector and
// returns the k closest as descending similarity. Ties fall to storage order.
func (s *Store) SimilaritySearch(ctx context.Context, vector []float32, k int, filter map[string]any) ([]models.Scored, error) {
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query vector dimension %d, expected %d",
			vectorstore.ErrStorage, len(vector), s.dimension)
	}

	args := []any{pgvector.NewVector(vector)}
	where := ""
	if filter != nil {
		meta, err := json.Marshal(filter)
		if err != nil {
			return nil, fmt.Errorf("%w: marshaling filter: %v", vectorstore.ErrStorage, err)
		}
		where = "WHERE metadata @> $2"
		args = append(args, meta)
	}
	args = append(args, k)

	query := fmt.Sprintf(`
		SELECT content, 1 - (embedding <=> $1) AS similarity
		FROM %s
		%s
		ORDER BY embedding <=> $1
		LIMIT $%d`, s.table, where, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity search: %v", vectorstore.ErrStorage, err)
	}
	defer rows.Close()

	var results []models.Scored
	for rows.Next() {
		var r models.Scored
		if err := rows.Scan(&r.Content, &r.Similarity); err != nil {
			return nil, fmt.Errorf("%w: scanning result: %v", vectorstore.ErrStorage, err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating results: %v", vectorstore.ErrStorage, err)
	}
	return results, nil
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", vectorstore.ErrStorage, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
