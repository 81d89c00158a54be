package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements VectorStore on Postgres with the pgvector
// extension. Distance is the `<->` operator, so lower scores are better;
// Search negates them to keep the higher-is-better contract.
type PostgresStore struct {
	db *pgxpool.Pool
}

const postgresSchema = `
CREATE EXTENSION IF NOT EXISTS vector;
CREATE TABLE IF NOT EXISTS documents (
        id TEXT PRIMARY KEY,
        source TEXT NOT NULL,
        content TEXT NOT NULL,
        embedding vector(768)
);
CREATE INDEX IF NOT EXISTS documents_source_idx ON documents (source);
`

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to Postgres: %w", err)
	}
	if _, err := db.Exec(ctx, postgresSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Add(ctx context.Context, docs []Document) error {
	for _, doc := range docs {
		_, err := s.db.Exec(ctx, `
                INSERT INTO documents (id, source, content, embedding)
                VALUES ($1, $2, $3, $4::vector)
                ON CONFLICT (id) DO UPDATE
                SET source = EXCLUDED.source, content = EXCLUDED.content, embedding = EXCLUDED.embedding;
                `, doc.ID, doc.Source, doc.Content, vectorLiteral(doc.Embedding))
		if err != nil {
			return fmt.Errorf("insert document %s: %w", doc.ID, err)
		}
	}
	return nil
}

func (s *PostgresStore) Search(ctx context.Context, embedding []float32, limit int) ([]ScoredDocument, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, source, content, (embedding <-> $1::vector) AS distance
        FROM documents
        ORDER BY embedding <-> $1::vector
        LIMIT $2;
        `, vectorLiteral(embedding), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ScoredDocument
	for rows.Next() {
		var doc ScoredDocument
		var distance float64
		if err := rows.Scan(&doc.ID, &doc.Source, &doc.Content, &distance); err != nil {
			return nil, err
		}
		doc.Score = -distance
		results = append(results, doc)
	}
	return results, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, source string) (int, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM documents WHERE source = $1;`, source)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Has(ctx context.Context, source string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM documents WHERE source = $1);`, source).Scan(&exists)
	return exists, err
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM documents;`).Scan(&count)
	return count, err
}

func (s *PostgresStore) Reset(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `TRUNCATE documents;`)
	return err
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.db.Close()
}

// vectorLiteral renders an embedding as the pgvector text format "[a,b,c]".
func vectorLiteral(embedding []float32) string {
	data, _ := json.Marshal(embedding)
	return "[" + strings.Trim(string(data), "[]") + "]"
}

var _ VectorStore = (*PostgresStore)(nil)
