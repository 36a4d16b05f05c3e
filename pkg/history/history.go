// Package history persists completed analyses to Postgres so operators
// can audit past verdicts. The store is optional infrastructure: scoring
// never depends on it, and write failures are logged, not propagated.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verifiai/authenticity/pkg/analysis"
)

// Record is one persisted analysis.
type Record struct {
	ID         uuid.UUID `json:"id"`
	FileType   string    `json:"file_type"`
	MediaType  string    `json:"media_type"`
	SizeBytes  int       `json:"size_bytes"`
	Score      float64   `json:"score"`
	Category   string    `json:"category"`
	IsDeepfake bool      `json:"is_deepfake"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to Postgres and verifies the connection.
func New(ctx context.Context, url string) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

// EnsureSchema creates the analyses table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS analyses (
			id          UUID PRIMARY KEY,
			file_type   TEXT NOT NULL,
			media_type  TEXT NOT NULL,
			size_bytes  INTEGER NOT NULL,
			score       DOUBLE PRECISION NOT NULL,
			category    TEXT NOT NULL,
			is_deepfake BOOLEAN NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure analyses schema: %w", err)
	}
	return nil
}

// Insert persists one analysis result and returns its assigned ID.
func (s *Store) Insert(ctx context.Context, result *analysis.AnalysisResult, mediaType string, sizeBytes int) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO analyses (id, file_type, media_type, size_bytes, score, category, is_deepfake, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, string(result.FileType), mediaType, sizeBytes,
		result.Score, result.Category, result.IsDeepfake, result.Timestamp)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert analysis record: %w", err)
	}
	return id, nil
}

// Recent returns the most recent analyses, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, file_type, media_type, size_bytes, score, category, is_deepfake, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.FileType, &r.MediaType, &r.SizeBytes,
			&r.Score, &r.Category, &r.IsDeepfake, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan analysis record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
