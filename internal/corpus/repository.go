package corpus

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// Repository executes similarity search over the document corpus.
type Repository interface {
	Search(ctx context.Context, embedding []float32, limit int, threshold float64) ([]Passage, error)
}

// PostgresRepository implements Repository over the documents table using
// pgx + pgvector. One pooled connection is held for the duration of a single
// query and released unconditionally.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a corpus repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Search returns at most limit passages whose cosine similarity to the query
// vector is strictly greater than threshold, ordered by descending
// similarity. Ties keep storage order. Zero matches is a valid outcome and
// returns an empty slice, not an error.
func (r *PostgresRepository) Search(ctx context.Context, embedding []float32, limit int, threshold float64) ([]Passage, error) {
	vec := pgvector.NewVector(embedding)
	rows, err := r.pool.Query(ctx,
		`SELECT contents, 1 - (embedding <=> $1) AS similarity
		 FROM documents
		 WHERE 1 - (embedding <=> $1) > $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		vec, threshold, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching documents: %w", err)
	}
	defer rows.Close()

	var passages []Passage
	for rows.Next() {
		var p Passage
		if err := rows.Scan(&p.Content, &p.Similarity); err != nil {
			return nil, fmt.Errorf("scanning passage: %w", err)
		}
		passages = append(passages, p)
	}
	return passages, rows.Err()
}
