package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// Store defines long-term memory persistence.
type Store interface {
	Create(ctx context.Context, mem *UserMemory) error
}

// PostgresStore implements Store using pgx + pgvector.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a long-term memory store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Create(ctx context.Context, mem *UserMemory) error {
	if mem.ID == uuid.Nil {
		mem.ID = uuid.New()
	}

	if len(mem.Embedding) > 0 {
		vec := pgvector.NewVector(mem.Embedding)
		_, err := s.pool.Exec(ctx,
			`INSERT INTO user_memories (id, user_id, content, embedding)
			 VALUES ($1, $2, $3, $4)`,
			mem.ID, mem.UserID, mem.Content, vec,
		)
		if err != nil {
			return fmt.Errorf("inserting memory with embedding: %w", err)
		}
	} else {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO user_memories (id, user_id, content)
			 VALUES ($1, $2, $3)`,
			mem.ID, mem.UserID, mem.Content,
		)
		if err != nil {
			return fmt.Errorf("inserting memory: %w", err)
		}
	}
	return nil
}
