package datastore

import (
	"database/sql"
	"fmt"

	// pq is the PostgreSQL driver
	_ "github.com/lib/pq"
)

// Store wraps the relational results database. One Store is constructed per
// process and passed by reference; there is no package-level connection.
type Store struct {
	db *sql.DB
}

// Open connects to the database behind the given DSN and verifies the
// connection.
func Open(dataSourceName string) (*Store, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the consultation_metrics table if it does not exist
// yet.
func (s *Store) EnsureSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS consultation_metrics (
			id SERIAL PRIMARY KEY,
			consultation_key TEXT NOT NULL,
			consultation_id TEXT NOT NULL,
			speech_to_text_model TEXT NOT NULL,
			spellcheck_model TEXT NOT NULL,
			year INT NOT NULL,
			month INT NOT NULL,
			cer_original DOUBLE PRECISION,
			cer_corrected DOUBLE PRECISION,
			wer_original DOUBLE PRECISION,
			wer_corrected DOUBLE PRECISION,
			false_positives BIGINT,
			false_negatives BIGINT,
			diarization_accuracy DOUBLE PRECISION,
			overall_quality DOUBLE PRECISION,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to ensure consultation_metrics schema: %w", err)
	}
	return nil
}
