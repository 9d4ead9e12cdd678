package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"intake/internal/model"
	"intake/internal/repository"
)

// RecordPostgres is a PostgreSQL implementation of repository.RecordRepository.
// Records are stored as JSONB bodies in a single documents table keyed by (collection, id).
type RecordPostgres struct {
	db *sql.DB
}

// NewRecordPostgres creates a new RecordPostgres repository.
func NewRecordPostgres(db *sql.DB) *RecordPostgres {
	return &RecordPostgres{db: db}
}

var _ repository.RecordRepository = (*RecordPostgres)(nil)

// Insert writes the record body and returns the ID generated by the database.
func (r *RecordPostgres) Insert(ctx context.Context, collection string, rec *model.Record) (string, error) {
	doc := *rec
	doc.ID = ""
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}

	const q = `
		INSERT INTO documents (collection, body, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id string
	if err := r.db.QueryRowContext(ctx, q, collection, body, rec.SubmittedAt).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes a record by ID. It does not return an error if the row does not exist.
func (r *RecordPostgres) Delete(ctx context.Context, collection, id string) error {
	const q = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	_, err := r.db.ExecContext(ctx, q, collection, id)
	return err
}

// Ping checks database connectivity.
func (r *RecordPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
