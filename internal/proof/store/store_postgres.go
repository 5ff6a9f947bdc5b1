package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GGamerE/SecureKYC/internal/proof"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// PostgresStore persists proof records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed proof record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record proof.Record) error {
	query := `
		INSERT INTO proof_records (subject, project_id, issued, issued_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject, project_id) DO UPDATE
		SET issued = EXCLUDED.issued,
		    issued_at = EXCLUDED.issued_at
	`
	_, err := s.db.ExecContext(ctx, query,
		record.Subject.String(),
		record.ProjectID.String(),
		record.Issued,
		record.IssuedAt,
	)
	if err != nil {
		return fmt.Errorf("save proof record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, subject id.Principal, projectID id.ProjectID) (proof.Record, error) {
	query := `
		SELECT subject, project_id, issued, issued_at
		FROM proof_records
		WHERE subject = $1 AND project_id = $2
	`
	var record proof.Record
	var subjectStr, projectIDStr string
	err := s.db.QueryRowContext(ctx, query, subject.String(), projectID.String()).
		Scan(&subjectStr, &projectIDStr, &record.Issued, &record.IssuedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return proof.Record{}, ErrNotFound
		}
		return proof.Record{}, fmt.Errorf("find proof record: %w", err)
	}
	record.Subject = id.Principal(subjectStr)
	record.ProjectID = id.ProjectID(projectIDStr)
	return record, nil
}
