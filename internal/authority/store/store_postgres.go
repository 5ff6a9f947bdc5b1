package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GGamerE/SecureKYC/internal/authority"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// PostgresStore persists the verifier set in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed verifier store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Upsert(ctx context.Context, verifier authority.Verifier) error {
	query := `
		INSERT INTO verifiers (principal, enabled, updated_at, updated_by)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (principal) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    updated_at = EXCLUDED.updated_at,
		    updated_by = EXCLUDED.updated_by
	`
	_, err := s.db.ExecContext(ctx, query,
		verifier.Principal.String(),
		verifier.Enabled,
		verifier.UpdatedAt,
		verifier.UpdatedBy.String(),
	)
	if err != nil {
		return fmt.Errorf("upsert verifier: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, principal id.Principal) (authority.Verifier, error) {
	query := `
		SELECT principal, enabled, updated_at, updated_by
		FROM verifiers
		WHERE principal = $1
	`
	var v authority.Verifier
	var principalStr, updatedByStr string
	err := s.db.QueryRowContext(ctx, query, principal.String()).
		Scan(&principalStr, &v.Enabled, &v.UpdatedAt, &updatedByStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return authority.Verifier{}, ErrNotFound
		}
		return authority.Verifier{}, fmt.Errorf("find verifier: %w", err)
	}
	v.Principal = id.Principal(principalStr)
	v.UpdatedBy = id.Principal(updatedByStr)
	return v, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]authority.Verifier, error) {
	query := `
		SELECT principal, enabled, updated_at, updated_by
		FROM verifiers
		ORDER BY principal
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list verifiers: %w", err)
	}
	defer rows.Close()

	var out []authority.Verifier
	for rows.Next() {
		var v authority.Verifier
		var principalStr, updatedByStr string
		if err := rows.Scan(&principalStr, &v.Enabled, &v.UpdatedAt, &updatedByStr); err != nil {
			return nil, fmt.Errorf("scan verifier: %w", err)
		}
		v.Principal = id.Principal(principalStr)
		v.UpdatedBy = id.Principal(updatedByStr)
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verifiers: %w", err)
	}
	return out, nil
}
