package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/GGamerE/SecureKYC/internal/fhe"
	"github.com/GGamerE/SecureKYC/internal/identity"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// PostgresStore persists identity records in PostgreSQL. Only ciphertext
// handles and plaintext attestation metadata touch the database; attribute
// values never leave the substrate.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed identity record store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, record identity.Record) error {
	query := `
		INSERT INTO identity_records
			(subject, passport_ct, birth_year_ct, country_ct, attested, attested_at, attested_by, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (subject) DO UPDATE
		SET passport_ct = EXCLUDED.passport_ct,
		    birth_year_ct = EXCLUDED.birth_year_ct,
		    country_ct = EXCLUDED.country_ct,
		    attested = EXCLUDED.attested,
		    attested_at = EXCLUDED.attested_at,
		    attested_by = EXCLUDED.attested_by,
		    submitted_at = EXCLUDED.submitted_at
	`
	var attestedAt sql.NullTime
	if !record.AttestedAt.IsZero() {
		attestedAt = sql.NullTime{Time: record.AttestedAt, Valid: true}
	}
	var attestedBy sql.NullString
	if !record.AttestedBy.IsNil() {
		attestedBy = sql.NullString{String: record.AttestedBy.String(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		record.Subject.String(),
		record.PassportCiphertext.String(),
		record.BirthYearCiphertext.String(),
		record.CountryCiphertext.String(),
		record.Attested,
		attestedAt,
		attestedBy,
		record.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("save identity record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, subject id.Principal) (identity.Record, error) {
	query := `
		SELECT subject, passport_ct, birth_year_ct, country_ct, attested, attested_at, attested_by, submitted_at
		FROM identity_records
		WHERE subject = $1
	`
	var record identity.Record
	var subjectStr, passportCt, birthYearCt, countryCt string
	var attestedAt sql.NullTime
	var attestedBy sql.NullString
	err := s.db.QueryRowContext(ctx, query, subject.String()).Scan(
		&subjectStr,
		&passportCt,
		&birthYearCt,
		&countryCt,
		&record.Attested,
		&attestedAt,
		&attestedBy,
		&record.SubmittedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return identity.Record{}, ErrNotFound
		}
		return identity.Record{}, fmt.Errorf("find identity record: %w", err)
	}
	record.Subject = id.Principal(subjectStr)
	record.PassportCiphertext = fhe.Handle(passportCt)
	record.BirthYearCiphertext = fhe.Handle(birthYearCt)
	record.CountryCiphertext = fhe.Handle(countryCt)
	if attestedAt.Valid {
		record.AttestedAt = attestedAt.Time
	}
	if attestedBy.Valid {
		record.AttestedBy = id.Principal(attestedBy.String)
	}
	return record, nil
}
