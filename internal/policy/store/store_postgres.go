package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/GGamerE/SecureKYC/internal/policy"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// PostgresStore persists project policies in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed policy store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(ctx context.Context, p policy.ProjectPolicy) error {
	query := `
		INSERT INTO project_policies
			(project_id, min_age, allowed_countries, requires_passport, single_use, active, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (project_id) DO UPDATE
		SET min_age = EXCLUDED.min_age,
		    allowed_countries = EXCLUDED.allowed_countries,
		    requires_passport = EXCLUDED.requires_passport,
		    single_use = EXCLUDED.single_use,
		    active = EXCLUDED.active,
		    updated_at = EXCLUDED.updated_at,
		    updated_by = EXCLUDED.updated_by
	`
	countries := make([]int32, len(p.AllowedCountries))
	for i, c := range p.AllowedCountries {
		countries[i] = int32(c)
	}
	_, err := s.db.ExecContext(ctx, query,
		p.ProjectID.String(),
		int64(p.MinAge),
		pq.Array(countries),
		p.RequiresPassport,
		p.SingleUse,
		p.Active,
		p.UpdatedAt,
		p.UpdatedBy.String(),
	)
	if err != nil {
		return fmt.Errorf("save project policy: %w", err)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, projectID id.ProjectID) (policy.ProjectPolicy, error) {
	query := `
		SELECT project_id, min_age, allowed_countries, requires_passport, single_use, active, updated_at, updated_by
		FROM project_policies
		WHERE project_id = $1
	`
	var p policy.ProjectPolicy
	var projectIDStr, updatedByStr string
	var minAge int64
	var countries []int32
	err := s.db.QueryRowContext(ctx, query, projectID.String()).Scan(
		&projectIDStr,
		&minAge,
		pq.Array(&countries),
		&p.RequiresPassport,
		&p.SingleUse,
		&p.Active,
		&p.UpdatedAt,
		&updatedByStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return policy.ProjectPolicy{}, ErrNotFound
		}
		return policy.ProjectPolicy{}, fmt.Errorf("find project policy: %w", err)
	}
	p.ProjectID = id.ProjectID(projectIDStr)
	p.MinAge = uint32(minAge)
	p.UpdatedBy = id.Principal(updatedByStr)
	p.AllowedCountries = make([]uint8, len(countries))
	for i, c := range countries {
		p.AllowedCountries[i] = uint8(c)
	}
	return p, nil
}
