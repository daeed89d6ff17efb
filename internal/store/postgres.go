package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/spigell/nurse-matcher/internal/matching"
)

//go:embed schema.sql
var schema string

// Postgres reads profiles and postings from the platform database.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Postgres{db: db}, nil
}

func (s *Postgres) Close() error {
	return s.db.Close()
}

// Migrate creates the tables when they are missing.
func (s *Postgres) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

const profileColumns = `id, COALESCE(name, ''), certifications, skills, years_of_experience,
	COALESCE(specialization, ''), COALESCE(location, '')`

type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(row scanner) (*matching.CandidateProfile, error) {
	var p matching.CandidateProfile
	err := row.Scan(
		&p.ID,
		&p.Name,
		pq.Array(&p.Certifications),
		pq.Array(&p.Skills),
		&p.YearsOfExperience,
		&p.Specialization,
		&p.Location,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Postgres) GetProfile(ctx context.Context, candidateID string) (*matching.CandidateProfile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM nurse_profiles WHERE id = $1`, candidateID)

	profile, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, candidateID)
	}
	if err != nil {
		return nil, fmt.Errorf("query profile %s: %w", candidateID, err)
	}
	return profile, nil
}

func (s *Postgres) ListProfiles(ctx context.Context) ([]*matching.CandidateProfile, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM nurse_profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*matching.CandidateProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (s *Postgres) ActiveJobs(ctx context.Context) ([]*matching.JobPosting, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT
    id,
    COALESCE(title, ''),
    COALESCE(facility, ''),
    required_certifications,
    required_skills,
    min_experience_years,
    COALESCE(specialization, ''),
    COALESCE(location, ''),
    active,
    created_at
FROM job_postings
WHERE active
ORDER BY created_at DESC, id
`)
	if err != nil {
		return nil, fmt.Errorf("query active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*matching.JobPosting
	for rows.Next() {
		var j matching.JobPosting
		if err := rows.Scan(
			&j.ID,
			&j.Title,
			&j.Facility,
			pq.Array(&j.RequiredCertifications),
			pq.Array(&j.RequiredSkills),
			&j.MinExperienceYears,
			&j.Specialization,
			&j.Location,
			&j.Active,
			&j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}
