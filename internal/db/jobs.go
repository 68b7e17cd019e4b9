package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobconnect/internal/types"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

// CreateJob inserts a job posting and returns it with generated fields filled in.
func (db *DB) CreateJob(ctx context.Context, j *types.Job) (*types.Job, error) {
	skills, location, salary, err := encodeJob(j)
	if err != nil {
		return nil, err
	}
	status := j.Status
	if status == "" {
		status = types.JobOpen
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO jobs (employer_id, title, company, description, skills, job_type,
		                   work_location, location, salary, experience_level, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id`,
		j.EmployerID, j.Title, j.Company, j.Description, skills, j.JobType,
		j.WorkLocation, location, salary, j.ExperienceLevel, status,
	).Scan(&id)
	if err != nil {
		return nil, mapWriteError(err, "job", "create")
	}
	return db.GetJob(ctx, id)
}

// GetJob retrieves a job by ID; nil, nil when it does not exist.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	j, err := scanJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// UpdateJob writes every editable field of j.
func (db *DB) UpdateJob(ctx context.Context, j *types.Job) (*types.Job, error) {
	skills, location, salary, err := encodeJob(j)
	if err != nil {
		return nil, err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs SET title = $1, company = $2, description = $3, skills = $4,
		        job_type = $5, work_location = $6, location = $7, salary = $8,
		        experience_level = $9, status = $10, updated_at = NOW()
		 WHERE id = $11`,
		j.Title, j.Company, j.Description, skills, j.JobType, j.WorkLocation,
		location, salary, j.ExperienceLevel, j.Status, j.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Entity: "job", ID: j.ID.String()}
	}
	return db.GetJob(ctx, j.ID)
}

// DeleteJob removes a job and its applications.
func (db *DB) DeleteJob(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "job", ID: id.String()}
	}
	return nil
}

// SearchJobs lists jobs matching the filters, newest first. An empty status means open.
func (db *DB) SearchJobs(ctx context.Context, f types.JobFilters) ([]*types.Job, error) {
	query, args := buildJobSearch(f)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}
	return jobs, nil
}

// ListJobsByEmployer returns every job posted by employerID regardless of status.
func (db *DB) ListJobsByEmployer(ctx context.Context, employerID uuid.UUID) ([]*types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+` FROM jobs j WHERE j.employer_id = $1 ORDER BY j.created_at DESC`,
		employerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list employer jobs: %w", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan employer jobs: %w", err)
	}
	return jobs, nil
}

// ListRecommendationCandidates returns up to limit open jobs that userID
// neither posted nor applied to, newest first.
func (db *DB) ListRecommendationCandidates(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM jobs j
		 WHERE j.status = 'open'
		   AND j.employer_id <> $1
		   AND NOT EXISTS (SELECT 1 FROM applications ap WHERE ap.job_id = j.id AND ap.applicant_id = $1)
		 ORDER BY j.created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendation candidates: %w", err)
	}
	jobs, err := collectJobs(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan recommendation candidates: %w", err)
	}
	return jobs, nil
}

func encodeJob(j *types.Job) (skills, location, salary []byte, err error) {
	s := j.Skills
	if s == nil {
		s = []types.Skill{}
	}
	if skills, err = marshalJSON(s); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode skills: %w", err)
	}
	if location, err = marshalJSON(j.Location); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode location: %w", err)
	}
	if salary, err = marshalJSON(j.Salary); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode salary: %w", err)
	}
	return skills, location, salary, nil
}
