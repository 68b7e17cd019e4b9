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
// Application Methods
// -----------------------------------------------------------------------------

const applicationColumns = `ap.id, ap.job_id, ap.applicant_id, ap.cover_letter, ap.resume_url,
	ap.status, ap.created_at, ap.updated_at`

func applicationDest(a *types.Application) []any {
	return []any{&a.ID, &a.JobID, &a.ApplicantID, &a.CoverLetter, &a.ResumeURL,
		&a.Status, &a.CreatedAt, &a.UpdatedAt}
}

// CreateApplication records an application. Applying twice to the same job yields a ConflictError.
func (db *DB) CreateApplication(ctx context.Context, a *types.Application) (*types.Application, error) {
	var out types.Application
	err := db.pool.QueryRow(ctx,
		`INSERT INTO applications AS ap (job_id, applicant_id, cover_letter, resume_url, status)
		 VALUES ($1, $2, $3, $4, 'pending')
		 RETURNING `+applicationColumns,
		a.JobID, a.ApplicantID, a.CoverLetter, a.ResumeURL,
	).Scan(applicationDest(&out)...)
	if err != nil {
		return nil, mapWriteError(err, "application", "create")
	}
	return &out, nil
}

// GetApplication retrieves an application by ID; nil, nil when it does not exist.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	var a types.Application
	err := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications ap WHERE ap.id = $1`, id,
	).Scan(applicationDest(&a)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &a, nil
}

// ListApplicationsByJob returns the applications to a job with each applicant's profile.
func (db *DB) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]*types.Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+`, `+userColumns+`
		 FROM applications ap
		 JOIN users u ON u.id = ap.applicant_id
		 WHERE ap.job_id = $1
		 ORDER BY ap.created_at DESC`,
		jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to list job applications: %w", err)
	}
	defer rows.Close()

	apps := []*types.Application{}
	for rows.Next() {
		var a types.Application
		var r userRow
		if err := rows.Scan(append(applicationDest(&a), r.dest()...)...); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		if a.Applicant, err = r.build(); err != nil {
			return nil, err
		}
		apps = append(apps, &a)
	}
	return apps, rows.Err()
}

// ListApplicationsByApplicant returns a user's applications with each job.
func (db *DB) ListApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID) ([]*types.Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+`, `+jobColumns+`
		 FROM applications ap
		 JOIN jobs j ON j.id = ap.job_id
		 WHERE ap.applicant_id = $1
		 ORDER BY ap.created_at DESC`,
		applicantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	apps := []*types.Application{}
	for rows.Next() {
		var a types.Application
		var r jobRow
		if err := rows.Scan(append(applicationDest(&a), r.dest()...)...); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		if a.Job, err = r.build(); err != nil {
			return nil, err
		}
		apps = append(apps, &a)
	}
	return apps, rows.Err()
}

// UpdateApplicationStatus moves an application to a new review state.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status types.ApplicationStatus) (*types.Application, error) {
	var a types.Application
	err := db.pool.QueryRow(ctx,
		`UPDATE applications AS ap SET status = $1, updated_at = NOW()
		 WHERE ap.id = $2
		 RETURNING `+applicationColumns,
		status, id,
	).Scan(applicationDest(&a)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Entity: "application", ID: id.String()}
		}
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return &a, nil
}

// DeleteApplication withdraws an application.
func (db *DB) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "application", ID: id.String()}
	}
	return nil
}
