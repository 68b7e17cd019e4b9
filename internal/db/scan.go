package db

import (
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobconnect/internal/types"
)

// userColumns selects a full profile from users aliased as u. connectionCount
// counts accepted edges in either direction.
const userColumns = `u.id, u.name, u.email, u.account_type, u.headline, u.bio, u.profile_picture,
	u.location, u.skills, u.job_preferences, u.company_info,
	(SELECT COUNT(*) FROM connections c
	  WHERE c.status = 'accepted' AND (c.requester_id = u.id OR c.recipient_id = u.id)),
	u.created_at, u.updated_at`

// jobColumns selects a job from jobs aliased as j.
const jobColumns = `j.id, j.employer_id, j.title, j.company, j.description, j.skills,
	j.job_type, j.work_location, j.location, j.salary, j.experience_level, j.status,
	(SELECT COUNT(*) FROM applications a WHERE a.job_id = j.id),
	j.created_at, j.updated_at`

// userRow holds scan targets for userColumns so joins can scan a user next to other columns.
type userRow struct {
	u                                 types.User
	location, skills, prefs, company []byte
}

func (r *userRow) dest() []any {
	return []any{&r.u.ID, &r.u.Name, &r.u.Email, &r.u.AccountType, &r.u.Headline, &r.u.Bio,
		&r.u.ProfilePicture, &r.location, &r.skills, &r.prefs, &r.company,
		&r.u.ConnectionCount, &r.u.CreatedAt, &r.u.UpdatedAt}
}

func (r *userRow) build() (*types.User, error) {
	u := r.u
	if err := unmarshalJSON(r.location, &u.Location); err != nil {
		return nil, fmt.Errorf("failed to decode location: %w", err)
	}
	if err := unmarshalJSON(r.skills, &u.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	if err := unmarshalJSON(r.prefs, &u.JobPreferences); err != nil {
		return nil, fmt.Errorf("failed to decode job preferences: %w", err)
	}
	if err := unmarshalJSON(r.company, &u.CompanyInfo); err != nil {
		return nil, fmt.Errorf("failed to decode company info: %w", err)
	}
	if u.Skills == nil {
		u.Skills = []types.Skill{}
	}
	return &u, nil
}

type jobRow struct {
	j                        types.Job
	skills, location, salary []byte
}

func (r *jobRow) dest() []any {
	return []any{&r.j.ID, &r.j.EmployerID, &r.j.Title, &r.j.Company, &r.j.Description,
		&r.skills, &r.j.JobType, &r.j.WorkLocation, &r.location, &r.salary,
		&r.j.ExperienceLevel, &r.j.Status, &r.j.ApplicationCount, &r.j.CreatedAt, &r.j.UpdatedAt}
}

func (r *jobRow) build() (*types.Job, error) {
	j := r.j
	if err := unmarshalJSON(r.skills, &j.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	if err := unmarshalJSON(r.location, &j.Location); err != nil {
		return nil, fmt.Errorf("failed to decode location: %w", err)
	}
	if err := unmarshalJSON(r.salary, &j.Salary); err != nil {
		return nil, fmt.Errorf("failed to decode salary: %w", err)
	}
	if j.Skills == nil {
		j.Skills = []types.Skill{}
	}
	return &j, nil
}

func scanUser(row pgx.Row) (*types.User, error) {
	var r userRow
	if err := row.Scan(r.dest()...); err != nil {
		return nil, err
	}
	return r.build()
}

func scanJob(row pgx.Row) (*types.Job, error) {
	var r jobRow
	if err := row.Scan(r.dest()...); err != nil {
		return nil, err
	}
	return r.build()
}

func collectUsers(rows pgx.Rows) ([]*types.User, error) {
	defer rows.Close()
	users := []*types.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func collectJobs(rows pgx.Rows) ([]*types.Job, error) {
	defer rows.Close()
	jobs := []*types.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}
