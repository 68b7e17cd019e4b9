package types

import (
	"time"

	"github.com/google/uuid"
)

// Job types
const (
	JobTypeFullTime   = "Full-time"
	JobTypePartTime   = "Part-time"
	JobTypeContract   = "Contract"
	JobTypeInternship = "Internship"
	JobTypeFreelance  = "Freelance"
)

// Work locations
const (
	WorkRemote = "Remote"
	WorkOnSite = "On-site"
	WorkHybrid = "Hybrid"
)

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

// Job statuses
const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

// Salary is an optional salary range.
type Salary struct {
	Min      int    `json:"min,omitempty" validate:"gte=0"`
	Max      int    `json:"max,omitempty" validate:"omitempty,gtefield=Min"`
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// Job represents a job posting.
type Job struct {
	ID               uuid.UUID `json:"id"`
	EmployerID       uuid.UUID `json:"employerId"`
	Title            string    `json:"title"`
	Company          string    `json:"company"`
	Description      string    `json:"description"`
	Skills           []Skill   `json:"skills"`
	JobType          string    `json:"jobType"`
	WorkLocation     string    `json:"workLocation"`
	Location         *Location `json:"location,omitempty"`
	Salary           *Salary   `json:"salary,omitempty"`
	ExperienceLevel  string    `json:"experienceLevel,omitempty"`
	Status           JobStatus `json:"status"`
	ApplicationCount int       `json:"applicationCount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// CreateJobRequest represents a new job posting.
type CreateJobRequest struct {
	Title           string    `json:"title" validate:"required,max=200"`
	Company         string    `json:"company" validate:"required,max=200"`
	Description     string    `json:"description" validate:"required,max=20000"`
	Skills          []Skill   `json:"skills" validate:"max=50,dive"`
	JobType         string    `json:"jobType" validate:"required,oneof=Full-time Part-time Contract Internship Freelance"`
	WorkLocation    string    `json:"workLocation" validate:"required,oneof=Remote On-site Hybrid"`
	Location        *Location `json:"location,omitempty"`
	Salary          *Salary   `json:"salary,omitempty"`
	ExperienceLevel string    `json:"experienceLevel,omitempty" validate:"omitempty,oneof=Entry Mid Senior Lead Executive"`
}

// ToJob builds an open job owned by the given employer.
func (r *CreateJobRequest) ToJob(employerID uuid.UUID) *Job {
	skills := r.Skills
	if skills == nil {
		skills = []Skill{}
	}
	return &Job{
		EmployerID:      employerID,
		Title:           r.Title,
		Company:         r.Company,
		Description:     r.Description,
		Skills:          skills,
		JobType:         r.JobType,
		WorkLocation:    r.WorkLocation,
		Location:        r.Location,
		Salary:          r.Salary,
		ExperienceLevel: r.ExperienceLevel,
		Status:          JobOpen,
	}
}

// UpdateJobRequest is a partial job update; nil fields are left unchanged.
type UpdateJobRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Company         *string    `json:"company,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,min=1,max=20000"`
	Skills          []Skill    `json:"skills,omitempty" validate:"omitempty,max=50,dive"`
	JobType         *string    `json:"jobType,omitempty" validate:"omitempty,oneof=Full-time Part-time Contract Internship Freelance"`
	WorkLocation    *string    `json:"workLocation,omitempty" validate:"omitempty,oneof=Remote On-site Hybrid"`
	Location        *Location  `json:"location,omitempty"`
	Salary          *Salary    `json:"salary,omitempty"`
	ExperienceLevel *string    `json:"experienceLevel,omitempty" validate:"omitempty,oneof=Entry Mid Senior Lead Executive"`
	Status          *JobStatus `json:"status,omitempty" validate:"omitempty,oneof=open closed"`
}

// Apply copies the non-nil fields of the request onto the job.
func (r *UpdateJobRequest) Apply(j *Job) {
	if r.Title != nil {
		j.Title = *r.Title
	}
	if r.Company != nil {
		j.Company = *r.Company
	}
	if r.Description != nil {
		j.Description = *r.Description
	}
	if r.Skills != nil {
		j.Skills = r.Skills
	}
	if r.JobType != nil {
		j.JobType = *r.JobType
	}
	if r.WorkLocation != nil {
		j.WorkLocation = *r.WorkLocation
	}
	if r.Location != nil {
		j.Location = r.Location
	}
	if r.Salary != nil {
		j.Salary = r.Salary
	}
	if r.ExperienceLevel != nil {
		j.ExperienceLevel = *r.ExperienceLevel
	}
	if r.Status != nil {
		j.Status = *r.Status
	}
}

// JobFilters holds optional filters for searching jobs.
type JobFilters struct {
	Query        string
	JobType      string
	WorkLocation string
	Skill        string
	City         string
	Status       JobStatus
	EmployerID   uuid.UUID
	Limit        int
	Offset       int
}

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

// Application statuses
const (
	ApplicationPending     ApplicationStatus = "pending"
	ApplicationReviewed    ApplicationStatus = "reviewed"
	ApplicationShortlisted ApplicationStatus = "shortlisted"
	ApplicationRejected    ApplicationStatus = "rejected"
	ApplicationAccepted    ApplicationStatus = "accepted"
)

// Application is a user's application to a job.
type Application struct {
	ID          uuid.UUID         `json:"id"`
	JobID       uuid.UUID         `json:"jobId"`
	ApplicantID uuid.UUID         `json:"applicantId"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	ResumeURL   string            `json:"resumeUrl,omitempty"`
	Status      ApplicationStatus `json:"status"`
	Job         *Job              `json:"job,omitempty"`
	Applicant   *User             `json:"applicant,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ApplyRequest is the body of a job application.
type ApplyRequest struct {
	CoverLetter string `json:"coverLetter,omitempty" validate:"max=10000"`
	ResumeURL   string `json:"resumeUrl,omitempty" validate:"omitempty,url"`
}

// UpdateApplicationStatusRequest changes the review state of an application.
type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required,oneof=pending reviewed shortlisted rejected accepted"`
}

// ImportJobRequest asks for a job posting to be fetched from a URL.
type ImportJobRequest struct {
	URL        string `json:"url" validate:"required,url"`
	UseBrowser bool   `json:"useBrowser,omitempty"`
}

// JobDraft is a job posting pre-filled from an imported page.
type JobDraft struct {
	Title        string  `json:"title"`
	Company      string  `json:"company,omitempty"`
	Description  string  `json:"description"`
	Skills       []Skill `json:"skills"`
	JobType      string  `json:"jobType,omitempty"`
	WorkLocation string  `json:"workLocation,omitempty"`
	SourceURL    string  `json:"sourceUrl"`
}
