package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccountType distinguishes job seekers from employers.
type AccountType string

// Account types
const (
	AccountJobSeeker AccountType = "job_seeker"
	AccountEmployer  AccountType = "employer"
	AccountBoth      AccountType = "both"
)

// CanPostJobs reports whether the account type may publish job postings.
func (a AccountType) CanPostJobs() bool {
	return a == AccountEmployer || a == AccountBoth
}

// Proficiency is the self-assessed level of a skill.
type Proficiency string

// Proficiency levels
const (
	ProficiencyBeginner     Proficiency = "Beginner"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyAdvanced     Proficiency = "Advanced"
	ProficiencyExpert       Proficiency = "Expert"
)

// Skill is a named skill on a user profile or a job posting.
type Skill struct {
	Name          string      `json:"name" validate:"required,max=100"`
	Proficiency   Proficiency `json:"proficiency,omitempty" validate:"omitempty,oneof=Beginner Intermediate Advanced Expert"`
	IsAIExtracted bool        `json:"isAIExtracted,omitempty"`
}

// Location is a free-text location.
type Location struct {
	City    string `json:"city,omitempty" validate:"max=100"`
	State   string `json:"state,omitempty" validate:"max=100"`
	Country string `json:"country,omitempty" validate:"max=100"`
}

// JobPreferences holds the job types and work arrangement a user is looking for.
type JobPreferences struct {
	JobTypes   []string `json:"jobTypes,omitempty" validate:"dive,oneof=Full-time Part-time Contract Internship Freelance"`
	RemoteWork string   `json:"remoteWork,omitempty" validate:"omitempty,oneof=Remote On-site Hybrid"`
}

// CompanyInfo describes the company an employer represents.
type CompanyInfo struct {
	Name        string `json:"name,omitempty" validate:"max=200"`
	Website     string `json:"website,omitempty" validate:"omitempty,url"`
	Industry    string `json:"industry,omitempty"`
	Size        string `json:"size,omitempty"`
	Description string `json:"description,omitempty"`
}

// User represents a user profile for API responses. The password hash never leaves the db package.
type User struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	AccountType     AccountType     `json:"accountType"`
	Headline        string          `json:"headline,omitempty"`
	Bio             string          `json:"bio,omitempty"`
	ProfilePicture  string          `json:"profilePicture,omitempty"`
	Location        *Location       `json:"location,omitempty"`
	Skills          []Skill         `json:"skills"`
	JobPreferences  *JobPreferences `json:"jobPreferences,omitempty"`
	CompanyInfo     *CompanyInfo    `json:"companyInfo,omitempty"`
	ConnectionCount int             `json:"connectionCount"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// UpdateProfileRequest is a partial profile update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name           *string         `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	AccountType    *AccountType    `json:"accountType,omitempty" validate:"omitempty,oneof=job_seeker employer both"`
	Headline       *string         `json:"headline,omitempty" validate:"omitempty,max=200"`
	Bio            *string         `json:"bio,omitempty" validate:"omitempty,max=2000"`
	ProfilePicture *string         `json:"profilePicture,omitempty" validate:"omitempty,url"`
	Location       *Location       `json:"location,omitempty"`
	Skills         []Skill         `json:"skills,omitempty" validate:"omitempty,max=100,dive"`
	JobPreferences *JobPreferences `json:"jobPreferences,omitempty"`
	CompanyInfo    *CompanyInfo    `json:"companyInfo,omitempty"`
}

// Apply copies the non-nil fields of the request onto the user.
func (r *UpdateProfileRequest) Apply(u *User) {
	if r.Name != nil {
		u.Name = *r.Name
	}
	if r.AccountType != nil {
		u.AccountType = *r.AccountType
	}
	if r.Headline != nil {
		u.Headline = *r.Headline
	}
	if r.Bio != nil {
		u.Bio = *r.Bio
	}
	if r.ProfilePicture != nil {
		u.ProfilePicture = *r.ProfilePicture
	}
	if r.Location != nil {
		u.Location = r.Location
	}
	if r.Skills != nil {
		u.Skills = r.Skills
	}
	if r.JobPreferences != nil {
		u.JobPreferences = r.JobPreferences
	}
	if r.CompanyInfo != nil {
		u.CompanyInfo = r.CompanyInfo
	}
}

// MergeSkills appends the extracted skills whose names are not already present, ignoring case.
func MergeSkills(existing, extracted []Skill) []Skill {
	seen := make(map[string]bool, len(existing))
	merged := make([]Skill, 0, len(existing)+len(extracted))
	for _, s := range existing {
		seen[strings.ToLower(strings.TrimSpace(s.Name))] = true
		merged = append(merged, s)
	}
	for _, s := range extracted {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, s)
	}
	return merged
}

// UserFilters holds optional filters for searching users.
type UserFilters struct {
	Query       string
	Skill       string
	AccountType AccountType
	Limit       int
	Offset      int
}

// ConnectionStatus is the state of a connection edge.
type ConnectionStatus string

// Connection statuses
const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionRejected ConnectionStatus = "rejected"
)

// Connection is a directed connection request between two users.
type Connection struct {
	ID          uuid.UUID        `json:"id"`
	RequesterID uuid.UUID        `json:"requesterId"`
	RecipientID uuid.UUID        `json:"recipientId"`
	Status      ConnectionStatus `json:"status"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// PendingConnection is an incoming request together with the requester's profile.
type PendingConnection struct {
	Connection
	Requester *User `json:"requester"`
}

// ExtractSkillsRequest asks for skills to be extracted from free text.
type ExtractSkillsRequest struct {
	Text string `json:"text" validate:"required,max=50000"`
	Save bool   `json:"save,omitempty"`
}
