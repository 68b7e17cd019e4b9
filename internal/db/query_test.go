package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jobconnect/internal/types"
)

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-5, DefaultPageSize},
		{0, DefaultPageSize},
		{1, 1},
		{50, 50},
		{51, MaxPageSize},
		{1000, MaxPageSize},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClampLimit(tt.in), "ClampLimit(%d)", tt.in)
	}
}

func TestBuildUserSearch_NoFilters(t *testing.T) {
	query, args := buildUserSearch(types.UserFilters{})

	assert.NotContains(t, query, "FROM users u WHERE")
	assert.Contains(t, query, "ORDER BY u.created_at DESC, u.id LIMIT $1 OFFSET $2")
	assert.Equal(t, []any{DefaultPageSize, 0}, args)
}

func TestBuildUserSearch_AllFilters(t *testing.T) {
	query, args := buildUserSearch(types.UserFilters{
		Query:       " react ",
		Skill:       "Go",
		AccountType: types.AccountEmployer,
		Limit:       100,
		Offset:      -3,
	})

	assert.Contains(t, query, "(u.name ILIKE $1 OR u.headline ILIKE $2)")
	assert.Contains(t, query, "jsonb_array_elements(u.skills) s WHERE LOWER(s->>'name') = LOWER($3)")
	assert.Contains(t, query, "(u.account_type = $4 OR u.account_type = 'both')")
	assert.Contains(t, query, "LIMIT $5 OFFSET $6")
	assert.Equal(t, []any{"%react%", "%react%", "Go", "employer", MaxPageSize, 0}, args)
}

func TestBuildJobSearch_DefaultsToOpen(t *testing.T) {
	query, args := buildJobSearch(types.JobFilters{})

	assert.Contains(t, query, " WHERE j.status = $1 ")
	assert.Equal(t, []any{"open", DefaultPageSize, 0}, args)
}

func TestBuildJobSearch_AllFilters(t *testing.T) {
	employer := uuid.New()
	query, args := buildJobSearch(types.JobFilters{
		Query:        "backend",
		JobType:      types.JobTypeFullTime,
		WorkLocation: types.WorkRemote,
		Skill:        "Go",
		City:         "Austin",
		Status:       types.JobClosed,
		EmployerID:   employer,
		Limit:        5,
		Offset:       10,
	})

	for _, fragment := range []string{
		"j.status = $1",
		"(j.title ILIKE $2 OR j.company ILIKE $3 OR j.description ILIKE $4)",
		"j.job_type = $5",
		"j.work_location = $6",
		"jsonb_array_elements(j.skills) s WHERE LOWER(s->>'name') = LOWER($7)",
		"LOWER(j.location->>'city') = LOWER($8)",
		"j.employer_id = $9",
		"LIMIT $10 OFFSET $11",
	} {
		assert.Contains(t, query, fragment)
	}
	assert.Equal(t, []any{"closed", "%backend%", "%backend%", "%backend%", "Full-time", "Remote",
		"Go", "Austin", employer, 5, 10}, args)
}

func TestBuildPostList(t *testing.T) {
	author := uuid.New()
	query, args := buildPostList(types.PostFilters{Category: "networking", AuthorID: author, Limit: 3})

	assert.Contains(t, query, "JOIN users u ON u.id = p.author_id")
	assert.Contains(t, query, "WHERE p.category = $1 AND p.author_id = $2")
	assert.Contains(t, query, "ORDER BY p.created_at DESC, p.id LIMIT $3 OFFSET $4")
	assert.Equal(t, []any{"networking", author, 3, 0}, args)
}
