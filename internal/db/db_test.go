package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobconnect/internal/types"
)

func TestMapWriteError_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	err := mapWriteError(fmt.Errorf("exec: %w", pgErr), "user", "create")

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "user", conflict.Entity)
	assert.Equal(t, "users_email_key", conflict.Constraint)
	assert.Equal(t, "user already exists (users_email_key)", conflict.Error())
	assert.ErrorIs(t, err, pgErr)
}

func TestMapWriteError_OtherErrors(t *testing.T) {
	cause := &pgconn.PgError{Code: "23503"}
	err := mapWriteError(cause, "application", "create")

	var conflict *ConflictError
	assert.False(t, errors.As(err, &conflict))
	assert.Contains(t, err.Error(), "failed to create application")
	assert.ErrorIs(t, err, cause)
}

func TestNotFoundError(t *testing.T) {
	err := error(&NotFoundError{Entity: "job", ID: "abc"})
	assert.Equal(t, "job not found: abc", err.Error())

	var nf *NotFoundError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &nf))
}

func TestMarshalJSON_NilBecomesNull(t *testing.T) {
	var loc *types.Location
	b, err := marshalJSON(loc)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = marshalJSON(nil)
	require.NoError(t, err)
	assert.Nil(t, b)

	b, err = marshalJSON(&types.Location{City: "Berlin"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Berlin"}`, string(b))
}

func TestUserRowBuild(t *testing.T) {
	r := userRow{
		location: []byte(`{"city":"Austin","country":"USA"}`),
		skills:   []byte(`[{"name":"Go","proficiency":"Expert"}]`),
	}
	r.u.Name = "Ada"

	u, err := r.build()
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)
	require.NotNil(t, u.Location)
	assert.Equal(t, "Austin", u.Location.City)
	assert.Equal(t, []types.Skill{{Name: "Go", Proficiency: types.ProficiencyExpert}}, u.Skills)
	assert.Nil(t, u.JobPreferences)
	assert.Nil(t, u.CompanyInfo)
}

func TestUserRowBuild_NullSkillsBecomeEmpty(t *testing.T) {
	var r userRow
	u, err := r.build()
	require.NoError(t, err)
	assert.NotNil(t, u.Skills)
	assert.Empty(t, u.Skills)
}

func TestUserRowBuild_BadJSON(t *testing.T) {
	r := userRow{skills: []byte(`{not json`)}
	_, err := r.build()
	assert.Error(t, err)
}

func TestPostRowBuild(t *testing.T) {
	r := postRow{
		tags:      []byte(`["career","growth"]`),
		sentiment: []byte(`{"sentiment":"positive","score":0.8,"confidence":0.9}`),
	}
	p, err := r.build()
	require.NoError(t, err)
	assert.Equal(t, []string{"career", "growth"}, p.Tags)
	require.NotNil(t, p.Sentiment)
	assert.Equal(t, "positive", p.Sentiment.Sentiment)

	empty, err := (&postRow{}).build()
	require.NoError(t, err)
	assert.Equal(t, []string{}, empty.Tags)
	assert.Nil(t, empty.Sentiment)
}

func TestMigrations_Embedded(t *testing.T) {
	names, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "migrations/001_init.sql", names[0])

	sql, err := migrationFS.ReadFile(names[0])
	require.NoError(t, err)
	for _, table := range []string{"users", "connections", "jobs", "applications", "posts", "post_likes", "comments"} {
		assert.Contains(t, string(sql), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
