package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jobconnect/internal/matching"
	"github.com/jonathan/jobconnect/internal/types"
)

func userIDs(users []*types.User) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestSearchUsers(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.addUser(t, "alice", types.AccountJobSeeker, "Go")
	bob, _ := env.addUser(t, "bob", types.AccountEmployer, "Python")
	carol, _ := env.addUser(t, "carol", types.AccountBoth, "go")

	tests := []struct {
		name  string
		query string
		want  []uuid.UUID
	}{
		{name: "everyone", query: "", want: []uuid.UUID{alice.ID, bob.ID, carol.ID}},
		{name: "by name", query: "?q=BOB", want: []uuid.UUID{bob.ID}},
		{name: "by skill", query: "?skill=GO", want: []uuid.UUID{alice.ID, carol.ID}},
		{name: "employers include both", query: "?accountType=employer", want: []uuid.UUID{bob.ID, carol.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/api/users"+tt.query, token, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.ElementsMatch(t, tt.want, userIDs(decodeBody[[]*types.User](t, w)))
		})
	}
}

func TestSearchUsers_InvalidParams(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", types.AccountJobSeeker)

	for _, query := range []string{"?accountType=admin", "?limit=abc"} {
		w := env.do(t, http.MethodGet, "/api/users"+query, token, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", types.AccountJobSeeker)
	bob, _ := env.addUser(t, "bob", types.AccountEmployer)

	w := env.do(t, http.MethodGet, "/api/users/"+bob.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", decodeBody[types.User](t, w).Name)

	w = env.do(t, http.MethodGet, "/api/users/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", errorMessage(t, w))

	w = env.do(t, http.MethodGet, "/api/users/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.addUser(t, "alice", types.AccountJobSeeker, "Go")

	w := env.do(t, http.MethodPut, "/api/users/me", token, map[string]any{
		"headline": "Backend engineer",
		"location": map[string]string{"city": "Austin", "country": "USA"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decodeBody[types.User](t, w)
	assert.Equal(t, alice.ID, updated.ID)
	assert.Equal(t, "Backend engineer", updated.Headline)
	assert.Equal(t, "Austin", updated.Location.City)
	assert.Equal(t, "alice", updated.Name, "omitted fields are left alone")
	require.Len(t, updated.Skills, 1)

	w = env.do(t, http.MethodPut, "/api/users/me", token, map[string]any{"accountType": "admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.addUser(t, "alice", types.AccountEmployer)
	env.addJob(t, alice, "Go Developer")

	w := env.do(t, http.MethodDelete, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := findCookie(w.Result().Cookies(), "token")
	require.NotNil(t, cookie)
	assert.Less(t, cookie.MaxAge, 0)

	user, err := env.store.GetUser(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Empty(t, env.store.jobs)
}

func TestExtractProfileSkills(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.addUser(t, "alice", types.AccountJobSeeker, "python")

	w := env.do(t, http.MethodPost, "/api/users/me/skills/extract", token, types.ExtractSkillsRequest{
		Text: "Five years of Python and Docker",
	})
	require.Equal(t, http.StatusOK, w.Code)
	preview := decodeBody[struct {
		Skills []types.Skill `json:"skills"`
		Source string        `json:"source"`
		User   *types.User   `json:"user"`
	}](t, w)
	assert.Equal(t, "fallback", preview.Source)
	require.Len(t, preview.Skills, 2)
	assert.Nil(t, preview.User)

	w = env.do(t, http.MethodPost, "/api/users/me/skills/extract", token, types.ExtractSkillsRequest{
		Text: "Five years of Python and Docker",
		Save: true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	saved := decodeBody[struct {
		User *types.User `json:"user"`
	}](t, w)
	require.NotNil(t, saved.User)

	names := make([]string, 0, len(saved.User.Skills))
	for _, s := range saved.User.Skills {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"python", "Docker"}, names)

	w = env.do(t, http.MethodPost, "/api/users/me/skills/extract", token, types.ExtractSkillsRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConnectionSuggestions(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.addUser(t, "alice", types.AccountJobSeeker, "Go", "Python")
	bob, _ := env.addUser(t, "bob", types.AccountEmployer, "Python")
	carol, _ := env.addUser(t, "carol", types.AccountJobSeeker, "Go")

	conn, err := env.store.CreateConnection(context.Background(), alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = env.store.UpdateConnectionStatus(context.Background(), conn.ID, types.ConnectionAccepted)
	require.NoError(t, err)

	w := env.do(t, http.MethodGet, "/api/users/suggestions", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody[struct {
		Suggestions []matching.RankedUser `json:"suggestions"`
	}](t, w)
	require.Len(t, body.Suggestions, 1)
	assert.Equal(t, bob.ID, body.Suggestions[0].Entity.ID)
	assert.Positive(t, body.Suggestions[0].Score)
	assert.Contains(t, body.Suggestions[0].Reasons, "Potential employer")

	w = env.do(t, http.MethodGet, "/api/users/suggestions?limit=0", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[struct {
		Suggestions []matching.RankedUser `json:"suggestions"`
	}](t, w).Suggestions)
}
