package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/jobconnect/internal/ai"
	"github.com/jonathan/jobconnect/internal/config"
	"github.com/jonathan/jobconnect/internal/fetch"
	"github.com/jonathan/jobconnect/internal/types"
)

const testJWTSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

// stubFetcher returns a fixed page or error.
type stubFetcher struct {
	page *fetch.Page
	err  error
	urls []string
}

func (f *stubFetcher) Fetch(_ context.Context, url string, _ bool) (*fetch.Page, error) {
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

type testEnv struct {
	server  *Server
	store   *fakeStore
	fetcher *stubFetcher
	jwt     *JWTService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newFakeStore()
	fetcher := &stubFetcher{}
	jwtService := NewJWTService(&config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 24})

	srv, err := New(Deps{
		Store:     store,
		AI:        ai.NewService(nil, config.ProviderNone, zap.NewNop()),
		Fetcher:   fetcher,
		JWT:       jwtService,
		Passwords: &config.PasswordConfig{BcryptCost: bcrypt.MinCost},
		Logger:    zap.NewNop(),
		Port:      8080,
	})
	require.NoError(t, err)

	return &testEnv{server: srv, store: store, fetcher: fetcher, jwt: jwtService}
}

// addUser inserts a user straight into the store and returns it with a session token.
func (e *testEnv) addUser(t *testing.T, name string, accountType types.AccountType, skills ...string) (*types.User, string) {
	t.Helper()
	u := &types.User{Name: name, Email: name + "@example.com", AccountType: accountType}
	for _, s := range skills {
		u.Skills = append(u.Skills, types.Skill{Name: s})
	}
	created, err := e.store.CreateUser(context.Background(), u, "unused")
	require.NoError(t, err)
	token, err := e.jwt.GenerateToken(created.ID)
	require.NoError(t, err)
	return created, token
}

func (e *testEnv) addJob(t *testing.T, employer *types.User, title string, skills ...string) *types.Job {
	t.Helper()
	req := types.CreateJobRequest{
		Title:        title,
		Company:      "Acme",
		Description:  "Build things",
		JobType:      types.JobTypeFullTime,
		WorkLocation: types.WorkRemote,
	}
	for _, s := range skills {
		req.Skills = append(req.Skills, types.Skill{Name: s})
	}
	job, err := e.store.CreateJob(context.Background(), req.ToJob(employer.ID))
	require.NoError(t, err)
	return job
}

// do sends a request through the full middleware chain.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[map[string]string](t, w)["error"]
}
