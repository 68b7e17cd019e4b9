package server

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/jobconnect/internal/db"
	"github.com/jonathan/jobconnect/internal/types"
)

// fakeStore is an in-memory Store with the same not-found and conflict
// semantics as the Postgres implementation.
type fakeStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*types.User
	hashes       map[uuid.UUID]string
	connections  map[uuid.UUID]*types.Connection
	jobs         map[uuid.UUID]*types.Job
	applications map[uuid.UUID]*types.Application
	posts        map[uuid.UUID]*types.Post
	likes        map[uuid.UUID]map[uuid.UUID]bool
	comments     map[uuid.UUID]*types.Comment

	// err, when set, is returned by every call.
	err   error
	clock time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[uuid.UUID]*types.User{},
		hashes:       map[uuid.UUID]string{},
		connections:  map[uuid.UUID]*types.Connection{},
		jobs:         map[uuid.UUID]*types.Job{},
		applications: map[uuid.UUID]*types.Application{},
		posts:        map[uuid.UUID]*types.Post{},
		likes:        map[uuid.UUID]map[uuid.UUID]bool{},
		comments:     map[uuid.UUID]*types.Comment{},
		clock:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so ordering is deterministic.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) Ping(context.Context) error { return f.err }

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

func (f *fakeStore) CreateUser(_ context.Context, u *types.User, passwordHash string) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	email := strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range f.users {
		if existing.Email == email {
			return nil, &db.ConflictError{Entity: "user", Constraint: "users_email_key"}
		}
	}
	c := *u
	c.ID = uuid.New()
	c.Email = email
	if c.AccountType == "" {
		c.AccountType = types.AccountJobSeeker
	}
	if c.Skills == nil {
		c.Skills = []types.Skill{}
	}
	c.CreatedAt = f.tick()
	c.UpdatedAt = c.CreatedAt
	f.users[c.ID] = &c
	f.hashes[c.ID] = passwordHash
	return f.userLocked(c.ID), nil
}

// userLocked returns a copy of the user with its connection count.
func (f *fakeStore) userLocked(id uuid.UUID) *types.User {
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	c := *u
	c.Skills = append([]types.Skill{}, u.Skills...)
	c.ConnectionCount = 0
	for _, conn := range f.connections {
		if conn.Status == types.ConnectionAccepted && (conn.RequesterID == id || conn.RecipientID == id) {
			c.ConnectionCount++
		}
	}
	return &c
}

func (f *fakeStore) GetUser(_ context.Context, id uuid.UUID) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.userLocked(id), nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	u, _, err := f.GetUserCredentials(ctx, email)
	return u, err
}

func (f *fakeStore) GetUserCredentials(_ context.Context, email string) (*types.User, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, "", f.err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	for id, u := range f.users {
		if u.Email == email {
			return f.userLocked(id), f.hashes[id], nil
		}
	}
	return nil, "", nil
}

func (f *fakeStore) GetPasswordHash(_ context.Context, id uuid.UUID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if _, ok := f.users[id]; !ok {
		return "", &db.NotFoundError{Entity: "user", ID: id.String()}
	}
	return f.hashes[id], nil
}

func (f *fakeStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[id]; !ok {
		return &db.NotFoundError{Entity: "user", ID: id.String()}
	}
	f.hashes[id] = passwordHash
	return nil
}

func (f *fakeStore) UpdateUser(_ context.Context, u *types.User) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	existing, ok := f.users[u.ID]
	if !ok {
		return nil, &db.NotFoundError{Entity: "user", ID: u.ID.String()}
	}
	c := *u
	c.Email = existing.Email
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = f.tick()
	f.users[u.ID] = &c
	return f.userLocked(u.ID), nil
}

func (f *fakeStore) DeleteUser(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[id]; !ok {
		return &db.NotFoundError{Entity: "user", ID: id.String()}
	}
	delete(f.users, id)
	delete(f.hashes, id)
	for cid, c := range f.connections {
		if c.RequesterID == id || c.RecipientID == id {
			delete(f.connections, cid)
		}
	}
	for jid, j := range f.jobs {
		if j.EmployerID == id {
			f.deleteJobLocked(jid)
		}
	}
	for aid, a := range f.applications {
		if a.ApplicantID == id {
			delete(f.applications, aid)
		}
	}
	for pid, p := range f.posts {
		if p.AuthorID == id {
			f.deletePostLocked(pid)
		}
	}
	for _, likers := range f.likes {
		delete(likers, id)
	}
	for cid, c := range f.comments {
		if c.AuthorID == id {
			delete(f.comments, cid)
		}
	}
	return nil
}

func (f *fakeStore) sortedUsersLocked() []*types.User {
	users := make([]*types.User, 0, len(f.users))
	for id := range f.users {
		users = append(users, f.userLocked(id))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users
}

func (f *fakeStore) SearchUsers(_ context.Context, filters types.UserFilters) ([]*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	q := strings.ToLower(filters.Query)
	out := []*types.User{}
	for _, u := range f.sortedUsersLocked() {
		if q != "" && !strings.Contains(strings.ToLower(u.Name), q) && !strings.Contains(strings.ToLower(u.Headline), q) {
			continue
		}
		if filters.Skill != "" && !hasSkill(u.Skills, filters.Skill) {
			continue
		}
		if filters.AccountType != "" && u.AccountType != filters.AccountType && u.AccountType != types.AccountBoth {
			continue
		}
		out = append(out, u)
	}
	return page(out, filters.Limit, filters.Offset), nil
}

func (f *fakeStore) ListSuggestionCandidates(_ context.Context, userID uuid.UUID, limit int) ([]*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	linked := f.connectedLocked(userID)
	out := []*types.User{}
	for _, u := range f.sortedUsersLocked() {
		if u.ID == userID || linked[u.ID] {
			continue
		}
		out = append(out, u)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Connections
// -----------------------------------------------------------------------------

func (f *fakeStore) betweenLocked(a, b uuid.UUID) *types.Connection {
	for _, c := range f.connections {
		if (c.RequesterID == a && c.RecipientID == b) || (c.RequesterID == b && c.RecipientID == a) {
			cp := *c
			return &cp
		}
	}
	return nil
}

func (f *fakeStore) CreateConnection(_ context.Context, requesterID, recipientID uuid.UUID) (*types.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.betweenLocked(requesterID, recipientID) != nil {
		return nil, &db.ConflictError{Entity: "connection", Constraint: "connections_pair_key"}
	}
	now := f.tick()
	c := &types.Connection{
		ID:          uuid.New(),
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      types.ConnectionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.connections[c.ID] = c
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetConnection(_ context.Context, id uuid.UUID) (*types.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.connections[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) UpdateConnectionStatus(_ context.Context, id uuid.UUID, status types.ConnectionStatus) (*types.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.connections[id]
	if !ok {
		return nil, &db.NotFoundError{Entity: "connection", ID: id.String()}
	}
	if c.Status != types.ConnectionPending {
		return nil, &db.ConflictError{Entity: "connection"}
	}
	c.Status = status
	c.UpdatedAt = f.tick()
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetConnectionBetween(_ context.Context, a, b uuid.UUID) (*types.Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.betweenLocked(a, b), nil
}

func (f *fakeStore) DeleteConnectionBetween(_ context.Context, a, b uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	c := f.betweenLocked(a, b)
	if c == nil {
		return &db.NotFoundError{Entity: "connection", ID: a.String() + "/" + b.String()}
	}
	delete(f.connections, c.ID)
	return nil
}

func (f *fakeStore) ListConnections(_ context.Context, userID uuid.UUID) ([]*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*types.User{}
	for _, c := range f.connections {
		if c.Status != types.ConnectionAccepted {
			continue
		}
		switch userID {
		case c.RequesterID:
			out = append(out, f.userLocked(c.RecipientID))
		case c.RecipientID:
			out = append(out, f.userLocked(c.RequesterID))
		}
	}
	return out, nil
}

func (f *fakeStore) ListPendingConnections(_ context.Context, userID uuid.UUID) ([]*types.PendingConnection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*types.PendingConnection{}
	for _, c := range f.connections {
		if c.RecipientID == userID && c.Status == types.ConnectionPending {
			out = append(out, &types.PendingConnection{Connection: *c, Requester: f.userLocked(c.RequesterID)})
		}
	}
	return out, nil
}

func (f *fakeStore) connectedLocked(userID uuid.UUID) map[uuid.UUID]bool {
	ids := map[uuid.UUID]bool{}
	for _, c := range f.connections {
		switch userID {
		case c.RequesterID:
			ids[c.RecipientID] = true
		case c.RecipientID:
			ids[c.RequesterID] = true
		}
	}
	return ids
}

func (f *fakeStore) ConnectedUserIDs(_ context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.connectedLocked(userID), nil
}

// -----------------------------------------------------------------------------
// Jobs and applications
// -----------------------------------------------------------------------------

func (f *fakeStore) jobLocked(id uuid.UUID) *types.Job {
	j, ok := f.jobs[id]
	if !ok {
		return nil
	}
	c := *j
	c.ApplicationCount = 0
	for _, a := range f.applications {
		if a.JobID == id {
			c.ApplicationCount++
		}
	}
	return &c
}

func (f *fakeStore) CreateJob(_ context.Context, j *types.Job) (*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c := *j
	c.ID = uuid.New()
	if c.Status == "" {
		c.Status = types.JobOpen
	}
	if c.Skills == nil {
		c.Skills = []types.Skill{}
	}
	c.CreatedAt = f.tick()
	c.UpdatedAt = c.CreatedAt
	f.jobs[c.ID] = &c
	return f.jobLocked(c.ID), nil
}

func (f *fakeStore) GetJob(_ context.Context, id uuid.UUID) (*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.jobLocked(id), nil
}

func (f *fakeStore) UpdateJob(_ context.Context, j *types.Job) (*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	existing, ok := f.jobs[j.ID]
	if !ok {
		return nil, &db.NotFoundError{Entity: "job", ID: j.ID.String()}
	}
	c := *j
	c.EmployerID = existing.EmployerID
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = f.tick()
	f.jobs[j.ID] = &c
	return f.jobLocked(j.ID), nil
}

func (f *fakeStore) deleteJobLocked(id uuid.UUID) {
	delete(f.jobs, id)
	for aid, a := range f.applications {
		if a.JobID == id {
			delete(f.applications, aid)
		}
	}
}

func (f *fakeStore) DeleteJob(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.jobs[id]; !ok {
		return &db.NotFoundError{Entity: "job", ID: id.String()}
	}
	f.deleteJobLocked(id)
	return nil
}

func (f *fakeStore) sortedJobsLocked() []*types.Job {
	jobs := make([]*types.Job, 0, len(f.jobs))
	for id := range f.jobs {
		jobs = append(jobs, f.jobLocked(id))
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs
}

func (f *fakeStore) SearchJobs(_ context.Context, filters types.JobFilters) ([]*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	status := filters.Status
	if status == "" {
		status = types.JobOpen
	}
	q := strings.ToLower(filters.Query)
	out := []*types.Job{}
	for _, j := range f.sortedJobsLocked() {
		switch {
		case j.Status != status,
			q != "" && !strings.Contains(strings.ToLower(j.Title+" "+j.Company+" "+j.Description), q),
			filters.JobType != "" && j.JobType != filters.JobType,
			filters.WorkLocation != "" && j.WorkLocation != filters.WorkLocation,
			filters.Skill != "" && !hasSkill(j.Skills, filters.Skill),
			filters.City != "" && (j.Location == nil || !strings.EqualFold(j.Location.City, filters.City)),
			filters.EmployerID != uuid.Nil && j.EmployerID != filters.EmployerID:
			continue
		}
		out = append(out, j)
	}
	return page(out, filters.Limit, filters.Offset), nil
}

func (f *fakeStore) ListJobsByEmployer(_ context.Context, employerID uuid.UUID) ([]*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*types.Job{}
	for _, j := range f.sortedJobsLocked() {
		if j.EmployerID == employerID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (f *fakeStore) ListRecommendationCandidates(_ context.Context, userID uuid.UUID, limit int) ([]*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	applied := map[uuid.UUID]bool{}
	for _, a := range f.applications {
		if a.ApplicantID == userID {
			applied[a.JobID] = true
		}
	}
	out := []*types.Job{}
	for _, j := range f.sortedJobsLocked() {
		if j.Status != types.JobOpen || j.EmployerID == userID || applied[j.ID] {
			continue
		}
		out = append(out, j)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) CreateApplication(_ context.Context, a *types.Application) (*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.applications {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return nil, &db.ConflictError{Entity: "application", Constraint: "applications_job_id_applicant_id_key"}
		}
	}
	c := *a
	c.ID = uuid.New()
	c.Status = types.ApplicationPending
	c.CreatedAt = f.tick()
	c.UpdatedAt = c.CreatedAt
	f.applications[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeStore) GetApplication(_ context.Context, id uuid.UUID) (*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.applications[id]
	if !ok {
		return nil, nil
	}
	c := *a
	return &c, nil
}

func (f *fakeStore) ListApplicationsByJob(_ context.Context, jobID uuid.UUID) ([]*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*types.Application{}
	for _, a := range f.applications {
		if a.JobID == jobID {
			c := *a
			c.Applicant = f.userLocked(a.ApplicantID)
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListApplicationsByApplicant(_ context.Context, applicantID uuid.UUID) ([]*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*types.Application{}
	for _, a := range f.applications {
		if a.ApplicantID == applicantID {
			c := *a
			c.Job = f.jobLocked(a.JobID)
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateApplicationStatus(_ context.Context, id uuid.UUID, status types.ApplicationStatus) (*types.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.applications[id]
	if !ok {
		return nil, &db.NotFoundError{Entity: "application", ID: id.String()}
	}
	a.Status = status
	a.UpdatedAt = f.tick()
	c := *a
	return &c, nil
}

func (f *fakeStore) DeleteApplication(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.applications[id]; !ok {
		return &db.NotFoundError{Entity: "application", ID: id.String()}
	}
	delete(f.applications, id)
	return nil
}

// -----------------------------------------------------------------------------
// Posts, likes and comments
// -----------------------------------------------------------------------------

func (f *fakeStore) postLocked(id uuid.UUID) *types.Post {
	p, ok := f.posts[id]
	if !ok {
		return nil
	}
	c := *p
	c.Tags = append([]string{}, p.Tags...)
	c.Author = f.userLocked(p.AuthorID)
	c.LikeCount = len(f.likes[id])
	c.CommentCount = 0
	for _, cm := range f.comments {
		if cm.PostID == id {
			c.CommentCount++
		}
	}
	return &c
}

func (f *fakeStore) CreatePost(_ context.Context, p *types.Post) (*types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c := *p
	c.ID = uuid.New()
	if c.Category == "" {
		c.Category = types.CategoryGeneral
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	c.CreatedAt = f.tick()
	c.UpdatedAt = c.CreatedAt
	f.posts[c.ID] = &c
	return f.postLocked(c.ID), nil
}

func (f *fakeStore) GetPost(_ context.Context, id uuid.UUID) (*types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.postLocked(id), nil
}

func (f *fakeStore) UpdatePost(_ context.Context, p *types.Post) (*types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	existing, ok := f.posts[p.ID]
	if !ok {
		return nil, &db.NotFoundError{Entity: "post", ID: p.ID.String()}
	}
	existing.Content = p.Content
	existing.Category = p.Category
	existing.Tags = append([]string{}, p.Tags...)
	existing.Sentiment = p.Sentiment
	existing.UpdatedAt = f.tick()
	return f.postLocked(p.ID), nil
}

func (f *fakeStore) deletePostLocked(id uuid.UUID) {
	delete(f.posts, id)
	delete(f.likes, id)
	for cid, c := range f.comments {
		if c.PostID == id {
			delete(f.comments, cid)
		}
	}
}

func (f *fakeStore) DeletePost(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.posts[id]; !ok {
		return &db.NotFoundError{Entity: "post", ID: id.String()}
	}
	f.deletePostLocked(id)
	return nil
}

func (f *fakeStore) ListPosts(_ context.Context, filters types.PostFilters) ([]*types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*types.Post{}
	for id, p := range f.posts {
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		if filters.AuthorID != uuid.Nil && p.AuthorID != filters.AuthorID {
			continue
		}
		out = append(out, f.postLocked(id))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, filters.Limit, filters.Offset), nil
}

func (f *fakeStore) TogglePostLike(_ context.Context, postID, userID uuid.UUID) (bool, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, 0, f.err
	}
	likers := f.likes[postID]
	if likers == nil {
		likers = map[uuid.UUID]bool{}
		f.likes[postID] = likers
	}
	if likers[userID] {
		delete(likers, userID)
		return false, len(likers), nil
	}
	likers[userID] = true
	return true, len(likers), nil
}

func (f *fakeStore) CreateComment(_ context.Context, c *types.Comment) (*types.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	cp := *c
	cp.ID = uuid.New()
	cp.CreatedAt = f.tick()
	f.comments[cp.ID] = &cp
	out := cp
	out.Author = f.userLocked(cp.AuthorID)
	return &out, nil
}

func (f *fakeStore) GetComment(_ context.Context, id uuid.UUID) (*types.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	out := *c
	out.Author = f.userLocked(c.AuthorID)
	return &out, nil
}

func (f *fakeStore) ListComments(_ context.Context, postID uuid.UUID) ([]*types.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*types.Comment{}
	for _, c := range f.comments {
		if c.PostID == postID {
			cp := *c
			cp.Author = f.userLocked(c.AuthorID)
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) DeleteComment(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.comments[id]; !ok {
		return &db.NotFoundError{Entity: "comment", ID: id.String()}
	}
	delete(f.comments, id)
	return nil
}

func hasSkill(skills []types.Skill, name string) bool {
	for _, s := range skills {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

func page[T any](items []T, limit, offset int) []T {
	limit = db.ClampLimit(limit)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

var _ Store = (*fakeStore)(nil)
