package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/jobconnect/internal/db"
	"github.com/jonathan/jobconnect/internal/fetch"
	"github.com/jonathan/jobconnect/internal/types"
)

// Store is the persistence the handlers depend on. *db.DB implements it.
type Store interface {
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, u *types.User, passwordHash string) (*types.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*types.User, error)
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserCredentials(ctx context.Context, email string) (*types.User, string, error)
	GetPasswordHash(ctx context.Context, id uuid.UUID) (string, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateUser(ctx context.Context, u *types.User) (*types.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SearchUsers(ctx context.Context, f types.UserFilters) ([]*types.User, error)
	ListSuggestionCandidates(ctx context.Context, userID uuid.UUID, limit int) ([]*types.User, error)

	CreateConnection(ctx context.Context, requesterID, recipientID uuid.UUID) (*types.Connection, error)
	GetConnection(ctx context.Context, id uuid.UUID) (*types.Connection, error)
	UpdateConnectionStatus(ctx context.Context, id uuid.UUID, status types.ConnectionStatus) (*types.Connection, error)
	GetConnectionBetween(ctx context.Context, a, b uuid.UUID) (*types.Connection, error)
	DeleteConnectionBetween(ctx context.Context, a, b uuid.UUID) error
	ListConnections(ctx context.Context, userID uuid.UUID) ([]*types.User, error)
	ListPendingConnections(ctx context.Context, userID uuid.UUID) ([]*types.PendingConnection, error)
	ConnectedUserIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)

	CreateJob(ctx context.Context, j *types.Job) (*types.Job, error)
	GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error)
	UpdateJob(ctx context.Context, j *types.Job) (*types.Job, error)
	DeleteJob(ctx context.Context, id uuid.UUID) error
	SearchJobs(ctx context.Context, f types.JobFilters) ([]*types.Job, error)
	ListJobsByEmployer(ctx context.Context, employerID uuid.UUID) ([]*types.Job, error)
	ListRecommendationCandidates(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Job, error)

	CreateApplication(ctx context.Context, a *types.Application) (*types.Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error)
	ListApplicationsByJob(ctx context.Context, jobID uuid.UUID) ([]*types.Application, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID) ([]*types.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status types.ApplicationStatus) (*types.Application, error)
	DeleteApplication(ctx context.Context, id uuid.UUID) error

	CreatePost(ctx context.Context, p *types.Post) (*types.Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*types.Post, error)
	UpdatePost(ctx context.Context, p *types.Post) (*types.Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListPosts(ctx context.Context, f types.PostFilters) ([]*types.Post, error)
	TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error)
	CreateComment(ctx context.Context, c *types.Comment) (*types.Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (*types.Comment, error)
	ListComments(ctx context.Context, postID uuid.UUID) ([]*types.Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

var _ Store = (*db.DB)(nil)

// PageFetcher retrieves a job posting page for import. *fetch.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, useBrowser bool) (*fetch.Page, error)
}

var _ PageFetcher = (*fetch.Fetcher)(nil)
