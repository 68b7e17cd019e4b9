// Package ai implements skill extraction, post tagging, sentiment analysis, job
// recommendations and job-draft extraction. Every feature tries the configured
// model once and falls back to a deterministic implementation on any failure.
package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/jonathan/jobconnect/internal/llm"
	"github.com/jonathan/jobconnect/internal/logger"
	"github.com/jonathan/jobconnect/internal/matching"
	"github.com/jonathan/jobconnect/internal/types"
	"go.uber.org/zap"
)

// Source tells callers which path produced a result.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// errDisabled is returned by the disabled engine; it is expected and not logged as a failure.
var errDisabled = errors.New("ai provider not configured")

// engine is the primary strategy for every feature.
type engine interface {
	extractSkills(ctx context.Context, text string) ([]types.Skill, error)
	generateTags(ctx context.Context, content, category string) ([]string, error)
	analyzeSentiment(ctx context.Context, content string) (types.Sentiment, error)
	recommendJobs(ctx context.Context, user *types.User, jobs []*types.Job, limit int) ([]matching.RankedJob, error)
	draftJob(ctx context.Context, pageText string) (*types.JobDraft, error)
}

// Status describes the configured backend.
type Status struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider"`
	Model    string `json:"model,omitempty"`
}

// Service runs AI features with deterministic fallbacks.
type Service struct {
	engine engine
	status Status
	logger *zap.Logger
}

// NewService returns a service backed by client. A nil client yields a
// fallback-only service that never attempts a network call.
func NewService(client llm.Client, provider string, log *zap.Logger) *Service {
	log = logger.OrNop(log)

	if client == nil {
		return &Service{
			engine: disabledEngine{},
			status: Status{Enabled: false, Provider: "none"},
			logger: log,
		}
	}

	return &Service{
		engine: &llmEngine{client: client, logger: log},
		status: Status{Enabled: true, Provider: provider, Model: client.GetModel(llm.TierStandard)},
		logger: log.With(zap.String(logger.FieldProvider, provider)),
	}
}

// Status reports whether a model backs the service.
func (s *Service) Status() Status {
	return s.status
}

// ExtractSkills extracts up to MaxSkills skills from free text.
func (s *Service) ExtractSkills(ctx context.Context, text string) ([]types.Skill, Source) {
	if strings.TrimSpace(text) == "" {
		return []types.Skill{}, SourceFallback
	}
	return run(s, "extract_skills",
		func() ([]types.Skill, error) { return s.engine.extractSkills(ctx, text) },
		func() []types.Skill { return ExtractSkillsFallback(text) },
	)
}

// GenerateTags returns up to MaxTags tags for a post.
func (s *Service) GenerateTags(ctx context.Context, content, category string) ([]string, Source) {
	return run(s, "generate_tags",
		func() ([]string, error) { return s.engine.generateTags(ctx, content, category) },
		func() []string { return GenerateTagsFallback(content, category) },
	)
}

// AnalyzeSentiment classifies the tone of a post.
func (s *Service) AnalyzeSentiment(ctx context.Context, content string) (types.Sentiment, Source) {
	if strings.TrimSpace(content) == "" {
		return AnalyzeSentimentFallback(), SourceFallback
	}
	return run(s, "analyze_sentiment",
		func() (types.Sentiment, error) { return s.engine.analyzeSentiment(ctx, content) },
		AnalyzeSentimentFallback,
	)
}

// RecommendJobs ranks jobs for user. The fallback is the weighted job scorer.
func (s *Service) RecommendJobs(ctx context.Context, user *types.User, jobs []*types.Job, limit int) ([]matching.RankedJob, Source) {
	if len(jobs) == 0 {
		return []matching.RankedJob{}, SourceFallback
	}
	return run(s, "recommend_jobs",
		func() ([]matching.RankedJob, error) { return s.engine.recommendJobs(ctx, user, jobs, limit) },
		func() []matching.RankedJob { return matching.RankJobs(user, jobs, limit) },
	)
}

// DraftJob turns the text of an imported job page into an editable draft.
// The fallback uses the page title and the reference skill list.
func (s *Service) DraftJob(ctx context.Context, pageTitle, pageText, sourceURL string) (*types.JobDraft, Source) {
	draft, source := run(s, "draft_job",
		func() (*types.JobDraft, error) { return s.engine.draftJob(ctx, pageText) },
		func() *types.JobDraft {
			return &types.JobDraft{
				Title:       strings.TrimSpace(pageTitle),
				Description: logger.TruncateForLog(pageText, maxDraftDescription),
				Skills:      ExtractSkillsFallback(pageText),
			}
		},
	)
	draft.SourceURL = sourceURL
	return draft, source
}

// run makes one primary attempt and falls back on any error.
func run[T any](s *Service, feature string, primary func() (T, error), fallback func() T) (T, Source) {
	result, err := primary()
	if err == nil {
		return result, SourceAI
	}

	if errors.Is(err, errDisabled) {
		s.logger.Debug("ai disabled, using fallback", zap.String(logger.FieldFeature, feature))
	} else {
		s.logger.Warn("ai call failed, using fallback",
			zap.String(logger.FieldFeature, feature),
			zap.Error(err),
		)
	}
	return fallback(), SourceFallback
}

type disabledEngine struct{}

func (disabledEngine) extractSkills(context.Context, string) ([]types.Skill, error) {
	return nil, errDisabled
}

func (disabledEngine) generateTags(context.Context, string, string) ([]string, error) {
	return nil, errDisabled
}

func (disabledEngine) analyzeSentiment(context.Context, string) (types.Sentiment, error) {
	return types.Sentiment{}, errDisabled
}

func (disabledEngine) recommendJobs(context.Context, *types.User, []*types.Job, int) ([]matching.RankedJob, error) {
	return nil, errDisabled
}

func (disabledEngine) draftJob(context.Context, string) (*types.JobDraft, error) {
	return nil, errDisabled
}
