package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobconnect/internal/llm"
	"github.com/jonathan/jobconnect/internal/logger"
	"github.com/jonathan/jobconnect/internal/matching"
	"github.com/jonathan/jobconnect/internal/prompts"
	"github.com/jonathan/jobconnect/internal/schemas"
	"github.com/jonathan/jobconnect/internal/types"
	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	maxLogPreview       = 200
	maxDraftInput       = 20000
	maxDraftDescription = 5000
)

// llmEngine is the model-backed strategy.
type llmEngine struct {
	client llm.Client
	logger *zap.Logger
}

// generate renders a prompt, calls the model and validates the JSON it returns.
func (e *llmEngine) generate(ctx context.Context, prompt string, tier llm.ModelTier, schema string) (string, error) {
	e.logger.Debug("ai request",
		zap.String("schema", schema),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, maxLogPreview)),
	)

	raw, err := e.client.GenerateJSON(ctx, prompt, tier)
	if err != nil {
		return "", err
	}

	e.logger.Debug("ai response",
		zap.String("schema", schema),
		zap.String("response_preview", logger.TruncateForLog(raw, maxLogPreview)),
	)

	raw = llm.ExtractJSON(raw)
	if err := schemas.Validate(schema, raw); err != nil {
		return "", fmt.Errorf("ai response rejected: %w", err)
	}
	return raw, nil
}

func (e *llmEngine) extractSkills(ctx context.Context, text string) ([]types.Skill, error) {
	prompt, err := prompts.Render(prompts.KeyExtractSkills, map[string]string{"Text": text})
	if err != nil {
		return nil, err
	}

	raw, err := e.generate(ctx, prompt, llm.TierLite, schemas.Skills)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Skills []struct {
			Name        string `json:"name"`
			Proficiency string `json:"proficiency"`
		} `json:"skills"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}

	extracted := make([]types.Skill, 0, len(resp.Skills))
	for _, s := range resp.Skills {
		extracted = append(extracted, types.Skill{
			Name:          strings.TrimSpace(s.Name),
			Proficiency:   normalizeProficiency(s.Proficiency),
			IsAIExtracted: true,
		})
	}

	skills := types.MergeSkills(nil, extracted)
	if len(skills) > MaxSkills {
		skills = skills[:MaxSkills]
	}
	return skills, nil
}

func (e *llmEngine) generateTags(ctx context.Context, content, category string) ([]string, error) {
	prompt, err := prompts.Render(prompts.KeyGenerateTags, map[string]string{
		"Category": category,
		"Content":  content,
	})
	if err != nil {
		return nil, err
	}

	raw, err := e.generate(ctx, prompt, llm.TierLite, schemas.Tags)
	if err != nil {
		return nil, err
	}

	tags := make([]string, 0, MaxTags)
	seen := make(map[string]bool)
	for _, t := range gjson.Get(raw, "tags").Array() {
		tag := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(t.String()), "#")))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == MaxTags {
			break
		}
	}

	if len(tags) == 0 {
		return nil, errors.New("model returned no usable tags")
	}
	return tags, nil
}

func (e *llmEngine) analyzeSentiment(ctx context.Context, content string) (types.Sentiment, error) {
	prompt, err := prompts.Render(prompts.KeyAnalyzeSentiment, map[string]string{"Content": content})
	if err != nil {
		return types.Sentiment{}, err
	}

	raw, err := e.generate(ctx, prompt, llm.TierLite, schemas.Sentiment)
	if err != nil {
		return types.Sentiment{}, err
	}

	result := gjson.GetMany(raw, "sentiment", "score", "confidence")
	return types.Sentiment{
		Sentiment:  result[0].String(),
		Score:      result[1].Float(),
		Confidence: result[2].Float(),
	}, nil
}

// recommendation is one entry of the model's ranking. Models often quote
// numbers, so entries are decoded with weak typing.
type recommendation struct {
	JobIndex int      `mapstructure:"jobIndex"`
	Score    float64  `mapstructure:"score"`
	Reasons  []string `mapstructure:"reasons"`
}

func (e *llmEngine) recommendJobs(ctx context.Context, user *types.User, jobs []*types.Job, limit int) ([]matching.RankedJob, error) {
	profileJSON, err := json.Marshal(profileSummary(user))
	if err != nil {
		return nil, fmt.Errorf("failed to encode profile: %w", err)
	}
	jobsJSON, err := json.Marshal(jobSummaries(jobs))
	if err != nil {
		return nil, fmt.Errorf("failed to encode jobs: %w", err)
	}

	if limit < 0 {
		limit = matching.DefaultLimit
	}
	prompt, err := prompts.Render(prompts.KeyRecommendJobs, map[string]string{
		"Profile": string(profileJSON),
		"Jobs":    string(jobsJSON),
		"Limit":   strconv.Itoa(limit),
	})
	if err != nil {
		return nil, err
	}

	raw, err := e.generate(ctx, prompt, llm.TierAdvanced, schemas.Recommendations)
	if err != nil {
		return nil, err
	}

	recs, err := decodeRecommendations(raw)
	if err != nil {
		return nil, err
	}

	ranked := make([]matching.RankedJob, 0, len(recs))
	used := make(map[int]bool, len(recs))
	for _, rec := range recs {
		if rec.JobIndex < 0 || rec.JobIndex >= len(jobs) || used[rec.JobIndex] {
			continue
		}
		used[rec.JobIndex] = true

		score := int(math.Floor(rec.Score + 0.5))
		if score <= 0 {
			continue
		}
		reasons := rec.Reasons
		if len(reasons) == 0 {
			reasons = []string{matching.DefaultJobReason}
		}
		ranked = append(ranked, matching.RankedJob{
			Entity:  jobs[rec.JobIndex],
			Score:   score,
			Reasons: reasons,
		})
	}

	if len(ranked) == 0 {
		return nil, errors.New("model returned no usable recommendations")
	}
	return matching.Finalize(ranked, limit), nil
}

func decodeRecommendations(raw string) ([]recommendation, error) {
	var payload struct {
		Recommendations []map[string]any `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}

	var recs []recommendation
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &recs,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(payload.Recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}
	return recs, nil
}

func (e *llmEngine) draftJob(ctx context.Context, pageText string) (*types.JobDraft, error) {
	input := pageText
	if utf8.RuneCountInString(input) > maxDraftInput {
		input = string([]rune(input)[:maxDraftInput])
	}
	prompt := llm.BuildExtractionPrompt(llm.JobDraftSchema(), input)

	raw, err := e.generate(ctx, prompt, llm.TierStandard, schemas.JobDraft)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Title        string   `json:"title"`
		Company      string   `json:"company"`
		Description  string   `json:"description"`
		Skills       []string `json:"skills"`
		JobType      string   `json:"jobType"`
		WorkLocation string   `json:"workLocation"`
	}
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to decode job draft: %w", err)
	}

	extracted := make([]types.Skill, 0, len(resp.Skills))
	for _, name := range resp.Skills {
		extracted = append(extracted, types.Skill{Name: strings.TrimSpace(name), IsAIExtracted: true})
	}

	return &types.JobDraft{
		Title:        strings.TrimSpace(resp.Title),
		Company:      strings.TrimSpace(resp.Company),
		Description:  strings.TrimSpace(resp.Description),
		Skills:       types.MergeSkills(nil, extracted),
		JobType:      oneOf(resp.JobType, types.JobTypeFullTime, types.JobTypePartTime, types.JobTypeContract, types.JobTypeInternship, types.JobTypeFreelance),
		WorkLocation: oneOf(resp.WorkLocation, types.WorkRemote, types.WorkOnSite, types.WorkHybrid),
	}, nil
}

func normalizeProficiency(p string) types.Proficiency {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "beginner":
		return types.ProficiencyBeginner
	case "advanced":
		return types.ProficiencyAdvanced
	case "expert":
		return types.ProficiencyExpert
	default:
		return types.ProficiencyIntermediate
	}
}

// oneOf returns the allowed value equal to v ignoring case, or "".
func oneOf(v string, allowed ...string) string {
	v = strings.TrimSpace(v)
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return a
		}
	}
	return ""
}

type profilePrompt struct {
	Headline       string                `json:"headline,omitempty"`
	Skills         []string              `json:"skills"`
	Location       *types.Location       `json:"location,omitempty"`
	JobPreferences *types.JobPreferences `json:"jobPreferences,omitempty"`
}

type jobPrompt struct {
	JobIndex        int      `json:"jobIndex"`
	Title           string   `json:"title"`
	Company         string   `json:"company,omitempty"`
	Skills          []string `json:"skills"`
	JobType         string   `json:"jobType,omitempty"`
	WorkLocation    string   `json:"workLocation,omitempty"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
}

func profileSummary(u *types.User) profilePrompt {
	return profilePrompt{
		Headline:       u.Headline,
		Skills:         skillNames(u.Skills),
		Location:       u.Location,
		JobPreferences: u.JobPreferences,
	}
}

func jobSummaries(jobs []*types.Job) []jobPrompt {
	out := make([]jobPrompt, 0, len(jobs))
	for i, j := range jobs {
		out = append(out, jobPrompt{
			JobIndex:        i,
			Title:           j.Title,
			Company:         j.Company,
			Skills:          skillNames(j.Skills),
			JobType:         j.JobType,
			WorkLocation:    j.WorkLocation,
			ExperienceLevel: j.ExperienceLevel,
		})
	}
	return out
}

func skillNames(skills []types.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}
