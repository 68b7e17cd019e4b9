package matching

import (
	"sort"

	"github.com/google/uuid"
	"github.com/jonathan/jobconnect/internal/types"
)

// DefaultLimit is the number of results returned when the caller does not ask for a limit.
const DefaultLimit = 10

// MaxCandidates bounds the candidate pool fetched for a single recommendation request.
const MaxCandidates = 50

// Ranked is a scored entity in a recommendation list.
type Ranked[T any] struct {
	Entity  T        `json:"entity"`
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// RankedJob is a job recommendation.
type RankedJob = Ranked[*types.Job]

// RankedUser is a connection suggestion.
type RankedUser = Ranked[*types.User]

// RankJobs scores every job for the user and returns the best matches.
func RankJobs(user *types.User, jobs []*types.Job, limit int) []RankedJob {
	ranked := make([]RankedJob, 0, len(jobs))
	for _, job := range jobs {
		m := ScoreJob(user, job)
		ranked = append(ranked, RankedJob{Entity: job, Score: m.Score, Reasons: m.Reasons})
	}
	return Finalize(ranked, limit)
}

// SuggestConnections scores candidate users for the current user. The current user
// and every id in exclude are removed from the pool before scoring.
func SuggestConnections(current *types.User, candidates []*types.User, exclude map[uuid.UUID]bool, limit int) []RankedUser {
	ranked := make([]RankedUser, 0, len(candidates))
	for _, c := range candidates {
		if c == nil || c.ID == current.ID || exclude[c.ID] {
			continue
		}
		m := ScoreConnection(current, c)
		ranked = append(ranked, RankedUser{Entity: c, Score: m.Score, Reasons: m.Reasons})
	}
	return Finalize(ranked, limit)
}

// Finalize drops non-positive scores, sorts by score descending (stable for ties)
// and truncates to limit. A negative limit means DefaultLimit.
func Finalize[T any](ranked []Ranked[T], limit int) []Ranked[T] {
	if limit < 0 {
		limit = DefaultLimit
	}

	kept := make([]Ranked[T], 0, len(ranked))
	for _, r := range ranked {
		if r.Score > 0 {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Score > kept[j].Score
	})

	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept
}
