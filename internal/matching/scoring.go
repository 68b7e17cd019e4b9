// Package matching scores jobs and people against a user profile and ranks the results.
package matching

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/jobconnect/internal/types"
)

// Job match weights. These are tuned product heuristics; changing them changes
// which jobs users see first.
const (
	JobSkillWeight     = 60.0
	JobTypeBonus       = 20.0
	JobRemoteWorkBonus = 20.0
)

// Connection match weights.
const (
	ConnectionSkillWeight      = 40.0
	SameCityBonus              = 20.0
	SameCountryBonus           = 10.0
	ComplementaryRoleBonus     = 20.0
	SimilarRoleBonus           = 10.0
	InfluenceWeight            = 10.0
	CompanyRepresentativeBonus = 10.0
)

const (
	// influenceSaturation is the connection count at which the influence bonus maxes out.
	influenceSaturation = 10.0

	// wellConnectedThreshold is informational only and never changes the score.
	wellConnectedThreshold = 50
)

// Default reasons when no component contributed an explanation.
const (
	DefaultJobReason        = "Basic profile match"
	DefaultConnectionReason = "Professional in your network"
)

// Match is the score of a single candidate with the reasons behind it.
type Match struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// ScoreJob scores a job against a user's skills and job preferences.
func ScoreJob(user *types.User, job *types.Job) Match {
	var reasons []string

	userSkills := skillNameSet(user.Skills)
	matches := 0
	for _, s := range job.Skills {
		if userSkills[normalizeName(s.Name)] {
			matches++
		}
	}
	score := skillRatio(matches, len(job.Skills)) * JobSkillWeight
	if matches > 0 {
		reasons = append(reasons, fmt.Sprintf("%d matching skills", matches))
	}

	if prefs := user.JobPreferences; prefs != nil {
		if containsString(prefs.JobTypes, job.JobType) {
			score += JobTypeBonus
			reasons = append(reasons, "Preferred job type")
		}
		if prefs.RemoteWork != "" && prefs.RemoteWork == job.WorkLocation {
			score += JobRemoteWorkBonus
			reasons = append(reasons, "Preferred work location")
		}
	}

	if len(reasons) == 0 {
		reasons = []string{DefaultJobReason}
	}
	return Match{Score: roundScore(score), Reasons: reasons}
}

// ScoreConnection scores a candidate user as a potential connection for the current user.
func ScoreConnection(current, candidate *types.User) Match {
	var reasons []string

	currentSkills := skillNameSet(current.Skills)
	matches := 0
	for _, s := range candidate.Skills {
		if currentSkills[normalizeName(s.Name)] {
			matches++
		}
	}
	score := skillRatio(matches, len(candidate.Skills)) * ConnectionSkillWeight
	if matches > 0 {
		reasons = append(reasons, fmt.Sprintf("%d shared skills", matches))
	}

	switch {
	case sameField(cityOf(current), cityOf(candidate)):
		score += SameCityBonus
		reasons = append(reasons, "Same city")
	case sameField(countryOf(current), countryOf(candidate)):
		score += SameCountryBonus
		reasons = append(reasons, "Same country")
	}

	switch {
	case current.AccountType == types.AccountJobSeeker && candidate.AccountType == types.AccountEmployer:
		score += ComplementaryRoleBonus
		reasons = append(reasons, "Potential employer")
	case current.AccountType == types.AccountEmployer && candidate.AccountType == types.AccountJobSeeker:
		score += ComplementaryRoleBonus
		reasons = append(reasons, "Potential candidate")
	case current.AccountType != "" && current.AccountType == candidate.AccountType:
		score += SimilarRoleBonus
		reasons = append(reasons, "Similar professional role")
	}

	score += math.Min(float64(candidate.ConnectionCount)/influenceSaturation, 1) * InfluenceWeight
	if candidate.ConnectionCount > wellConnectedThreshold {
		reasons = append(reasons, "Well-connected professional")
	}

	if candidate.CompanyInfo != nil && strings.TrimSpace(candidate.CompanyInfo.Name) != "" {
		score += CompanyRepresentativeBonus
		reasons = append(reasons, "Company representative")
	}

	if len(reasons) == 0 {
		reasons = []string{DefaultConnectionReason}
	}
	return Match{Score: roundScore(score), Reasons: reasons}
}

// skillRatio returns matches/total with the denominator guarded against zero.
func skillRatio(matches, total int) float64 {
	return float64(matches) / float64(max(total, 1))
}

func skillNameSet(skills []types.Skill) map[string]bool {
	set := make(map[string]bool, len(skills))
	for _, s := range skills {
		if name := normalizeName(s.Name); name != "" {
			set[name] = true
		}
	}
	return set
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func containsString(values []string, target string) bool {
	if target == "" {
		return false
	}
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

// sameField compares two optional free-text fields; both must be present.
func sameField(a, b string) bool {
	a, b = normalizeName(a), normalizeName(b)
	return a != "" && a == b
}

func cityOf(u *types.User) string {
	if u.Location == nil {
		return ""
	}
	return u.Location.City
}

func countryOf(u *types.User) string {
	if u.Location == nil {
		return ""
	}
	return u.Location.Country
}

// roundScore rounds half up.
func roundScore(score float64) int {
	return int(math.Floor(score + 0.5))
}
