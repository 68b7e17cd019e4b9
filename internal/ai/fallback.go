package ai

import (
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobconnect/internal/types"
)

// MaxSkills caps the skills returned by a single extraction.
const MaxSkills = 10

// MaxTags caps the tags attached to a post.
const MaxTags = 5

const maxContentTags = 2

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// referenceSkills is searched in order; the order decides which ten survive the cap.
var referenceSkills = []string{
	"JavaScript", "Python", "Java", "React", "Node.js",
	"Angular", "Vue.js", "TypeScript", "HTML", "CSS",
	"SQL", "MongoDB", "PostgreSQL", "AWS", "Docker",
	"Kubernetes", "Git", "Machine Learning", "Data Analysis", "Project Management",
	"Communication", "Leadership", "Problem Solving", "Teamwork", "Agile",
}

var categoryTags = map[string][]string{
	types.CategoryCareerAdvice: {"career", "advice", "growth"},
	types.CategoryJobSearch:    {"jobsearch", "hiring", "opportunities"},
	types.CategoryIndustryNews: {"industry", "news", "trends"},
	types.CategoryAchievement:  {"achievement", "milestone", "success"},
	types.CategoryNetworking:   {"networking", "connections", "community"},
	types.CategoryQuestion:     {"question", "discussion", "help"},
	types.CategoryGeneral:      {"professional", "update"},
}

var defaultTags = []string{"professional", "career"}

var tagStopwords = map[string]bool{
	"this": true,
	"that": true,
	"with": true,
	"have": true,
	"been": true,
}

// ExtractSkillsFallback finds reference skill names in text by case-insensitive
// substring search. Matches keep the reference casing and order.
func ExtractSkillsFallback(text string) []types.Skill {
	lower := strings.ToLower(text)
	skills := make([]types.Skill, 0, MaxSkills)
	for _, name := range referenceSkills {
		if len(skills) == MaxSkills {
			break
		}
		if strings.Contains(lower, strings.ToLower(name)) {
			skills = append(skills, types.Skill{
				Name:          name,
				Proficiency:   types.ProficiencyIntermediate,
				IsAIExtracted: true,
			})
		}
	}
	return skills
}

// GenerateTagsFallback returns the category's default tags followed by up to two
// longer words from the content.
func GenerateTagsFallback(content, category string) []string {
	base, ok := categoryTags[category]
	if !ok {
		base = defaultTags
	}

	tags := make([]string, 0, MaxTags)
	tags = append(tags, base...)

	words := 0
	for _, token := range strings.Fields(strings.ToLower(content)) {
		if words == maxContentTags {
			break
		}
		if utf8.RuneCountInString(token) > 4 && !tagStopwords[token] {
			tags = append(tags, token)
			words++
		}
	}

	if len(tags) > MaxTags {
		tags = tags[:MaxTags]
	}
	return tags
}

// AnalyzeSentimentFallback is the neutral result used when no model is available.
func AnalyzeSentimentFallback() types.Sentiment {
	return types.Sentiment{Sentiment: SentimentNeutral, Score: 0, Confidence: 0}
}
