package types

import (
	"time"

	"github.com/google/uuid"
)

// Post categories
const (
	CategoryCareerAdvice = "career_advice"
	CategoryJobSearch    = "job_search"
	CategoryIndustryNews = "industry_news"
	CategoryAchievement  = "achievement"
	CategoryNetworking   = "networking"
	CategoryQuestion     = "question"
	CategoryGeneral      = "general"
)

// Sentiment is the tone of a post.
type Sentiment struct {
	Sentiment  string  `json:"sentiment"`
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Post is a social feed entry.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	AuthorID     uuid.UUID  `json:"authorId"`
	Author       *User      `json:"author,omitempty"`
	Content      string     `json:"content"`
	Category     string     `json:"category"`
	Tags         []string   `json:"tags"`
	Sentiment    *Sentiment `json:"sentiment,omitempty"`
	LikeCount    int        `json:"likeCount"`
	CommentCount int        `json:"commentCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CreatePostRequest is the body of a new post.
type CreatePostRequest struct {
	Content  string   `json:"content" validate:"required,max=5000"`
	Category string   `json:"category" validate:"omitempty,oneof=career_advice job_search industry_news achievement networking question general"`
	Tags     []string `json:"tags,omitempty" validate:"max=10,dive,min=1,max=50"`
}

// UpdatePostRequest is a partial post update.
type UpdatePostRequest struct {
	Content  *string  `json:"content,omitempty" validate:"omitempty,min=1,max=5000"`
	Category *string  `json:"category,omitempty" validate:"omitempty,oneof=career_advice job_search industry_news achievement networking question general"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
}

// PostFilters holds optional filters for the feed.
type PostFilters struct {
	Category string
	AuthorID uuid.UUID
	Limit    int
	Offset   int
}

// Comment is a reply to a post.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"postId"`
	AuthorID  uuid.UUID `json:"authorId"`
	Author    *User     `json:"author,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateCommentRequest is the body of a new comment.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

// GenerateTagsRequest asks for tags for post content.
type GenerateTagsRequest struct {
	Content  string `json:"content" validate:"required,max=5000"`
	Category string `json:"category,omitempty"`
}

// AnalyzeSentimentRequest asks for the sentiment of post content.
type AnalyzeSentimentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}
