package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/jobconnect/internal/types"
)

// -----------------------------------------------------------------------------
// Post Methods
// -----------------------------------------------------------------------------

const postColumns = `p.id, p.author_id, p.content, p.category, p.tags, p.sentiment,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id),
	(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id),
	p.created_at, p.updated_at`

type postRow struct {
	p               types.Post
	tags, sentiment []byte
}

func (r *postRow) dest() []any {
	return []any{&r.p.ID, &r.p.AuthorID, &r.p.Content, &r.p.Category, &r.tags, &r.sentiment,
		&r.p.LikeCount, &r.p.CommentCount, &r.p.CreatedAt, &r.p.UpdatedAt}
}

func (r *postRow) build() (*types.Post, error) {
	p := r.p
	if err := unmarshalJSON(r.tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := unmarshalJSON(r.sentiment, &p.Sentiment); err != nil {
		return nil, fmt.Errorf("failed to decode sentiment: %w", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

// scanPostWithAuthor scans postColumns followed by userColumns.
func scanPostWithAuthor(row pgx.Row) (*types.Post, error) {
	var pr postRow
	var ur userRow
	if err := row.Scan(append(pr.dest(), ur.dest()...)...); err != nil {
		return nil, err
	}
	p, err := pr.build()
	if err != nil {
		return nil, err
	}
	if p.Author, err = ur.build(); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePost inserts a post and returns it with its author.
func (db *DB) CreatePost(ctx context.Context, p *types.Post) (*types.Post, error) {
	tags, sentiment, err := encodePost(p)
	if err != nil {
		return nil, err
	}
	category := p.Category
	if category == "" {
		category = types.CategoryGeneral
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO posts (author_id, content, category, tags, sentiment)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		p.AuthorID, p.Content, category, tags, sentiment,
	).Scan(&id)
	if err != nil {
		return nil, mapWriteError(err, "post", "create")
	}
	return db.GetPost(ctx, id)
}

// GetPost retrieves a post with its author and counts; nil, nil when it does not exist.
func (db *DB) GetPost(ctx context.Context, id uuid.UUID) (*types.Post, error) {
	p, err := scanPostWithAuthor(db.pool.QueryRow(ctx,
		`SELECT `+postColumns+`, `+userColumns+`
		 FROM posts p JOIN users u ON u.id = p.author_id
		 WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return p, nil
}

// UpdatePost writes content, category, tags and sentiment of p.
func (db *DB) UpdatePost(ctx context.Context, p *types.Post) (*types.Post, error) {
	tags, sentiment, err := encodePost(p)
	if err != nil {
		return nil, err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE posts SET content = $1, category = $2, tags = $3, sentiment = $4, updated_at = NOW()
		 WHERE id = $5`,
		p.Content, p.Category, tags, sentiment, p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, &NotFoundError{Entity: "post", ID: p.ID.String()}
	}
	return db.GetPost(ctx, p.ID)
}

// DeletePost removes a post with its likes and comments.
func (db *DB) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "post", ID: id.String()}
	}
	return nil
}

// ListPosts returns the feed, newest first.
func (db *DB) ListPosts(ctx context.Context, f types.PostFilters) ([]*types.Post, error) {
	query, args := buildPostList(f)
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := []*types.Post{}
	for rows.Next() {
		p, err := scanPostWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// TogglePostLike likes the post for userID, or removes the like if present.
// It returns the new liked state and like count.
func (db *DB) TogglePostLike(ctx context.Context, postID, userID uuid.UUID) (bool, int, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to remove like: %w", err)
	}
	liked := tag.RowsAffected() == 0
	if liked {
		if _, err := tx.Exec(ctx,
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, userID); err != nil {
			return false, 0, fmt.Errorf("failed to add like: %w", err)
		}
	}

	var count int
	if err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID).Scan(&count); err != nil {
		return false, 0, fmt.Errorf("failed to count likes: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to commit like: %w", err)
	}
	return liked, count, nil
}

// -----------------------------------------------------------------------------
// Comment Methods
// -----------------------------------------------------------------------------

const commentColumns = `cm.id, cm.post_id, cm.author_id, cm.content, cm.created_at`

func scanCommentWithAuthor(row pgx.Row) (*types.Comment, error) {
	var c types.Comment
	var ur userRow
	dest := append([]any{&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt}, ur.dest()...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	author, err := ur.build()
	if err != nil {
		return nil, err
	}
	c.Author = author
	return &c, nil
}

// CreateComment adds a comment to a post.
func (db *DB) CreateComment(ctx context.Context, c *types.Comment) (*types.Comment, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO comments (post_id, author_id, content) VALUES ($1, $2, $3) RETURNING id`,
		c.PostID, c.AuthorID, c.Content,
	).Scan(&id)
	if err != nil {
		return nil, mapWriteError(err, "comment", "create")
	}
	return db.GetComment(ctx, id)
}

// GetComment retrieves a comment with its author; nil, nil when it does not exist.
func (db *DB) GetComment(ctx context.Context, id uuid.UUID) (*types.Comment, error) {
	c, err := scanCommentWithAuthor(db.pool.QueryRow(ctx,
		`SELECT `+commentColumns+`, `+userColumns+`
		 FROM comments cm JOIN users u ON u.id = cm.author_id
		 WHERE cm.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// ListComments returns a post's comments, oldest first.
func (db *DB) ListComments(ctx context.Context, postID uuid.UUID) ([]*types.Comment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+commentColumns+`, `+userColumns+`
		 FROM comments cm JOIN users u ON u.id = cm.author_id
		 WHERE cm.post_id = $1
		 ORDER BY cm.created_at, cm.id`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []*types.Comment{}
	for rows.Next() {
		c, err := scanCommentWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment.
func (db *DB) DeleteComment(ctx context.Context, id uuid.UUID) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "comment", ID: id.String()}
	}
	return nil
}

func encodePost(p *types.Post) (tags, sentiment []byte, err error) {
	t := p.Tags
	if t == nil {
		t = []string{}
	}
	if tags, err = marshalJSON(t); err != nil {
		return nil, nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	if sentiment, err = marshalJSON(p.Sentiment); err != nil {
		return nil, nil, fmt.Errorf("failed to encode sentiment: %w", err)
	}
	return tags, sentiment, nil
}
