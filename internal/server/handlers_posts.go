package server

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jobconnect/internal/types"
)

// ---------------------------------------------------------------------
// Post Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	filters := types.PostFilters{Category: strings.TrimSpace(r.URL.Query().Get("category"))}

	var err error
	if filters.AuthorID, err = queryUUID(r, "authorId"); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filters.Limit, err = queryInt(r, "limit", 0); err != nil {
		s.writeError(w, r, err)
		return
	}
	if filters.Offset, err = queryInt(r, "offset", 0); err != nil {
		s.writeError(w, r, err)
		return
	}

	posts, err := s.store.ListPosts(r.Context(), filters)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, posts)
}

// handleCreatePost stores a post with generated tags when none are given and its analysed sentiment.
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	category := req.Category
	if category == "" {
		category = types.CategoryGeneral
	}

	tags, sentiment := s.enrichPost(r.Context(), req.Content, category, req.Tags)

	post, err := s.store.CreatePost(r.Context(), &types.Post{
		AuthorID:  userID,
		Content:   req.Content,
		Category:  category,
		Tags:      tags,
		Sentiment: sentiment,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, post)
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	post, err := s.post(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, post)
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.ownedPost(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.UpdatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Category != nil {
		post.Category = *req.Category
	}
	if req.Tags != nil {
		post.Tags = req.Tags
	}
	if req.Content != nil && *req.Content != post.Content {
		post.Content = *req.Content
		sentiment, _ := s.ai.AnalyzeSentiment(r.Context(), post.Content)
		post.Sentiment = &sentiment
	}

	updated, err := s.store.UpdatePost(r.Context(), post)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.ownedPost(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.DeletePost(r.Context(), post.ID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	post, err := s.post(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	liked, count, err := s.store.TogglePostLike(r.Context(), post.ID, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"liked": liked, "likeCount": count})
}

// ---------------------------------------------------------------------
// Comment Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	post, err := s.post(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	comments, err := s.store.ListComments(r.Context(), post.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, comments)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	post, err := s.post(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req types.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	comment, err := s.store.CreateComment(r.Context(), &types.Comment{
		PostID:   post.ID,
		AuthorID: userID,
		Content:  req.Content,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, comment)
}

// handleDeleteComment lets the comment's author or the post's author remove a comment.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	commentID, err := pathUUID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	comment, err := s.store.GetComment(r.Context(), commentID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if comment == nil {
		s.writeError(w, r, &ErrNotFound{Entity: "comment", ID: commentID.String()})
		return
	}

	if comment.AuthorID != userID {
		post, err := s.store.GetPost(r.Context(), comment.PostID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if post == nil || post.AuthorID != userID {
			s.writeError(w, r, &ErrForbidden{Action: "only the comment or post author can delete a comment"})
			return
		}
	}

	if err := s.store.DeleteComment(r.Context(), commentID); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}

// enrichPost generates tags (when none were given) and the sentiment concurrently.
func (s *Server) enrichPost(ctx context.Context, content, category string, tags []string) ([]string, *types.Sentiment) {
	var sentiment types.Sentiment
	var g errgroup.Group
	if len(tags) == 0 {
		g.Go(func() error {
			tags, _ = s.ai.GenerateTags(ctx, content, category)
			return nil
		})
	}
	g.Go(func() error {
		sentiment, _ = s.ai.AnalyzeSentiment(ctx, content)
		return nil
	})
	_ = g.Wait()
	return tags, &sentiment
}

func (s *Server) post(r *http.Request) (*types.Post, error) {
	postID, err := pathUUID(r, "id")
	if err != nil {
		return nil, err
	}
	post, err := s.store.GetPost(r.Context(), postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, &ErrNotFound{Entity: "post", ID: postID.String()}
	}
	return post, nil
}

func (s *Server) ownedPost(r *http.Request) (*types.Post, error) {
	userID, err := callerID(r)
	if err != nil {
		return nil, err
	}
	post, err := s.post(r)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, &ErrForbidden{Action: "only the author can change a post"}
	}
	return post, nil
}
