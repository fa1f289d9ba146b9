package service

import (
	"context"
	"strings"

	"brightpath/internal/models"
	"brightpath/internal/observability"
	"brightpath/internal/repository"
)

// ViewResult is returned after a counted view.
type ViewResult struct {
	Success   bool `json:"success"`
	ViewCount int  `json:"view_count"`
}

type ViewService struct {
	posts repository.PostRepository
}

func NewViewService(posts repository.PostRepository) *ViewService {
	return &ViewService{posts: posts}
}

// IncrementView counts one view of the published post identified by both id and slug.
// Deduplication happens on the client; every call here is counted.
func (s *ViewService) IncrementView(ctx context.Context, postID, slug string) (result *ViewResult, err error) {
	defer func() {
		observability.ViewIncrements.WithLabelValues(outcome(err)).Inc()
	}()

	slug = strings.TrimSpace(slug)
	if postID == "" || slug == "" {
		return nil, models.NewValidationError("postId and slug are required")
	}
	id, err := parseID(postID, "post")
	if err != nil {
		return nil, err
	}

	count, err := s.posts.IncrementView(ctx, id, slug)
	if err != nil {
		return nil, toAppError(err, "Post not found")
	}
	return &ViewResult{Success: true, ViewCount: count}, nil
}
