package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"brightpath/internal/middleware"
	"brightpath/internal/models"
	"brightpath/internal/observability"
	"brightpath/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxCommentLen    = 2000
	maxAuthorNameLen = 80
)

// ActionResult is the outcome of a moderation transition.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type CreateCommentInput struct {
	PostID          string
	ParentCommentID string
	AuthorName      string
	Content         string
}

type AdminListInput struct {
	Status string
	Page   int
	Limit  int
}

// AdminCommentPage is one page of the admin moderation queue.
type AdminCommentPage struct {
	Success    bool              `json:"success"`
	Data       []*models.Comment `json:"data"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

type ModerationService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	pages    PageInvalidator
	bans     BanChecker
}

func NewModerationService(
	comments repository.CommentRepository,
	posts repository.PostRepository,
	pages PageInvalidator,
	bans BanChecker,
) *ModerationService {
	return &ModerationService{
		comments: comments,
		posts:    posts,
		pages:    pages,
		bans:     bans,
	}
}

// CreateComment stores a visitor comment. New comments always wait for approval.
func (s *ModerationService) CreateComment(ctx context.Context, caller models.Caller, in CreateCommentInput) (*models.Comment, error) {
	if !caller.Authenticated() {
		return nil, models.NewUnauthenticatedError("Please sign in to comment")
	}
	postID, err := parseID(in.PostID, "post")
	if err != nil {
		return nil, err
	}

	content := strings.TrimSpace(in.Content)
	author := strings.TrimSpace(in.AuthorName)
	switch {
	case content == "":
		return nil, models.NewValidationError("Comment cannot be empty")
	case utf8.RuneCountInString(content) > maxCommentLen:
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	case author == "":
		return nil, models.NewValidationError("Name is required")
	case utf8.RuneCountInString(author) > maxAuthorNameLen:
		return nil, models.NewValidationError("Name too long (max 80 characters)")
	}

	if s.bans != nil {
		if banned, err := s.bans.IsBanned(ctx, caller.UserID); err == nil && banned {
			return nil, models.NewPermissionDeniedError(msgPermissionDenied, nil)
		}
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, toAppError(err, "Post not found")
	}
	if !post.IsPublished {
		return nil, models.NewNotFoundError("Post not found", nil)
	}

	comment := &models.Comment{
		PostID:     postID,
		AuthorID:   caller.UserID,
		AuthorName: author,
		Content:    content,
	}

	if in.ParentCommentID != "" {
		parentID, err := parseID(in.ParentCommentID, "parent comment")
		if err != nil {
			return nil, err
		}
		parent, err := s.comments.GetByID(ctx, parentID)
		if errors.Is(err, repository.ErrTargetNotFound) {
			return nil, models.NewValidationError("The comment you are replying to no longer exists")
		}
		if err != nil {
			return nil, toAppError(err, "Comment not found")
		}
		if parent.PostID != postID {
			return nil, models.NewValidationError("Replies must belong to the same post")
		}
		comment.ParentCommentID = &parentID
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, toAppError(err, "Post not found")
	}
	return comment, nil
}

// Approve makes a pending comment public. Approving twice is a no-op.
func (s *ModerationService) Approve(ctx context.Context, id string) (*ActionResult, error) {
	return s.setApproved(ctx, "approve", id, true, "Comment approved", "Comment is already approved")
}

// Unapprove hides an approved comment again. Unapproving a pending comment is a no-op.
func (s *ModerationService) Unapprove(ctx context.Context, id string) (*ActionResult, error) {
	return s.setApproved(ctx, "unapprove", id, false, "Comment moved back to pending", "Comment is already pending")
}

func (s *ModerationService) setApproved(
	ctx context.Context,
	action, rawID string,
	approved bool,
	changedMsg, unchangedMsg string,
) (result *ActionResult, err error) {
	defer func() {
		observability.ModerationTransitions.WithLabelValues(action, outcome(err)).Inc()
	}()

	id, err := parseID(rawID, "comment")
	if err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err, "Comment not found")
	}
	changed, err := s.comments.SetApproved(ctx, id, approved)
	if err != nil {
		return nil, toAppError(err, "Comment not found")
	}
	if !changed {
		return &ActionResult{Success: true, Message: unchangedMsg}, nil
	}

	s.invalidate(ctx, comment.PostID)
	middleware.Logger.InfoContext(ctx, "comment moderated",
		slog.String("action", action),
		slog.String("comment_id", id.String()),
	)
	return &ActionResult{Success: true, Message: changedMsg}, nil
}

// Delete removes a comment for good. Its replies keep their own state.
func (s *ModerationService) Delete(ctx context.Context, rawID string) (result *ActionResult, err error) {
	defer func() {
		observability.ModerationTransitions.WithLabelValues("delete", outcome(err)).Inc()
	}()

	id, err := parseID(rawID, "comment")
	if err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, toAppError(err, "Comment not found")
	}
	if err := s.comments.Remove(ctx, id); err != nil {
		return nil, toAppError(err, "Comment not found")
	}

	if comment.IsApproved {
		s.invalidate(ctx, comment.PostID)
	}
	middleware.Logger.InfoContext(ctx, "comment removed", slog.String("comment_id", id.String()))
	return &ActionResult{Success: true, Message: "Comment deleted"}, nil
}

// ListForAdmin returns the moderation queue, newest first. Removed comments never appear.
func (s *ModerationService) ListForAdmin(ctx context.Context, in AdminListInput) (*AdminCommentPage, error) {
	filter := repository.CommentListFilter{}
	switch models.ModerationStatus(in.Status) {
	case "", "all":
	case models.StatusPending, models.StatusApproved:
		filter.Status = models.ModerationStatus(in.Status)
	default:
		return nil, models.NewValidationError("Status must be pending, approved or all")
	}

	page := in.Page
	if page == 0 {
		page = 1
	}
	if page < 1 {
		return nil, models.NewValidationError("Page must be 1 or greater")
	}
	limit := clampLimit(in.Limit)
	filter.Limit = limit
	filter.Offset = (page - 1) * limit

	comments, total, err := s.comments.ListForAdmin(ctx, filter)
	if err != nil {
		return nil, toAppError(err, "Comments not found")
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return &AdminCommentPage{
		Success:    true,
		Data:       comments,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

// ListPublic returns the visible thread of a published post. A removed or pending
// comment with visible replies is kept as a tombstone so the replies stay attached.
func (s *ModerationService) ListPublic(ctx context.Context, rawPostID string) ([]models.PublicComment, error) {
	postID, err := parseID(rawPostID, "post")
	if err != nil {
		return nil, err
	}
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, toAppError(err, "Post not found")
	}
	if !post.IsPublished {
		return nil, models.NewNotFoundError("Post not found", nil)
	}

	thread, err := s.comments.ListThread(ctx, postID)
	if err != nil {
		return nil, toAppError(err, "Post not found")
	}
	return buildPublicThread(thread), nil
}

func buildPublicThread(thread []*models.Comment) []models.PublicComment {
	byID := make(map[uuid.UUID]*models.Comment, len(thread))
	for _, c := range thread {
		byID[c.ID] = c
	}

	// A hidden comment needs a tombstone when any visible comment descends from it.
	tombstones := make(map[uuid.UUID]bool)
	for _, c := range thread {
		if c.Status() != models.StatusApproved {
			continue
		}
		for parentID := c.ParentCommentID; parentID != nil; {
			parent, ok := byID[*parentID]
			if !ok {
				break
			}
			if parent.Status() != models.StatusApproved {
				tombstones[parent.ID] = true
			}
			parentID = parent.ParentCommentID
		}
	}

	out := make([]models.PublicComment, 0, len(thread))
	for _, c := range thread {
		switch {
		case c.Status() == models.StatusApproved:
			out = append(out, models.PublicComment{
				ID:              c.ID,
				ParentCommentID: c.ParentCommentID,
				AuthorName:      c.AuthorName,
				Content:         c.Content,
				LikeCount:       c.LikeCount,
				CreatedAt:       c.CreatedAt,
			})
		case tombstones[c.ID]:
			out = append(out, models.PublicComment{
				ID:              c.ID,
				ParentCommentID: c.ParentCommentID,
				Tombstone:       true,
				CreatedAt:       c.CreatedAt,
			})
		}
	}
	return out
}

func (s *ModerationService) invalidate(ctx context.Context, postID uuid.UUID) {
	if s.pages == nil {
		return
	}
	if err := s.pages.MarkPostStale(ctx, postID.String()); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to mark post page stale",
			slog.String("post_id", postID.String()),
			slog.String("error", err.Error()),
		)
	}
}

func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return defaultPageLimit
	case limit < 1:
		return 1
	case limit > maxPageLimit:
		return maxPageLimit
	default:
		return limit
	}
}
