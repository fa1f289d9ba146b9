package service

import (
	"context"
	"fmt"
	"log/slog"

	"brightpath/internal/middleware"
	"brightpath/internal/models"
	"brightpath/internal/observability"
	"brightpath/internal/repository"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// MaxBatchSize bounds the ids accepted by one batch like status request.
const MaxBatchSize = 100

// PageInvalidator marks cached public pages stale after their counters change.
type PageInvalidator interface {
	MarkPostStale(ctx context.Context, postID string) error
}

// BanChecker reports callers barred from engagement writes.
type BanChecker interface {
	IsBanned(ctx context.Context, userID uuid.UUID) (bool, error)
}

// LikeToggleResult is the authoritative state after a toggle.
type LikeToggleResult struct {
	Success   bool `json:"success"`
	Liked     bool `json:"liked"`
	LikeCount int  `json:"likeCount"`
}

type LikeService struct {
	likes    repository.LikeStore
	posts    repository.PostRepository
	comments repository.CommentRepository
	pages    PageInvalidator
	bans     BanChecker
}

func NewLikeService(
	likes repository.LikeStore,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	pages PageInvalidator,
	bans BanChecker,
) *LikeService {
	return &LikeService{
		likes:    likes,
		posts:    posts,
		comments: comments,
		pages:    pages,
		bans:     bans,
	}
}

// TogglePostLike flips the caller's like on a published post.
func (s *LikeService) TogglePostLike(ctx context.Context, caller models.Caller, postID string) (result *LikeToggleResult, err error) {
	ctx, span := observability.StartSpan(ctx, "LikeService.TogglePostLike",
		attribute.String("post.id", postID))
	defer func() {
		observability.LikeToggles.WithLabelValues(string(models.TargetPost), outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	id, err := s.authorize(ctx, caller, postID, "post", "Please sign in to like posts")
	if err != nil {
		return nil, err
	}

	res, err := s.likes.TogglePostLike(ctx, caller.UserID, id)
	if err != nil {
		return nil, toAppError(err, "Post not found")
	}

	if s.pages != nil {
		if invErr := s.pages.MarkPostStale(ctx, id.String()); invErr != nil {
			middleware.Logger.WarnContext(ctx, "failed to mark post page stale",
				slog.String("post_id", id.String()),
				slog.String("error", invErr.Error()),
			)
		}
	}

	return &LikeToggleResult{Success: true, Liked: res.Liked, LikeCount: res.LikeCount}, nil
}

// ToggleCommentLike flips the caller's like on an approved comment.
func (s *LikeService) ToggleCommentLike(ctx context.Context, caller models.Caller, commentID string) (result *LikeToggleResult, err error) {
	ctx, span := observability.StartSpan(ctx, "LikeService.ToggleCommentLike",
		attribute.String("comment.id", commentID))
	defer func() {
		observability.LikeToggles.WithLabelValues(string(models.TargetComment), outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	id, err := s.authorize(ctx, caller, commentID, "comment", "Please sign in to like comments")
	if err != nil {
		return nil, err
	}

	res, err := s.likes.ToggleCommentLike(ctx, caller.UserID, id)
	if err != nil {
		return nil, toAppError(err, "Comment not found")
	}
	return &LikeToggleResult{Success: true, Liked: res.Liked, LikeCount: res.LikeCount}, nil
}

// authorize runs the checks every toggle needs before touching the store.
func (s *LikeService) authorize(ctx context.Context, caller models.Caller, rawID, what, signIn string) (uuid.UUID, error) {
	if !caller.Authenticated() {
		return uuid.Nil, models.NewUnauthenticatedError(signIn)
	}
	id, err := parseID(rawID, what)
	if err != nil {
		return uuid.Nil, err
	}
	if s.bans != nil {
		banned, err := s.bans.IsBanned(ctx, caller.UserID)
		if err != nil {
			// Ban lookups fail open; the store still enforces its own policy.
			middleware.Logger.WarnContext(ctx, "ban lookup failed", slog.String("error", err.Error()))
		} else if banned {
			return uuid.Nil, models.NewPermissionDeniedError(msgPermissionDenied, nil)
		}
	}
	return id, nil
}

// GetBatchLikeStatus resolves like state and counts for many posts in two queries at most.
func (s *LikeService) GetBatchLikeStatus(ctx context.Context, caller models.Caller, ids []string) ([]models.LikeStatus, error) {
	return s.batchStatus(ctx, caller, ids, models.TargetPost, s.posts.GetLikeCounts, s.posts.GetLikedPostIDs)
}

// GetCommentBatchLikeStatus is GetBatchLikeStatus over comment likes.
func (s *LikeService) GetCommentBatchLikeStatus(ctx context.Context, caller models.Caller, ids []string) ([]models.LikeStatus, error) {
	return s.batchStatus(ctx, caller, ids, models.TargetComment, s.comments.GetLikeCounts, s.comments.GetLikedCommentIDs)
}

func (s *LikeService) batchStatus(
	ctx context.Context,
	caller models.Caller,
	rawIDs []string,
	target models.TargetKind,
	counts func(context.Context, []uuid.UUID) (map[uuid.UUID]int, error),
	liked func(context.Context, uuid.UUID, []uuid.UUID) ([]uuid.UUID, error),
) (statuses []models.LikeStatus, err error) {
	ctx, span := observability.StartSpan(ctx, "LikeService.BatchLikeStatus",
		attribute.String("target", string(target)),
		attribute.Int("batch.size", len(rawIDs)))
	defer func() {
		observability.BatchLikeLookups.WithLabelValues(string(target), outcome(err)).Inc()
		observability.EndSpan(span, err)
	}()

	ids, err := normalizeIDs(rawIDs)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.LikeStatus{}, nil
	}

	countByID, err := counts(ctx, ids)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("batch like counts: %w", err))
	}

	likedSet := make(map[uuid.UUID]bool)
	if caller.Authenticated() {
		likedIDs, err := liked(ctx, caller.UserID, ids)
		if err != nil {
			return nil, models.NewInternalError(fmt.Errorf("batch liked ids: %w", err))
		}
		for _, id := range likedIDs {
			likedSet[id] = true
		}
	}

	statuses = make([]models.LikeStatus, 0, len(ids))
	for _, id := range ids {
		// Hidden or missing targets read as unliked with no likes.
		count, visible := countByID[id]
		statuses = append(statuses, models.LikeStatus{
			TargetID:  id,
			IsLiked:   visible && likedSet[id],
			LikeCount: count,
		})
	}
	return statuses, nil
}

// normalizeIDs parses ids and drops duplicates, keeping first-seen order.
func normalizeIDs(raw []string) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{}, len(raw))
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r, "target")
		if err != nil {
			return nil, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) > MaxBatchSize {
		return nil, models.NewValidationError(fmt.Sprintf("Too many ids (max %d)", MaxBatchSize))
	}
	return ids, nil
}
