package service

import (
	"context"
	"testing"

	"brightpath/internal/models"
	"brightpath/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// likeStoreStub is a stub for repository.LikeStore.
type likeStoreStub struct {
	togglePostFn    func(context.Context, uuid.UUID, uuid.UUID) (repository.LikeResult, error)
	toggleCommentFn func(context.Context, uuid.UUID, uuid.UUID) (repository.LikeResult, error)
	calls           int
}

func (s *likeStoreStub) TogglePostLike(ctx context.Context, userID, postID uuid.UUID) (repository.LikeResult, error) {
	s.calls++
	return s.togglePostFn(ctx, userID, postID)
}
func (s *likeStoreStub) ToggleCommentLike(ctx context.Context, userID, commentID uuid.UUID) (repository.LikeResult, error) {
	s.calls++
	return s.toggleCommentFn(ctx, userID, commentID)
}

func noopLikeStore() *likeStoreStub {
	ok := func(_ context.Context, _, _ uuid.UUID) (repository.LikeResult, error) {
		return repository.LikeResult{Liked: true, LikeCount: 1}, nil
	}
	return &likeStoreStub{togglePostFn: ok, toggleCommentFn: ok}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uuid.UUID) (*models.Post, error)
	getBySlugFn     func(context.Context, string) (*models.Post, error)
	getLikeCountsFn func(context.Context, []uuid.UUID) (map[uuid.UUID]int, error)
	getLikedIDsFn   func(context.Context, uuid.UUID, []uuid.UUID) ([]uuid.UUID, error)
	incrementViewFn func(context.Context, uuid.UUID, string) (int, error)
	queries         int
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *postRepoStub) GetLikeCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	s.queries++
	return s.getLikeCountsFn(ctx, ids)
}
func (s *postRepoStub) GetLikedPostIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	s.queries++
	return s.getLikedIDsFn(ctx, userID, ids)
}
func (s *postRepoStub) IncrementView(ctx context.Context, postID uuid.UUID, slug string) (int, error) {
	return s.incrementViewFn(ctx, postID, slug)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Post, error) {
			return &models.Post{ID: id, IsPublished: true}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Post, error) {
			return &models.Post{ID: uuid.New(), Slug: slug, IsPublished: true}, nil
		},
		getLikeCountsFn: func(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]int, error) {
			return map[uuid.UUID]int{}, nil
		},
		getLikedIDsFn: func(_ context.Context, _ uuid.UUID, _ []uuid.UUID) ([]uuid.UUID, error) {
			return nil, nil
		},
		incrementViewFn: func(_ context.Context, _ uuid.UUID, _ string) (int, error) { return 1, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, uuid.UUID) (*models.Comment, error)
	setApprovedFn   func(context.Context, uuid.UUID, bool) (bool, error)
	removeFn        func(context.Context, uuid.UUID) error
	listForAdminFn  func(context.Context, repository.CommentListFilter) ([]*models.Comment, int64, error)
	listThreadFn    func(context.Context, uuid.UUID) ([]*models.Comment, error)
	getLikeCountsFn func(context.Context, []uuid.UUID) (map[uuid.UUID]int, error)
	getLikedIDsFn   func(context.Context, uuid.UUID, []uuid.UUID) ([]uuid.UUID, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) SetApproved(ctx context.Context, id uuid.UUID, approved bool) (bool, error) {
	return s.setApprovedFn(ctx, id, approved)
}
func (s *commentRepoStub) Remove(ctx context.Context, id uuid.UUID) error {
	return s.removeFn(ctx, id)
}
func (s *commentRepoStub) ListForAdmin(ctx context.Context, filter repository.CommentListFilter) ([]*models.Comment, int64, error) {
	return s.listForAdminFn(ctx, filter)
}
func (s *commentRepoStub) ListThread(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	return s.listThreadFn(ctx, postID)
}
func (s *commentRepoStub) GetLikeCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	return s.getLikeCountsFn(ctx, ids)
}
func (s *commentRepoStub) GetLikedCommentIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	return s.getLikedIDsFn(ctx, userID, ids)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: uuid.New()}, nil
		},
		setApprovedFn: func(_ context.Context, _ uuid.UUID, _ bool) (bool, error) { return true, nil },
		removeFn:      func(_ context.Context, _ uuid.UUID) error { return nil },
		listForAdminFn: func(_ context.Context, _ repository.CommentListFilter) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		listThreadFn: func(_ context.Context, _ uuid.UUID) ([]*models.Comment, error) { return nil, nil },
		getLikeCountsFn: func(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]int, error) {
			return map[uuid.UUID]int{}, nil
		},
		getLikedIDsFn: func(_ context.Context, _ uuid.UUID, _ []uuid.UUID) ([]uuid.UUID, error) {
			return nil, nil
		},
	}
}

type invalidatorStub struct {
	marked []string
	err    error
}

func (s *invalidatorStub) MarkPostStale(_ context.Context, postID string) error {
	s.marked = append(s.marked, postID)
	return s.err
}

type banStub struct {
	banned map[uuid.UUID]bool
	err    error
}

func (s *banStub) IsBanned(_ context.Context, userID uuid.UUID) (bool, error) {
	return s.banned[userID], s.err
}

func signedIn() models.Caller {
	return models.Caller{UserID: uuid.New()}
}

func assertKind(t *testing.T, err error, kind models.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, models.KindOf(err), "unexpected kind for %v", err)
}
