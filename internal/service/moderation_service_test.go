package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"brightpath/internal/models"
	"brightpath/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestModerationService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewModerationService(noopCommentRepo(), noopPostRepo(), nil, nil)
	ctx := context.Background()
	postID := uuid.NewString()

	tests := []struct {
		name   string
		caller models.Caller
		in     CreateCommentInput
		kind   models.ErrorKind
	}{
		{name: "anonymous", caller: models.Caller{}, in: CreateCommentInput{PostID: postID, AuthorName: "A", Content: "hi"}, kind: models.KindUnauthenticated},
		{name: "bad post id", caller: signedIn(), in: CreateCommentInput{PostID: "x", AuthorName: "A", Content: "hi"}, kind: models.KindValidation},
		{name: "empty content", caller: signedIn(), in: CreateCommentInput{PostID: postID, AuthorName: "A", Content: "   "}, kind: models.KindValidation},
		{name: "content too long", caller: signedIn(), in: CreateCommentInput{PostID: postID, AuthorName: "A", Content: strings.Repeat("x", 2001)}, kind: models.KindValidation},
		{name: "missing name", caller: signedIn(), in: CreateCommentInput{PostID: postID, Content: "hi"}, kind: models.KindValidation},
		{name: "bad parent id", caller: signedIn(), in: CreateCommentInput{PostID: postID, ParentCommentID: "x", AuthorName: "A", Content: "hi"}, kind: models.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreateComment(ctx, tt.caller, tt.in)
			assertKind(t, err, tt.kind)
		})
	}
}

func TestModerationService_CreateComment_StartsPending(t *testing.T) {
	t.Parallel()
	caller := signedIn()
	postID := uuid.New()

	var created *models.Comment
	comments := noopCommentRepo()
	comments.createFn = func(_ context.Context, c *models.Comment) error {
		created = c
		return nil
	}
	svc := NewModerationService(comments, noopPostRepo(), nil, nil)

	got, err := svc.CreateComment(context.Background(), caller, CreateCommentInput{
		PostID:     postID.String(),
		AuthorName: " Sam ",
		Content:    " Thank you for this! ",
	})
	require.NoError(t, err)
	require.Same(t, created, got)
	assert.Equal(t, models.StatusPending, got.Status())
	assert.Equal(t, caller.UserID, got.AuthorID)
	assert.Equal(t, "Sam", got.AuthorName)
	assert.Equal(t, "Thank you for this!", got.Content)
	assert.Nil(t, got.ParentCommentID)
}

func TestModerationService_CreateComment_Parent(t *testing.T) {
	t.Parallel()
	postID := uuid.New()
	samePost := uuid.New()
	otherPost := uuid.New()

	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id uuid.UUID) (*models.Comment, error) {
		switch id {
		case samePost:
			return &models.Comment{ID: id, PostID: postID}, nil
		case otherPost:
			return &models.Comment{ID: id, PostID: uuid.New()}, nil
		default:
			return nil, repository.ErrTargetNotFound
		}
	}
	svc := NewModerationService(comments, noopPostRepo(), nil, nil)
	ctx := context.Background()
	in := func(parent uuid.UUID) CreateCommentInput {
		return CreateCommentInput{PostID: postID.String(), ParentCommentID: parent.String(), AuthorName: "A", Content: "reply"}
	}

	got, err := svc.CreateComment(ctx, signedIn(), in(samePost))
	require.NoError(t, err)
	require.NotNil(t, got.ParentCommentID)
	assert.Equal(t, samePost, *got.ParentCommentID)

	_, err = svc.CreateComment(ctx, signedIn(), in(otherPost))
	assertKind(t, err, models.KindValidation)

	_, err = svc.CreateComment(ctx, signedIn(), in(uuid.New()))
	assertKind(t, err, models.KindValidation)
}

func TestModerationService_CreateComment_PostMustBePublished(t *testing.T) {
	t.Parallel()
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uuid.UUID) (*models.Post, error) {
		return &models.Post{ID: id, IsPublished: false}, nil
	}
	svc := NewModerationService(noopCommentRepo(), posts, nil, nil)

	_, err := svc.CreateComment(context.Background(), signedIn(), CreateCommentInput{
		PostID: uuid.NewString(), AuthorName: "A", Content: "hi",
	})
	assertKind(t, err, models.KindNotFound)
}

func TestModerationService_Approve(t *testing.T) {
	t.Parallel()
	postID := uuid.New()

	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, id uuid.UUID) (*models.Comment, error) {
		return &models.Comment{ID: id, PostID: postID}, nil
	}
	changed := true
	comments.setApprovedFn = func(_ context.Context, _ uuid.UUID, approved bool) (bool, error) {
		assert.True(t, approved)
		return changed, nil
	}
	pages := &invalidatorStub{}
	svc := NewModerationService(comments, noopPostRepo(), pages, nil)

	res, err := svc.Approve(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, &ActionResult{Success: true, Message: "Comment approved"}, res)
	assert.Equal(t, []string{postID.String()}, pages.marked)

	changed = false
	res, err = svc.Approve(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Comment is already approved", res.Message)
	assert.Len(t, pages.marked, 1, "no-op transitions leave pages alone")
}

func TestModerationService_Unapprove(t *testing.T) {
	t.Parallel()
	comments := noopCommentRepo()
	comments.setApprovedFn = func(_ context.Context, _ uuid.UUID, approved bool) (bool, error) {
		assert.False(t, approved)
		return false, nil
	}
	svc := NewModerationService(comments, noopPostRepo(), nil, nil)

	res, err := svc.Unapprove(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, &ActionResult{Success: true, Message: "Comment is already pending"}, res)
}

func TestModerationService_Transitions_Errors(t *testing.T) {
	t.Parallel()

	removed := noopCommentRepo()
	removed.getByIDFn = func(_ context.Context, _ uuid.UUID) (*models.Comment, error) {
		return nil, repository.ErrTargetNotFound
	}

	broken := noopCommentRepo()
	broken.setApprovedFn = func(_ context.Context, _ uuid.UUID, _ bool) (bool, error) {
		return false, errors.New("deadlock detected")
	}
	broken.removeFn = func(_ context.Context, _ uuid.UUID) error {
		return errors.New("deadlock detected")
	}

	denied := noopCommentRepo()
	denied.setApprovedFn = func(_ context.Context, _ uuid.UUID, _ bool) (bool, error) {
		return false, repository.ErrPermissionDenied
	}
	denied.removeFn = func(_ context.Context, _ uuid.UUID) error {
		return repository.ErrPermissionDenied
	}

	tests := []struct {
		name string
		repo *commentRepoStub
		id   string
		kind models.ErrorKind
	}{
		{name: "malformed id", repo: noopCommentRepo(), id: "42", kind: models.KindValidation},
		{name: "removed comment", repo: removed, id: uuid.NewString(), kind: models.KindNotFound},
		{name: "store failure", repo: broken, id: uuid.NewString(), kind: models.KindUnknown},
		{name: "policy rejection", repo: denied, id: uuid.NewString(), kind: models.KindPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewModerationService(tt.repo, noopPostRepo(), nil, nil)
			ctx := context.Background()

			_, err := svc.Approve(ctx, tt.id)
			assertKind(t, err, tt.kind)
			_, err = svc.Unapprove(ctx, tt.id)
			assertKind(t, err, tt.kind)
			_, err = svc.Delete(ctx, tt.id)
			assertKind(t, err, tt.kind)
		})
	}
}

func TestModerationService_Delete(t *testing.T) {
	t.Parallel()
	postID := uuid.New()
	id := uuid.New()

	var removedID uuid.UUID
	comments := noopCommentRepo()
	comments.getByIDFn = func(_ context.Context, cid uuid.UUID) (*models.Comment, error) {
		return &models.Comment{ID: cid, PostID: postID, IsApproved: true}, nil
	}
	comments.removeFn = func(_ context.Context, cid uuid.UUID) error {
		removedID = cid
		return nil
	}
	pages := &invalidatorStub{}
	svc := NewModerationService(comments, noopPostRepo(), pages, nil)

	res, err := svc.Delete(context.Background(), id.String())
	require.NoError(t, err)
	assert.Equal(t, &ActionResult{Success: true, Message: "Comment deleted"}, res)
	assert.Equal(t, id, removedID)
	assert.Equal(t, []string{postID.String()}, pages.marked)
}

func TestModerationService_ListForAdmin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		in         AdminListInput
		wantFilter repository.CommentListFilter
		wantKind   *models.ErrorKind
	}{
		{
			name:       "defaults",
			in:         AdminListInput{},
			wantFilter: repository.CommentListFilter{Offset: 0, Limit: 20},
		},
		{
			name:       "pending page 3",
			in:         AdminListInput{Status: "pending", Page: 3, Limit: 10},
			wantFilter: repository.CommentListFilter{Status: models.StatusPending, Offset: 20, Limit: 10},
		},
		{
			name:       "limit clamped high",
			in:         AdminListInput{Status: "approved", Page: 1, Limit: 500},
			wantFilter: repository.CommentListFilter{Status: models.StatusApproved, Offset: 0, Limit: 100},
		},
		{
			name:       "limit clamped low",
			in:         AdminListInput{Status: "all", Page: 2, Limit: -5},
			wantFilter: repository.CommentListFilter{Offset: 1, Limit: 1},
		},
		{
			name:     "bad status",
			in:       AdminListInput{Status: "removed"},
			wantKind: ptr(models.KindValidation),
		},
		{
			name:     "bad page",
			in:       AdminListInput{Page: -1},
			wantKind: ptr(models.KindValidation),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var gotFilter repository.CommentListFilter
			comments := noopCommentRepo()
			comments.listForAdminFn = func(_ context.Context, f repository.CommentListFilter) ([]*models.Comment, int64, error) {
				gotFilter = f
				return []*models.Comment{{ID: uuid.New()}}, 41, nil
			}
			svc := NewModerationService(comments, noopPostRepo(), nil, nil)

			page, err := svc.ListForAdmin(context.Background(), tt.in)
			if tt.wantKind != nil {
				assertKind(t, err, *tt.wantKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFilter, gotFilter)
			assert.True(t, page.Success)
			assert.Equal(t, int64(41), page.TotalCount)
			assert.Len(t, page.Data, 1)
		})
	}
}

func TestModerationService_ListPublic_Tombstones(t *testing.T) {
	t.Parallel()
	postID := uuid.New()
	base := time.Now().Add(-time.Hour)

	removedParent := &models.Comment{ID: uuid.New(), PostID: postID, IsApproved: true, Content: "gone", CreatedAt: base,
		DeletedAt: gorm.DeletedAt{Time: base, Valid: true}}
	reply := &models.Comment{ID: uuid.New(), PostID: postID, ParentCommentID: &removedParent.ID, IsApproved: true,
		AuthorName: "B", Content: "still here", CreatedAt: base.Add(time.Minute)}
	lonelyRemoved := &models.Comment{ID: uuid.New(), PostID: postID, IsApproved: true, Content: "no replies",
		CreatedAt: base.Add(2 * time.Minute), DeletedAt: gorm.DeletedAt{Time: base, Valid: true}}
	pending := &models.Comment{ID: uuid.New(), PostID: postID, Content: "waiting", CreatedAt: base.Add(3 * time.Minute)}
	pendingReply := &models.Comment{ID: uuid.New(), PostID: postID, ParentCommentID: &reply.ID, Content: "waiting too",
		CreatedAt: base.Add(4 * time.Minute)}

	comments := noopCommentRepo()
	comments.listThreadFn = func(_ context.Context, id uuid.UUID) ([]*models.Comment, error) {
		assert.Equal(t, postID, id)
		return []*models.Comment{removedParent, reply, lonelyRemoved, pending, pendingReply}, nil
	}
	svc := NewModerationService(comments, noopPostRepo(), nil, nil)

	thread, err := svc.ListPublic(context.Background(), postID.String())
	require.NoError(t, err)
	require.Len(t, thread, 2)

	assert.Equal(t, removedParent.ID, thread[0].ID)
	assert.True(t, thread[0].Tombstone)
	assert.Empty(t, thread[0].Content)
	assert.Empty(t, thread[0].AuthorName)

	assert.Equal(t, reply.ID, thread[1].ID)
	assert.False(t, thread[1].Tombstone)
	assert.Equal(t, "still here", thread[1].Content)
	require.NotNil(t, thread[1].ParentCommentID)
	assert.Equal(t, removedParent.ID, *thread[1].ParentCommentID)
}

func TestModerationService_ListPublic_UnpublishedPost(t *testing.T) {
	t.Parallel()
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uuid.UUID) (*models.Post, error) {
		return &models.Post{ID: id}, nil
	}
	svc := NewModerationService(noopCommentRepo(), posts, nil, nil)

	_, err := svc.ListPublic(context.Background(), uuid.NewString())
	assertKind(t, err, models.KindNotFound)
}

func ptr[T any](v T) *T { return &v }
