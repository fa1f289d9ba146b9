package server

import (
	"context"
	"testing"

	"brightpath/internal/cache"
	"brightpath/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentModerationFlow(t *testing.T) {
	env := setupTestServer(t)
	post := seedPost(t, env.db, "school-transitions", 0)
	postPath := "/api/posts/" + post.ID.String() + "/comments"
	pageKey := cache.PostPageKey(post.ID.String())

	visitor := signToken(t, uuid.New(), "")
	admin := signToken(t, uuid.New(), models.RoleAdmin)

	status, body := doJSON(t, env.app, fiber.MethodPost, postPath,
		map[string]any{"authorName": "  Jordan ", "content": "This helped our family a lot."}, visitor)
	require.Equal(t, fiber.StatusCreated, status, "body: %v", body)
	data := body["data"].(map[string]any)
	commentID := data["id"].(string)
	assert.Equal(t, false, data["is_approved"])
	assert.Equal(t, "Jordan", data["author_name"])

	publicCount := func() int {
		t.Helper()
		status, body := doJSON(t, env.app, fiber.MethodGet, postPath, nil, "")
		require.Equal(t, fiber.StatusOK, status)
		return len(body["data"].([]any))
	}
	adminCount := func(status string) int {
		t.Helper()
		code, body := doJSON(t, env.app, fiber.MethodGet, "/api/admin/comments?status="+status, nil, admin)
		require.Equal(t, fiber.StatusOK, code, "body: %v", body)
		return int(body["totalCount"].(float64))
	}

	assert.Equal(t, 0, publicCount())
	assert.Equal(t, 1, adminCount("pending"))

	require.NoError(t, env.redis.Set(pageKey, "<html>"))
	status, body = doJSON(t, env.app, fiber.MethodPost, "/api/admin/comments/"+commentID+"/approve", nil, admin)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Comment approved", body["message"])
	assert.False(t, env.redis.Exists(pageKey))

	status, body = doJSON(t, env.app, fiber.MethodPost, "/api/admin/comments/"+commentID+"/approve", nil, admin)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Comment is already approved", body["message"])

	assert.Equal(t, 1, publicCount())
	assert.Equal(t, 1, adminCount("approved"))

	status, _ = doJSON(t, env.app, fiber.MethodPost, "/api/comments/"+commentID+"/like", nil, visitor)
	require.Equal(t, fiber.StatusOK, status)

	status, body = doJSON(t, env.app, fiber.MethodPost, "/api/admin/comments/"+commentID+"/unapprove", nil, admin)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Comment moved back to pending", body["message"])
	assert.Equal(t, 0, publicCount())
	assert.Equal(t, 0, adminCount("approved"))

	var stored models.Comment
	require.NoError(t, env.db.First(&stored, "id = ?", commentID).Error)
	assert.Equal(t, 1, stored.LikeCount)

	status, body = doJSON(t, env.app, fiber.MethodDelete, "/api/admin/comments/"+commentID, nil, admin)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Comment deleted", body["message"])
	assert.Equal(t, 0, adminCount("all"))

	status, body = doJSON(t, env.app, fiber.MethodPost, "/api/admin/comments/"+commentID+"/approve", nil, admin)
	assertFailure(t, status, body, fiber.StatusNotFound, "NOT_FOUND")
}

func TestCreateCommentValidation(t *testing.T) {
	env := setupTestServer(t)
	post := seedPost(t, env.db, "play-therapy-basics", 0)
	path := "/api/posts/" + post.ID.String() + "/comments"
	token := signToken(t, uuid.New(), "")

	tests := []struct {
		name       string
		path       string
		body       map[string]any
		token      string
		wantStatus int
		wantCode   string
	}{
		{"anonymous", path, map[string]any{"authorName": "A", "content": "hi"}, "", fiber.StatusUnauthorized, "UNAUTHENTICATED"},
		{"empty content", path, map[string]any{"authorName": "A", "content": "   "}, token, fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{"missing name", path, map[string]any{"content": "hi"}, token, fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown parent", path, map[string]any{"authorName": "A", "content": "hi", "parentCommentId": uuid.NewString()}, token, fiber.StatusBadRequest, "VALIDATION_ERROR"},
		{"unknown post", "/api/posts/" + uuid.NewString() + "/comments", map[string]any{"authorName": "A", "content": "hi"}, token, fiber.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doJSON(t, env.app, fiber.MethodPost, tt.path, tt.body, tt.token)
			require.Equal(t, tt.wantStatus, status, "body: %v", body)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["code"])
			}
		})
	}
}

func TestPublicThreadTombstones(t *testing.T) {
	env := setupTestServer(t)
	post := seedPost(t, env.db, "anxiety-at-bedtime", 0)

	parent := &models.Comment{PostID: post.ID, AuthorID: uuid.New(), AuthorName: "Parent", Content: "original", IsApproved: true}
	require.NoError(t, env.db.Create(parent).Error)
	reply := &models.Comment{PostID: post.ID, ParentCommentID: &parent.ID, AuthorID: uuid.New(), AuthorName: "Reply", Content: "reply", IsApproved: true}
	require.NoError(t, env.db.Create(reply).Error)

	admin := signToken(t, uuid.New(), models.RoleAdmin)
	status, _ := doJSON(t, env.app, fiber.MethodDelete, "/api/admin/comments/"+parent.ID.String(), nil, admin)
	require.Equal(t, fiber.StatusOK, status)

	status, body := doJSON(t, env.app, fiber.MethodGet, "/api/posts/"+post.ID.String()+"/comments", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	thread := body["data"].([]any)
	require.Len(t, thread, 2)

	tomb := thread[0].(map[string]any)
	assert.Equal(t, parent.ID.String(), tomb["id"])
	assert.Equal(t, true, tomb["tombstone"])
	assert.Nil(t, tomb["content"])

	visible := thread[1].(map[string]any)
	assert.Equal(t, "reply", visible["content"])
	assert.Equal(t, parent.ID.String(), visible["parentCommentId"])
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	env := setupTestServer(t)
	path := "/api/admin/comments"

	status, body := doJSON(t, env.app, fiber.MethodGet, path, nil, "")
	assertFailure(t, status, body, fiber.StatusUnauthorized, "UNAUTHENTICATED")

	status, body = doJSON(t, env.app, fiber.MethodGet, path, nil, signToken(t, uuid.New(), ""))
	assertFailure(t, status, body, fiber.StatusForbidden, "PERMISSION_DENIED")

	status, body = doJSON(t, env.app, fiber.MethodGet, path+"?status=spam", nil, signToken(t, uuid.New(), models.RoleAdmin))
	assertFailure(t, status, body, fiber.StatusBadRequest, "VALIDATION_ERROR")
}

func TestBanUser(t *testing.T) {
	env := setupTestServer(t)
	admin := signToken(t, uuid.New(), models.RoleAdmin)
	target := uuid.New()

	status, body := doJSON(t, env.app, fiber.MethodPost, "/api/admin/users/"+target.String()+"/ban", nil, admin)
	require.Equal(t, fiber.StatusOK, status, "body: %v", body)
	ok, err := env.redis.SIsMember(cache.BannedUsersKey, target.String())
	require.NoError(t, err)
	assert.True(t, ok)

	status, _ = doJSON(t, env.app, fiber.MethodDelete, "/api/admin/users/"+target.String()+"/ban", nil, admin)
	require.Equal(t, fiber.StatusOK, status)
	banned, err := cache.NewBanList(env.server.redis).IsBanned(context.Background(), target)
	require.NoError(t, err)
	assert.False(t, banned)
	assert.False(t, env.redis.Exists(cache.BannedUsersKey))

	status, body = doJSON(t, env.app, fiber.MethodPost, "/api/admin/users/bogus/ban", nil, admin)
	assertFailure(t, status, body, fiber.StatusBadRequest, "VALIDATION_ERROR")
}
