package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"brightpath/internal/config"
	"brightpath/internal/database"
	"brightpath/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-for-handlers-0123456789"

type testEnv struct {
	server *Server
	app    *fiber.App
	db     *gorm.DB
	redis  *miniredis.Miniredis
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: testSecret,
		Env:       "test",
		DBDriver:  "sqlite",
		DBDSN:     "file::memory:",
	}
}

// setupTestServer wires a full server against in-memory SQLite and miniredis.
func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()

	db, err := database.Connect(cfg)
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = rdb.Close()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &testEnv{server: s, app: s.App(), db: db, redis: mr}
}

func signToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// doJSON sends body as JSON and decodes the JSON response into a map.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

func seedPost(t *testing.T, db *gorm.DB, slug string, likes int) *models.Post {
	t.Helper()
	post := &models.Post{Slug: slug, Title: slug, IsPublished: true}
	require.NoError(t, db.Create(post).Error)
	for i := 0; i < likes; i++ {
		require.NoError(t, db.Create(&models.PostLike{UserID: uuid.New(), PostID: post.ID}).Error)
	}
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).UpdateColumn("like_count", likes).Error)
	return post
}

func assertFailure(t *testing.T, status int, body map[string]any, wantStatus int, wantCode string) {
	t.Helper()
	require.Equal(t, wantStatus, status, "body: %v", body)
	require.Equal(t, false, body["success"])
	require.Equal(t, wantCode, body["code"])
	require.NotEmpty(t, body["message"])
}
