package repository

import (
	"fmt"
	"testing"
	"time"

	"brightpath/internal/config"
	"brightpath/internal/database"
	"brightpath/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{
		DBDriver: "sqlite",
		DBDSN:    "file::memory:",
		Env:      "test",
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func createPost(t *testing.T, db *gorm.DB, slug string, published bool) *models.Post {
	t.Helper()
	post := &models.Post{Slug: slug, Title: "Post " + slug, IsPublished: published}
	require.NoError(t, db.Create(post).Error)
	return post
}

// seedPostLikes inserts n likes from fresh users and syncs the stored count.
func seedPostLikes(t *testing.T, db *gorm.DB, post *models.Post, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, db.Create(&models.PostLike{UserID: uuid.New(), PostID: post.ID}).Error)
	}
	require.NoError(t, db.Model(&models.Post{}).Where("id = ?", post.ID).UpdateColumn("like_count", n).Error)
}

func createComment(t *testing.T, db *gorm.DB, post *models.Post, approved bool, createdAt time.Time) *models.Comment {
	t.Helper()
	comment := &models.Comment{
		PostID:     post.ID,
		AuthorID:   uuid.New(),
		AuthorName: "Visitor",
		Content:    fmt.Sprintf("comment at %s", createdAt.Format(time.RFC3339)),
		IsApproved: approved,
		CreatedAt:  createdAt,
	}
	require.NoError(t, db.Create(comment).Error)
	return comment
}
