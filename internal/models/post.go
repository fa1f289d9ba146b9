// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post represents a blog post. LikeCount and ViewCount are owned by the
// counter store and must not be written from anywhere else.
type Post struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title       string    `gorm:"not null" json:"title"`
	LikeCount   int       `gorm:"not null;default:0" json:"like_count"`
	ViewCount   int       `gorm:"not null;default:0" json:"view_count"`
	IsPublished bool      `gorm:"not null;default:false;index" json:"is_published"`
	// CommentCount is not persisted; computed from approved comments
	CommentCount int       `gorm:"->;-:migration" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BeforeCreate assigns an ID when the caller did not.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PostLike is one user's like on a post. Row existence is the liked state.
type PostLike struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentLike is one user's like on a comment.
type CommentLike struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CommentID uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"comment_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TargetKind names what a like attaches to.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// LikeStatus is one entry of a batch like status response.
type LikeStatus struct {
	TargetID  uuid.UUID `json:"targetId"`
	IsLiked   bool      `json:"isLiked"`
	LikeCount int       `json:"likeCount"`
}
