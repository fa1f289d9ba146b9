package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModerationStatus is the visibility state of a comment.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRemoved  ModerationStatus = "removed"
)

// Comment represents a visitor comment on a post. Removal is a soft delete
// through DeletedAt; replies of a removed comment are left untouched.
type Comment struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PostID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	ParentCommentID *uuid.UUID     `gorm:"type:uuid;index" json:"parent_comment_id,omitempty"`
	AuthorID        uuid.UUID      `gorm:"type:uuid;not null" json:"author_id"`
	AuthorName      string         `gorm:"not null" json:"author_name"`
	Content         string         `gorm:"type:text;not null" json:"content"`
	IsApproved      bool           `gorm:"not null;default:false;index" json:"is_approved"`
	LikeCount       int            `gorm:"not null;default:0" json:"like_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// Status derives the moderation state from the persisted columns.
func (c *Comment) Status() ModerationStatus {
	switch {
	case c.DeletedAt.Valid:
		return StatusRemoved
	case c.IsApproved:
		return StatusApproved
	default:
		return StatusPending
	}
}

// BeforeCreate assigns an ID when the caller did not.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// PublicComment is a comment as shown in a public thread. Removed parents
// that still have visible replies appear as tombstones with no content.
type PublicComment struct {
	ID              uuid.UUID  `json:"id"`
	ParentCommentID *uuid.UUID `json:"parentCommentId,omitempty"`
	AuthorName      string     `json:"authorName,omitempty"`
	Content         string     `json:"content,omitempty"`
	LikeCount       int        `json:"likeCount"`
	Tombstone       bool       `json:"tombstone,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}
