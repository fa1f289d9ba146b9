package repository

import (
	"context"

	"brightpath/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeResult is the post-mutation truth returned by a toggle.
type LikeResult struct {
	Liked     bool
	LikeCount int
}

// LikeStore is the atomic counter store. Each toggle runs as one transaction:
// lock the target, flip the like row, recount, persist the count.
type LikeStore interface {
	TogglePostLike(ctx context.Context, userID, postID uuid.UUID) (LikeResult, error)
	ToggleCommentLike(ctx context.Context, userID, commentID uuid.UUID) (LikeResult, error)
}

type likeStore struct {
	db *gorm.DB
}

// NewLikeStore creates a new LikeStore
func NewLikeStore(db *gorm.DB) LikeStore {
	return &likeStore{db: db}
}

// likeTarget describes one likeable table and its relation table.
type likeTarget struct {
	newModel   func() any
	visible    string
	visibleArg []any
	relation   func(userID, targetID uuid.UUID) any
	relModel   func() any
	fkColumn   string
}

var postTarget = likeTarget{
	newModel:   func() any { return &models.Post{} },
	visible:    "id = ? AND is_published = ?",
	visibleArg: []any{true},
	relation: func(userID, targetID uuid.UUID) any {
		return &models.PostLike{UserID: userID, PostID: targetID}
	},
	relModel: func() any { return &models.PostLike{} },
	fkColumn: "post_id",
}

var commentTarget = likeTarget{
	newModel:   func() any { return &models.Comment{} },
	visible:    "id = ? AND is_approved = ?",
	visibleArg: []any{true},
	relation: func(userID, targetID uuid.UUID) any {
		return &models.CommentLike{UserID: userID, CommentID: targetID}
	},
	relModel: func() any { return &models.CommentLike{} },
	fkColumn: "comment_id",
}

func (s *likeStore) TogglePostLike(ctx context.Context, userID, postID uuid.UUID) (LikeResult, error) {
	return s.toggle(ctx, postTarget, userID, postID)
}

func (s *likeStore) ToggleCommentLike(ctx context.Context, userID, commentID uuid.UUID) (LikeResult, error) {
	return s.toggle(ctx, commentTarget, userID, commentID)
}

func (s *likeStore) toggle(ctx context.Context, t likeTarget, userID, targetID uuid.UUID) (LikeResult, error) {
	var res LikeResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock serializes concurrent toggles on the same target.
		var locked struct{ ID uuid.UUID }
		args := append([]any{targetID}, t.visibleArg...)
		if err := tx.Model(t.newModel()).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where(t.visible, args...).
			Take(&locked).Error; err != nil {
			return err
		}

		relation := t.relation(userID, targetID)
		deleted := tx.Where("user_id = ? AND "+t.fkColumn+" = ?", userID, targetID).Delete(relation)
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected == 0 {
			if err := tx.Create(relation).Error; err != nil {
				return err
			}
			res.Liked = true
		}

		// A zero model keeps GORM from adding the relation's primary key to the count.
		var count int64
		if err := tx.Model(t.relModel()).Where(t.fkColumn+" = ?", targetID).Count(&count).Error; err != nil {
			return err
		}
		if err := tx.Model(t.newModel()).Where("id = ?", targetID).UpdateColumn("like_count", count).Error; err != nil {
			return err
		}
		res.LikeCount = int(count)
		return nil
	})
	if err != nil {
		return LikeResult{}, classify(err)
	}
	return res, nil
}
