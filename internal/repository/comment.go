package repository

import (
	"context"
	"time"

	"brightpath/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentListFilter selects comments for the admin queue. An empty Status
// lists pending and approved comments together.
type CommentListFilter struct {
	Status models.ModerationStatus
	Offset int
	Limit  int
}

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) (bool, error)
	Remove(ctx context.Context, id uuid.UUID) error
	ListForAdmin(ctx context.Context, filter CommentListFilter) ([]*models.Comment, int64, error)
	ListThread(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error)
	GetLikeCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	GetLikedCommentIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return classify(r.db.WithContext(ctx).Create(comment).Error)
}

// GetByID returns a non-removed comment.
func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&comment).Error; err != nil {
		return nil, classify(err)
	}
	return &comment, nil
}

// SetApproved moves a non-removed comment to the given approval state and
// reports whether anything changed. Setting the current state is a no-op.
func (r *commentRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Comment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "is_approved").
			Where("id = ?", id).
			Take(&current).Error; err != nil {
			return err
		}
		if current.IsApproved == approved {
			return nil
		}
		changed = true
		return tx.Model(&models.Comment{}).
			Where("id = ?", id).
			UpdateColumns(map[string]any{
				"is_approved": approved,
				"updated_at":  time.Now(),
			}).Error
	})
	if err != nil {
		return false, classify(err)
	}
	return changed, nil
}

// Remove soft deletes a comment. Removing an already removed comment is ErrTargetNotFound.
func (r *commentRepository) Remove(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrTargetNotFound
	}
	return nil
}

// ListForAdmin returns one page of non-removed comments, newest first, and the
// total number matching the filter.
func (r *commentRepository) ListForAdmin(
	ctx context.Context,
	filter CommentListFilter,
) ([]*models.Comment, int64, error) {
	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Comment{})
		switch filter.Status {
		case models.StatusPending:
			query = query.Where("is_approved = ?", false)
		case models.StatusApproved:
			query = query.Where("is_approved = ?", true)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, classify(err)
	}

	var comments []*models.Comment
	err := scoped().Order("created_at desc").Order("id").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, classify(err)
	}
	return comments, total, nil
}

// ListThread returns every comment of a post, removed ones included, oldest
// first. Callers decide what is publicly visible.
func (r *commentRepository) ListThread(ctx context.Context, postID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).Unscoped().
		Where("post_id = ?", postID).
		Order("created_at asc").Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, classify(err)
	}
	return comments, nil
}

func (r *commentRepository) GetLikeCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	return likeCounts(ctx, r.db, &models.Comment{}, "is_approved = ?", ids)
}

func (r *commentRepository) GetLikedCommentIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	return likedIDs(ctx, r.db, &models.CommentLike{}, "comment_id", userID, ids)
}
