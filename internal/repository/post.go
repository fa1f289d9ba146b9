package repository

import (
	"context"

	"brightpath/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository defines interface for post operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	GetLikeCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error)
	GetLikedPostIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error)
	IncrementView(ctx context.Context, postID uuid.UUID, slug string) (int, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&post).Error; err != nil {
		return nil, classify(err)
	}
	if err := r.populateCommentCount(ctx, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&post).Error; err != nil {
		return nil, classify(err)
	}
	if err := r.populateCommentCount(ctx, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// populateCommentCount fills the public comment count: approved and not removed.
func (r *postRepository) populateCommentCount(ctx context.Context, post *models.Post) error {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("post_id = ? AND is_approved = ?", post.ID, true).
		Count(&count).Error
	if err != nil {
		return classify(err)
	}
	post.CommentCount = int(count)
	return nil
}

// GetLikeCounts returns the stored like count for each published post in ids.
// Missing and unpublished posts are absent from the map.
func (r *postRepository) GetLikeCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	return likeCounts(ctx, r.db, &models.Post{}, "is_published = ?", ids)
}

// GetLikedPostIDs returns the subset of ids the user has liked.
func (r *postRepository) GetLikedPostIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	return likedIDs(ctx, r.db, &models.PostLike{}, "post_id", userID, ids)
}

// IncrementView bumps view_count of the published post matching both id and slug.
func (r *postRepository) IncrementView(ctx context.Context, postID uuid.UUID, slug string) (int, error) {
	var viewCount int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).
			Where("id = ? AND slug = ? AND is_published = ?", postID, slug, true).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTargetNotFound
		}
		return tx.Model(&models.Post{}).
			Select("view_count").
			Where("id = ?", postID).
			Scan(&viewCount).Error
	})
	if err != nil {
		return 0, classify(err)
	}
	return viewCount, nil
}

// likeCounts reads like_count for the rows in ids that pass the visible filter.
func likeCounts(ctx context.Context, db *gorm.DB, model any, visible string, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}

	var rows []struct {
		ID        uuid.UUID
		LikeCount int
	}
	if err := db.WithContext(ctx).Model(model).
		Select("id, like_count").
		Where("id IN ?", ids).
		Where(visible, true).
		Find(&rows).Error; err != nil {
		return nil, classify(err)
	}
	for _, row := range rows {
		counts[row.ID] = row.LikeCount
	}
	return counts, nil
}

func likedIDs(ctx context.Context, db *gorm.DB, model any, fkColumn string, userID uuid.UUID, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var liked []uuid.UUID
	err := db.WithContext(ctx).Model(model).
		Where("user_id = ? AND "+fkColumn+" IN ?", userID, ids).
		Pluck(fkColumn, &liked).Error
	if err != nil {
		return nil, classify(err)
	}
	return liked, nil
}
