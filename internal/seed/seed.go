// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"brightpath/internal/middleware"
	"brightpath/internal/models"
	"brightpath/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumPosts        int
	NumUsers        int
	CommentsPerPost int
	// LikeRate is the chance that a given user likes a given post or comment.
	LikeRate float64
	// ApprovalRate is the share of comments that end up approved.
	ApprovalRate float64
	// RandSeed makes output reproducible; 0 picks a random seed.
	RandSeed int64
}

// DefaultOptions returns a small but realistic data set.
func DefaultOptions() Options {
	return Options{
		NumPosts:        12,
		NumUsers:        25,
		CommentsPerPost: 6,
		LikeRate:        0.3,
		ApprovalRate:    0.7,
	}
}

var topics = []string{
	"bedtime routines", "big feelings", "school transitions", "sibling rivalry",
	"screen time", "separation anxiety", "play therapy", "calm down corners",
	"picky eating", "new baby at home", "grief and loss", "making friends",
}

// Summary reports what a seeding run created.
type Summary struct {
	Posts        int
	Comments     int
	PostLikes    int
	CommentLikes int
}

// Seeder fills the engagement tables. Likes go through the counter store so
// stored counts always match like rows.
type Seeder struct {
	db    *gorm.DB
	likes repository.LikeStore
	opts  Options
	faker *gofakeit.Faker
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{
		db:    db,
		likes: repository.NewLikeStore(db),
		opts:  opts,
		faker: gofakeit.New(opts.RandSeed),
	}
}

// ClearAll removes every row from the engagement tables.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, model := range []any{&models.CommentLike{}, &models.PostLike{}, &models.Comment{}, &models.Post{}} {
		// Each delete needs its own statement; a shared chain would keep the first table.
		tx := s.db.WithContext(ctx).Unscoped().Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := tx.Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	middleware.Logger.InfoContext(ctx, "seed: cleared engagement tables")
	return nil
}

// Run creates posts, a moderated comment thread per post and likes from a pool of users.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	users := make([]uuid.UUID, s.opts.NumUsers)
	for i := range users {
		users[i] = uuid.New()
	}

	sum := &Summary{}
	for i := 0; i < s.opts.NumPosts; i++ {
		post := s.BuildPost(i)
		if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
			return sum, fmt.Errorf("create post: %w", err)
		}
		sum.Posts++

		if post.IsPublished {
			n, err := s.likeAll(ctx, users, func(u uuid.UUID) (repository.LikeResult, error) {
				return s.likes.TogglePostLike(ctx, u, post.ID)
			})
			if err != nil {
				return sum, fmt.Errorf("like post: %w", err)
			}
			sum.PostLikes += n
		}

		comments, err := s.seedThread(ctx, post, users)
		if err != nil {
			return sum, err
		}
		sum.Comments += len(comments)

		for _, c := range comments {
			if !c.IsApproved {
				continue
			}
			n, err := s.likeAll(ctx, users, func(u uuid.UUID) (repository.LikeResult, error) {
				return s.likes.ToggleCommentLike(ctx, u, c.ID)
			})
			if err != nil {
				return sum, fmt.Errorf("like comment: %w", err)
			}
			sum.CommentLikes += n
		}
	}

	middleware.Logger.InfoContext(ctx, "seed: done",
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
		slog.Int("post_likes", sum.PostLikes),
		slog.Int("comment_likes", sum.CommentLikes),
	)
	return sum, nil
}

// BuildPost constructs an unsaved post. Every fifth post is a draft.
func (s *Seeder) BuildPost(i int) *models.Post {
	topic := topics[i%len(topics)]
	title := fmt.Sprintf("%s: %s", titleCase(topic), s.faker.HipsterSentence(4))
	return &models.Post{
		Slug:        fmt.Sprintf("%s-%d", strings.ReplaceAll(topic, " ", "-"), i+1),
		Title:       strings.TrimSuffix(title, "."),
		IsPublished: i%5 != 4,
		CreatedAt:   s.faker.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
	}
}

func (s *Seeder) seedThread(ctx context.Context, post *models.Post, users []uuid.UUID) ([]*models.Comment, error) {
	if len(users) == 0 {
		return nil, nil
	}
	created := make([]*models.Comment, 0, s.opts.CommentsPerPost)
	at := post.CreatedAt
	for i := 0; i < s.opts.CommentsPerPost; i++ {
		at = at.Add(time.Duration(s.faker.Number(5, 600)) * time.Minute)
		c := &models.Comment{
			PostID:     post.ID,
			AuthorID:   users[s.faker.Number(0, len(users)-1)],
			AuthorName: s.faker.FirstName(),
			Content:    s.faker.Paragraph(1, 2, 12, " "),
			IsApproved: s.faker.Float64Range(0, 1) < s.opts.ApprovalRate,
			CreatedAt:  at,
		}
		// Roughly a third of comments reply to an earlier one on the same post.
		if len(created) > 0 && s.faker.Number(0, 2) == 0 {
			parent := created[s.faker.Number(0, len(created)-1)]
			c.ParentCommentID = &parent.ID
		}
		if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
			return created, fmt.Errorf("create comment: %w", err)
		}
		created = append(created, c)
	}
	return created, nil
}

func (s *Seeder) likeAll(ctx context.Context, users []uuid.UUID, toggle func(uuid.UUID) (repository.LikeResult, error)) (int, error) {
	liked := 0
	for _, u := range users {
		if s.faker.Float64Range(0, 1) >= s.opts.LikeRate {
			continue
		}
		if err := ctx.Err(); err != nil {
			return liked, err
		}
		if _, err := toggle(u); err != nil {
			return liked, err
		}
		liked++
	}
	return liked, nil
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
