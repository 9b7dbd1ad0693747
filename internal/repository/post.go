package repository

import (
	"context"
	"errors"

	"mingle/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetStream returns posts authored by the user or by anyone connected
	// via a friend edge in either direction, newest first, each annotated
	// with its comment count.
	GetStream(ctx context.Context, userID uint) ([]models.Post, error)
	// GetWithAuthor returns (nil, nil) when the post does not exist.
	GetWithAuthor(ctx context.Context, postID uint) (*models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns a new PostRepository implementation.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) GetStream(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post

	// Visibility deliberately checks BOTH edge directions even though the
	// friends list reads only outgoing edges: if either user added the
	// other, the posts show up.
	incoming := r.db.Table("friends").Select("user_id").Where("friend_id = ?", userID)
	outgoing := r.db.Table("friends").Select("friend_id").Where("user_id = ?", userID)

	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count").
		Where("posts.user_id = ? OR posts.user_id IN (?) OR posts.user_id IN (?)",
			userID, incoming, outgoing).
		Order("posts.created_at DESC, posts.id DESC").
		Preload("User").
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return posts, nil
}

func (r *postRepository) GetWithAuthor(ctx context.Context, postID uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Preload("User").
		First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}
