package repository

import (
	"context"

	"mingle/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines persistence operations for directed friend edges.
//
// Exists followed by Create is NOT transactional: two concurrent requests
// can both pass the duplicate check and insert the same edge twice. That
// matches the handler-level enforcement this relation was designed with.
type FriendRepository interface {
	Exists(ctx context.Context, userID, friendID uint) (bool, error)
	Create(ctx context.Context, edge *models.Friend) error
	// ListFriends returns the users this user has added (outgoing edges
	// only), excluding any self-edge.
	ListFriends(ctx context.Context, userID uint) ([]models.Friend, error)
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository returns a new FriendRepository implementation.
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Exists(ctx context.Context, userID, friendID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Friend{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *friendRepository) Create(ctx context.Context, edge *models.Friend) error {
	if err := r.db.WithContext(ctx).Create(edge).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *friendRepository) ListFriends(ctx context.Context, userID uint) ([]models.Friend, error) {
	var edges []models.Friend
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id != ?", userID, userID).
		Preload("FriendUser").
		Find(&edges).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return edges, nil
}
