package models

import "time"

// Post represents a stream post. Posts are immutable once created and are
// never deleted.
type Post struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	UserID  uint    `gorm:"not null;index" json:"user_id"`
	User    User    `gorm:"foreignKey:UserID" json:"user"`
	Content string  `gorm:"type:text;not null" json:"content"`
	Image   *string `json:"image"`

	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->;-:migration" json:"comments_count"`

	CreatedAt time.Time `json:"created_at"`
}
