package models

import "time"

// Comment represents a comment on a post. Comments are immutable once
// created and are never deleted. The post ID is taken from the URL and is
// not re-validated against an existing post.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	Content string `gorm:"type:text;not null" json:"comment"`

	CreatedAt time.Time `json:"created_at"`
}
