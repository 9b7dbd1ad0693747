package models

import "time"

// Friend is a directed friendship edge: UserID added FriendID as a friend.
// The reverse edge is not implied and is stored separately if the other
// user friends back. Duplicate prevention is handler logic, not a database
// constraint, so the table deliberately carries no unique index on the pair.
type Friend struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	UserID     uint `gorm:"not null;index" json:"user_id"`
	FriendID   uint `gorm:"not null;index" json:"friend_id"`
	FriendUser User `gorm:"foreignKey:FriendID" json:"friend"`

	CreatedAt time.Time `json:"created_at"`
}
