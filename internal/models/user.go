// Package models contains data structures for the application's domain models.
package models

import "time"

// User represents a registered account. The password is stored exactly as
// submitted at registration and compared verbatim at login.
type User struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Username    string `gorm:"uniqueIndex;not null" json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Password    string `json:"-"`
	Education   string `json:"education"`
	Employment  string `json:"employment"`
	Music       string `json:"music"`
	Movie       string `json:"movie"`
	Nationality string `json:"nationality"`
	Birthday    string `json:"birthday"`

	CreatedAt time.Time `json:"created_at"`
}

// ProfileFields are the mutable profile attributes updated by the profile page.
// All six are written unconditionally, including empty values.
type ProfileFields struct {
	Education   string
	Employment  string
	Music       string
	Movie       string
	Nationality string
	Birthday    string
}
