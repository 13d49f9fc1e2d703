package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is the identity record. Username and email are stored case-folded and
// trimmed; uniqueness is enforced by the store. Password holds a bcrypt hash.
// RefreshToken holds the single currently valid refresh token, or empty.
type User struct {
	gorm.Model
	Username     string                    `gorm:"column:username;uniqueIndex;not null"`
	Email        string                    `gorm:"column:email;uniqueIndex;not null"`
	FullName     string                    `gorm:"column:full_name;not null;index"`
	Avatar       string                    `gorm:"column:avatar;not null"`
	CoverImage   string                    `gorm:"column:cover_image"`
	Password     string                    `gorm:"column:password;not null"`
	RefreshToken string                    `gorm:"column:refresh_token"`
	WatchHistory datatypes.JSONSlice[uint] `gorm:"column:watch_history"`
}
