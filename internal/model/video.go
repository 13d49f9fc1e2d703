package model

import "gorm.io/gorm"

// Video is read-only from this service; rows are referenced by users'
// watch-history lists and owned by a channel user.
type Video struct {
	gorm.Model
	VideoFile   string  `gorm:"column:video_file;not null"`
	Thumbnail   string  `gorm:"column:thumbnail;not null"`
	Title       string  `gorm:"column:title;not null;index"`
	Description string  `gorm:"column:description"`
	Duration    float64 `gorm:"column:duration;not null"`
	Views       int64   `gorm:"column:views;default:0"`
	IsPublished bool    `gorm:"column:is_published;default:true"`
	OwnerID     uint    `gorm:"column:owner_id;index;not null"`
	Owner       User    `gorm:"foreignKey:OwnerID"`
}
