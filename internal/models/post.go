package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// MaxPostTitleLen bounds the title column.
	MaxPostTitleLen = 500
	// MaxPostContentLen bounds the content column.
	MaxPostContentLen = 5000
)

// Post represents a blog post. ImageKey is the opaque deletion handle
// returned by the media store when an image was uploaded; it is never
// exposed to clients.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Title    string `gorm:"size:500;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	ImageKey string `json:"-"`
	Category string `json:"category,omitempty"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	// CommentsCount is computed at query time, not persisted.
	CommentsCount int            `gorm:"->" json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
