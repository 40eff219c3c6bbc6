package models

import (
	"time"

	"gorm.io/gorm"
)

// MaxCommentLen bounds the comment content column.
const MaxCommentLen = 10000

// Comment represents a comment on a post. ParentID is nil for top-level
// comments; replies reference their parent, forming a forest per post.
// A parent must already exist at creation time and is immutable
// afterwards, so a comment can never become its own ancestor.
type Comment struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	PostID   uint   `gorm:"not null;index" json:"post_id"`
	ParentID *uint  `gorm:"index" json:"parent_id,omitempty"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	Post     Post   `gorm:"foreignKey:PostID" json:"-"`
	// Replies is assembled from the flat adjacency list when serializing
	// a per-post tree; it is never a GORM-managed relation. Always
	// non-nil in tree responses so leaves emit [] rather than null.
	Replies   []*Comment     `gorm:"-" json:"replies"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
