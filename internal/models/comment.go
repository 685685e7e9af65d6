package models

import "time"

// Comment represents a pseudonymous comment on a post. Comments form a
// reply hierarchy through ParentID; Replies is not persisted and is filled
// in at read time by the tree builder.
//
// PostSlug is a soft reference: the store does not enforce it, and a
// comment whose parent was deleted keeps its dangling ParentID.
type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	PostSlug  string     `gorm:"not null;index:idx_comments_post_slug_created_at,priority:1" json:"postSlug"`
	Username  string     `gorm:"not null" json:"username"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	ParentID  *uint      `json:"parentId"`
	Likes     int64      `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time  `gorm:"index:idx_comments_post_slug_created_at,priority:2" json:"createdAt"`
	Replies   []*Comment `gorm:"-" json:"replies,omitempty"`
}

// MaxCommentLength is the upper bound on comment content after trimming.
const MaxCommentLength = 1000
