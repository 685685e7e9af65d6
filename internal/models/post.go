// Package models contains data structures for the application's domain models.
package models

import (
	"encoding/json"
	"time"
)

// CategoryAll is the meta-category that matches every post. New posts
// default to it; it is not assignable explicitly through the API.
const CategoryAll = "All Blog Posts"

// Categories is the fixed set of blog categories, including the
// CategoryAll sentinel.
var Categories = []string{
	CategoryAll,
	"News",
	"Technology",
	"Business",
	"Education",
	"Ethics",
	"Art",
	"Entertainment",
	"Fun",
	"Games",
	"Music",
	"Politics",
	"History",
}

// IsValidCategory reports whether the category is a member of the fixed set.
func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// AssignableCategories returns the categories a post may be created with,
// i.e. the fixed set without the CategoryAll sentinel.
func AssignableCategories() []string {
	out := make([]string, 0, len(Categories)-1)
	for _, c := range Categories {
		if c != CategoryAll {
			out = append(out, c)
		}
	}
	return out
}

// Media types and layout positions accepted for embedded media descriptors.
var (
	MediaTypes     = []string{"youtube", "vimeo", "video", "audio"}
	MediaPositions = []string{"inline", "right", "left", "full-width"}
)

// EmbeddedMedia describes a non-text content item (video/audio) attached to
// a post, with its URL, kind and layout position.
type EmbeddedMedia struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Position string `json:"position,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// Post represents a blog post. Tags and EmbeddedMedia are persisted as
// JSON-serialized text blobs; API responses carry them deserialized via
// PostView.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Slug          string    `gorm:"uniqueIndex;not null" json:"slug"`
	Title         string    `gorm:"not null" json:"title"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Excerpt       string    `gorm:"type:text;not null" json:"excerpt"`
	Author        string    `gorm:"not null" json:"author"`
	Tags          string    `gorm:"type:text;not null" json:"-"`
	CoverImage    string    `json:"coverImage,omitempty"`
	Category      string    `gorm:"index;not null;default:'All Blog Posts'" json:"category"`
	EmbeddedMedia string    `gorm:"type:text" json:"-"`
	PublishedAt   time.Time `gorm:"index:idx_posts_published_at,sort:desc" json:"publishedAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Views         int64     `gorm:"not null;default:0" json:"views"`
}

// TagList deserializes the stored tags blob. A malformed blob yields nil.
func (p *Post) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(p.Tags), &tags); err != nil {
		return nil
	}
	return tags
}

// SetTagList serializes tags into the stored blob, preserving order.
func (p *Post) SetTagList(tags []string) {
	b, _ := json.Marshal(tags)
	p.Tags = string(b)
}

// MediaList deserializes the stored embedded media blob.
func (p *Post) MediaList() []EmbeddedMedia {
	if p.EmbeddedMedia == "" {
		return nil
	}
	var media []EmbeddedMedia
	if err := json.Unmarshal([]byte(p.EmbeddedMedia), &media); err != nil {
		return nil
	}
	return media
}

// SetMediaList serializes media into the stored blob. An empty list clears it.
func (p *Post) SetMediaList(media []EmbeddedMedia) {
	if len(media) == 0 {
		p.EmbeddedMedia = ""
		return
	}
	b, _ := json.Marshal(media)
	p.EmbeddedMedia = string(b)
}

// PostView is the API representation of a post with the tags and embedded
// media blobs deserialized.
type PostView struct {
	Post
	Tags          []string        `json:"tags"`
	EmbeddedMedia []EmbeddedMedia `json:"embeddedMedia"`
}

// NewPostView builds the API representation of a post.
func NewPostView(p *Post) *PostView {
	return &PostView{
		Post:          *p,
		Tags:          p.TagList(),
		EmbeddedMedia: p.MediaList(),
	}
}

// NewPostViews builds API representations for a slice of posts.
func NewPostViews(posts []*Post) []*PostView {
	views := make([]*PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, NewPostView(p))
	}
	return views
}
