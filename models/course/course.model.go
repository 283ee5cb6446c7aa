package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course status lifecycle: draft -> pending_review -> published.
// Only published courses are visible to non-owners.
const (
	StatusDraft         = "draft"
	StatusPendingReview = "pending_review"
	StatusPublished     = "published"
)

// Content types for courses and lessons.
const (
	ContentVideo   = "video"
	ContentPDF     = "pdf"
	ContentArticle = "article"
	ContentAudio   = "audio"
)

// Course represents a publishable unit of learning content
type Course struct {
	gorm.Model
	CreatorID    uint                        `json:"creator_id" gorm:"index;not null"` // immutable after creation
	Title        string                      `json:"title" gorm:"not null"`
	Description  string                      `json:"description"`
	ContentType  string                      `json:"content_type" gorm:"default:'video'"` // video, pdf, article, audio
	Status       string                      `json:"status" gorm:"default:'draft'"`       // draft, pending_review, published
	Category     string                      `json:"category" gorm:"index"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	ThumbnailURL string                      `json:"thumbnail_url"`
}

// ValidContentType reports whether t is one of the supported content types.
func ValidContentType(t string) bool {
	switch t {
	case ContentVideo, ContentPDF, ContentArticle, ContentAudio:
		return true
	}
	return false
}

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusPublished:
		return true
	}
	return false
}
