package course

import "gorm.io/gorm"

// Lesson belongs to exactly one course. Presented in non-decreasing
// OrderIndex, ties broken by creation time.
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"` // immutable
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'video'"`
	MediaURL    string `json:"media_url"`
	IsPreview   bool   `json:"is_preview" gorm:"default:false"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
}
