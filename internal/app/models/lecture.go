package models

import "time"

// Lecture is one ordered video unit of a course
type Lecture struct {
	ID            int64     `json:"id" db:"id"`
	CourseID      int64     `json:"courseId" db:"course_id"`
	Position      int       `json:"position" db:"position"`
	Title         string    `json:"lectureTitle" db:"title"`
	VideoURL      *string   `json:"videoUrl,omitempty" db:"video_url"`
	IsPreviewFree bool      `json:"isPreviewFree" db:"is_preview_free"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}
