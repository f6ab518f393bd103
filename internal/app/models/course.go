package models

import "time"

// Course represents a purchasable course.
type Course struct {
	ID           int64     `json:"id" db:"id"`
	Title        string    `json:"courseTitle" db:"title"`
	Subtitle     *string   `json:"subTitle,omitempty" db:"subtitle"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Category     *string   `json:"category,omitempty" db:"category"`
	Level        *string   `json:"courseLevel,omitempty" db:"level"`
	Price        float64   `json:"coursePrice" db:"price"`
	ThumbnailURL *string   `json:"courseThumbnail,omitempty" db:"thumbnail_url"`
	CreatorID    int64     `json:"creatorId" db:"creator_id"`
	IsPublished  bool      `json:"isPublished" db:"is_published"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Creator            *User      `json:"creator,omitempty"`
	Lectures           []*Lecture `json:"lectures,omitempty"`
	EnrolledStudentIDs []int64    `json:"enrolledStudents,omitempty"`
}

// Thumbnail returns the thumbnail URL or an empty string
func (c *Course) Thumbnail() string {
	if c.ThumbnailURL == nil {
		return ""
	}
	return *c.ThumbnailURL
}
