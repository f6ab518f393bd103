package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Email     string    `json:"email" db:"email" example:"student@learnhub.app"`
	Password  string    `json:"-" db:"password"`
	Name      string    `json:"name" db:"name" example:"Jane Doe"`
	Role      Role      `json:"role" db:"role" example:"student"`
	PhotoURL  *string   `json:"photoUrl,omitempty" db:"photo_url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	EnrolledCourseIDs []int64 `json:"enrolledCourses,omitempty"`
}
