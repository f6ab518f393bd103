package dto

import "github.com/yigit/learnhub/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents a student sign-up
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID              int64       `json:"id" example:"3"`
	Name            string      `json:"name" example:"Jane Doe"`
	Email           string      `json:"email" example:"jane@learnhub.app"`
	Role            models.Role `json:"role" example:"student"`
	PhotoURL        *string     `json:"photoUrl,omitempty"`
	EnrolledCourses []int64     `json:"enrolledCourses"`
}

// AuthResponse is returned together with the token cookie
type AuthResponse struct {
	Success bool          `json:"success" example:"true"`
	Message string        `json:"message" example:"Welcome back Jane Doe"`
	User    *UserResponse `json:"user,omitempty"`
}

// FromUser converts a user model
func FromUser(u *models.User) *UserResponse {
	if u == nil {
		return nil
	}
	enrolled := u.EnrolledCourseIDs
	if enrolled == nil {
		enrolled = []int64{}
	}
	return &UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		PhotoURL:        u.PhotoURL,
		EnrolledCourses: enrolled,
	}
}
