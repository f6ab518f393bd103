package dto

import (
	"time"

	"github.com/yigit/learnhub/internal/app/models"
)

// CreatorResponse is the public view of a course author
type CreatorResponse struct {
	ID       int64   `json:"id" example:"1"`
	Name     string  `json:"name" example:"Jane Doe"`
	PhotoURL *string `json:"photoUrl,omitempty"`
}

// LectureResponse is a lecture as seen by one caller. VideoURL is only
// present when the caller may watch the lecture.
type LectureResponse struct {
	ID            int64   `json:"id" example:"11"`
	Position      int     `json:"position" example:"1"`
	LectureTitle  string  `json:"lectureTitle" example:"Introduction"`
	VideoURL      *string `json:"videoUrl,omitempty"`
	IsPreviewFree bool    `json:"isPreviewFree" example:"false"`
	Accessible    bool    `json:"accessible" example:"true"`
}

// CourseResponse is the course document returned by the course and purchase endpoints
type CourseResponse struct {
	ID               int64             `json:"id" example:"7"`
	CourseTitle      string            `json:"courseTitle" example:"Go Fundamentals"`
	SubTitle         *string           `json:"subTitle,omitempty"`
	Description      *string           `json:"description,omitempty"`
	Category         *string           `json:"category,omitempty"`
	CourseLevel      *string           `json:"courseLevel,omitempty" example:"Beginner"`
	CoursePrice      float64           `json:"coursePrice" example:"500"`
	CourseThumbnail  *string           `json:"courseThumbnail,omitempty"`
	IsPublished      bool              `json:"isPublished" example:"true"`
	Creator          *CreatorResponse  `json:"creator,omitempty"`
	Lectures         []LectureResponse `json:"lectures"`
	EnrolledStudents []int64           `json:"enrolledStudents"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// FromLecture builds the caller view of a lecture. purchased is whether the
// caller holds a completed purchase of the lecture's course.
func FromLecture(l *models.Lecture, purchased bool) LectureResponse {
	resp := LectureResponse{
		ID:            l.ID,
		Position:      l.Position,
		LectureTitle:  l.Title,
		IsPreviewFree: l.IsPreviewFree,
		Accessible:    l.IsPreviewFree || purchased,
	}
	if resp.Accessible {
		resp.VideoURL = l.VideoURL
	}
	return resp
}

// FromCourse converts a course with its loaded relations
func FromCourse(c *models.Course, purchased bool) CourseResponse {
	resp := CourseResponse{
		ID:               c.ID,
		CourseTitle:      c.Title,
		SubTitle:         c.Subtitle,
		Description:      c.Description,
		Category:         c.Category,
		CourseLevel:      c.Level,
		CoursePrice:      c.Price,
		CourseThumbnail:  c.ThumbnailURL,
		IsPublished:      c.IsPublished,
		Lectures:         make([]LectureResponse, 0, len(c.Lectures)),
		EnrolledStudents: c.EnrolledStudentIDs,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
	if resp.EnrolledStudents == nil {
		resp.EnrolledStudents = []int64{}
	}

	if c.Creator != nil {
		resp.Creator = &CreatorResponse{
			ID:       c.Creator.ID,
			Name:     c.Creator.Name,
			PhotoURL: c.Creator.PhotoURL,
		}
	}

	for _, l := range c.Lectures {
		resp.Lectures = append(resp.Lectures, FromLecture(l, purchased))
	}

	return resp
}
