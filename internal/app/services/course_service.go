package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models/dto"
)

// CourseService serves the public course catalogue
type CourseService interface {
	ListPublished(ctx context.Context) ([]dto.CourseResponse, error)
	GetCourse(ctx context.Context, courseID int64) (*dto.CourseResponse, error)
}

type courseServiceImpl struct {
	courseRepo     CourseStore
	lectureRepo    LectureStore
	enrollmentRepo EnrollmentStore
	logger         zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo CourseStore, lectureRepo LectureStore, enrollmentRepo EnrollmentStore, logger zerolog.Logger) CourseService {
	return &courseServiceImpl{
		courseRepo:     courseRepo,
		lectureRepo:    lectureRepo,
		enrollmentRepo: enrollmentRepo,
		logger:         logger,
	}
}

// ListPublished lists published courses without their lectures
func (s *courseServiceImpl) ListPublished(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.courseRepo.ListPublished(ctx)
	if err != nil {
		return nil, storageError("failed to list courses", err)
	}

	resp := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		resp = append(resp, dto.FromCourse(c, false))
	}
	return resp, nil
}

// GetCourse returns the anonymous view of a course: only free preview lectures expose their video
func (s *courseServiceImpl) GetCourse(ctx context.Context, courseID int64) (*dto.CourseResponse, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, storageError("failed to load course", err)
	}

	if course.Lectures, err = s.lectureRepo.ListByCourse(ctx, courseID); err != nil {
		return nil, storageError("failed to load lectures", err)
	}
	if course.EnrolledStudentIDs, err = s.enrollmentRepo.StudentIDs(ctx, courseID); err != nil {
		return nil, storageError("failed to load enrollments", err)
	}

	resp := dto.FromCourse(course, false)
	return &resp, nil
}
