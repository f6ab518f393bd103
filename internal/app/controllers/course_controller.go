package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
)

// CourseController serves the public catalogue
type CourseController struct {
	courseService services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

// ListPublished lists published courses
// @Summary List published courses
// @Tags courses
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /course/published [get]
func (c *CourseController) ListPublished(ctx *gin.Context) {
	courses, err := c.courseService.ListPublished(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(courses))
}

// GetCourse returns the public view of a course
// @Summary Get a course
// @Description Lecture videos are only included for free preview lectures
// @Tags courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.CourseResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /course/{courseId} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId", "Course")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}
