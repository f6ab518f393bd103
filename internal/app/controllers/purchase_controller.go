package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
)

// PurchaseController handles checkout and purchase status requests
type PurchaseController struct {
	purchaseService services.PurchaseService
	logger          zerolog.Logger
}

// NewPurchaseController creates a new PurchaseController
func NewPurchaseController(purchaseService services.PurchaseService, logger zerolog.Logger) *PurchaseController {
	return &PurchaseController{
		purchaseService: purchaseService,
		logger:          logger,
	}
}

// CreateCheckoutSession starts a hosted checkout for a course
// @Summary Create a checkout session
// @Description Records a pending purchase and returns the payment page URL the client should redirect to
// @Tags purchase
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body dto.CheckoutSessionRequest true "Course to buy"
// @Success 200 {object} dto.CheckoutSessionResponse "Checkout session created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request or gateway declined the session"
// @Failure 401 {object} dto.ErrorResponse "User not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /purchase/checkout/create-checkout-session [post]
func (c *PurchaseController) CreateCheckoutSession(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	var req dto.CheckoutSessionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.purchaseService.CreateCheckoutSession(ctx.Request.Context(), userID, req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetCourseDetailWithStatus returns a course and whether the caller bought it
// @Summary Course detail with purchase status
// @Description Returns the course with creator and lectures, plus whether the caller holds a completed purchase. Lecture videos are only included when accessible to the caller.
// @Tags purchase
// @Produce json
// @Security CookieAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.CourseDetailWithStatusResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 401 {object} dto.ErrorResponse "User not authenticated"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /purchase/course/{courseId}/detail-with-status [get]
func (c *PurchaseController) GetCourseDetailWithStatus(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId", "Course")
	if !ok {
		return
	}

	resp, err := c.purchaseService.GetCourseDetailWithStatus(ctx.Request.Context(), userID, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetLecture serves a single lecture to a caller allowed to watch it
// @Summary Get a lecture
// @Description Returns the lecture with its video when it is a free preview or the caller purchased the course
// @Tags purchase
// @Produce json
// @Security CookieAuth
// @Param courseId path int true "Course ID"
// @Param lectureId path int true "Lecture ID"
// @Success 200 {object} dto.LectureAccessResponse
// @Failure 401 {object} dto.ErrorResponse "User not authenticated"
// @Failure 403 {object} dto.ErrorResponse "Lecture is locked"
// @Failure 404 {object} dto.ErrorResponse "Lecture not found"
// @Router /purchase/course/{courseId}/lecture/{lectureId} [get]
func (c *PurchaseController) GetLecture(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "courseId", "Course")
	if !ok {
		return
	}
	lectureID, ok := parseIDParam(ctx, "lectureId", "Lecture")
	if !ok {
		return
	}

	resp, err := c.purchaseService.GetLectureAccess(ctx.Request.Context(), userID, courseID, lectureID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetAllPurchasedCourses lists the caller's completed purchases
// @Summary List purchased courses
// @Tags purchase
// @Produce json
// @Security CookieAuth
// @Success 200 {object} dto.PurchasedCoursesResponse
// @Failure 401 {object} dto.ErrorResponse "User not authenticated"
// @Failure 500 {object} dto.ErrorResponse "Failed to fetch purchased courses"
// @Router /purchase/ [get]
func (c *PurchaseController) GetAllPurchasedCourses(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	resp, err := c.purchaseService.GetAllPurchasedCourses(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// GetPurchaseSummary returns sales totals of the caller's completed purchases
// @Summary Purchase summary
// @Tags purchase
// @Produce json
// @Security CookieAuth
// @Success 200 {object} dto.APIResponse{data=dto.PurchaseSummaryResponse}
// @Failure 401 {object} dto.ErrorResponse "User not authenticated"
// @Router /purchase/summary [get]
func (c *PurchaseController) GetPurchaseSummary(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	resp, err := c.purchaseService.GetPurchaseSummary(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
