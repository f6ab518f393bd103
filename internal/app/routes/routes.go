package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/controllers"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth     *controllers.AuthController
	Course   *controllers.CourseController
	Purchase *controllers.PurchaseController
	Webhook  *controllers.WebhookController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	v1 := router.Group("/api/v1")

	// The webhook is verified against the exact request bytes, so it is kept
	// away from any body-consuming middleware.
	v1.POST("/webhook", ctrl.Webhook.HandleStripeWebhook)

	user := v1.Group("/user")
	{
		user.POST("/register", ctrl.Auth.Register)
		user.POST("/login", ctrl.Auth.Login)
		user.GET("/logout", ctrl.Auth.Logout)
		user.GET("/profile", authMiddleware.CookieAuth(), ctrl.Auth.Profile)
	}

	course := v1.Group("/course")
	{
		course.GET("/published", ctrl.Course.ListPublished)
		course.GET("/:courseId", ctrl.Course.GetCourse)
	}

	purchase := v1.Group("/purchase")
	purchase.Use(authMiddleware.CookieAuth())
	{
		purchase.GET("/", ctrl.Purchase.GetAllPurchasedCourses)
		purchase.GET("/summary", ctrl.Purchase.GetPurchaseSummary)
		purchase.POST("/checkout/create-checkout-session", ctrl.Purchase.CreateCheckoutSession)
		purchase.GET("/course/:courseId/detail-with-status", ctrl.Purchase.GetCourseDetailWithStatus)
		purchase.GET("/course/:courseId/lecture/:lectureId", ctrl.Purchase.GetLecture)
	}

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})
}
