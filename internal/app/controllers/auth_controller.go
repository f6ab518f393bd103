package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/app/services"
	"github.com/yigit/learnhub/internal/middleware"
)

// CookieSettings controls the session cookie written on sign-in
type CookieSettings struct {
	Name   string
	MaxAge time.Duration
	Domain string
	// Secure marks the cookie Secure and SameSite=None for cross-site clients
	Secure bool
}

// AuthController handles authentication related operations
type AuthController struct {
	authService services.AuthService
	cookie      CookieSettings
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, cookie CookieSettings, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		cookie:      cookie,
		logger:      logger,
	}
}

func (c *AuthController) setTokenCookie(ctx *gin.Context, token string, maxAge int) {
	if c.cookie.Secure {
		ctx.SetSameSite(http.SameSiteNoneMode)
	} else {
		ctx.SetSameSite(http.SameSiteLaxMode)
	}
	ctx.SetCookie(c.cookie.Name, token, maxAge, "/", c.cookie.Domain, c.cookie.Secure, true)
}

// Register handles user registration
// @Summary Register a new student
// @Description Creates a student account and signs it in by setting the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.AuthResponse "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /user/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setTokenCookie(ctx, session.Token, int(c.cookie.MaxAge.Seconds()))
	ctx.JSON(http.StatusCreated, dto.AuthResponse{
		Success: true,
		Message: "Account created successfully",
		User:    dto.FromUser(session.User),
	})
}

// Login handles user login
// @Summary Login
// @Description Authenticates a user and sets the httpOnly session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /user/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	session, err := c.authService.Login(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.setTokenCookie(ctx, session.Token, int(c.cookie.MaxAge.Seconds()))
	ctx.JSON(http.StatusOK, dto.AuthResponse{
		Success: true,
		Message: "Welcome back " + session.User.Name,
		User:    dto.FromUser(session.User),
	})
}

// Logout clears the session cookie
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /user/logout [get]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.setTokenCookie(ctx, "", -1)
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Logged out successfully"})
}

// Profile returns the authenticated user
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security CookieAuth
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse "User not authenticated"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /user/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	userID, ok := requireUser(ctx)
	if !ok {
		return
	}

	user, err := c.authService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{Success: true, User: dto.FromUser(user)})
}
