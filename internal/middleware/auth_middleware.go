package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

// Context keys set by CookieAuth
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
	ContextRole   = "role"
)

// AuthMiddleware authenticates requests from the session cookie
type AuthMiddleware struct {
	jwtService *auth.JWTService
	cookieName string
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		cookieName: cookieName,
	}
}

// CookieAuth reads the token cookie, falling back to an Authorization header
// for API clients, and stores the caller's identity in the context
func (m *AuthMiddleware) CookieAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(m.cookieName)
		if err != nil || tokenString == "" {
			tokenString, _ = auth.ExtractBearerToken(c.GetHeader("Authorization"))
		}

		if tokenString == "" {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			errorCode := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				errorCode = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication failed").WithDetails(details)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// CurrentUserID returns the authenticated caller set by CookieAuth
func CurrentUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextUserID)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok && userID > 0
}
