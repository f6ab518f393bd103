package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

// AuthSession is an authenticated user with the token to put in the session cookie
type AuthSession struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// AuthService handles authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthSession, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthSession, error)
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
}

type authServiceImpl struct {
	userRepo       UserStore
	enrollmentRepo EnrollmentStore
	jwtService     *auth.JWTService
	logger         zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo UserStore, enrollmentRepo EnrollmentStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		userRepo:       userRepo,
		enrollmentRepo: enrollmentRepo,
		jwtService:     jwtService,
		logger:         logger,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a student account and signs it in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*AuthSession, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "name cannot be empty")
	}

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if !apperrors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, storageError("failed to look up user", err)
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: hashed,
		Name:     name,
		Role:     models.RoleStudent,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storageError("failed to create user", err)
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User registered")
	return s.newSession(user)
}

// Login authenticates a user by email and password
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*AuthSession, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, storageError("failed to look up user", err)
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.EnrolledCourseIDs, err = s.enrollmentRepo.CourseIDs(ctx, user.ID); err != nil {
		return nil, storageError("failed to load enrollments", err)
	}

	return s.newSession(user)
}

// GetProfile returns the user with their enrolled courses
func (s *authServiceImpl) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, storageError("failed to load user", err)
	}

	if user.EnrolledCourseIDs, err = s.enrollmentRepo.CourseIDs(ctx, userID); err != nil {
		return nil, storageError("failed to load enrollments", err)
	}
	return user, nil
}

func (s *authServiceImpl) newSession(user *models.User) (*AuthSession, error) {
	token, expiresAt, err := s.jwtService.GenerateToken(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to generate token")
		return nil, err
	}
	return &AuthSession{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
