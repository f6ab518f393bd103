package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
)

// UnlockService applies the side effects of a completed purchase
type UnlockService interface {
	Apply(ctx context.Context, purchase *models.CoursePurchase) error
}

// UnlockOptions tunes what a completed purchase unlocks
type UnlockOptions struct {
	// UnlockLecturesGlobally flips isPreviewFree on every lecture of the
	// purchased course, making it watchable by anyone
	UnlockLecturesGlobally bool
}

type unlockServiceImpl struct {
	lectureRepo    LectureStore
	enrollmentRepo EnrollmentStore
	options        UnlockOptions
	logger         zerolog.Logger
}

// NewUnlockService creates a new UnlockService
func NewUnlockService(lectureRepo LectureStore, enrollmentRepo EnrollmentStore, options UnlockOptions, logger zerolog.Logger) UnlockService {
	return &unlockServiceImpl{
		lectureRepo:    lectureRepo,
		enrollmentRepo: enrollmentRepo,
		options:        options,
		logger:         logger,
	}
}

// Apply unlocks the purchased course for the buyer. Every step is keyed by
// (course, user) and may be repeated without changing the result.
func (s *unlockServiceImpl) Apply(ctx context.Context, purchase *models.CoursePurchase) error {
	if purchase == nil {
		return fmt.Errorf("unlock: nil purchase")
	}

	log := s.logger.With().
		Int64("purchaseID", purchase.ID).
		Int64("courseID", purchase.CourseID).
		Int64("userID", purchase.UserID).
		Logger()

	if s.options.UnlockLecturesGlobally {
		n, err := s.lectureRepo.MarkPreviewFreeByCourse(ctx, purchase.CourseID)
		if err != nil {
			return fmt.Errorf("unlock lectures: %w", err)
		}
		log.Debug().Int64("lectures", n).Msg("Lectures marked as preview free")
	}

	added, err := s.enrollmentRepo.Add(ctx, purchase.CourseID, purchase.UserID)
	if err != nil {
		return fmt.Errorf("enroll user: %w", err)
	}

	log.Info().Bool("newEnrollment", added).Msg("Course unlocked")
	return nil
}
