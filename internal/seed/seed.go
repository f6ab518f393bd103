package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/auth"
)

// DefaultInstructorEmail owns the demo catalogue
const DefaultInstructorEmail = "instructor@learnhub.app"

const defaultInstructorPassword = "Instructor123!"

// UserStore is the user persistence the seed needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*appModels.User, error)
	Create(ctx context.Context, user *appModels.User) error
}

// CourseStore is the course persistence the seed needs
type CourseStore interface {
	Create(ctx context.Context, course *appModels.Course) error
}

// LectureStore is the lecture persistence the seed needs
type LectureStore interface {
	Create(ctx context.Context, lecture *appModels.Lecture) error
}

// Stores bundles the repositories used by CreateDefaultData
type Stores struct {
	Users    UserStore
	Courses  CourseStore
	Lectures LectureStore
}

type courseSeed struct {
	title    string
	subtitle string
	category string
	level    string
	price    float64
	lectures []string
}

var defaultCourses = []courseSeed{
	{
		title:    "Go Fundamentals",
		subtitle: "Types, interfaces and concurrency from scratch",
		category: "Backend",
		level:    "Beginner",
		price:    500,
		lectures: []string{"Introduction", "Types and Interfaces", "Goroutines and Channels"},
	},
	{
		title:    "PostgreSQL for Backend Developers",
		subtitle: "Schemas, indexes and transactions",
		category: "Databases",
		level:    "Medium",
		price:    799,
		lectures: []string{"Setting Up", "Designing Schemas", "Transactions in Practice"},
	},
}

func strPtr(s string) *string { return &s }

// CreateDefaultData creates a demo instructor and a small published catalogue
// unless the instructor already exists. The first lecture of each course is
// a free preview.
func CreateDefaultData(ctx context.Context, stores Stores, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Instructor/Courses)...")

	_, err := stores.Users.GetByEmail(ctx, DefaultInstructorEmail)
	if err == nil {
		lgr.Info().Msg("Default data already present, skipping")
		return nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return fmt.Errorf("failed to check default instructor: %w", err)
	}

	hashedPassword, err := auth.HashPassword(defaultInstructorPassword)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}

	instructor := &appModels.User{
		Email:    DefaultInstructorEmail,
		Password: hashedPassword,
		Name:     "LearnHub Instructor",
		Role:     appModels.RoleInstructor,
	}
	if err := stores.Users.Create(ctx, instructor); err != nil {
		return fmt.Errorf("failed to create default instructor: %w", err)
	}

	var finalErr error
	for _, cs := range defaultCourses {
		course := &appModels.Course{
			Title:       cs.title,
			Subtitle:    strPtr(cs.subtitle),
			Category:    strPtr(cs.category),
			Level:       strPtr(cs.level),
			Price:       cs.price,
			CreatorID:   instructor.ID,
			IsPublished: true,
		}
		if err := stores.Courses.Create(ctx, course); err != nil {
			lgr.Error().Err(err).Str("course", cs.title).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		for i, title := range cs.lectures {
			lecture := &appModels.Lecture{
				CourseID:      course.ID,
				Position:      i + 1,
				Title:         title,
				VideoURL:      strPtr(fmt.Sprintf("https://videos.learnhub.app/%d/%d.mp4", course.ID, i+1)),
				IsPreviewFree: i == 0,
			}
			if err := stores.Lectures.Create(ctx, lecture); err != nil {
				lgr.Error().Err(err).Str("lecture", title).Msg("Error creating default lecture")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	if finalErr == nil {
		lgr.Info().Int("courses", len(defaultCourses)).Msg("Default data created")
	}
	return finalErr
}
