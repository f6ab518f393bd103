package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/dberrors"
	"github.com/yigit/learnhub/internal/pkg/logger"
)

// CourseRepository handles course database operations
type CourseRepository struct {
	store
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{store: newStore(pool)}
}

func (r *CourseRepository) selectWithCreator() squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.title", "c.subtitle", "c.description", "c.category", "c.level",
		"c.price", "c.thumbnail_url", "c.creator_id", "c.is_published",
		"c.created_at", "c.updated_at",
		"u.id", "u.name", "u.email", "u.role", "u.photo_url",
	).
		From("courses c").
		Join("users u ON u.id = c.creator_id")
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	var creator models.User
	err := row.Scan(
		&course.ID,
		&course.Title,
		&course.Subtitle,
		&course.Description,
		&course.Category,
		&course.Level,
		&course.Price,
		&course.ThumbnailURL,
		&course.CreatorID,
		&course.IsPublished,
		&course.CreatedAt,
		&course.UpdatedAt,
		&creator.ID,
		&creator.Name,
		&creator.Email,
		&creator.Role,
		&creator.PhotoURL,
	)
	if err != nil {
		return nil, err
	}
	course.Creator = &creator
	return &course, nil
}

// GetByID retrieves a course and its creator
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.selectWithCreator().
		Where(squirrel.Eq{"c.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error retrieving course")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// ListPublished returns every published course, newest first
func (r *CourseRepository) ListPublished(ctx context.Context) ([]*models.Course, error) {
	sql, args, err := r.selectWithCreator().
		Where(squirrel.Eq{"c.is_published": true}).
		OrderBy("c.created_at DESC", "c.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return courses, nil
}

// Create inserts a course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("title", "subtitle", "description", "category", "level", "price", "thumbnail_url", "creator_id", "is_published").
		Values(course.Title, course.Subtitle, course.Description, course.Category, course.Level,
			course.Price, course.ThumbnailURL, course.CreatorID, course.IsPublished).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}
