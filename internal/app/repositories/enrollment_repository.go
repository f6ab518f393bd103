package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnrollmentRepository maintains the course/user enrollment set. One row
// backs both a course's enrolled students and a user's enrolled courses.
type EnrollmentRepository struct {
	store
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{store: newStore(pool)}
}

// Add enrolls a user in a course. It reports false when the pair already existed.
func (r *EnrollmentRepository) Add(ctx context.Context, courseID, userID int64) (bool, error) {
	sql, args, err := r.sb.Insert("course_enrollments").
		Columns("course_id", "user_id").
		Values(courseID, userID).
		Suffix("ON CONFLICT (course_id, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment query: %w", err)
	}

	tag, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("error enrolling user %d in course %d: %w", userID, courseID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// StudentIDs lists the users enrolled in a course
func (r *EnrollmentRepository) StudentIDs(ctx context.Context, courseID int64) ([]int64, error) {
	return r.ids(ctx, "user_id", squirrel.Eq{"course_id": courseID})
}

// CourseIDs lists the courses a user is enrolled in
func (r *EnrollmentRepository) CourseIDs(ctx context.Context, userID int64) ([]int64, error) {
	return r.ids(ctx, "course_id", squirrel.Eq{"user_id": userID})
}

func (r *EnrollmentRepository) ids(ctx context.Context, column string, where squirrel.Eq) ([]int64, error) {
	sql, args, err := r.sb.Select(column).
		From("course_enrollments").
		Where(where).
		OrderBy("enrolled_at", column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build enrollment list query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing enrollments: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
