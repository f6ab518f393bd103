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
)

var lectureColumns = []string{"id", "course_id", "position", "title", "video_url", "is_preview_free", "created_at", "updated_at"}

// LectureRepository handles lecture database operations
type LectureRepository struct {
	store
}

// NewLectureRepository creates a new LectureRepository
func NewLectureRepository(pool *pgxpool.Pool) *LectureRepository {
	return &LectureRepository{store: newStore(pool)}
}

func scanLecture(row pgx.Row) (*models.Lecture, error) {
	var lecture models.Lecture
	err := row.Scan(
		&lecture.ID,
		&lecture.CourseID,
		&lecture.Position,
		&lecture.Title,
		&lecture.VideoURL,
		&lecture.IsPreviewFree,
		&lecture.CreatedAt,
		&lecture.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lecture, nil
}

// ListByCourse returns the lectures of a course in order
func (r *LectureRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Lecture, error) {
	sql, args, err := r.sb.Select(lectureColumns...).
		From("lectures").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("position", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list lectures query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing lectures: %w", err)
	}
	defer rows.Close()

	lectures := []*models.Lecture{}
	for rows.Next() {
		lecture, err := scanLecture(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning lecture: %w", err)
		}
		lectures = append(lectures, lecture)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lectures, nil
}

// GetByID retrieves a lecture belonging to the given course
func (r *LectureRepository) GetByID(ctx context.Context, courseID, lectureID int64) (*models.Lecture, error) {
	sql, args, err := r.sb.Select(lectureColumns...).
		From("lectures").
		Where(squirrel.Eq{"id": lectureID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lecture query: %w", err)
	}

	lecture, err := scanLecture(r.conn(ctx).QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrLectureNotFound
		}
		return nil, fmt.Errorf("error retrieving lecture: %w", err)
	}
	return lecture, nil
}

// MarkPreviewFreeByCourse flags every lecture of a course as free to preview
// and returns the number of lectures that changed
func (r *LectureRepository) MarkPreviewFreeByCourse(ctx context.Context, courseID int64) (int64, error) {
	sql, args, err := r.sb.Update("lectures").
		Set("is_preview_free", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"course_id": courseID, "is_preview_free": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build unlock lectures query: %w", err)
	}

	tag, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error unlocking lectures: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Create inserts a lecture
func (r *LectureRepository) Create(ctx context.Context, lecture *models.Lecture) error {
	sql, args, err := r.sb.Insert("lectures").
		Columns("course_id", "position", "title", "video_url", "is_preview_free").
		Values(lecture.CourseID, lecture.Position, lecture.Title, lecture.VideoURL, lecture.IsPreviewFree).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create lecture query: %w", err)
	}

	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&lecture.ID, &lecture.CreatedAt, &lecture.UpdatedAt); err != nil {
		return fmt.Errorf("error creating lecture: %w", err)
	}
	return nil
}
