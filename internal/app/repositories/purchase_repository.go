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

var purchaseColumns = []string{
	"p.id", "p.course_id", "p.user_id", "p.amount", "p.currency", "p.status",
	"p.payment_id", "p.created_at", "p.updated_at",
}

// PurchaseRepository stores course purchase attempts and their completion state
type PurchaseRepository struct {
	store
}

// NewPurchaseRepository creates a new PurchaseRepository
func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return &PurchaseRepository{store: newStore(pool)}
}

func purchaseScanTargets(p *models.CoursePurchase) []any {
	return []any{
		&p.ID,
		&p.CourseID,
		&p.UserID,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.PaymentID,
		&p.CreatedAt,
		&p.UpdatedAt,
	}
}

// Create inserts a purchase. Status defaults to pending when unset.
func (r *PurchaseRepository) Create(ctx context.Context, purchase *models.CoursePurchase) error {
	if purchase.Status == "" {
		purchase.Status = models.PurchaseStatusPending
	}

	sql, args, err := r.sb.Insert("course_purchases").
		Columns("course_id", "user_id", "amount", "currency", "status", "payment_id").
		Values(purchase.CourseID, purchase.UserID, purchase.Amount, purchase.Currency, purchase.Status, purchase.PaymentID).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create purchase query: %w", err)
	}

	err = r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&purchase.ID, &purchase.CreatedAt, &purchase.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).
			Int64("courseID", purchase.CourseID).
			Int64("userID", purchase.UserID).
			Msg("Error creating purchase")
		return fmt.Errorf("error creating purchase: %w", err)
	}
	return nil
}

// SetPaymentID attaches the gateway session id to a purchase
func (r *PurchaseRepository) SetPaymentID(ctx context.Context, purchaseID int64, paymentID string) error {
	sql, args, err := r.sb.Update("course_purchases").
		Set("payment_id", paymentID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": purchaseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set payment id query: %w", err)
	}

	tag, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "course_purchases_payment_id_key") {
			return apperrors.NewCustomError(apperrors.ErrResourceAlreadyExists, "payment id already attached to another purchase")
		}
		return fmt.Errorf("error setting payment id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPurchaseNotFound
	}
	return nil
}

// GetByPaymentID retrieves the purchase created for a gateway session
func (r *PurchaseRepository) GetByPaymentID(ctx context.Context, paymentID string) (*models.CoursePurchase, error) {
	sql, args, err := r.sb.Select(purchaseColumns...).
		From("course_purchases p").
		Where(squirrel.Eq{"p.payment_id": paymentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get purchase query: %w", err)
	}

	var purchase models.CoursePurchase
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(purchaseScanTargets(&purchase)...); err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("error retrieving purchase: %w", err)
	}
	return &purchase, nil
}

// MarkCompleted overwrites the amount with the settled total and completes the purchase.
// Applying it twice leaves the same row.
func (r *PurchaseRepository) MarkCompleted(ctx context.Context, purchaseID int64, amount float64) error {
	sql, args, err := r.sb.Update("course_purchases").
		Set("amount", amount).
		Set("status", models.PurchaseStatusCompleted).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": purchaseID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build complete purchase query: %w", err)
	}

	tag, err := r.conn(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error completing purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPurchaseNotFound
	}
	return nil
}

// ExistsCompleted reports whether the user holds a completed purchase of the course
func (r *PurchaseRepository) ExistsCompleted(ctx context.Context, userID, courseID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("course_purchases").
		Where(squirrel.Eq{
			"user_id":   userID,
			"course_id": courseID,
			"status":    models.PurchaseStatusCompleted,
		}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build purchase existence query: %w", err)
	}

	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking purchase: %w", err)
	}
	return exists, nil
}

// ListCompletedByUser returns the user's completed purchases with their courses, newest first
func (r *PurchaseRepository) ListCompletedByUser(ctx context.Context, userID int64) ([]*models.CoursePurchase, error) {
	columns := append([]string{}, purchaseColumns...)
	columns = append(columns,
		"c.id", "c.title", "c.subtitle", "c.description", "c.category", "c.level",
		"c.price", "c.thumbnail_url", "c.creator_id", "c.is_published",
		"c.created_at", "c.updated_at",
	)

	sql, args, err := r.sb.Select(columns...).
		From("course_purchases p").
		Join("courses c ON c.id = p.course_id").
		Where(squirrel.Eq{"p.user_id": userID, "p.status": models.PurchaseStatusCompleted}).
		OrderBy("p.updated_at DESC", "p.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list purchases query: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing purchases: %w", err)
	}
	defer rows.Close()

	purchases := []*models.CoursePurchase{}
	for rows.Next() {
		purchase, err := scanPurchaseWithCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning purchase: %w", err)
		}
		purchases = append(purchases, purchase)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return purchases, nil
}

func scanPurchaseWithCourse(row pgx.Row) (*models.CoursePurchase, error) {
	var purchase models.CoursePurchase
	var course models.Course

	targets := purchaseScanTargets(&purchase)
	targets = append(targets,
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
	)
	if err := row.Scan(targets...); err != nil {
		return nil, err
	}
	purchase.Course = &course
	return &purchase, nil
}

// Summary returns the count and revenue of a user's completed purchases
func (r *PurchaseRepository) Summary(ctx context.Context, userID int64) (int64, float64, error) {
	sql, args, err := r.sb.Select("COUNT(*)", "COALESCE(SUM(amount), 0)::float8").
		From("course_purchases").
		Where(squirrel.Eq{"user_id": userID, "status": models.PurchaseStatusCompleted}).
		ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build purchase summary query: %w", err)
	}

	var count int64
	var revenue float64
	if err := r.conn(ctx).QueryRow(ctx, sql, args...).Scan(&count, &revenue); err != nil {
		return 0, 0, fmt.Errorf("error summarizing purchases: %w", err)
	}
	return count, revenue, nil
}
