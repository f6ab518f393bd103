package services

import (
	"context"

	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/db"
)

// Services defined in this package:
// - PurchaseService: checkout sessions, gateway webhooks and purchase status
// - UnlockService: applies a completed purchase to lectures and enrollments
// - AuthService: registration, login and profile
// - CourseService: public course reads

// Storage dependencies. The concrete implementations live in the
// repositories package.

// UserStore reads and creates users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// CourseStore reads and creates courses
type CourseStore interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	ListPublished(ctx context.Context) ([]*models.Course, error)
}

// LectureStore reads lectures and flips their preview flag
type LectureStore interface {
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Lecture, error)
	GetByID(ctx context.Context, courseID, lectureID int64) (*models.Lecture, error)
	MarkPreviewFreeByCourse(ctx context.Context, courseID int64) (int64, error)
}

// EnrollmentStore maintains the course/user enrollment set
type EnrollmentStore interface {
	Add(ctx context.Context, courseID, userID int64) (bool, error)
	StudentIDs(ctx context.Context, courseID int64) ([]int64, error)
	CourseIDs(ctx context.Context, userID int64) ([]int64, error)
}

// PurchaseStore persists purchases
type PurchaseStore interface {
	Create(ctx context.Context, purchase *models.CoursePurchase) error
	SetPaymentID(ctx context.Context, purchaseID int64, paymentID string) error
	GetByPaymentID(ctx context.Context, paymentID string) (*models.CoursePurchase, error)
	MarkCompleted(ctx context.Context, purchaseID int64, amount float64) error
	ExistsCompleted(ctx context.Context, userID, courseID int64) (bool, error)
	ListCompletedByUser(ctx context.Context, userID int64) ([]*models.CoursePurchase, error)
	Summary(ctx context.Context, userID int64) (int64, float64, error)
}

// GatewayEventStore logs inbound gateway events
type GatewayEventStore interface {
	Record(ctx context.Context, event *models.GatewayEvent) (bool, error)
	UpdateStatus(ctx context.Context, provider, eventID string, status models.GatewayEventStatus, purchaseID *int64, errMsg *string) error
}

// Transactor runs fn in a transaction carried by the context passed to fn
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}
