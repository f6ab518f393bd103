package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/app/models/dto"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/payment"
)

// PurchaseService coordinates the course purchase workflow
type PurchaseService interface {
	CreateCheckoutSession(ctx context.Context, userID, courseID int64) (*dto.CheckoutSessionResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	GetCourseDetailWithStatus(ctx context.Context, userID, courseID int64) (*dto.CourseDetailWithStatusResponse, error)
	GetAllPurchasedCourses(ctx context.Context, userID int64) (*dto.PurchasedCoursesResponse, error)
	GetPurchaseSummary(ctx context.Context, userID int64) (*dto.PurchaseSummaryResponse, error)
	GetLectureAccess(ctx context.Context, userID, courseID, lectureID int64) (*dto.LectureAccessResponse, error)
	IsPurchased(ctx context.Context, userID, courseID int64) (bool, error)
}

// PurchaseOptions carries the checkout settings
type PurchaseOptions struct {
	ClientURL        string
	Currency         string
	AllowedCountries []string
	Provider         string
}

// PurchaseDeps groups the collaborators of the purchase service
type PurchaseDeps struct {
	Courses    CourseStore
	Lectures   LectureStore
	Users      UserStore
	Enrollment EnrollmentStore
	Purchases  PurchaseStore
	Events     GatewayEventStore
	Gateway    payment.Gateway
	Unlocker   UnlockService
	Tx         Transactor
}

type purchaseServiceImpl struct {
	PurchaseDeps
	options PurchaseOptions
	logger  zerolog.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(deps PurchaseDeps, options PurchaseOptions, logger zerolog.Logger) PurchaseService {
	if options.Provider == "" {
		options.Provider = payment.ProviderStripe
	}
	options.ClientURL = strings.TrimRight(options.ClientURL, "/")

	return &purchaseServiceImpl{
		PurchaseDeps: deps,
		options:      options,
		logger:       logger,
	}
}

// storageError keeps domain errors intact and marks everything else as a persistence failure
func storageError(msg string, err error) error {
	if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrResourceAlreadyExists) {
		return err
	}
	return apperrors.NewPersistenceError(msg, err)
}

// CreateCheckoutSession records a pending purchase and opens a hosted checkout for it
func (s *purchaseServiceImpl) CreateCheckoutSession(ctx context.Context, userID, courseID int64) (*dto.CheckoutSessionResponse, error) {
	course, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, storageError("failed to load course", err)
	}

	purchase := &models.CoursePurchase{
		CourseID: course.ID,
		UserID:   userID,
		Amount:   course.Price,
		Currency: s.options.Currency,
		Status:   models.PurchaseStatusPending,
	}
	if err := s.Purchases.Create(ctx, purchase); err != nil {
		return nil, storageError("failed to create purchase", err)
	}

	courseIDStr := strconv.FormatInt(course.ID, 10)
	session, err := s.Gateway.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		ProductName:      course.Title,
		ImageURL:         course.Thumbnail(),
		UnitAmount:       payment.ToMinorUnits(course.Price),
		Currency:         s.options.Currency,
		SuccessURL:       s.options.ClientURL + "/course-progress/" + courseIDStr,
		CancelURL:        s.options.ClientURL + "/course-detail/" + courseIDStr,
		AllowedCountries: s.options.AllowedCountries,
		Metadata: map[string]string{
			"courseId": courseIDStr,
			"userId":   strconv.FormatInt(userID, 10),
		},
	})
	if err != nil {
		s.logger.Error().Err(err).
			Int64("purchaseID", purchase.ID).
			Int64("courseID", course.ID).
			Msg("Checkout session creation failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCheckoutDeclined, err)
	}
	if session == nil || session.URL == "" {
		s.logger.Warn().Int64("purchaseID", purchase.ID).Msg("Gateway returned a session without URL")
		return nil, apperrors.ErrCheckoutDeclined
	}

	if err := s.Purchases.SetPaymentID(ctx, purchase.ID, session.ID); err != nil {
		return nil, storageError("failed to store payment id", err)
	}

	s.logger.Info().
		Int64("purchaseID", purchase.ID).
		Int64("courseID", course.ID).
		Int64("userID", userID).
		Str("sessionID", session.ID).
		Msg("Checkout session created")

	return &dto.CheckoutSessionResponse{Success: true, URL: session.URL}, nil
}

// HandleWebhook verifies an inbound gateway event and, for a completed
// checkout, completes the purchase and unlocks the course in one transaction.
// Redelivering the same event converges to the same state.
func (s *purchaseServiceImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.Gateway.ParseWebhook(payload, signature)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Webhook signature verification failed")
		return fmt.Errorf("%w: %v", apperrors.ErrSignatureInvalid, err)
	}

	log := s.logger.With().Str("eventID", event.ID).Str("eventType", event.Type).Logger()
	s.recordEvent(ctx, event)

	if event.Type != payment.EventCheckoutSessionCompleted {
		log.Debug().Msg("Ignoring webhook event")
		s.markEvent(ctx, event, models.GatewayEventIgnored, nil, nil)
		return nil
	}

	if event.Session == nil || event.Session.ID == "" {
		s.markEvent(ctx, event, models.GatewayEventFailed, nil, errors.New("event carries no checkout session"))
		return apperrors.ErrPurchaseNotFound
	}

	var completed *models.CoursePurchase
	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		purchase, err := s.resolvePurchase(ctx, event.Session.ID)
		if err != nil {
			return err
		}

		amount := payment.FromMinorUnits(event.Session.AmountTotal)
		if err := s.Purchases.MarkCompleted(ctx, purchase.ID, amount); err != nil {
			return err
		}
		purchase.Amount = amount
		purchase.Status = models.PurchaseStatusCompleted

		if err := s.Unlocker.Apply(ctx, purchase); err != nil {
			return err
		}

		completed = purchase
		return nil
	})
	if err != nil {
		s.markEvent(ctx, event, models.GatewayEventFailed, nil, err)
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			log.Warn().Str("sessionID", event.Session.ID).Msg("Purchase for checkout session not found")
			return apperrors.ErrPurchaseNotFound
		}
		log.Error().Err(err).Str("sessionID", event.Session.ID).Msg("Failed to apply checkout completion")
		return apperrors.NewPersistenceError("failed to apply checkout completion", err)
	}

	s.markEvent(ctx, event, models.GatewayEventProcessed, &completed.ID, nil)
	log.Info().
		Int64("purchaseID", completed.ID).
		Int64("courseID", completed.CourseID).
		Int64("userID", completed.UserID).
		Float64("amount", completed.Amount).
		Msg("Purchase completed")
	return nil
}

// resolvePurchase loads the purchase of a session with its user and course.
// Any missing link is reported as ErrPurchaseNotFound.
func (s *purchaseServiceImpl) resolvePurchase(ctx context.Context, sessionID string) (*models.CoursePurchase, error) {
	purchase, err := s.Purchases.GetByPaymentID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.Users.GetByID(ctx, purchase.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrPurchaseNotFound
		}
		return nil, err
	}

	course, err := s.Courses.GetByID(ctx, purchase.CourseID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrPurchaseNotFound
		}
		return nil, err
	}

	purchase.User = user
	purchase.Course = course
	return purchase, nil
}

func (s *purchaseServiceImpl) recordEvent(ctx context.Context, event *payment.WebhookEvent) {
	if s.Events == nil {
		return
	}

	record := &models.GatewayEvent{
		Provider:  s.options.Provider,
		EventID:   event.ID,
		EventType: event.Type,
		Status:    models.GatewayEventReceived,
		Payload:   event.Payload,
	}
	if event.Session != nil && event.Session.ID != "" {
		sessionID := event.Session.ID
		record.ExternalID = &sessionID
	}

	fresh, err := s.Events.Record(ctx, record)
	if err != nil {
		s.logger.Warn().Err(err).Str("eventID", event.ID).Msg("Failed to record gateway event")
		return
	}
	if !fresh {
		s.logger.Info().Str("eventID", event.ID).Msg("Gateway event redelivered")
	}
}

func (s *purchaseServiceImpl) markEvent(ctx context.Context, event *payment.WebhookEvent, status models.GatewayEventStatus, purchaseID *int64, cause error) {
	if s.Events == nil {
		return
	}

	var errMsg *string
	if cause != nil {
		msg := cause.Error()
		errMsg = &msg
	}

	if err := s.Events.UpdateStatus(ctx, s.options.Provider, event.ID, status, purchaseID, errMsg); err != nil {
		s.logger.Warn().Err(err).Str("eventID", event.ID).Msg("Failed to update gateway event status")
	}
}

// IsPurchased reports whether the user holds a completed purchase of the course
func (s *purchaseServiceImpl) IsPurchased(ctx context.Context, userID, courseID int64) (bool, error) {
	purchased, err := s.Purchases.ExistsCompleted(ctx, userID, courseID)
	if err != nil {
		return false, storageError("failed to check purchase", err)
	}
	return purchased, nil
}

// GetCourseDetailWithStatus returns the course with creator and lectures plus the caller's purchase state
func (s *purchaseServiceImpl) GetCourseDetailWithStatus(ctx context.Context, userID, courseID int64) (*dto.CourseDetailWithStatusResponse, error) {
	course, err := s.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, storageError("failed to load course", err)
	}

	if course.Lectures, err = s.Lectures.ListByCourse(ctx, courseID); err != nil {
		return nil, storageError("failed to load lectures", err)
	}
	if course.EnrolledStudentIDs, err = s.Enrollment.StudentIDs(ctx, courseID); err != nil {
		return nil, storageError("failed to load enrollments", err)
	}

	purchased, err := s.IsPurchased(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	return &dto.CourseDetailWithStatusResponse{
		Course:    dto.FromCourse(course, purchased),
		Purchased: purchased,
	}, nil
}

// GetAllPurchasedCourses lists the caller's completed purchases with their courses
func (s *purchaseServiceImpl) GetAllPurchasedCourses(ctx context.Context, userID int64) (*dto.PurchasedCoursesResponse, error) {
	purchases, err := s.Purchases.ListCompletedByUser(ctx, userID)
	if err != nil {
		return nil, storageError("failed to list purchases", err)
	}

	resp := &dto.PurchasedCoursesResponse{PurchasedCourse: make([]dto.PurchaseResponse, 0, len(purchases))}
	for _, p := range purchases {
		resp.PurchasedCourse = append(resp.PurchasedCourse, dto.FromPurchase(p))
	}
	return resp, nil
}

// GetPurchaseSummary returns sales count and revenue of the caller's completed purchases
func (s *purchaseServiceImpl) GetPurchaseSummary(ctx context.Context, userID int64) (*dto.PurchaseSummaryResponse, error) {
	count, revenue, err := s.Purchases.Summary(ctx, userID)
	if err != nil {
		return nil, storageError("failed to summarize purchases", err)
	}
	return &dto.PurchaseSummaryResponse{TotalSales: count, TotalRevenue: revenue}, nil
}

// GetLectureAccess returns a lecture when it is a free preview or the caller bought its course
func (s *purchaseServiceImpl) GetLectureAccess(ctx context.Context, userID, courseID, lectureID int64) (*dto.LectureAccessResponse, error) {
	lecture, err := s.Lectures.GetByID(ctx, courseID, lectureID)
	if err != nil {
		return nil, storageError("failed to load lecture", err)
	}

	purchased := false
	if !lecture.IsPreviewFree {
		if purchased, err = s.IsPurchased(ctx, userID, courseID); err != nil {
			return nil, err
		}
		if !purchased {
			return nil, apperrors.ErrLectureLocked
		}
	}

	return &dto.LectureAccessResponse{
		CourseID: courseID,
		Lecture:  dto.FromLecture(lecture, purchased),
	}, nil
}
